// Package report renders the visible record list into the downloadable PDF
// ledger. The exporter consumes the view pipeline's flat filtered-and-sorted
// order and never touches the store.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mhashir/textrack/internal/domain/models"
)

const reportTitle = "Hashir's Office: Daily Production Ledger"

var tableHeader = []string{"Log Date", "Batch", "Dori", "Warpin", "Bheem", "Delivery Details", "Operator"}

// columnWidths in mm; sized for A4 portrait with 14mm margins.
var columnWidths = []float64{25, 15, 30, 30, 30, 32, 20}

// Row is one exported table line.
type Row struct {
	LogDate  string
	Batch    string
	Dori     string
	Warpin   string
	Bheem    string
	Delivery string
	Operator string
}

// Rows maps records to table rows, preserving input order. The batch column
// is the first four characters of the id, upper-cased; the operator column
// collapses the session's own stamp to "Me".
func Rows(records []models.Record, sessionIdentity string) []Row {
	rows := make([]Row, 0, len(records))
	for _, e := range records {
		batch := e.ID
		if len(batch) > 4 {
			batch = batch[:4]
		}

		operator := e.CreatedBy
		if e.CreatedBy == sessionIdentity {
			operator = "Me"
		}

		rows = append(rows, Row{
			LogDate:  e.EntryDate,
			Batch:    strings.ToUpper(batch),
			Dori:     e.DoriDetail,
			Warpin:   e.WarpinDetail,
			Bheem:    e.BheemDetail,
			Delivery: e.DeliveryDetail,
			Operator: operator,
		})
	}
	return rows
}

// Filename embeds the current calendar date in the download name.
func Filename(now time.Time) string {
	return fmt.Sprintf("Hashir_Office_Ledger_%s.pdf", now.Format("2006-01-02"))
}

// Exporter renders ledger PDFs.
type Exporter struct {
	now func() time.Time
}

// NewExporter returns a PDF exporter using the wall clock for the
// generated-at line.
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Export renders one tabular document: title block, then one row per
// visible record in the order given.
func (e *Exporter) Export(records []models.Record, sessionIdentity string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 10, reportTitle, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated: %s", e.now().Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("User ID: %s", sessionIdentity), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(79, 70, 229)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range tableHeader {
		pdf.CellFormat(columnWidths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(30, 41, 59)
	for _, row := range Rows(records, sessionIdentity) {
		cells := []string{row.LogDate, row.Batch, row.Dori, row.Warpin, row.Bheem, row.Delivery, row.Operator}
		for i, c := range cells {
			pdf.CellFormat(columnWidths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ledger pdf: %w", err)
	}

	return buf.Bytes(), nil
}
