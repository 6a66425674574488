package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mhashir/textrack/internal/domain/models"
	"github.com/mhashir/textrack/internal/insight"
	"github.com/mhashir/textrack/internal/ledger"
	"github.com/mhashir/textrack/internal/report"
	"github.com/mhashir/textrack/internal/view"
)

// LedgerHandler exposes the ledger operations over HTTP: record CRUD, the
// derived view, AI insight and the PDF report.
type LedgerHandler struct {
	store    *ledger.Store
	insight  *insight.Service
	exporter *report.Exporter
	logger   *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(store *ledger.Store, insightSvc *insight.Service, exporter *report.Exporter, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{store: store, insight: insightSvc, exporter: exporter, logger: logger}
}

// Session reports the active session identity, the stamp new records are
// created under.
func (h *LedgerHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessionId": h.store.Identity()})
}

// ListRecords returns the derived view for the optional search query: the
// day-grouped sections, the flat visible list, and dashboard stats over the
// full collection.
func (h *LedgerHandler) ListRecords(c *gin.Context) {
	all := h.store.All()
	visible := view.Visible(all, c.Query("q"))
	groups := view.Group(visible)
	if groups == nil {
		groups = []models.DayGroup{}
	}

	c.JSON(http.StatusOK, gin.H{
		"groups":  groups,
		"records": visible,
		"stats":   view.Stats(all, time.Now()),
	})
}

// CreateRecord logs a new batch entry. All five fields are free text;
// nothing beyond presence of the body is validated.
func (h *LedgerHandler) CreateRecord(c *gin.Context) {
	var fields models.RecordFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.logger.Warn("invalid create payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.store.Create(c.Request.Context(), fields)
	if err != nil {
		h.logger.Error("failed creating record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to save record"})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// UpdateRecord replaces the detail fields and entry date of an owned record.
func (h *LedgerHandler) UpdateRecord(c *gin.Context) {
	var fields models.RecordFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.logger.Warn("invalid update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.store.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// DeleteRecord removes an owned record. The delete confirmation dialog is a
// presentation concern and stays on the client.
func (h *LedgerHandler) DeleteRecord(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Summarize asks the AI collaborator for a trend summary over the full
// record set. Service failures surface as the fallback text with a 200; only
// an already-running analysis is an error to the caller.
func (h *LedgerHandler) Summarize(c *gin.Context) {
	text, err := h.insight.Summarize(c.Request.Context(), h.store.All())
	if err != nil {
		if errors.Is(err, insight.ErrAnalysisInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "analysis already in progress"})
			return
		}
		h.logger.Error("failed generating summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to generate summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insight": text})
}

type extractRequest struct {
	Note string `json:"note" binding:"required"`
}

// Extract suggests the four detail fields from a free-text note. A failed
// extraction is a 200 with a null suggestion; the form simply leaves its
// fields untouched.
func (h *LedgerHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid extract payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	suggestion, err := h.insight.Extract(c.Request.Context(), req.Note)
	if err != nil {
		if errors.Is(err, insight.ErrAnalysisInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "analysis already in progress"})
			return
		}
		h.logger.Error("failed extracting fields", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to extract fields"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}

// ExportReport renders the current visible list (honoring the same q
// parameter as ListRecords) as a downloadable PDF.
func (h *LedgerHandler) ExportReport(c *gin.Context) {
	visible := view.Visible(h.store.All(), c.Query("q"))

	pdfBytes, err := h.exporter.Export(visible, h.store.Identity())
	if err != nil {
		h.logger.Error("failed rendering report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to render report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename(time.Now())+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *LedgerHandler) writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, ledger.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only modify your own entries"})
	default:
		h.logger.Error("store operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to persist change"})
	}
}
