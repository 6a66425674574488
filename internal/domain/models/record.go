package models

// Record is one logged production batch. The JSON field names mirror the
// ledger's persisted encoding, so a previously exported collection loads
// without migration.
type Record struct {
	ID             string `json:"id"`
	DoriDetail     string `json:"doriDetail"`
	WarpinDetail   string `json:"warpinDetail"`
	BheemDetail    string `json:"bheemDetail"`
	DeliveryDetail string `json:"deliveryDetail"`

	// EntryDate is the user-chosen calendar day (YYYY-MM-DD), used as the
	// grouping key. It is not necessarily the creation time.
	EntryDate string `json:"entryDate"`

	// CreatedBy is the session stamp of the creating browser profile. It is
	// an advisory ownership tag, not a credential.
	CreatedBy string `json:"createdBy"`

	// Millisecond epoch timestamps. CreatedAt is frozen at creation,
	// UpdatedAt is bumped on every edit.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// RecordFields is the mutable subset of a Record: everything the form (or
// the AI extractor) may set. ID, ownership stamp and creation time are
// assigned by the store and never travel through this struct.
type RecordFields struct {
	DoriDetail     string `json:"doriDetail"`
	WarpinDetail   string `json:"warpinDetail"`
	BheemDetail    string `json:"bheemDetail"`
	DeliveryDetail string `json:"deliveryDetail"`
	EntryDate      string `json:"entryDate"`
}

// Apply copies the mutable fields onto the record.
func (f RecordFields) Apply(r *Record) {
	r.DoriDetail = f.DoriDetail
	r.WarpinDetail = f.WarpinDetail
	r.BheemDetail = f.BheemDetail
	r.DeliveryDetail = f.DeliveryDetail
	r.EntryDate = f.EntryDate
}

// FieldSuggestion is the structured result of AI extraction from a free-text
// note. All four details are required; a reply missing any of them is
// discarded wholesale rather than returned partially filled.
type FieldSuggestion struct {
	DoriDetail     string `json:"doriDetail"`
	WarpinDetail   string `json:"warpinDetail"`
	BheemDetail    string `json:"bheemDetail"`
	DeliveryDetail string `json:"deliveryDetail"`
}

// InventoryStats summarizes ledger activity for the dashboard.
type InventoryStats struct {
	TotalRecords   int `json:"totalRecords"`
	RecentActivity int `json:"recentActivity"`
}

// DayGroup is one section of the grouped derived view: every visible record
// sharing an entry date, under a human-readable label, in display order.
type DayGroup struct {
	Label   string   `json:"label"`
	Date    string   `json:"date"`
	Records []Record `json:"records"`
}
