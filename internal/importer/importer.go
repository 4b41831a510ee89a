// Package importer drives the CSV ingestion pipeline: parse, validate,
// de-duplicate, resolve referenced entities and bulk-insert, accumulating
// per-row errors along the way.
package importer

// RowError describes one rejected row. Row 0 is reserved for header-level
// problems. Raw carries the original field mapping for diagnostics.
type RowError struct {
	Row     int               `json:"row"`
	Field   string            `json:"field,omitempty"`
	Message string            `json:"error"`
	Raw     map[string]string `json:"raw_data,omitempty"`
}

// Result is the outcome of one import call. Row-level problems live in
// Errors and never abort the batch; a batch-level failure is returned as
// an error from Import instead.
type Result struct {
	ProcessedCount int
	ErrorCount     int
	Errors         []RowError
}
