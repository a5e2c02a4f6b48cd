package documents

import "time"

// Document is one processed medical document. Rows are append-only: created
// by ingestion once both extraction stages succeed, never updated.
type Document struct {
	ID           int64
	Filename     string
	Category     string
	DocumentDate string // ISO date or "N/A"; the sentinel sorts after all real dates
	DoctorName   string
	HospitalName string
	Summary      string
	Content      string // full extracted text, preserved verbatim for corpus search
	CreatedAt    time.Time
}

// SearchRow is the projection handed to the corpus query responder.
type SearchRow struct {
	Filename string
	Content  string
	Summary  string
	Category string
}
