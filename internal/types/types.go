// =============================================================================
// Manga CSV to MAL Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (InputRow)
//   - converter (Record, Summary, Document)
//   - validation
//   - xmlwriter
//
// =============================================================================

package types

// =============================================================================
// INPUT TYPES
// =============================================================================

// Recognized input column names. Header names are lower-cased and trimmed by
// the parsers before rows are built, so these are matched exactly.
const (
	FieldMAL      = "mal"
	FieldTitle    = "title"
	FieldRead     = "read"
	FieldLastRead = "last_read"
	FieldRating   = "rating"
	FieldType     = "type"
)

// InputRow is one source line: column name -> raw cell value.
// Missing columns are simply absent from the map.
type InputRow map[string]string

// Get returns the value of a field, or "" when the column is absent.
func (r InputRow) Get(field string) string {
	return r[field]
}

// =============================================================================
// STATUS ENUMERATION
// =============================================================================

// Status is one of the five reading states accepted by the MAL import format.
type Status string

const (
	StatusReading    Status = "Reading"
	StatusCompleted  Status = "Completed"
	StatusOnHold     Status = "On-Hold"
	StatusDropped    Status = "Dropped"
	StatusPlanToRead Status = "Plan to Read"
)

// Statuses lists the enumeration in the order the summary header reports it.
var Statuses = []Status{
	StatusReading,
	StatusCompleted,
	StatusOnHold,
	StatusDropped,
	StatusPlanToRead,
}

// Valid reports whether s is a member of the enumeration.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// Record is one converted manga entry. Field order mirrors the element order
// of a <manga> block in the output document.
type Record struct {
	MangaDBID        string
	Title            string
	Volumes          string
	Chapters         string
	MyID             string
	ReadVolumes      string
	ReadChapters     string
	StartDate        string
	FinishDate       string
	ScanalationGroup string
	Score            string
	Storage          string
	Status           Status
	Comments         string
	TimesRead        string
	Tags             string
	RereadValue      string
	UpdateOnImport   string
}

// Summary holds the per-status counts written to the <myinfo> block.
type Summary struct {
	Total      int
	Reading    int
	Completed  int
	OnHold     int
	Dropped    int
	PlanToRead int
}

// UserInfo carries the static user fields of the <myinfo> block.
type UserInfo struct {
	UserID     string
	UserName   string
	ExportType string
}

// Document is the complete export: user info, summary and every record in
// input order. It is assembled once and serialized once.
type Document struct {
	User    UserInfo
	Summary Summary
	Records []Record
}
