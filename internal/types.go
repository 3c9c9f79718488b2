package internal

import (
	"fmt"
	"strings"
)

// Spreadsheet column names used by the AEFI line listing. The loader passes
// values through verbatim; everything downstream addresses fields by these
// constants.
const (
	FieldUniqueID     = "Worldwide unique id"
	FieldSex          = "Sex"
	FieldAge          = "Age"
	FieldAgeUnit      = "Age unit"
	FieldVaccine      = "Vaccine"
	FieldSerious      = "Serious"
	FieldAdverseEvent = "Adverse event"
	FieldProvince     = "Patient state or province"
	FieldRegion       = "Created by organisation level 3"

	FieldDateOfBirth        = "Date of birth"
	FieldDateOfVaccination  = "Date of vaccination"
	FieldDateOfOnset        = "Date of onset"
	FieldDateOfNotification = "Date of notification"
	FieldDateOfReport       = "Date of report"
)

// DateFields lists every date-bearing column the pipeline canonicalizes.
var DateFields = []string{
	FieldDateOfBirth,
	FieldDateOfVaccination,
	FieldDateOfOnset,
	FieldDateOfNotification,
	FieldDateOfReport,
}

// RawRecord is one spreadsheet row as delivered by the loader: column name to
// cell value (string, float64, time.Time, or nil).
type RawRecord map[string]any

// EnrichedRecord is a normalized copy of a RawRecord. Date fields hold either
// nil or a newline-joined list of YYYY-MM-DD strings; Sex is one of
// Male/Female/Unknown; NormalizedAge is in years when derivable.
type EnrichedRecord struct {
	Fields        map[string]any
	NormalizedAge *float64
}

// ID returns the record's reporting identity, "Unknown" when the unique id
// column is absent or empty.
func (r EnrichedRecord) ID() string {
	if id := r.String(FieldUniqueID); id != "" {
		return id
	}
	return "Unknown"
}

// String returns the trimmed string form of a field, "" when the field is
// absent or nil.
func (r EnrichedRecord) String(field string) string {
	return ValueString(r.Fields[field])
}

// ValueString renders a cell value as a trimmed string, "" for nil.
func ValueString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ParseError describes one cell that failed date parsing. Collected per
// normalization run, surfaced in aggregate and logged in detail.
type ParseError struct {
	RecordID string `json:"recordId"`
	Field    string `json:"field"`
	RawValue string `json:"rawValue"`
}

// Seriousness is the per-case classification derived from one or more
// yes/no sub-values of the Serious field.
type Seriousness string

const (
	Serious            Seriousness = "Serious"
	NotSerious         Seriousness = "Not Serious"
	UnknownSeriousness Seriousness = "Unknown"
)

// AggregateCount maps a category label to a non-negative count. For
// multi-valued fields the sum of counts may exceed the record count.
type AggregateCount map[string]int

// Total returns the sum of all counts.
func (a AggregateCount) Total() int {
	total := 0
	for _, n := range a {
		total += n
	}
	return total
}

// PeriodCount is one calendar bucket of a time grouping. Label is the
// human-readable form ("Jan 2023" for months); SortOrder is the numeric
// month or year so ordering never depends on string sort quirks.
type PeriodCount struct {
	Key       string
	Label     string
	SortOrder int
	Count     int
}

// RunRecord summarizes one processing run as persisted to storage.
type RunRecord struct {
	ID         int
	TraceID    string
	SourceFile string
	CreatedAt  string
}
