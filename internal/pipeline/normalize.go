package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aefidash/internal"
	"aefidash/internal/util"
)

// ErrEmptyDataset aborts normalization: an empty batch is the one fatal
// condition, everything else degrades per cell.
var ErrEmptyDataset = errors.New("no records to process")

type NormalizeResult struct {
	Enriched []internal.EnrichedRecord
	Errors   []internal.ParseError
}

// Normalize produces an enriched copy of every record: the five date fields
// are rewritten to newline-joined YYYY-MM-DD form (or nil when nothing
// parses), NormalizedAge is derived from the age columns (a value supplied
// upstream is kept as-is), and Sex collapses
// to Male/Female/Unknown. Input records are left untouched so a second run
// can never double-normalize. Every non-empty date piece that fails to parse
// yields one ParseError.
func Normalize(raw []internal.RawRecord) (NormalizeResult, error) {
	if len(raw) == 0 {
		return NormalizeResult{}, ErrEmptyDataset
	}

	result := NormalizeResult{Enriched: make([]internal.EnrichedRecord, 0, len(raw))}
	for _, rec := range raw {
		fields := make(map[string]any, len(rec))
		for k, v := range rec {
			fields[k] = v
		}

		id := internal.ValueString(rec[internal.FieldUniqueID])
		if id == "" {
			id = "Unknown"
		}

		for _, field := range internal.DateFields {
			value, present := rec[field]
			if !present || value == nil {
				continue
			}
			canonical, errs := canonicalizeDateCell(id, field, value)
			result.Errors = append(result.Errors, errs...)
			if canonical == "" {
				fields[field] = nil
			} else {
				fields[field] = canonical
			}
		}

		fields[internal.FieldSex] = normalizeSex(internal.ValueString(rec[internal.FieldSex]))

		enriched := internal.EnrichedRecord{Fields: fields}
		if existing, done := rec["NormalizedAge"]; done {
			enriched.NormalizedAge = util.AgeInYears(existing)
		} else {
			enriched.NormalizedAge = util.NormalizeAge(rec[internal.FieldAge], internal.ValueString(rec[internal.FieldAgeUnit]))
		}
		result.Enriched = append(result.Enriched, enriched)
	}

	return result, nil
}

// canonicalizeDateCell parses every whitespace-separated piece of a date
// cell and returns the newline-joined ISO form of the pieces that parsed.
func canonicalizeDateCell(recordID, field string, value any) (string, []internal.ParseError) {
	var pieces []string
	switch v := value.(type) {
	case string:
		pieces = strings.Fields(v)
	case time.Time:
		if d, ok := util.ParseDate(v); ok {
			return util.FormatISO(d), nil
		}
		return "", []internal.ParseError{{RecordID: recordID, Field: field, RawValue: fmt.Sprint(value)}}
	default:
		if d, ok := util.ParseDate(value); ok {
			return util.FormatISO(d), nil
		}
		return "", []internal.ParseError{{RecordID: recordID, Field: field, RawValue: fmt.Sprint(value)}}
	}

	var parsed []string
	var errs []internal.ParseError
	for _, piece := range pieces {
		if d, ok := util.ParseDate(piece); ok {
			parsed = append(parsed, util.FormatISO(d))
		} else {
			errs = append(errs, internal.ParseError{RecordID: recordID, Field: field, RawValue: piece})
		}
	}
	return strings.Join(parsed, "\n"), errs
}

func normalizeSex(raw string) string {
	switch {
	case strings.HasPrefix(strings.ToLower(raw), "m"):
		return "Male"
	case strings.HasPrefix(strings.ToLower(raw), "f"):
		return "Female"
	default:
		return "Unknown"
	}
}
