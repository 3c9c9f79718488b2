package vaccine

import (
	"strings"

	"aefidash/internal"
	"aefidash/internal/util"
)

// Semicolon, pipe and newline reliably separate distinct vaccines. Comma is
// deliberately absent: many real vaccine names carry descriptive commas
// ("Measles, Mumps, Rubella (combined)").
const highConfidenceDelimiters = ";|\r\n"

// ParseField splits a vaccine cell into distinct vaccine names. Without a
// high-confidence delimiter the whole trimmed string is one name.
func ParseField(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if strings.ContainsAny(raw, highConfidenceDelimiters) {
		return util.SplitCell(raw, highConfidenceDelimiters).Values
	}
	return []string{strings.TrimSpace(raw)}
}

// Train grows the dictionary from every record's vaccine field: each parsed
// name longer than 3 characters joins the set in lower-cased form. The input
// dictionary is not mutated; the second result reports whether anything new
// was learned.
func Train(records []internal.EnrichedRecord, dict Dictionary) (Dictionary, bool) {
	next := dict.Clone()
	for _, rec := range records {
		for _, name := range ParseField(rec.String(internal.FieldVaccine)) {
			if len([]rune(name)) > 3 {
				next.Add(strings.ToLower(name))
			}
		}
	}
	return next, len(next) > len(dict)
}

// TrainWithStore loads the persisted dictionary, trains it over the record
// batch, and writes it back only when it grew.
func TrainWithStore(records []internal.EnrichedRecord, store Store) (Dictionary, error) {
	dict, err := store.Load()
	if err != nil {
		return nil, err
	}
	trained, grew := Train(records, dict)
	if grew {
		if err := store.Save(trained); err != nil {
			return nil, err
		}
	}
	return trained, nil
}
