package pipeline

import (
	"strings"

	"aefidash/internal"
)

// Summary is the patient-centric headline block shown above the charts.
type Summary struct {
	TotalReports       int
	TotalPatients      int
	TotalSeriousEvents int
	ReportingProvinces int
}

// Summarize groups the batch by worldwide unique id. A patient's serious
// event count is the number of "yes" sub-values across their Serious field;
// rows without an id contribute to the report total only. Provinces count
// as whole distinct cell values, not comma-split pieces.
func Summarize(records []internal.EnrichedRecord) Summary {
	seriousByPatient := map[string]int{}
	provinces := map[string]struct{}{}

	for _, rec := range records {
		if p := strings.TrimSpace(rec.String(internal.FieldProvince)); p != "" {
			provinces[p] = struct{}{}
		}

		id := internal.ValueString(rec.Fields[internal.FieldUniqueID])
		if id == "" {
			continue
		}
		if _, seen := seriousByPatient[id]; !seen {
			seriousByPatient[id] = 0
		}
		serious := strings.ToLower(rec.String(internal.FieldSerious))
		seriousByPatient[id] += strings.Count(serious, "yes")
	}

	totalSerious := 0
	for _, n := range seriousByPatient {
		totalSerious += n
	}

	return Summary{
		TotalReports:       len(records),
		TotalPatients:      len(seriousByPatient),
		TotalSeriousEvents: totalSerious,
		ReportingProvinces: len(provinces),
	}
}
