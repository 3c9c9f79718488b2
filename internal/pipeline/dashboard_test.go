package pipeline

import (
	"testing"

	"github.com/rs/zerolog"

	"aefidash/internal"
)

func TestBuildDashboard(t *testing.T) {
	records := []internal.EnrichedRecord{
		fieldsRec(map[string]any{
			internal.FieldUniqueID:          "p-1",
			internal.FieldSex:               "Male",
			internal.FieldSerious:           "Yes",
			internal.FieldAdverseEvent:      "Fever, Rash",
			internal.FieldVaccine:           "Measles, Mumps, Rubella",
			internal.FieldProvince:          "North",
			internal.FieldDateOfVaccination: "2024-01-01",
			internal.FieldDateOfOnset:       "2024-01-03",
			internal.FieldDateOfReport:      "2024-01-10",
		}),
		fieldsRec(map[string]any{
			internal.FieldUniqueID:          "p-2",
			internal.FieldSex:               "Female",
			internal.FieldSerious:           "No",
			internal.FieldAdverseEvent:      "Fever",
			internal.FieldVaccine:           "BCG; OPV",
			internal.FieldProvince:          "South",
			internal.FieldDateOfVaccination: "2024-02-01",
			internal.FieldDateOfOnset:       "2024-01-01",
			internal.FieldDateOfReport:      "2024-02-15",
		}),
	}

	d := BuildDashboard(records, 15, 15, zerolog.Nop())

	if d.Sex["Male"] != 1 || d.Sex["Female"] != 1 {
		t.Fatalf("sex=%v", d.Sex)
	}
	if d.Seriousness[internal.Serious] != 1 || d.Seriousness[internal.NotSerious] != 1 || d.Seriousness[internal.UnknownSeriousness] != 0 {
		t.Fatalf("seriousness=%v", d.Seriousness)
	}

	if len(d.AdverseEvents) == 0 || d.AdverseEvents[0].Label != "Fever" || d.AdverseEvents[0].Count != 2 {
		t.Fatalf("adverse events=%v", d.AdverseEvents)
	}

	vaccines := map[string]int{}
	for _, v := range d.Vaccines {
		vaccines[v.Label] = v.Count
	}
	if vaccines["Measles, Mumps, Rubella"] != 1 || vaccines["BCG"] != 1 || vaccines["OPV"] != 1 {
		t.Fatalf("vaccines=%v", d.Vaccines)
	}

	// Record two has onset before vaccination, so only record one lands in
	// the vaccination-to-onset distribution (gap of 2 days, first band).
	if d.VaccinationToOnset.Counts[0] != 1 {
		t.Fatalf("vaccination to onset=%v", d.VaccinationToOnset.Counts)
	}
	totalGaps := 0
	for _, n := range d.VaccinationToOnset.Counts {
		totalGaps += n
	}
	if totalGaps != 1 {
		t.Fatalf("negative gap should be excluded: %v", d.VaccinationToOnset.Counts)
	}

	if len(d.ReportsByMonth) != 2 || d.ReportsByMonth[0].Label != "Jan 2024" {
		t.Fatalf("reports by month=%v", d.ReportsByMonth)
	}
	if len(d.CasesByYear) != 1 || d.CasesByYear[0].Key != "2024" || d.CasesByYear[0].Count != 2 {
		t.Fatalf("cases by year=%v", d.CasesByYear)
	}
}

func TestSummarize(t *testing.T) {
	records := []internal.EnrichedRecord{
		fieldsRec(map[string]any{
			internal.FieldUniqueID: "p-1",
			internal.FieldSerious:  "Yes\nYes",
			internal.FieldProvince: "North",
		}),
		fieldsRec(map[string]any{
			internal.FieldUniqueID: "p-1",
			internal.FieldSerious:  "No",
			internal.FieldProvince: "North",
		}),
		fieldsRec(map[string]any{
			internal.FieldUniqueID: "p-2",
			internal.FieldSerious:  "Yes",
			internal.FieldProvince: "South",
		}),
		// No id: counts as a report only.
		fieldsRec(map[string]any{
			internal.FieldSerious: "Yes",
		}),
	}

	s := Summarize(records)
	if s.TotalReports != 4 {
		t.Fatalf("reports=%d", s.TotalReports)
	}
	if s.TotalPatients != 2 {
		t.Fatalf("patients=%d", s.TotalPatients)
	}
	if s.TotalSeriousEvents != 3 {
		t.Fatalf("serious events=%d", s.TotalSeriousEvents)
	}
	if s.ReportingProvinces != 2 {
		t.Fatalf("provinces=%d", s.ReportingProvinces)
	}
}

func TestSummarizeWholeProvinceValues(t *testing.T) {
	// A comma inside a province cell does not split it into two provinces.
	records := []internal.EnrichedRecord{
		fieldsRec(map[string]any{internal.FieldProvince: "Trinidad, Tobago"}),
		fieldsRec(map[string]any{internal.FieldProvince: "Trinidad, Tobago"}),
		fieldsRec(map[string]any{internal.FieldProvince: "Trinidad"}),
	}

	if s := Summarize(records); s.ReportingProvinces != 2 {
		t.Fatalf("provinces=%d want 2", s.ReportingProvinces)
	}
}
