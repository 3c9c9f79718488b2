package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"aefidash/internal"
)

func TestExportDashboardToXLSX(t *testing.T) {
	records := []internal.EnrichedRecord{
		fieldsRec(map[string]any{
			internal.FieldUniqueID: "p-1",
			internal.FieldSex:      "Male",
			internal.FieldSerious:  "Yes",
		}),
	}
	d := BuildDashboard(records, 15, 15, zerolog.Nop())
	s := Summarize(records)

	out := filepath.Join(t.TempDir(), "dashboard.xlsx")
	if err := ExportDashboardToXLSX(d, s, out); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	total, err := f.GetCellValue("Summary", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if total != "1" {
		t.Fatalf("total reports cell=%q", total)
	}

	serious, err := f.GetCellValue("Seriousness", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if serious != "1" {
		t.Fatalf("serious cell=%q", serious)
	}
}

func TestExportRecordsToCSV(t *testing.T) {
	age := 0.5
	records := []internal.EnrichedRecord{
		{
			Fields: map[string]any{
				internal.FieldUniqueID:    "p-1",
				internal.FieldDateOfOnset: "2024-02-16",
			},
			NormalizedAge: &age,
		},
	}

	out := filepath.Join(t.TempDir(), "records.csv")
	if err := ExportRecordsToCSV(records, out); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := string(content)
	want := "Date of onset,Worldwide unique id,NormalizedAge\n2024-02-16,p-1,0.5\n"
	if got != want {
		t.Fatalf("csv=%q want %q", got, want)
	}
}

func TestExportRecordsToCSVSuppliedAgeColumn(t *testing.T) {
	// A pre-supplied NormalizedAge field must not duplicate the derived column.
	age := 5.0
	records := []internal.EnrichedRecord{
		{
			Fields: map[string]any{
				internal.FieldUniqueID: "p-1",
				"NormalizedAge":        "5",
			},
			NormalizedAge: &age,
		},
	}

	out := filepath.Join(t.TempDir(), "records.csv")
	if err := ExportRecordsToCSV(records, out); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := string(content)
	want := "Worldwide unique id,NormalizedAge\np-1,5\n"
	if got != want {
		t.Fatalf("csv=%q want %q", got, want)
	}
}
