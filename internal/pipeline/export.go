package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"aefidash/internal"
)

// ExportDashboardToXLSX writes every aggregate table to its own sheet.
func ExportDashboardToXLSX(d Dashboard, s Summary, outputPath string) error {
	f := excelize.NewFile()
	first := f.GetSheetName(0)

	writeTable(f, first, "Metric", "Value", [][]any{
		{"Total reports", s.TotalReports},
		{"Total patients", s.TotalPatients},
		{"Total serious events", s.TotalSeriousEvents},
		{"Reporting provinces", s.ReportingProvinces},
	})
	_ = f.SetSheetName(first, "Summary")

	addCountSheet(f, "Sex", sortedCounts(d.Sex))
	addCountSheet(f, "Age bands", labelRows(d.AgeBands))
	addCountSheet(f, "Seriousness", [][]any{
		{string(internal.Serious), d.Seriousness[internal.Serious]},
		{string(internal.NotSerious), d.Seriousness[internal.NotSerious]},
		{string(internal.UnknownSeriousness), d.Seriousness[internal.UnknownSeriousness]},
	})
	addCountSheet(f, "Adverse events", labelRows(d.AdverseEvents))
	addCountSheet(f, "Vaccines", labelRows(d.Vaccines))
	addCountSheet(f, "Provinces", sortedCounts(d.Provinces))
	addCountSheet(f, "Regions", sortedCounts(d.Regions))
	addCountSheet(f, "Vaccination to onset", gapRows(d.VaccinationToOnset))
	addCountSheet(f, "Onset to notification", gapRows(d.OnsetToNotification))
	addCountSheet(f, "Notification to report", gapRows(d.NotificationToReport))
	addCountSheet(f, "Reports by month", periodRows(d.ReportsByMonth))
	addCountSheet(f, "Cases by year", periodRows(d.CasesByYear))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ExportRecordsToCSV writes the enriched batch with canonical date fields
// and the derived age column. Columns are the sorted union of field names.
func ExportRecordsToCSV(records []internal.EnrichedRecord, outputPath string) error {
	columns := map[string]struct{}{}
	for _, rec := range records {
		for k := range rec.Fields {
			if k == "NormalizedAge" {
				continue
			}
			columns[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(columns))
	for k := range columns {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	headers = append(headers, "NormalizedAge")

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, rec := range records {
		row := make([]string, 0, len(headers))
		for _, h := range headers[:len(headers)-1] {
			row = append(row, internal.ValueString(rec.Fields[h]))
		}
		age := ""
		if rec.NormalizedAge != nil {
			age = fmt.Sprintf("%g", *rec.NormalizedAge)
		}
		row = append(row, age)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func addCountSheet(f *excelize.File, name string, rows [][]any) {
	_, _ = f.NewSheet(name)
	writeTable(f, name, "Category", "Cases", rows)
}

func writeTable(f *excelize.File, sheet, keyHeader, valueHeader string, rows [][]any) {
	_ = f.SetCellValue(sheet, "A1", keyHeader)
	_ = f.SetCellValue(sheet, "B1", valueHeader)
	for i, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
}

func sortedCounts(counts internal.AggregateCount) [][]any {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	rows := make([][]any, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []any{label, counts[label]})
	}
	return rows
}

func labelRows(entries []LabelCount) [][]any {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{e.Label, e.Count})
	}
	return rows
}

func gapRows(dist GapDistribution) [][]any {
	rows := make([][]any, 0, len(dist.Labels))
	for i, label := range dist.Labels {
		rows = append(rows, []any{label, dist.Counts[i]})
	}
	return rows
}

func periodRows(periods []internal.PeriodCount) [][]any {
	rows := make([][]any, 0, len(periods))
	for _, p := range periods {
		rows = append(rows, []any{p.Label, p.Count})
	}
	return rows
}
