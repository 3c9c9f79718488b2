package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"aefidash/internal"
)

// LoadWorkbook reads an AEFI line-listing workbook from disk and returns one
// RawRecord per data row.
func LoadWorkbook(path string) ([]internal.RawRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWorkbook(content)
}

// ParseWorkbook decodes an XLSX blob. The line-listing sheet is located by
// name; the first row supplies the column names, empty cells become nil.
func ParseWorkbook(content []byte) ([]internal.RawRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := findLineListingSheet(f.GetSheetList())
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := make([]internal.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := internal.RawRecord{}
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			var value any
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				value = row[i]
				empty = false
			}
			rec[header] = value
		}
		if !empty {
			out = append(out, rec)
		}
	}

	return out, nil
}

// findLineListingSheet prefers a sheet whose name mentions both "aefi" and
// "line", falling back to the first sheet.
func findLineListingSheet(names []string) string {
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "aefi") && strings.Contains(lower, "line") {
			return name
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return ""
}
