package pipeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"aefidash/internal"
	"aefidash/internal/util"
)

// DateExtractor pulls one date out of a record. SingleDate parses the field
// as a single value; EarliestDate handles cells that carry several dates.
type DateExtractor func(rec internal.EnrichedRecord) (time.Time, bool)

func SingleDate(field string) DateExtractor {
	return func(rec internal.EnrichedRecord) (time.Time, bool) {
		return util.ParseDate(rec.Fields[field])
	}
}

func EarliestDate(field string) DateExtractor {
	return func(rec internal.EnrichedRecord) (time.Time, bool) {
		return util.EarliestDate(rec.String(field))
	}
}

// Canonical reporting-delay bands in days, inclusive upper bounds with an
// open last band.
var (
	GapBands      = []float64{2, 7, 30, 90, math.Inf(1)}
	GapBandLabels = []string{"0-2 Days", "3-7 Days", "8-30 Days", "31-90 Days", "91+ Days"}
)

// CountField tallies a field across records. Empty or missing cells count
// under "Unknown". With multiValue set, each distinct trimmed sub-value of
// the cell counts once, so the total may exceed the record count. Labels are
// the exact trimmed strings, no case folding.
func CountField(records []internal.EnrichedRecord, field string, multiValue bool) internal.AggregateCount {
	counts := internal.AggregateCount{}
	for _, rec := range records {
		raw := rec.String(field)
		if raw == "" {
			counts["Unknown"]++
			continue
		}
		if !multiValue {
			counts[raw]++
			continue
		}
		cell := util.SplitCell(raw, util.CategoricalDelimiters)
		if len(cell.Values) == 0 {
			counts["Unknown"]++
			continue
		}
		seen := map[string]struct{}{}
		for _, v := range cell.Values {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			counts[v]++
		}
	}
	return counts
}

// BucketGaps assigns each day-gap to the first band whose upper bound it
// does not exceed, returning one count per band.
func BucketGaps(gaps []int, bounds []float64) []int {
	counts := make([]int, len(bounds))
	for _, gap := range gaps {
		for i, bound := range bounds {
			if float64(gap) <= bound {
				counts[i]++
				break
			}
		}
	}
	return counts
}

// ComputeGap returns the day gap between two date-bearing fields for every
// record where both dates parse and the gap is non-negative. Negative gaps
// (data entry errors) are excluded from the result; the second return value
// reports how many were dropped.
func ComputeGap(records []internal.EnrichedRecord, start, end DateExtractor) ([]int, int) {
	gaps := make([]int, 0, len(records))
	dropped := 0
	for _, rec := range records {
		from, okFrom := start(rec)
		to, okTo := end(rec)
		if !okFrom || !okTo {
			continue
		}
		days := int(math.Ceil(to.Sub(from).Hours() / 24))
		if days < 0 {
			dropped++
			continue
		}
		gaps = append(gaps, days)
	}
	return gaps, dropped
}

type Granularity string

const (
	ByYear  Granularity = "year"
	ByMonth Granularity = "month"
)

// GroupByPeriod buckets records by calendar year or month of the extracted
// date, discarding records with no extractable date. Results come back in
// chronological order; month entries carry a display label like "Jan 2023".
func GroupByPeriod(records []internal.EnrichedRecord, extract DateExtractor, granularity Granularity) []internal.PeriodCount {
	buckets := map[string]internal.PeriodCount{}
	for _, rec := range records {
		d, ok := extract(rec)
		if !ok {
			continue
		}

		var key string
		entry := internal.PeriodCount{}
		if granularity == ByMonth {
			key = d.Format("2006-01")
			entry = internal.PeriodCount{Key: key, Label: d.Format("Jan 2006"), SortOrder: int(d.Month())}
		} else {
			key = fmt.Sprintf("%04d", d.Year())
			entry = internal.PeriodCount{Key: key, Label: key, SortOrder: d.Year()}
		}

		if existing, found := buckets[key]; found {
			entry = existing
		}
		entry.Count++
		buckets[key] = entry
	}

	out := make([]internal.PeriodCount, 0, len(buckets))
	for _, entry := range buckets {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
