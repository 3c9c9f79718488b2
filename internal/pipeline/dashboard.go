package pipeline

import (
	"sort"

	"github.com/rs/zerolog"

	"aefidash/internal"
	"aefidash/internal/util"
	"aefidash/internal/vaccine"
)

// LabelCount is one row of a ranked aggregate table.
type LabelCount struct {
	Label string
	Count int
}

// GapDistribution is a bucketed day-gap table, one count per band label.
type GapDistribution struct {
	Labels []string
	Counts []int
}

// Dashboard holds every chart-facing aggregate computed from an enriched
// record batch.
type Dashboard struct {
	Sex         internal.AggregateCount
	AgeBands    []LabelCount
	Seriousness map[internal.Seriousness]int

	AdverseEvents []LabelCount
	Vaccines      []LabelCount

	Provinces internal.AggregateCount
	Regions   internal.AggregateCount

	VaccinationToOnset   GapDistribution
	OnsetToNotification  GapDistribution
	NotificationToReport GapDistribution

	ReportsByMonth []internal.PeriodCount
	CasesByYear    []internal.PeriodCount
}

// BuildDashboard computes the full aggregate set in one pass over the batch.
// topEvents/topVaccines cap the ranked tables.
func BuildDashboard(records []internal.EnrichedRecord, topEvents, topVaccines int, log zerolog.Logger) Dashboard {
	d := Dashboard{
		Sex:           CountField(records, internal.FieldSex, false),
		AgeBands:      ageBandCounts(records),
		Seriousness:   seriousnessCounts(records),
		AdverseEvents: topN(CountField(records, internal.FieldAdverseEvent, true), topEvents),
		Vaccines:      topN(vaccineCounts(records), topVaccines),
		Provinces:     CountField(records, internal.FieldProvince, false),
		Regions:       CountField(records, internal.FieldRegion, false),

		ReportsByMonth: GroupByPeriod(records, SingleDate(internal.FieldDateOfReport), ByMonth),
		CasesByYear:    GroupByPeriod(records, EarliestDate(internal.FieldDateOfOnset), ByYear),
	}

	d.VaccinationToOnset = gapDistribution(records,
		EarliestDate(internal.FieldDateOfVaccination), EarliestDate(internal.FieldDateOfOnset),
		"vaccination_to_onset", log)
	d.OnsetToNotification = gapDistribution(records,
		EarliestDate(internal.FieldDateOfOnset), SingleDate(internal.FieldDateOfNotification),
		"onset_to_notification", log)
	d.NotificationToReport = gapDistribution(records,
		SingleDate(internal.FieldDateOfNotification), SingleDate(internal.FieldDateOfReport),
		"notification_to_report", log)

	return d
}

func gapDistribution(records []internal.EnrichedRecord, start, end DateExtractor, name string, log zerolog.Logger) GapDistribution {
	gaps, dropped := ComputeGap(records, start, end)
	if dropped > 0 {
		log.Debug().Str("interval", name).Int("dropped", dropped).Msg("excluded negative day gaps")
	}
	return GapDistribution{Labels: GapBandLabels, Counts: BucketGaps(gaps, GapBands)}
}

// ageBandCounts keeps the surveillance band order, including bands with zero
// cases.
func ageBandCounts(records []internal.EnrichedRecord) []LabelCount {
	counts := map[string]int{}
	for _, rec := range records {
		counts[util.ClassifyAgeBand(rec.NormalizedAge)]++
	}
	out := make([]LabelCount, 0, len(util.AgeBands))
	for _, band := range util.AgeBands {
		out = append(out, LabelCount{Label: band, Count: counts[band]})
	}
	return out
}

func seriousnessCounts(records []internal.EnrichedRecord) map[internal.Seriousness]int {
	counts := map[internal.Seriousness]int{
		internal.Serious:            0,
		internal.NotSerious:         0,
		internal.UnknownSeriousness: 0,
	}
	for _, rec := range records {
		counts[util.ClassifySeriousness(rec.String(internal.FieldSerious))]++
	}
	return counts
}

// vaccineCounts tallies distinct vaccine names per record using the
// high-confidence splitter, so comma-bearing names stay whole.
func vaccineCounts(records []internal.EnrichedRecord) internal.AggregateCount {
	counts := internal.AggregateCount{}
	for _, rec := range records {
		names := vaccine.ParseField(rec.String(internal.FieldVaccine))
		if len(names) == 0 {
			counts["Unknown"]++
			continue
		}
		for _, name := range names {
			counts[name]++
		}
	}
	return counts
}

// topN ranks an aggregate by descending count, ties broken by label, capped
// at n (n <= 0 means no cap).
func topN(counts internal.AggregateCount, n int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
