package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"aefidash/internal"
	"aefidash/internal/config"
	"aefidash/internal/storage"
	"aefidash/internal/vaccine"
)

// ProcessingService runs the full load → normalize → train → aggregate flow
// and records each run.
type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
	log zerolog.Logger
}

func NewProcessingService(db *storage.DB, cfg config.Config, log zerolog.Logger) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg, log: log}
}

type ProcessResult struct {
	Records    int
	Enriched   []internal.EnrichedRecord
	Errors     []internal.ParseError
	Dashboard  Dashboard
	Summary    Summary
	Dictionary vaccine.Dictionary
}

// ProcessFile ingests one workbook end to end. Cell-level date failures are
// logged and surfaced in the result; only an empty dataset aborts the run.
func (s *ProcessingService) ProcessFile(path string) (ProcessResult, error) {
	start := time.Now()

	raw, err := LoadWorkbook(path)
	if err != nil {
		return ProcessResult{}, err
	}
	loadMs := float64(time.Since(start).Milliseconds())

	norm, err := Normalize(raw)
	if err != nil {
		return ProcessResult{}, err
	}
	for _, pe := range norm.Errors {
		s.log.Warn().
			Str("recordId", pe.RecordID).
			Str("field", pe.Field).
			Str("rawValue", pe.RawValue).
			Msg("unparseable date cell")
	}
	if len(norm.Errors) > 0 {
		s.log.Info().Int("count", len(norm.Errors)).Msg("data quality issues found")
	}

	dict, err := vaccine.TrainWithStore(norm.Enriched, s.db.DictionaryStore())
	if err != nil {
		return ProcessResult{}, fmt.Errorf("train vaccine dictionary: %w", err)
	}

	dash := BuildDashboard(norm.Enriched, s.cfg.TopEventLimit, s.cfg.TopVaccineLimit, s.log)
	summary := Summarize(norm.Enriched)

	_ = s.db.InsertRun(traceID(), path,
		map[string]float64{
			"loadMs":  loadMs,
			"totalMs": float64(time.Since(start).Milliseconds()),
		},
		map[string]int{
			"records":        len(norm.Enriched),
			"dateErrors":     len(norm.Errors),
			"serious":        dash.Seriousness[internal.Serious],
			"dictionarySize": len(dict),
		})

	return ProcessResult{
		Records:    len(norm.Enriched),
		Enriched:   norm.Enriched,
		Errors:     norm.Errors,
		Dashboard:  dash,
		Summary:    summary,
		Dictionary: dict,
	}, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
