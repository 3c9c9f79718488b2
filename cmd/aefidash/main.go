package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"aefidash/internal"
	"aefidash/internal/config"
	"aefidash/internal/pipeline"
	"aefidash/internal/storage"
	"aefidash/internal/vaccine"
)

func main() {
	cfg, err := config.Load()
	must(err)

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input xlsx path")
		xlsxOut := fs.String("xlsx", "", "optional aggregate export path")
		csvOut := fs.String("csv", "", "optional enriched records csv path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		svc := pipeline.NewProcessingService(db, cfg, logger)
		res, err := svc.ProcessFile(*input)
		must(err)

		fmt.Printf("processed records=%d dateIssues=%d patients=%d seriousEvents=%d provinces=%d\n",
			res.Records, len(res.Errors), res.Summary.TotalPatients,
			res.Summary.TotalSeriousEvents, res.Summary.ReportingProvinces)
		fmt.Printf("seriousness serious=%d notSerious=%d unknown=%d\n",
			res.Dashboard.Seriousness[internal.Serious],
			res.Dashboard.Seriousness[internal.NotSerious],
			res.Dashboard.Seriousness[internal.UnknownSeriousness])

		if strings.TrimSpace(*xlsxOut) != "" {
			must(pipeline.ExportDashboardToXLSX(res.Dashboard, res.Summary, *xlsxOut))
			fmt.Printf("exported aggregates to %s\n", *xlsxOut)
		}
		if strings.TrimSpace(*csvOut) != "" {
			must(pipeline.ExportRecordsToCSV(res.Enriched, *csvOut))
			fmt.Printf("exported %d records to %s\n", len(res.Enriched), *csvOut)
		}
	case "dict:show":
		dict, err := db.DictionaryStore().Load()
		must(err)
		for _, term := range dict.Terms() {
			fmt.Println(term)
		}
		fmt.Printf("dictionary size=%d\n", len(dict))
	case "dict:train":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		raw, err := pipeline.LoadWorkbook(*input)
		must(err)
		norm, err := pipeline.Normalize(raw)
		must(err)
		dict, err := vaccine.TrainWithStore(norm.Enriched, db.DictionaryStore())
		must(err)
		fmt.Printf("dictionary trained size=%d\n", len(dict))
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%d\t%s\t%s\t%s\n", r.ID, r.TraceID, r.SourceFile, r.CreatedAt)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`usage: aefidash <command> [flags]

commands:
  process     --input file.xlsx [--xlsx out.xlsx] [--csv out.csv]
  dict:show
  dict:train  --input file.xlsx
  runs:list   [--limit n]`)
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
