package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cargue/internal"
	"cargue/internal/config"
	"cargue/internal/output"
	"cargue/internal/pipeline"
	"cargue/internal/refdb"
	"cargue/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel)
	must(err)
	defer func() { _ = log.Sync() }()

	cmd := os.Args[1]
	switch cmd {
	case "process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "input xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		var store pipeline.Lookup
		if cfg.RefDBEnabled {
			s, err := refdb.Open(cfg.RefDBPath, time.Duration(cfg.RefDBTimeoutMs)*time.Millisecond)
			if err != nil {
				log.Warn("reference database unavailable, continuing without it", zap.Error(err))
			} else {
				defer s.Close()
				store = s
			}
		}

		svc := pipeline.NewProcessingService(db, store, cfg, log)
		res, err := svc.ProcessFile(context.Background(), *file)
		must(err)

		if len(res.Errors) > 0 {
			printErrors(res.Errors)
			fmt.Printf("batch %d aborted with %d validation errors\n", res.BatchID, len(res.Errors))
			os.Exit(2)
		}
		for _, f := range res.Files {
			fmt.Printf("generated %s: %s\n", f.Kind, f.Path)
		}
		fmt.Printf("batch %d done total=%d nuevos=%d bajas=%d reposiciones=%d reconciliados=%d\n",
			res.BatchID, res.Counts.Total, res.Counts.New, res.Counts.Decommission,
			res.Counts.Replacement, res.Counts.Reconciled)
	case "validate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "input xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}

		ex, err := pipeline.ExtractWorkbook(*file)
		must(err)
		records := pipeline.BuildRecords(ex)
		for _, r := range records {
			pipeline.Classify(r)
		}
		newRecords, decoms := pipeline.Route(records)
		validator := pipeline.NewValidator(ex.Sheet, cfg.InServiceYearMin)
		errs := validator.Run(newRecords, decoms)
		if len(errs) > 0 {
			printErrors(errs)
			fmt.Printf("%d validation errors in sheet %s\n", len(errs), ex.Sheet)
			os.Exit(2)
		}
		fmt.Printf("sheet %s valid: %d rows, %d nuevos, %d bajas\n", ex.Sheet, len(records), len(newRecords), len(decoms))
	case "summary":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "generated load file path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}

		sum, err := output.Summarize(*file)
		must(err)
		fmt.Printf("%s: %d registros, %d campos, %d bytes\n", sum.Path, sum.Records, sum.Fields, sum.Size)
		for _, line := range sum.Sample {
			fmt.Println("  " + line)
		}
	case "batches":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max batches to list")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		rows, err := db.ListBatches(*limit)
		must(err)
		for _, b := range rows {
			fmt.Printf("%d\t%s\t%s\t%s\t%s\n", b.ID, b.Status, b.SourceFile, b.Sheet, b.Message)
		}
		if last, err := db.GetMetadata("ultima_corrida"); err == nil && last != nil {
			fmt.Printf("ultima corrida: %s\n", *last)
		}
	case "refdb:seed":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "xlsx with assets/norms sheets")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}

		store, err := refdb.Open(cfg.RefDBPath, time.Duration(cfg.RefDBTimeoutMs)*time.Millisecond)
		must(err)
		defer store.Close()

		count, err := store.SeedFromWorkbook(*file)
		must(err)
		fmt.Printf("seeded %d reference rows into %s\n", count, cfg.RefDBPath)
	default:
		usage()
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}

func printErrors(errs []internal.ValidationError) {
	for _, e := range errs {
		line, _ := json.Marshal(e)
		fmt.Println(string(line))
	}
}

func usage() {
	fmt.Println("usage: cargue <command>")
	fmt.Println("commands:")
	fmt.Println("  process --file=./entrada.xlsx")
	fmt.Println("  validate --file=./entrada.xlsx")
	fmt.Println("  summary --file=./out/nuevos_20240315_001.txt")
	fmt.Println("  batches [--limit=20]")
	fmt.Println("  refdb:seed --file=./referencia.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
