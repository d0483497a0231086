package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"travelclean/internal"
	"travelclean/internal/config"
	"travelclean/internal/logger"
	"travelclean/internal/pipeline"
	"travelclean/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sourcesFile := fs.String("sources", "", "sources yaml file")
		printRows := fs.Int("print-rows", cfg.PrintRows, "rows to print per table, 0 prints all")
		sinks := fs.String("sink", strings.Join(cfg.Sinks, ","), "xlsx,sqlite,postgres")
		_ = fs.Parse(os.Args[2:])

		if strings.TrimSpace(*sourcesFile) != "" {
			cfg, err = cfg.WithSourcesFile(*sourcesFile)
			must(err)
		}
		cfg, err = cfg.WithSinks(*sinks)
		must(err)

		named, closeSinks, err := makeSinks(cfg, db, log)
		must(err)
		defer closeSinks()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		runner := pipeline.NewRunner(log, db, named...)
		results, err := runner.Run(ctx, cfg.EnabledSources())
		ok, skipped := 0, 0
		for _, res := range results {
			if res.Err != nil {
				skipped++
				continue
			}
			ok++
			printTable(res.Table, *printRows)
		}
		_ = db.SetMetadata("last_trace", runner.TraceID())
		must(err)
		fmt.Printf("run done trace=%s cleaned=%d skipped=%d\n", runner.TraceID(), ok, skipped)
	case "clean":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input xlsx/csv/html path")
		kind := fs.String("kind", "", "hotel|flight")
		name := fs.String("name", "", "source name, reuses its schema when configured")
		output := fs.String("output", "", "output xlsx path")
		printRows := fs.Int("print-rows", cfg.PrintRows, "rows to print, 0 prints all")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" || strings.TrimSpace(*kind) == "" {
			must(fmt.Errorf("--input and --kind are required"))
		}

		src := config.Source{Kind: internal.SourceKind(*kind), Path: *input, Enabled: true, CommaDecimal: true}
		if known, ok := cfg.Source(*name); ok {
			src = known
			src.Path = *input
		}
		src.Name = *name
		if src.Name == "" {
			src.Name = strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input))
		}
		schema := pipeline.SchemaFromSource(src)
		if schema.Kind != internal.KindHotel && schema.Kind != internal.KindFlight {
			must(fmt.Errorf("%w: %q", config.ErrUnknownKind, *kind))
		}

		table, err := pipeline.NewCleaner(log).ProcessSource(*input, schema)
		must(err)
		printTable(table, *printRows)
		if strings.TrimSpace(*output) != "" {
			must(pipeline.ExportTableToXLSX(table, *output))
			fmt.Printf("clean done rows=%d output=%s\n", table.Len(), *output)
		}
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		runs, err := db.ListRuns(*limit)
		must(err)
		last, err := db.GetMetadata("last_trace")
		must(err)
		if last != nil {
			fmt.Printf("last trace: %s\n", *last)
		}
		for _, r := range runs {
			fmt.Printf("%d\t%s\t%s\t%s\t%s\trows=%d\t%s\n", r.ID, r.CreatedAt, r.TraceID, r.Source, r.Status, r.RowCount, r.Message)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", "", "source name")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*source) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--source and --out are required"))
		}
		table, err := db.LatestTable(*source)
		must(err)
		must(pipeline.ExportTableToXLSX(table, *out))
		fmt.Printf("exported %d rows to %s\n", table.Len(), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func makeSinks(cfg config.Config, db *storage.DB, log *logger.Logger) ([]pipeline.NamedSink, func(), error) {
	var (
		sinks   []pipeline.NamedSink
		closers []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if cfg.HasSink("xlsx") {
		sinks = append(sinks, pipeline.NamedSink{Name: "xlsx", Sink: pipeline.XLSXSink{Dir: cfg.OutputDir}})
	}
	if cfg.HasSink("sqlite") {
		sinks = append(sinks, pipeline.NamedSink{Name: "sqlite", Sink: db})
	}
	if cfg.HasSink("postgres") {
		pg, err := storage.NewPostgresWriter(cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = pg.Close() })
		if err := pg.CreateTable(); err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, pipeline.NamedSink{Name: "postgres", Sink: pg})
	}
	return sinks, closeAll, nil
}

func printTable(t *internal.Table, limit int) {
	fmt.Println()
	must(pipeline.WriteNullCounts(os.Stdout, t))
	fmt.Printf("\n%s:\n", t.Name)
	must(pipeline.WriteTable(os.Stdout, t, limit))
}

func usage() {
	fmt.Println("usage: travelclean <command>")
	fmt.Println("commands:")
	fmt.Println("  run [--sources=sources.yaml] [--print-rows=20] [--sink=xlsx,sqlite,postgres]")
	fmt.Println("  clean --input=... --kind=hotel|flight [--name=trip] [--output=...xlsx]")
	fmt.Println("  runs [--limit=20]")
	fmt.Println("  export:xlsx --source=agoda --out=./out/agoda.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
