// Command salesclean cleans the customers, geo_locations, orders and
// order_status datasets under a base directory and writes the cleaned
// datasets to the configured sink.
//
//	salesclean -config run.json -base . -datasets customers,orders -sink csv -v
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"salesclean/internal/config"
	"salesclean/internal/logging"
	"salesclean/internal/storage"

	// register all sinks with the storage factory.
	_ "salesclean/internal/storage/all"
)

// flags holds command-line overrides; empty values leave the configuration
// untouched.
type flags struct {
	cfgPath    string
	base       string
	datasets   string
	sink       string
	dsn        string
	lookups    string
	sequential bool
	validate   bool
	verbose    bool
}

func main() {
	var f flags
	flag.StringVar(&f.cfgPath, "config", "", "run config JSON path (optional)")
	flag.StringVar(&f.base, "base", "", "base directory holding data/processed and data/cleaned")
	flag.StringVar(&f.datasets, "datasets", "", "comma-separated datasets to clean (default all)")
	flag.StringVar(&f.sink, "sink", "", "sink kind: "+strings.Join(storage.ListKinds(), ", "))
	flag.StringVar(&f.dsn, "dsn", "", "sink DSN for sqlite/postgres")
	flag.StringVar(&f.lookups, "lookups", "", "lookup tables JSON merged over the built-in tables")
	flag.BoolVar(&f.sequential, "sequential", false, "run independent cleaners one at a time")
	flag.BoolVar(&f.validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&f.verbose, "v", false, "enable debug logs")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fatalf("%v", err)
	}
	cfg, err := config.Load(f.cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	applyFlags(&cfg, f)

	issues := config.ValidateRun(cfg, storage.ListKinds())
	for _, iss := range issues {
		fmt.Fprintln(os.Stderr, iss.Error())
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid")
	}
	if f.validate {
		fmt.Fprintln(os.Stderr, "configuration is valid")
		return
	}

	runID := uuid.NewString()
	log := logging.New(logging.Options{
		Job:    cfg.Job,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runID, log); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("run failed")
		stop()
		os.Exit(1)
	}
}

// applyFlags copies non-empty flag values over cfg.
func applyFlags(cfg *config.Run, f flags) {
	if f.base != "" {
		cfg.Base = f.base
	}
	if f.datasets != "" {
		cfg.Datasets = splitList(f.datasets)
	}
	if f.sink != "" {
		cfg.Sink.Kind = f.sink
	}
	if f.dsn != "" {
		cfg.Sink.DSN = f.dsn
	}
	if f.lookups != "" {
		cfg.Lookups = f.lookups
	}
	if f.sequential {
		cfg.Sequential = true
	}
	if f.verbose {
		cfg.Log.Level = zerolog.DebugLevel.String()
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
