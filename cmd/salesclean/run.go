package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"salesclean/internal/config"
	"salesclean/internal/datasource/file"
	"salesclean/internal/lookup"
	"salesclean/internal/metrics"
	"salesclean/internal/metrics/datadog"
	"salesclean/internal/metrics/prompush"
	"salesclean/internal/parser/csv"
	"salesclean/internal/pipeline"
	"salesclean/internal/storage"
)

// run wires the configured collaborators and executes one pipeline run. The
// driver tags its own lines with runID, so it gets the untagged logger.
func run(ctx context.Context, cfg config.Run, runID string, base zerolog.Logger) (err error) {
	start := time.Now()
	log := base.With().Str("run_id", runID).Logger()

	closeMetrics, err := setupMetrics(cfg, log)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeMetrics()) }()

	tables, err := lookup.Load(cfg.Lookups)
	if err != nil {
		return err
	}

	var horizon time.Time
	if cfg.RefundHorizon != "" {
		if horizon, err = config.ParseHorizon(cfg.RefundHorizon); err != nil {
			return err
		}
	}

	layout := file.DefaultLayout(cfg.Base)
	sink, err := storage.New(ctx, storage.Config{
		Kind:      cfg.Sink.Kind,
		Layout:    layout,
		DSN:       cfg.Sink.DSN,
		Schema:    cfg.Sink.Schema,
		TableName: cfg.Sink.TableName,
		BatchSize: cfg.Sink.BatchSize,
		Logger:    &log,
	})
	if err != nil {
		return fmt.Errorf("open sink: %w", err)
	}
	defer func() { err = multierr.Append(err, sink.Close()) }()

	log.Info().
		Str("base", cfg.Base).
		Strs("datasets", cfg.Datasets).
		Str("sink", cfg.Sink.Kind).
		Str("metrics", cfg.Metrics.Backend).
		Bool("sequential", cfg.Sequential).
		Msg("run start")

	d := pipeline.New(pipeline.Options{
		Layout:        layout,
		Datasets:      cfg.Datasets,
		Lookups:       tables,
		RefundHorizon: horizon,
		Parser:        parserOptions(cfg.Parser),
		Sequential:    cfg.Sequential,
		Sink:          sink,
		RunID:         runID,
		Logger:        &base,
	})
	_, err = d.Run(ctx)
	log.Info().Dur("elapsed", time.Since(start).Truncate(time.Millisecond)).Msg("run complete")
	return err
}

func parserOptions(p config.Parser) csv.Options {
	var comma rune
	for _, r := range p.Comma {
		comma = r
		break
	}
	return csv.Options{Comma: comma, TrimSpace: p.TrimSpace, NullTokens: p.NullTokens, HeaderMap: p.HeaderMap}
}

// setupMetrics installs the configured backend and returns a function that
// flushes and releases it.
func setupMetrics(cfg config.Run, log zerolog.Logger) (func() error, error) {
	nop := func() error { return nil }
	m := cfg.Metrics

	switch m.Backend {
	case "", "none":
		log.Debug().Msg("metrics: disabled")
		return nop, nil

	case "prompush":
		b, err := prompush.NewBackend(cfg.Job, m.PushgatewayURL)
		if err != nil {
			return nil, fmt.Errorf("metrics: prompush: %w", err)
		}
		metrics.SetBackend(b)
		log.Debug().Str("url", m.PushgatewayURL).Str("job", cfg.Job).Msg("metrics: prompush")
		return metrics.Flush, nil

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       m.DatadogAddr,
			Namespace:  m.Namespace,
			GlobalTags: m.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("metrics: datadog: %w", err)
		}
		metrics.SetBackend(b)
		log.Debug().Str("addr", m.DatadogAddr).Msg("metrics: datadog")
		return func() error {
			return multierr.Combine(metrics.Flush(), b.Close())
		}, nil
	}
	return nil, fmt.Errorf("metrics: unknown backend %q", m.Backend)
}
