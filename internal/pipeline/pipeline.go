// Package pipeline is the driver that loads the raw datasets, runs the
// dataset cleaners in dependency order and persists their output.
//
// Customers, GeoLocations and Orders are independent and run concurrently
// unless Sequential is set. OrderStatus runs strictly after Orders and
// receives the cleaned order key set as an explicit argument.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"salesclean/internal/cleaner"
	"salesclean/internal/datasource"
	"salesclean/internal/datasource/file"
	"salesclean/internal/keyset"
	"salesclean/internal/lookup"
	"salesclean/internal/metrics"
	"salesclean/internal/parser"
	"salesclean/internal/parser/csv"
	"salesclean/internal/storage"
	"salesclean/pkg/records"
)

// ErrDependencyFailed marks a dataset skipped because a dataset it depends
// on could not be produced.
var ErrDependencyFailed = errors.New("dependency failed")

// DependencyError reports a skipped dependent dataset.
type DependencyError struct {
	Dataset string
	Parent  string
	Err     error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dataset %s: %v on %s: %v", e.Dataset, ErrDependencyFailed, e.Parent, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDependencyFailed) true for any DependencyError.
func (e *DependencyError) Is(target error) bool { return target == ErrDependencyFailed }

// AllDatasets lists every dataset in dependency order.
var AllDatasets = []string{
	cleaner.DatasetCustomers,
	cleaner.DatasetGeoLocations,
	cleaner.DatasetOrders,
	cleaner.DatasetOrderStatus,
}

// Options configures a Driver.
type Options struct {
	Layout file.Layout
	// Datasets selects what to run. Empty means AllDatasets.
	Datasets []string

	Lookups       lookup.Tables
	RefundHorizon time.Time
	Parser        csv.Options

	// Sequential runs independent cleaners one at a time.
	Sequential bool

	// Sink persists cleaned datasets. Nil keeps results in memory only.
	Sink storage.Sink

	// Open overrides how raw inputs are opened. Nil reads Layout inputs.
	Open func(name string) datasource.Source

	RunID  string
	Logger *zerolog.Logger
}

// Outcome is the result of one dataset.
type Outcome struct {
	Dataset string
	Report  cleaner.Report
	// Skipped counts input rows the parser could not read.
	Skipped int
	Written int64
	Cleaned records.Dataset
	Err     error
}

// Result collects every outcome of a run, in AllDatasets order.
type Result struct {
	RunID    string
	Outcomes []Outcome
}

// Outcome returns the outcome of the named dataset.
func (r Result) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Dataset == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Driver runs the cleaning pipeline.
type Driver struct {
	opts Options
	log  zerolog.Logger

	writeMu sync.Mutex
}

// New returns a Driver. A missing RunID is generated.
func New(opts Options) *Driver {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if len(opts.Datasets) == 0 {
		opts.Datasets = AllDatasets
	}
	if opts.Open == nil {
		layout := opts.Layout
		opts.Open = func(name string) datasource.Source { return layout.Source(name) }
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Driver{opts: opts, log: log.With().Str("run_id", opts.RunID).Logger()}
}

// Run executes the selected datasets. The returned error combines every
// dataset failure; the Result always carries the outcomes that succeeded.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	started := time.Now()
	selected := map[string]bool{}
	for _, n := range d.opts.Datasets {
		selected[n] = true
	}
	for n := range selected {
		if !isKnown(n) {
			return Result{RunID: d.opts.RunID}, fmt.Errorf("unknown dataset %q", n)
		}
	}

	outcomes := map[string]*Outcome{}
	var mu sync.Mutex
	record := func(o Outcome) {
		mu.Lock()
		outcomes[o.Dataset] = &o
		mu.Unlock()
	}

	independent := map[string]cleaner.Cleaner{
		cleaner.DatasetCustomers:    cleaner.Customers{},
		cleaner.DatasetGeoLocations: cleaner.GeoLocations{Lookups: d.opts.Lookups},
		cleaner.DatasetOrders:       cleaner.Orders{Lookups: d.opts.Lookups},
	}

	var g errgroup.Group
	if d.opts.Sequential {
		g.SetLimit(1)
	}
	for _, name := range AllDatasets {
		c, ok := independent[name]
		if !ok || !selected[name] {
			continue
		}
		g.Go(func() error {
			record(d.runOne(ctx, name, c.Clean))
			return nil
		})
	}
	_ = g.Wait()

	if selected[cleaner.DatasetOrderStatus] {
		status := cleaner.OrderStatus{RefundHorizon: d.opts.RefundHorizon}
		keys, err := d.parentKeys(ctx, selected, outcomes)
		if err != nil {
			o := Outcome{Dataset: status.Name(), Err: &DependencyError{
				Dataset: status.Name(),
				Parent:  cleaner.DatasetOrders,
				Err:     err,
			}}
			d.log.Error().Err(o.Err).Str("dataset", o.Dataset).Msg("dataset skipped")
			record(o)
		} else {
			record(d.runOne(ctx, status.Name(), func(in records.Dataset) (records.Dataset, cleaner.Report, error) {
				return status.Clean(in, keys)
			}))
		}
	}

	res := Result{RunID: d.opts.RunID}
	var errs error
	for _, name := range AllDatasets {
		o, ok := outcomes[name]
		if !ok {
			continue
		}
		res.Outcomes = append(res.Outcomes, *o)
		errs = multierr.Append(errs, o.Err)
	}
	d.log.Info().
		Int("datasets", len(res.Outcomes)).
		Int("failed", len(multierr.Errors(errs))).
		Dur("elapsed", time.Since(started)).
		Msg("run finished")
	return res, errs
}

// parentKeys returns the order_id set of the cleaned orders. When orders
// ran in this pass its in-memory result is used; otherwise the previously
// persisted cleaned orders file is read.
func (d *Driver) parentKeys(ctx context.Context, selected map[string]bool, outcomes map[string]*Outcome) (*keyset.Set, error) {
	if selected[cleaner.DatasetOrders] {
		o := outcomes[cleaner.DatasetOrders]
		if o == nil {
			return nil, errors.New("orders produced no outcome")
		}
		if o.Err != nil {
			return nil, o.Err
		}
		return keyset.FromDataset(o.Cleaned, "order_id"), nil
	}

	src := d.opts.Layout.Sink(cleaner.DatasetOrders)
	ds, _, err := d.load(ctx, cleaner.DatasetOrders, src)
	if err != nil {
		return nil, err
	}
	if !ds.HasColumn("order_id") {
		return nil, &cleaner.SourceError{Dataset: cleaner.DatasetOrders, Err: errors.New("missing columns: order_id")}
	}
	d.log.Info().Str("path", src.Path()).Int("keys", ds.Len()).Msg("using persisted cleaned orders")
	return keyset.FromDataset(ds, "order_id"), nil
}

type cleanFunc func(records.Dataset) (records.Dataset, cleaner.Report, error)

// runOne loads, cleans and writes one dataset. It never panics on data
// problems; every failure is carried in Outcome.Err.
func (d *Driver) runOne(ctx context.Context, name string, clean cleanFunc) Outcome {
	log := d.log.With().Str("dataset", name).Logger()
	out := Outcome{Dataset: name}
	log.Info().Msg("dataset start")

	start := time.Now()
	raw, skipped, err := d.load(ctx, name, d.opts.Open(name))
	metrics.RecordStep(name, "load", err, time.Since(start))
	out.Skipped = skipped
	if err != nil {
		out.Err = err
		log.Error().Err(err).Msg("load failed")
		return out
	}
	metrics.RecordRows(name, "load", "skipped", int64(skipped))

	start = time.Now()
	cleaned, rep, err := clean(raw)
	metrics.RecordStep(name, "clean", err, time.Since(start))
	if err != nil {
		out.Err = err
		log.Error().Err(err).Msg("clean failed")
		return out
	}
	out.Report, out.Cleaned = rep, cleaned
	recordReport(rep)
	logReport(log, rep, skipped)

	if d.opts.Sink == nil {
		return out
	}
	start = time.Now()
	n, err := d.write(ctx, cleaned)
	metrics.RecordStep(name, "write", err, time.Since(start))
	if err != nil {
		out.Err = fmt.Errorf("write %s: %w", name, err)
		log.Error().Err(err).Msg("write failed")
		return out
	}
	out.Written = n
	metrics.RecordRows(name, "write", "written", n)
	log.Info().Int64("rows_written", n).Msg("dataset written")
	return out
}

// write serializes sink access; sinks are not required to be safe for
// concurrent use.
func (d *Driver) write(ctx context.Context, ds records.Dataset) (int64, error) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.opts.Sink.Write(ctx, ds)
}

// load opens and parses one dataset. Every failure is a SourceError.
func (d *Driver) load(ctx context.Context, name string, src datasource.Source) (records.Dataset, int, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return records.Dataset{}, 0, &cleaner.SourceError{Dataset: name, Err: err}
	}
	defer rc.Close()

	popts := d.opts.Parser
	if popts.Logger == nil {
		l := d.log.With().Str("dataset", name).Logger()
		popts.Logger = &l
	}
	var p parser.Parser = csv.NewParser(popts)
	ds, skipped, err := p.Parse(name, rc)
	if err != nil {
		return records.Dataset{}, skipped, &cleaner.SourceError{Dataset: name, Err: err}
	}
	return ds, skipped, nil
}

func isKnown(name string) bool {
	for _, n := range AllDatasets {
		if n == name {
			return true
		}
	}
	return false
}
