// Package cleaner implements one Dataset Cleaner per entity. Each cleaner is
// a fixed sequence of builtin transformers in a dataset-specific order and is
// a pure function from a raw dataset to a cleaned dataset plus a Report.
//
// Cleaners never fail on malformed rows: rows are dropped by validation and
// drop-row null policies, and malformed cells are coerced to null. The only
// error a cleaner returns is a schema mismatch, reported as
// ErrSourceUnavailable because the input cannot be read as the expected table.
package cleaner

import (
	"errors"
	"fmt"
	"strings"

	"salesclean/internal/transformer"
	"salesclean/internal/transformer/builtin"
	"salesclean/pkg/records"
)

// Dataset names. They double as the logical names used by the file layout.
const (
	DatasetCustomers    = "customers"
	DatasetGeoLocations = "geo_locations"
	DatasetOrders       = "orders"
	DatasetOrderStatus  = "order_status"
)

// ErrSourceUnavailable marks a dataset that cannot be located or parsed as
// the expected table. It is fatal for that dataset and its dependents.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceError reports an unavailable dataset.
type SourceError struct {
	Dataset string
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("dataset %s: %v: %v", e.Dataset, ErrSourceUnavailable, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSourceUnavailable) true for any SourceError.
func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

// Cleaner is a dataset cleaner without upstream dependencies.
type Cleaner interface {
	Name() string
	Clean(in records.Dataset) (records.Dataset, Report, error)
}

// Report summarizes a cleaner run for the reporting collaborator.
type Report struct {
	Dataset string
	RowsIn  int
	RowsOut int
	// NullsBefore holds per-column null counts observed right before null
	// resolution. DistinctBefore holds distinct non-null value counts taken
	// at the same point.
	NullsBefore    map[string]int
	DistinctBefore map[string]int
	// Rejections counts rows dropped by validation stages, per stage and
	// reason, in first-seen order.
	Rejections []Rejection
	Stages     []transformer.StageReport
}

// Rejection counts the rows a validation stage dropped for one reason.
type Rejection struct {
	Stage  string
	Reason string
	Count  int
}

// Rejected sums the rows dropped by validation stages.
func (r Report) Rejected() int {
	n := 0
	for _, rj := range r.Rejections {
		n += rj.Count
	}
	return n
}

// rejectInto returns a builtin.Validate reject sink that tallies rejected
// rows into rep under stage.
func rejectInto(rep *Report, stage string) func(builtin.RejectedRow) {
	return func(row builtin.RejectedRow) {
		for i := range rep.Rejections {
			if rep.Rejections[i].Stage == stage && rep.Rejections[i].Reason == row.Reason {
				rep.Rejections[i].Count++
				return
			}
		}
		rep.Rejections = append(rep.Rejections, Rejection{Stage: stage, Reason: row.Reason, Count: 1})
	}
}

// Dropped is the number of rows removed by the whole run.
func (r Report) Dropped() int { return r.RowsIn - r.RowsOut }

// Stage returns the report of the named stage.
func (r Report) Stage(name string) (transformer.StageReport, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return transformer.StageReport{}, false
}

// Stats sums the recovered-issue counters of every stage.
func (r Report) Stats() transformer.Stats {
	var total transformer.Stats
	for _, s := range r.Stages {
		total.Add(s.Stats)
	}
	return total
}

// requireColumns fails when in lacks any of cols.
func requireColumns(in records.Dataset, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !in.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SourceError{
			Dataset: in.Name,
			Err:     fmt.Errorf("missing columns: %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

// run clones in, executes stages and assembles the cleaned dataset. The
// clone gives the cleaner exclusive ownership of every row it touches.
func run(name string, in records.Dataset, columns []string, stages transformer.Stages, rep *Report) records.Dataset {
	ds := in.Clone()
	rep.Dataset = name
	rep.RowsIn = len(ds.Rows)

	rows, stageReports := stages.Run(ds.Rows)

	rep.Stages = stageReports
	rep.RowsOut = len(rows)
	return records.Dataset{Name: name, Columns: columns, Rows: rows}
}

// snapshotColumns records per-column null and distinct counts into rep
// without changing the batch.
func snapshotColumns(rep *Report, columns []string) transformer.Transformer {
	return transformer.Func(func(in []records.Record) []records.Record {
		ds := records.Dataset{Columns: columns, Rows: in}
		rep.NullsBefore = ds.NullCounts()
		rep.DistinctBefore = ds.DistinctCounts()
		return in
	})
}
