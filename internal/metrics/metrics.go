// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the cleaning pipeline.
//
// A global, pluggable backend defaults to a no-op implementation, so metrics
// are always safe to call even when no real backend is configured. Concrete
// systems live in subpackages (prompush, datadog). Install a backend once at
// startup, before any cleaner runs; backends must be safe for concurrent use
// because independent dataset cleaners record in parallel.
package metrics

import "time"

// Metric names.
const (
	StepTotal           = "salesclean_step_total"
	StepDurationSeconds = "salesclean_step_duration_seconds"
	RowsTotal           = "salesclean_rows_total"
	IssuesTotal         = "salesclean_issues_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure of one pipeline step
// ("load", "clean", "write") for a dataset.
func RecordStep(dataset, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"dataset": dataset,
		"step":    step,
		"status":  status,
	}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows increments the row counter of a cleaning stage. Typical kinds
// are "in", "out", "dropped", "skipped" and "written".
func RecordRows(dataset, stage, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"dataset": dataset,
		"stage":   stage,
		"kind":    kind,
	})
}

// RecordIssues counts recovered cell-level issues: "nulled" (coercion or
// horizon), "filled", "missed" (lookup) and "rewritten".
func RecordIssues(dataset, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(IssuesTotal, float64(delta), Labels{
		"dataset": dataset,
		"kind":    kind,
	})
}
