// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. A cleaning run is a batch job with no scrape endpoint, so
// collected metrics are pushed to a Pushgateway when the run flushes.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"salesclean/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // salesclean_step_total
	stepDuration *prometheus.SummaryVec // salesclean_step_duration_seconds
	rowCounter   *prometheus.CounterVec // salesclean_rows_total
	issueCounter *prometheus.CounterVec // salesclean_issues_total
}

// NewBackend constructs a Prometheus Pushgateway backend. jobName is the
// Pushgateway grouping job ("salesclean" when empty).
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "salesclean"
	}

	reg := prometheus.NewRegistry()
	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        reg,
		stepCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metrics.StepTotal,
				Help: "Pipeline step executions, partitioned by dataset, step and status.",
			},
			[]string{"dataset", "step", "status"},
		),
		stepDuration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       metrics.StepDurationSeconds,
				Help:       "Duration of pipeline steps in seconds.",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"dataset", "step", "status"},
		),
		rowCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metrics.RowsTotal,
				Help: "Rows entering, leaving or dropped by each cleaning stage.",
			},
			[]string{"dataset", "stage", "kind"},
		),
		issueCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metrics.IssuesTotal,
				Help: "Recovered cell-level issues per dataset (nulled, filled, missed, rewritten).",
			},
			[]string{"dataset", "kind"},
		),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":  b.stepCounter,
		"step summary":  b.stepDuration,
		"row counter":   b.rowCounter,
		"issue counter": b.issueCounter,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["dataset"], labels["step"], labels["status"]).Add(delta)

	case metrics.RowsTotal:
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["dataset"], labels["stage"], labels["kind"]).Add(delta)

	case metrics.IssuesTotal:
		if b.issueCounter == nil {
			return
		}
		b.issueCounter.WithLabelValues(labels["dataset"], labels["kind"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDurationSeconds || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["dataset"], labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
