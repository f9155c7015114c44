package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"salesclean/internal/cleaner"
	"salesclean/pkg/records"
)

// IssueSeverity classifies a validation finding.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one finding reported by ValidateRun.
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Path     string        `json:"path"`
	Message  string        `json:"message"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
}

// KnownDatasets lists the dataset names in execution order.
var KnownDatasets = []string{
	cleaner.DatasetCustomers,
	cleaner.DatasetGeoLocations,
	cleaner.DatasetOrders,
	cleaner.DatasetOrderStatus,
}

// ValidateRun checks a Run for problems. sinkKinds lists the registered
// sink kinds; nil skips the check.
func ValidateRun(r Run, sinkKinds []string) []Issue {
	var issues []Issue
	if strings.TrimSpace(r.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job", "required"})
	}
	if strings.TrimSpace(r.Base) == "" {
		issues = append(issues, Issue{SeverityError, "base", "required"})
	}
	issues = append(issues, validateDatasets(r.Datasets)...)
	issues = append(issues, validateHorizon(r.RefundHorizon)...)
	issues = append(issues, validateParser(r.Parser)...)
	issues = append(issues, validateSink(r.Sink, sinkKinds)...)
	issues = append(issues, validateMetrics(r.Metrics)...)
	issues = append(issues, validateLog(r.Log)...)
	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateDatasets(names []string) []Issue {
	var out []Issue
	seen := map[string]bool{}
	for i, n := range names {
		p := fmt.Sprintf("datasets[%d]", i)
		if !isKnownDataset(n) {
			out = append(out, Issue{SeverityError, p, fmt.Sprintf("unknown dataset %q (want one of %s)", n, strings.Join(KnownDatasets, ", "))})
			continue
		}
		if seen[n] {
			out = append(out, Issue{SeverityWarning, p, fmt.Sprintf("dataset %q listed twice", n)})
		}
		seen[n] = true
	}
	return out
}

func isKnownDataset(n string) bool {
	for _, k := range KnownDatasets {
		if k == n {
			return true
		}
	}
	return false
}

func validateHorizon(s string) []Issue {
	if s == "" {
		return nil
	}
	if _, err := ParseHorizon(s); err != nil {
		return []Issue{{SeverityError, "refund_horizon", err.Error()}}
	}
	return nil
}

// ParseHorizon accepts "2006-01-02 15:04:05", RFC 3339 or a bare date. A
// bare date means the last second of that day. Times are UTC.
func ParseHorizon(s string) (time.Time, error) {
	if t, err := time.Parse(records.TimeLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Add(24*time.Hour - time.Second), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

func validateParser(p Parser) []Issue {
	var out []Issue
	if p.Comma != "" && utf8.RuneCountInString(p.Comma) != 1 {
		out = append(out, Issue{SeverityError, "parser.comma", "must be a single character"})
	}
	if p.Comma == "\"" || p.Comma == "\n" || p.Comma == "\r" {
		out = append(out, Issue{SeverityError, "parser.comma", fmt.Sprintf("%q cannot be a delimiter", p.Comma)})
	}
	return out
}

func validateSink(s Sink, kinds []string) []Issue {
	var out []Issue
	if s.Kind == "" {
		out = append(out, Issue{SeverityError, "sink.kind", "required"})
	} else if kinds != nil && !contains(kinds, s.Kind) {
		out = append(out, Issue{SeverityError, "sink.kind", fmt.Sprintf("unsupported kind %q (registered: %s)", s.Kind, strings.Join(kinds, ", "))})
	}
	if (s.Kind == "postgres" || s.Kind == "sqlite") && strings.TrimSpace(s.DSN) == "" {
		out = append(out, Issue{SeverityError, "sink.dsn", "required for " + s.Kind})
	}
	if s.Kind == "sqlite" && strings.Contains(s.DSN, ":memory:") {
		out = append(out, Issue{SeverityWarning, "sink.dsn", "in-memory database is discarded when the run ends"})
	}
	if s.BatchSize < 0 {
		out = append(out, Issue{SeverityError, "sink.batch_size", "must be >= 0"})
	}
	if s.TableName != "" && strings.Count(s.TableName, "%s") > 1 {
		out = append(out, Issue{SeverityError, "sink.table_name", "at most one %s placeholder"})
	}
	return out
}

func validateMetrics(m Metrics) []Issue {
	var out []Issue
	switch m.Backend {
	case "", "none":
	case "prompush":
		if m.PushgatewayURL == "" {
			out = append(out, Issue{SeverityError, "metrics.pushgateway_url", "required for prompush"})
		} else if u, err := url.Parse(m.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
			out = append(out, Issue{SeverityError, "metrics.pushgateway_url", fmt.Sprintf("invalid URL %q", m.PushgatewayURL)})
		}
	case "datadog":
		if m.DatadogAddr == "" {
			out = append(out, Issue{SeverityError, "metrics.datadog_addr", "required for datadog"})
		}
	default:
		out = append(out, Issue{SeverityError, "metrics.backend", fmt.Sprintf("unknown backend %q", m.Backend)})
	}
	for i, tag := range m.Tags {
		if !strings.Contains(tag, ":") {
			out = append(out, Issue{SeverityWarning, fmt.Sprintf("metrics.tags[%d]", i), "expected key:value"})
		}
	}
	return out
}

func validateLog(l Log) []Issue {
	var out []Issue
	switch strings.ToLower(l.Level) {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		out = append(out, Issue{SeverityError, "log.level", fmt.Sprintf("unknown level %q", l.Level)})
	}
	switch l.Format {
	case "", "json", "console":
	default:
		out = append(out, Issue{SeverityError, "log.format", fmt.Sprintf("unknown format %q", l.Format)})
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
