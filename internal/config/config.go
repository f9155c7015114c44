// Package config defines the JSON-serializable run configuration of the
// cleaning pipeline. A run is configured in three layers, later layers
// winning: built-in defaults, an optional JSON file, then SALESCLEAN_*
// environment variables (optionally loaded from a .env file). The CLI
// applies its flags on top.
//
// Example (trimmed):
//
//	{
//	  "base": "/srv/sales",
//	  "datasets": ["orders", "order_status"],
//	  "lookups": "configs/lookups.json",
//	  "refund_horizon": "2023-12-31 23:59:59",
//	  "sink":    { "kind": "sqlite", "dsn": "file:clean.db" },
//	  "metrics": { "backend": "prompush", "pushgateway_url": "http://pushgateway:9091" }
//	}
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Run is the top-level configuration object.
type Run struct {
	// Job labels logs and metrics.
	Job string `json:"job" envconfig:"SALESCLEAN_JOB"`

	// Base is the directory holding data/processed and data/cleaned.
	Base string `json:"base" envconfig:"SALESCLEAN_BASE"`

	// Datasets selects which cleaners run. Empty means all four.
	Datasets []string `json:"datasets" envconfig:"SALESCLEAN_DATASETS"`

	// Lookups optionally names a JSON file merged over the built-in tables.
	Lookups string `json:"lookups" envconfig:"SALESCLEAN_LOOKUPS"`

	// RefundHorizon clears later order_status refund timestamps.
	RefundHorizon string `json:"refund_horizon" envconfig:"SALESCLEAN_REFUND_HORIZON"`

	// Sequential disables concurrent execution of independent cleaners.
	Sequential bool `json:"sequential" envconfig:"SALESCLEAN_SEQUENTIAL"`

	Parser  Parser  `json:"parser"`
	Sink    Sink    `json:"sink"`
	Metrics Metrics `json:"metrics"`
	Log     Log     `json:"log"`
}

// Parser configures CSV input parsing.
type Parser struct {
	// Comma is the field delimiter; one character. Default ",".
	Comma string `json:"comma" envconfig:"SALESCLEAN_PARSER_COMMA"`

	// TrimSpace trims white space around every cell.
	TrimSpace bool `json:"trim_space" envconfig:"SALESCLEAN_PARSER_TRIM_SPACE"`

	// NullTokens are cell values read as null in addition to "".
	NullTokens []string `json:"null_tokens" envconfig:"SALESCLEAN_PARSER_NULL_TOKENS"`

	// HeaderMap renames source headers to canonical column names, for
	// inputs whose headers differ from the expected ones. In the
	// environment it is written as "Source:target,Other:target".
	HeaderMap map[string]string `json:"header_map" envconfig:"SALESCLEAN_PARSER_HEADER_MAP"`
}

// Sink selects where cleaned datasets are written.
type Sink struct {
	// Kind is "csv", "sqlite" or "postgres".
	Kind      string `json:"kind" envconfig:"SALESCLEAN_SINK_KIND"`
	DSN       string `json:"dsn" envconfig:"SALESCLEAN_SINK_DSN"`
	Schema    string `json:"schema" envconfig:"SALESCLEAN_SINK_SCHEMA"`
	TableName string `json:"table_name" envconfig:"SALESCLEAN_SINK_TABLE_NAME"`
	BatchSize int    `json:"batch_size" envconfig:"SALESCLEAN_SINK_BATCH_SIZE"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "prompush" or "datadog".
	Backend        string   `json:"backend" envconfig:"SALESCLEAN_METRICS_BACKEND"`
	PushgatewayURL string   `json:"pushgateway_url" envconfig:"SALESCLEAN_METRICS_PUSHGATEWAY_URL"`
	DatadogAddr    string   `json:"datadog_addr" envconfig:"SALESCLEAN_METRICS_DATADOG_ADDR"`
	Namespace      string   `json:"namespace" envconfig:"SALESCLEAN_METRICS_NAMESPACE"`
	Tags           []string `json:"tags" envconfig:"SALESCLEAN_METRICS_TAGS"`
}

// Log configures logging.
type Log struct {
	Level string `json:"level" envconfig:"SALESCLEAN_LOG_LEVEL"`
	// Format is "json" or "console". LOG_FORMAT=console also selects console.
	Format string `json:"format" envconfig:"SALESCLEAN_LOG_FORMAT"`
}

// Defaults returns the built-in configuration.
func Defaults() Run {
	return Run{
		Job:           "salesclean",
		Base:          ".",
		RefundHorizon: "2023-12-31 23:59:59",
		Parser:        Parser{Comma: ","},
		Sink:          Sink{Kind: "csv", TableName: "%s_cleaned", BatchSize: 5000},
		Metrics:       Metrics{Backend: "none"},
		Log:           Log{Level: "info", Format: "json"},
	}
}

// Load builds a Run from defaults, the JSON file at path (skipped when path
// is empty) and the environment. Unknown JSON fields are rejected.
func Load(path string) (Run, error) {
	run := Defaults()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Run{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&run); err != nil {
			return Run{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ApplyEnv overlays SALESCLEAN_* environment variables. Variables that are
// not set leave the current value untouched.
func ApplyEnv(run *Run) error {
	if err := envconfig.Process("", run); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are given) without overriding variables already set. A missing file is
// not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
