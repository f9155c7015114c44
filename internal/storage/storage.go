// Package storage contains the backend-agnostic sink contract for cleaned
// datasets and a registry that maps a sink kind ("csv", "sqlite",
// "postgres") to its factory. Backends register themselves in init; import
// salesclean/internal/storage/all to enable every built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"salesclean/internal/datasource/file"
	"salesclean/pkg/records"
)

// Sink persists cleaned datasets by logical name. A Write replaces whatever
// the sink previously held for that dataset.
type Sink interface {
	Write(ctx context.Context, ds records.Dataset) (int64, error)
	Close() error
}

// Config carries the settings of every backend; each backend reads the
// fields it needs.
type Config struct {
	Kind string

	// Layout resolves output files for file-based sinks.
	Layout file.Layout

	// DSN is the database connection string for SQL sinks.
	DSN string
	// Schema optionally qualifies table names (postgres only).
	Schema string
	// TableName is a fmt pattern applied to the dataset name. Default "%s_cleaned".
	TableName string
	// BatchSize bounds rows per COPY/INSERT batch. Default 5000.
	BatchSize int

	Logger *zerolog.Logger
}

// Table returns the destination table for dataset name.
func (c Config) Table(name string) string {
	pattern := c.TableName
	if pattern == "" {
		pattern = "%s_cleaned"
	}
	return fmt.Sprintf(pattern, name)
}

// Batch returns the effective batch size.
func (c Config) Batch() int {
	if c.BatchSize <= 0 {
		return 5000
	}
	return c.BatchSize
}

// Log returns the configured logger or a no-op logger.
func (c Config) Log() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}

// Factory builds a Sink for the given configuration.
type Factory func(ctx context.Context, cfg Config) (Sink, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. It is typically
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New constructs the Sink registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Sink, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported sink kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
