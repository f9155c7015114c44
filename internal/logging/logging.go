// Package logging builds the zerolog logger shared by the pipeline.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the structured logger.
type Options struct {
	Job    string
	Level  string
	Format string // "json" or "console"
	Output io.Writer
}

// New returns a logger tagged with the job. The run id is added by the
// pipeline driver. LOG_FORMAT=console
// selects the console writer when Format is empty.
func New(opts Options) zerolog.Logger {
	var out io.Writer = opts.Output
	if out == nil {
		out = os.Stderr
	}
	format := opts.Format
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	ctx := zerolog.New(out).With().Timestamp()
	if opts.Job != "" {
		ctx = ctx.Str("job", opts.Job)
	}
	return ctx.Logger().Level(ParseLevel(opts.Level))
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}
