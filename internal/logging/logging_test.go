package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewIncludesJobField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Job: "nightly", Level: "debug", Format: "json", Output: buf})

	log.Debug().Str("dataset", "orders").Msg("cleaned")

	for _, want := range []string{`"job":"nightly"`, `"dataset":"orders"`, `"level":"debug"`} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Fatalf("expected %s in entry=%s", want, buf.String())
		}
	}
	if bytes.Contains(buf.Bytes(), []byte(`"run_id"`)) {
		t.Fatalf("run_id belongs to the pipeline logger; entry=%s", buf.String())
	}
}

func TestNewRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Level: "warn", Format: "json", Output: buf})
	log.Info().Msg("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level; entry=%s", buf.String())
	}
	log.Warn().Msg("loud")
	if !bytes.Contains(buf.Bytes(), []byte("loud")) {
		t.Fatalf("expected warn entry; got %s", buf.String())
	}
}

func TestNewConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Format: "console", Output: buf})
	log.Info().Msg("hello")
	if bytes.HasPrefix(bytes.TrimSpace(buf.Bytes()), []byte("{")) {
		t.Fatalf("console output should not be JSON: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Fatalf("missing message: %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fall back to info, got %v", lvl)
	}
	if lvl := ParseLevel(" DEBUG "); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v", lvl)
	}
}
