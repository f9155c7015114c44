package builtin

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salesclean/internal/transformer"
	"salesclean/pkg/records"
)

/*
TestCoerceApply_Basics verifies that Coerce converts string values to
time.Time and decimal.Decimal, and leaves "string" fields alone.
*/
func TestCoerceApply_Basics(t *testing.T) {
	c := Coerce{
		Types: map[string]string{
			"ts": "timestamp",
			"p":  "decimal",
			"s":  "string",
		},
	}
	in := []records.Record{{
		"ts": "2023-06-01 10:11:12",
		"p":  "19.90",
		"s":  "hello",
	}}
	r := c.Apply(in)[0]

	if v, ok := r["ts"].(time.Time); !ok || !v.Equal(time.Date(2023, 6, 1, 10, 11, 12, 0, time.UTC)) {
		t.Fatalf(`"ts" got %#v`, r["ts"])
	}
	if v, ok := r["p"].(decimal.Decimal); !ok || !v.Equal(decimal.RequireFromString("19.9")) {
		t.Fatalf(`"p" got %#v`, r["p"])
	}
	if v, ok := r["s"].(string); !ok || v != "hello" {
		t.Fatalf(`"s" got %#v`, r["s"])
	}
}

/*
TestCoerceApply_FailuresBecomeNull verifies coerce-don't-fail semantics: a
malformed value is replaced with nil, counted, and the row is retained.
*/
func TestCoerceApply_FailuresBecomeNull(t *testing.T) {
	c := Coerce{Types: map[string]string{"ts": "timestamp", "p": "decimal", "q": "decimal"}}
	in := []records.Record{{"ts": "not a date", "p": "abc", "q": "1,2", "other": "x"}}
	var st transformer.Stats
	out := c.ApplyStats(in, &st)
	if len(out) != 1 {
		t.Fatalf("rows = %d; want 1", len(out))
	}
	for _, f := range []string{"ts", "p", "q"} {
		if out[0][f] != nil {
			t.Fatalf("%s = %#v; want nil", f, out[0][f])
		}
	}
	if out[0]["other"] != "x" {
		t.Fatalf("untyped field touched: %#v", out[0]["other"])
	}
	if st.Nulled != 3 {
		t.Fatalf("Nulled = %d; want 3", st.Nulled)
	}
}

/*
TestCoerceApply_Idempotent verifies typed values, nil and missing fields are
left untouched on a second pass.
*/
func TestCoerceApply_Idempotent(t *testing.T) {
	c := Coerce{Types: map[string]string{"ts": "timestamp", "p": "decimal", "missing": "decimal"}}
	in := []records.Record{{"ts": "2023-01-01", "p": nil}}
	once := c.Apply(in)
	first := once[0]["ts"]
	var st transformer.Stats
	twice := c.ApplyStats(once, &st)
	if twice[0]["ts"] != first || twice[0]["p"] != nil || st.Nulled != 0 {
		t.Fatalf("second pass changed values: %#v (stats %#v)", twice[0], st)
	}
	if _, ok := twice[0]["missing"]; ok {
		t.Fatalf("missing field was created")
	}
}

func TestParseTimestamp_Layouts(t *testing.T) {
	good := []string{
		"2023-06-01",
		"2023-06-01 08:00:00",
		"2023-06-01 08:00",
		"2023-06-01T08:00:00",
		"2023-06-01T08:00:00Z",
		"2023-06-01 08:00:00.123",
		"06/01/2023",
		" 2023-06-01 ",
	}
	for _, s := range good {
		if _, ok := ParseTimestamp(s); !ok {
			t.Fatalf("ParseTimestamp(%q) failed", s)
		}
	}
	for _, s := range []string{"", "2023-13-01", "yesterday", "2023-02-30"} {
		if _, ok := ParseTimestamp(s); ok {
			t.Fatalf("ParseTimestamp(%q) unexpectedly succeeded", s)
		}
	}
}

/*
TestParseTimestamp_NormalizesToUTC verifies that zoned values become the same
instant in UTC and that fractional seconds are kept.
*/
func TestParseTimestamp_NormalizesToUTC(t *testing.T) {
	got, ok := ParseTimestamp("2024-01-01T01:00:00+02:00")
	if !ok {
		t.Fatalf("zoned value not parsed")
	}
	if got.Location() != time.UTC || !got.Equal(time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v; want 2023-12-31 23:00:00 UTC", got)
	}

	frac, ok := ParseTimestamp("2023-12-30 10:00:00.250")
	if !ok || frac.Nanosecond() != 250_000_000 {
		t.Fatalf("fraction lost: %v (ok=%v)", frac, ok)
	}
	if back, ok := ParseTimestamp(records.Format(frac)); !ok || !back.Equal(frac) {
		t.Fatalf("formatted value %q does not round-trip", records.Format(frac))
	}
}

/*
TestHorizon_ClearsBeyondMax verifies the range policy: values after Max are
cleared, values at or before Max and nulls are kept, and rows are retained.
*/
func TestHorizon_ClearsBeyondMax(t *testing.T) {
	horizon := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
	in := []records.Record{
		{"refund_ts": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"refund_ts": horizon},
		{"refund_ts": nil},
		{"refund_ts": "2024-03-01"},
		{"refund_ts": "garbage"},
	}
	var st transformer.Stats
	out := Horizon{Field: "refund_ts", Max: horizon}.ApplyStats(in, &st)
	if len(out) != 5 {
		t.Fatalf("rows = %d; want 5", len(out))
	}
	if out[0]["refund_ts"] != nil || out[3]["refund_ts"] != nil {
		t.Fatalf("beyond-horizon values not cleared: %#v", out)
	}
	if out[1]["refund_ts"] != horizon {
		t.Fatalf("boundary value cleared: %#v", out[1])
	}
	if out[4]["refund_ts"] != "garbage" {
		t.Fatalf("unparseable value modified: %#v", out[4])
	}
	if st.Nulled != 2 {
		t.Fatalf("Nulled = %d; want 2", st.Nulled)
	}
}
