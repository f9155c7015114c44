package builtin

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"salesclean/pkg/records"
)

// Rule is a keep/drop predicate over a single record. Check returns false
// and a human-readable reason when the record must be dropped.
type Rule interface {
	Check(r records.Record) (bool, string)
}

// Validate drops every record rejected by any of its rules. Rules compose by
// conjunction and are evaluated in order; the first failing rule supplies the
// reason. Failing rows are dropped, never repaired.
type Validate struct {
	Rules  []Rule
	Reject func(RejectedRow) // optional sink
}

// RejectedRow describes a record dropped by Validate.
type RejectedRow struct {
	Line   int // position in the input batch (0-based)
	Raw    records.Record
	Reason string
	Stage  string
}

// Apply validates each record. Valid records are appended to a new slice in
// their original order.
func (v Validate) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, 0, len(in))
	for i, rec := range in {
		if ok, reason := v.check(rec); ok {
			out = append(out, rec)
		} else if v.Reject != nil {
			v.Reject(RejectedRow{Line: i, Raw: rec, Reason: reason, Stage: "validate"})
		}
	}
	return out
}

func (v Validate) check(r records.Record) (bool, string) {
	for _, rule := range v.Rules {
		if ok, reason := rule.Check(r); !ok {
			return false, reason
		}
	}
	return true, ""
}

// Length requires the string form of Field to have exactly Width characters.
// A null value fails the check.
type Length struct {
	Field string
	Width int
}

func (l Length) Check(r records.Record) (bool, string) {
	s, ok := r.String(l.Field)
	if !ok {
		return false, fmt.Sprintf("field %q is null; want length %d", l.Field, l.Width)
	}
	if n := utf8.RuneCountInString(s); n != l.Width {
		return false, fmt.Sprintf("field %q has length %d; want %d", l.Field, n, l.Width)
	}
	return true, ""
}

// NonZero rejects a record when any of Fields holds a numeric zero. Nulls
// and non-numeric values are not zero and pass; they are the concern of the
// null and coercion policies.
type NonZero struct {
	Fields []string
}

func (nz NonZero) Check(r records.Record) (bool, string) {
	for _, f := range nz.Fields {
		if isZero(r[f]) {
			return false, fmt.Sprintf("field %q is zero", f)
		}
	}
	return true, ""
}

func isZero(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case decimal.Decimal:
		return t.IsZero()
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return err == nil && d.IsZero()
	}
	return false
}
