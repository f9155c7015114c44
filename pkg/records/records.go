// Package records defines the in-memory row model shared by parsers,
// transformers and sinks.
//
// A Record maps column name to value. A nil value (or an absent key) is a
// null. Values start as strings from the parser and may be replaced by typed
// values (time.Time, decimal.Decimal) by coercion stages.
package records

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Record is a single row keyed by column name.
type Record map[string]any

// TimeLayout is the canonical textual form of timestamps written by sinks.
// Timestamps are persisted in UTC; the fraction is omitted when zero.
const TimeLayout = "2006-01-02 15:04:05.999999999"

// IsNull reports whether field is absent, nil, or an empty string.
func (r Record) IsNull(field string) bool {
	v, ok := r[field]
	if !ok || v == nil {
		return true
	}
	if s, isStr := v.(string); isStr && s == "" {
		return true
	}
	return false
}

// String returns the textual form of field and whether it is non-null.
func (r Record) String(field string) (string, bool) {
	if r.IsNull(field) {
		return "", false
	}
	return Format(r[field]), true
}

// Clone returns a shallow copy of r. Values are immutable scalars, so a
// shallow copy is enough to give the caller exclusive ownership of the row.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Format renders a value the way sinks persist it. nil renders as "".
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.UTC().Format(TimeLayout)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Dataset is an ordered table: a name, an ordered column list and rows.
type Dataset struct {
	Name    string
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.Rows) }

// Clone deep-copies the row slice and each row so the result can be mutated
// without affecting d.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Name:    d.Name,
		Columns: slices.Clone(d.Columns),
		Rows:    make([]Record, len(d.Rows)),
	}
	for i, r := range d.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// HasColumn reports whether name is one of the dataset columns.
func (d Dataset) HasColumn(name string) bool {
	return slices.Contains(d.Columns, name)
}

// NullCounts returns the number of null cells per column.
func (d Dataset) NullCounts() map[string]int {
	out := make(map[string]int, len(d.Columns))
	for _, c := range d.Columns {
		out[c] = 0
	}
	for _, r := range d.Rows {
		for _, c := range d.Columns {
			if r.IsNull(c) {
				out[c]++
			}
		}
	}
	return out
}

// DistinctCounts returns the number of distinct non-null values per column.
// Values are compared by their Format rendering.
func (d Dataset) DistinctCounts() map[string]int {
	seen := make(map[string]map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		seen[c] = make(map[string]struct{})
	}
	for _, r := range d.Rows {
		for _, c := range d.Columns {
			if r.IsNull(c) {
				continue
			}
			seen[c][Format(r[c])] = struct{}{}
		}
	}
	out := make(map[string]int, len(seen))
	for c, vals := range seen {
		out[c] = len(vals)
	}
	return out
}

// InsertColumn returns cols with name inserted at position pos. If name is
// already present, cols is returned unchanged. pos is clamped to the valid
// range.
func InsertColumn(cols []string, name string, pos int) []string {
	if slices.Contains(cols, name) {
		return cols
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(cols) {
		pos = len(cols)
	}
	return slices.Insert(slices.Clone(cols), pos, name)
}
