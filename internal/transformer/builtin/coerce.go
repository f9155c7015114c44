package builtin

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesclean/internal/transformer"
	"salesclean/pkg/records"
)

// Coerce converts string fields into typed values. A value that fails to
// parse is replaced with nil; coercion never drops rows and never fails.
// Values that are already typed are left untouched, so Coerce is idempotent.
type Coerce struct {
	Types map[string]string // field -> one of: timestamp, decimal, string
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// ParseTimestamp parses s using the accepted timestamp layouts. Surrounding
// whitespace is ignored. Values without a zone are interpreted as UTC and
// zoned values are converted to UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	return c.ApplyStats(in, &transformer.Stats{})
}

func (c Coerce) ApplyStats(in []records.Record, st *transformer.Stats) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	for _, r := range in {
		for field, typ := range c.Types {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			if s == "" {
				r[field] = nil
				continue
			}
			out, ok := coerceString(typ, s)
			if !ok {
				st.Nulled++
				r[field] = nil
				continue
			}
			r[field] = out
		}
	}
	return in
}

func coerceString(typ, s string) (any, bool) {
	switch typ {
	case "timestamp":
		return ParseTimestamp(s)
	case "decimal":
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, false
		}
		return d, true
	default:
		return s, true
	}
}

// Horizon clears timestamp values later than Max. A value beyond the horizon
// is treated as unset, not as an error; the row is retained. Unparseable
// strings are left for Coerce to handle.
type Horizon struct {
	Field string
	Max   time.Time
}

func (h Horizon) Apply(in []records.Record) []records.Record {
	return h.ApplyStats(in, &transformer.Stats{})
}

func (h Horizon) ApplyStats(in []records.Record, st *transformer.Stats) []records.Record {
	for _, r := range in {
		ts, ok := timestampOf(r, h.Field)
		if ok && ts.After(h.Max) {
			r[h.Field] = nil
			st.Nulled++
		}
	}
	return in
}
