// Package builtin contains the reusable record-cleaning transformers composed
// by the dataset cleaners.
//
// DeDup collapses duplicate records by a configured key and chooses a winner
// according to a policy:
//
//   - "keep-first": keep the earliest occurrence in the ordering
//   - "keep-last" : keep the latest occurrence in the ordering (default)
//
// The ordering is the input order, or, when OrderBy names a tie-break
// column, the input stably sorted by that column's timestamp ascending.
// Rows whose tie-break value is null or not a parseable timestamp sort
// before every valid timestamp and keep their relative input order, so
// under keep-last a valid most-recent record always wins.
//
// Keys are compared by strict equality of their raw string form; no case or
// whitespace folding is applied. A null key value is a key of its own.
package builtin

import (
	"slices"
	"strings"
	"time"

	"salesclean/pkg/records"
)

// DeDup policies.
const (
	KeepFirst = "keep-first"
	KeepLast  = "keep-last"
)

// DeDup implements a configurable, in-memory de-duplication policy.
type DeDup struct {
	// Keys are the field names that form the primary key, e.g. ["customer_id"].
	Keys []string

	// Policy selects the winner among duplicates: "keep-first" or
	// "keep-last" (the default).
	Policy string

	// OrderBy optionally names a timestamp column used to order rows
	// ascending before the policy is applied.
	OrderBy string
}

// Apply returns a new slice containing one winning record per key, in the
// order the winners appear in the (possibly sorted) input.
func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = KeepLast
	}

	ordered := in
	if d.OrderBy != "" {
		ordered = sortByTimestamp(in, d.OrderBy)
	}

	// key -> winning position in ordered
	winners := make(map[string]int, len(ordered))

	for i, r := range ordered {
		key := d.keyOf(r)
		if policy == KeepFirst {
			if _, exists := winners[key]; !exists {
				winners[key] = i
			}
			continue
		}
		winners[key] = i
	}

	indexes := make([]int, 0, len(winners))
	for _, idx := range winners {
		indexes = append(indexes, idx)
	}
	slices.Sort(indexes)

	out := make([]records.Record, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, ordered[idx])
	}
	return out
}

func (d DeDup) keyOf(r records.Record) string {
	var b strings.Builder
	for i, k := range d.Keys {
		if i > 0 {
			b.WriteByte('\x1f') // unit separator
		}
		if r.IsNull(k) {
			b.WriteByte('\x00')
			continue
		}
		b.WriteString(records.Format(r[k]))
	}
	return b.String()
}

// sortByTimestamp returns a stably sorted copy of in ordered by field.
// Null or unparseable values sort first.
func sortByTimestamp(in []records.Record, field string) []records.Record {
	type keyed struct {
		rec records.Record
		ts  time.Time
		ok  bool
	}
	tmp := make([]keyed, len(in))
	for i, r := range in {
		ts, ok := timestampOf(r, field)
		tmp[i] = keyed{rec: r, ts: ts, ok: ok}
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int {
		switch {
		case !a.ok && !b.ok:
			return 0
		case !a.ok:
			return -1
		case !b.ok:
			return 1
		}
		return a.ts.Compare(b.ts)
	})
	out := make([]records.Record, len(tmp))
	for i, k := range tmp {
		out[i] = k.rec
	}
	return out
}

// timestampOf reads field as a timestamp, accepting both coerced time.Time
// values and raw strings.
func timestampOf(r records.Record, field string) (time.Time, bool) {
	if r.IsNull(field) {
		return time.Time{}, false
	}
	switch v := r[field].(type) {
	case time.Time:
		return v, true
	case string:
		return ParseTimestamp(v)
	}
	return time.Time{}, false
}
