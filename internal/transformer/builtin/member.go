package builtin

import (
	"salesclean/internal/keyset"
	"salesclean/pkg/records"
)

// MemberOf keeps only records whose Field value is in Keys. Null values are
// never members. Keys must come from the cleaned parent dataset.
type MemberOf struct {
	Field string
	Keys  *keyset.Set
}

func (m MemberOf) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		if v, ok := r.String(m.Field); ok && m.Keys.Contains(v) {
			out = append(out, r)
		}
	}
	return out
}
