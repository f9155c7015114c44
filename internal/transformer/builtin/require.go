package builtin

import "salesclean/pkg/records"

// Require removes any record with a null value in one of the specified fields.
type Require struct {
	Fields []string
}

// Apply returns a filtered slice containing only records that have all
// required fields present and non-null. It filters in place.
func (r Require) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		ok := true
		for _, f := range r.Fields {
			if rec.IsNull(f) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}
