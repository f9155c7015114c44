package builtin

import (
	"salesclean/internal/transformer"
	"salesclean/pkg/records"
)

// Canonicalize replaces values of Field that exactly match a key of Table
// with the mapped canonical value. Unmapped values are left unchanged.
type Canonicalize struct {
	Field string
	Table map[string]string
}

func (c Canonicalize) Apply(in []records.Record) []records.Record {
	return c.ApplyStats(in, &transformer.Stats{})
}

func (c Canonicalize) ApplyStats(in []records.Record, st *transformer.Stats) []records.Record {
	for _, r := range in {
		s, ok := r.String(c.Field)
		if !ok {
			continue
		}
		if v, hit := c.Table[s]; hit && v != s {
			r[c.Field] = v
			st.Rewritten++
		}
	}
	return in
}

// Enrich derives Field from Table[From]. A lookup miss sets Field to null
// and is counted; the row is kept.
type Enrich struct {
	From  string
	Field string
	Table map[string]string
}

func (e Enrich) Apply(in []records.Record) []records.Record {
	return e.ApplyStats(in, &transformer.Stats{})
}

func (e Enrich) ApplyStats(in []records.Record, st *transformer.Stats) []records.Record {
	for _, r := range in {
		key, ok := r.String(e.From)
		if v, hit := e.Table[key]; ok && hit {
			r[e.Field] = v
			continue
		}
		r[e.Field] = nil
		st.Missed++
	}
	return in
}
