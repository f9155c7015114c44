package builtin

import (
	"salesclean/internal/transformer"
	"salesclean/pkg/records"
)

// FillConstant replaces nulls in Fields with Value. It is used where absence
// is a legitimate class of its own, e.g. an "unknown" marketing channel.
type FillConstant struct {
	Fields []string
	Value  string
}

func (f FillConstant) Apply(in []records.Record) []records.Record {
	return f.ApplyStats(in, &transformer.Stats{})
}

func (f FillConstant) ApplyStats(in []records.Record, st *transformer.Stats) []records.Record {
	for _, r := range in {
		for _, field := range f.Fields {
			if r.IsNull(field) {
				r[field] = f.Value
				st.Filled++
			}
		}
	}
	return in
}

// FillFromLookup fills a null Field with Table[From]. When the lookup
// misses, the field stays null and the miss is counted; the row is kept.
type FillFromLookup struct {
	Field string
	From  string
	Table map[string]string
}

func (f FillFromLookup) Apply(in []records.Record) []records.Record {
	return f.ApplyStats(in, &transformer.Stats{})
}

func (f FillFromLookup) ApplyStats(in []records.Record, st *transformer.Stats) []records.Record {
	for _, r := range in {
		if !r.IsNull(f.Field) {
			continue
		}
		key, ok := r.String(f.From)
		if !ok {
			st.Missed++
			continue
		}
		if v, hit := f.Table[key]; hit {
			r[f.Field] = v
			st.Filled++
		} else {
			r[f.Field] = nil
			st.Missed++
		}
	}
	return in
}

// Override sets Field to Table[Key] for every record whose Key is in Table,
// regardless of the current value. It targets key values, never positions.
type Override struct {
	Key   string
	Field string
	Table map[string]string
}

func (o Override) Apply(in []records.Record) []records.Record {
	return o.ApplyStats(in, &transformer.Stats{})
}

func (o Override) ApplyStats(in []records.Record, st *transformer.Stats) []records.Record {
	for _, r := range in {
		key, ok := r.String(o.Key)
		if !ok {
			continue
		}
		v, hit := o.Table[key]
		if !hit {
			continue
		}
		cur, had := r.String(o.Field)
		switch {
		case !had:
			st.Filled++
		case cur != v:
			st.Rewritten++
		}
		r[o.Field] = v
	}
	return in
}

// PatchRule assigns Set values to records whose Key column equals Value.
// With OnlyNull, existing non-null values are kept.
type PatchRule struct {
	Key      string
	Value    string
	Set      map[string]string
	OnlyNull bool
}

// Patch applies key-addressed point fixes.
type Patch struct {
	Rules []PatchRule
}

func (p Patch) Apply(in []records.Record) []records.Record {
	return p.ApplyStats(in, &transformer.Stats{})
}

func (p Patch) ApplyStats(in []records.Record, st *transformer.Stats) []records.Record {
	for _, r := range in {
		for _, rule := range p.Rules {
			if v, ok := r.String(rule.Key); !ok || v != rule.Value {
				continue
			}
			for field, val := range rule.Set {
				cur, had := r.String(field)
				switch {
				case !had:
					st.Filled++
				case rule.OnlyNull || cur == val:
					continue
				default:
					st.Rewritten++
				}
				r[field] = val
			}
		}
	}
	return in
}
