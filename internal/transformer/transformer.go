// Package transformer defines the batch transformation contract used by the
// dataset cleaners and a staged runner that reports row counts per stage.
//
// A stage always consumes the complete output of the previous stage; there is
// no streaming or partial hand-off between stages.
package transformer

import "salesclean/pkg/records"

// Transformer rewrites a batch of records. Implementations may filter in
// place (reslicing the input) or mutate records, and return the survivors.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Stats carries recovered data-quality events observed by a stage. Rows that
// are dropped are derived from the row counts and are not counted here.
type Stats struct {
	// Nulled counts cells set to null by coercion failure or a range policy.
	Nulled int
	// Filled counts null cells replaced by a constant or lookup value.
	Filled int
	// Missed counts lookups that found no entry; the field is left as is.
	Missed int
	// Rewritten counts non-null cells replaced by an override or mapping.
	Rewritten int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Nulled += o.Nulled
	s.Filled += o.Filled
	s.Missed += o.Missed
	s.Rewritten += o.Rewritten
}

// Auditor is implemented by transformers that can report Stats. The staged
// runner prefers ApplyStats over Apply when available.
type Auditor interface {
	Transformer
	ApplyStats(in []records.Record, st *Stats) []records.Record
}

// Stage names a transformer so its effect can be reported.
type Stage struct {
	Name string
	T    Transformer
}

// StageReport summarizes one executed stage.
type StageReport struct {
	Name    string
	RowsIn  int
	RowsOut int
	Stats   Stats
}

// Dropped is the number of rows removed by the stage.
func (r StageReport) Dropped() int { return r.RowsIn - r.RowsOut }

// Stages is an ordered, named pipeline.
type Stages []Stage

// Run executes each stage over the full output of the previous one and
// returns the surviving records with one report per stage.
func (s Stages) Run(in []records.Record) ([]records.Record, []StageReport) {
	out := in
	reports := make([]StageReport, 0, len(s))
	for _, st := range s {
		rep := StageReport{Name: st.Name, RowsIn: len(out)}
		if a, ok := st.T.(Auditor); ok {
			out = a.ApplyStats(out, &rep.Stats)
		} else {
			out = st.T.Apply(out)
		}
		rep.RowsOut = len(out)
		reports = append(reports, rep)
	}
	return out, reports
}

// Func adapts a plain function to the Transformer interface.
type Func func([]records.Record) []records.Record

func (f Func) Apply(in []records.Record) []records.Record { return f(in) }
