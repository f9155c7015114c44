package pipeline

import (
	"sort"

	"github.com/rs/zerolog"

	"salesclean/internal/cleaner"
	"salesclean/internal/metrics"
)

// recordReport publishes per-stage row counts and recovered issues.
func recordReport(rep cleaner.Report) {
	for _, s := range rep.Stages {
		metrics.RecordRows(rep.Dataset, s.Name, "in", int64(s.RowsIn))
		metrics.RecordRows(rep.Dataset, s.Name, "out", int64(s.RowsOut))
		metrics.RecordRows(rep.Dataset, s.Name, "dropped", int64(s.Dropped()))
	}
	st := rep.Stats()
	metrics.RecordIssues(rep.Dataset, "nulled", int64(st.Nulled))
	metrics.RecordIssues(rep.Dataset, "filled", int64(st.Filled))
	metrics.RecordIssues(rep.Dataset, "missed", int64(st.Missed))
	metrics.RecordIssues(rep.Dataset, "rewritten", int64(st.Rewritten))
}

// logReport writes one line per stage, one debug line per rejection reason,
// the null and distinct counts observed before null resolution and a summary
// line.
func logReport(log zerolog.Logger, rep cleaner.Report, skipped int) {
	for _, s := range rep.Stages {
		log.Debug().
			Str("stage", s.Name).
			Int("rows_in", s.RowsIn).
			Int("rows_out", s.RowsOut).
			Int("dropped", s.Dropped()).
			Int("nulled", s.Stats.Nulled).
			Int("filled", s.Stats.Filled).
			Int("missed", s.Stats.Missed).
			Int("rewritten", s.Stats.Rewritten).
			Msg("stage")
	}

	for _, rj := range rep.Rejections {
		log.Debug().
			Str("stage", rj.Stage).
			Str("reason", rj.Reason).
			Int("rows", rj.Count).
			Msg("rows rejected")
	}

	if len(rep.NullsBefore) > 0 {
		log.Info().
			Dict("nulls", countsDict(rep.NullsBefore)).
			Dict("distinct", countsDict(rep.DistinctBefore)).
			Msg("null values")
	}

	st := rep.Stats()
	log.Info().
		Int("rows_in", rep.RowsIn).
		Int("rows_out", rep.RowsOut).
		Int("rows_dropped", rep.Dropped()).
		Int("rows_skipped", skipped).
		Int("rows_rejected", rep.Rejected()).
		Int("nulled", st.Nulled).
		Int("missed", st.Missed).
		Msg("dataset cleaned")
}

// countsDict renders per-column counts with columns in sorted order.
func countsDict(m map[string]int) *zerolog.Event {
	cols := make([]string, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	d := zerolog.Dict()
	for _, c := range cols {
		d = d.Int(c, m[c])
	}
	return d
}
