// Package csvfile registers the "csv" sink: each cleaned dataset is written
// to its layout output path as UTF-8 CSV, replacing the previous file
// atomically.
package csvfile

import (
	"context"
	"io"

	pcsv "salesclean/internal/parser/csv"
	"salesclean/internal/storage"
	"salesclean/pkg/records"
)

// Sink writes datasets as CSV files.
type Sink struct {
	cfg storage.Config
	w   pcsv.Writer
}

// New returns a Sink writing under cfg.Layout.
func New(cfg storage.Config) *Sink { return &Sink{cfg: cfg} }

func (s *Sink) Write(ctx context.Context, ds records.Dataset) (int64, error) {
	dst := s.cfg.Layout.Sink(ds.Name)
	err := dst.WriteAtomic(ctx, func(w io.Writer) error {
		return s.w.Write(w, ds)
	})
	if err != nil {
		return 0, err
	}
	log := s.cfg.Log()
	log.Debug().Str("dataset", ds.Name).Str("path", dst.Path()).Int("rows", len(ds.Rows)).Msg("csv sink: written")
	return int64(len(ds.Rows)), nil
}

func (s *Sink) Close() error { return nil }

func init() {
	storage.Register("csv", func(_ context.Context, cfg storage.Config) (storage.Sink, error) {
		return New(cfg), nil
	})
}
