package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations
// insert the rows (aligned to columns) and return the number inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize and calls copyFn for
// each. It returns the total reported by copyFn and the first error. Progress
// is logged at debug level on every successful flush.
func LoadBatches(
	ctx context.Context,
	log zerolog.Logger,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int
		start   = time.Now()
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Error().Err(err).Int64("inserted", n).Int64("total", total).Msg("loader: copy failed")
			return total, err
		}
		batches++
		log.Debug().
			Int("batch", batches).
			Int64("inserted", n).
			Int64("total_inserted", total).
			Dur("elapsed", time.Since(start)).
			Msg("loader: batch flushed")
	}
	return total, nil
}
