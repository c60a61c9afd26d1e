package storage

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"analytics/internal/table"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// rows (aligned to columns) and return the number of rows written.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// Rows converts t into driver values: nil for absent cells and non-finite
// numbers, float64 for numbers and string for text.
func Rows(t *table.Table) [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, len(r))
		for j, v := range r {
			if f, ok := v.Float(); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				continue
			}
			row[j] = v.Any()
		}
		out[i] = row
	}
	return out
}

// LoadBatches splits rows into batches of batchSize and calls copyFn for
// each. It returns the total reported by copyFn and the first error.
// Progress is logged at debug level after every successful batch.
func LoadBatches(
	ctx context.Context,
	logger *slog.Logger,
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
			return total, fmt.Errorf("batch %d (rows %d-%d): %w", batches+1, lo, hi-1, err)
		}
		batches++
		logger.Debug("batch copied",
			slog.Int("batch", batches),
			slog.Int64("inserted", n),
			slog.Int64("total_inserted", total),
			slog.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
		)
	}
	return total, nil
}
