package canny

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// minRowsPerBand keeps bands large enough that goroutine overhead stays
// below the work done per band.
const minRowsPerBand = 16

// forRows splits [0, rows) into contiguous bands and runs fn on each band,
// at most workers at a time. Bands never overlap, so fn may write to any
// cell of its own rows without locking.
func forRows(ctx context.Context, workers, rows int, fn func(start, end int)) error {
	if rows <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	bands := workers
	if maxBands := (rows + minRowsPerBand - 1) / minRowsPerBand; bands > maxBands {
		bands = maxBands
	}
	if bands <= 1 {
		fn(0, rows)
		return ctx.Err()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	step := (rows + bands - 1) / bands
	for start := 0; start < rows; start += step {
		end := min(start+step, rows)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(start, end)
			return nil
		})
	}
	return g.Wait()
}
