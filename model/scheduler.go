package model

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Band is a contiguous, inclusive range of rows stepped by one worker
type Band struct {
	Lo, Hi int
}

// Rows returns the number of rows in the band. A band covering every int
// reports zero.
func (b Band) Rows() uint64 { return uint64(b.Hi) - uint64(b.Lo) + 1 }

// ResolveWorkers maps a configured worker count to the number of bands.
// Zero or a negative count selects runtime.NumCPU; anything below one after
// detection falls back to sequential stepping.
func ResolveWorkers(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return max(n, 1)
}

// Partition splits [lo, hi] into at most workers contiguous bands whose row
// counts differ by at most one. Earlier bands take the remainder, so the
// result depends only on its arguments.
func Partition(lo, hi, workers int) []Band {
	if hi < lo {
		return nil
	}
	// row counts are unsigned: [lo, hi] may hold more than maxInt rows
	var (
		last  = uint64(hi) - uint64(lo) // rows in the range, minus one
		count = uint64(max(workers, 1))
	)
	if last < count-1 {
		count = last + 1
	}
	size, extra := last/count, last%count+1
	if extra == count {
		size, extra = size+1, 0
	}

	var (
		bands = make([]Band, 0, count)
		start = uint64(lo)
	)
	for i := range count {
		rows := size
		if i < extra {
			rows++
		}
		bands = append(bands, Band{Lo: int(start), Hi: int(start + rows - 1)})
		start += rows
	}
	return bands
}

// Advance computes the generation that follows g.
//
// The active row range, widened by one row on each side, is split into
// bands; each band is stepped against the shared read-only g and the
// disjoint results are merged. workers <= 0 picks a count from the hardware,
// and a resolved count of one steps inline with no goroutines. g is never
// modified, and on error no partial generation is returned.
func Advance(g *Grid, workers int) (*Grid, error) {
	if g.IsEmpty() {
		return EmptyGrid(), nil
	}

	lo, err := g.MinRow()
	if err != nil {
		return nil, err
	}
	hi, err := g.MaxRow()
	if err != nil {
		return nil, err
	}

	bands := Partition(lo-1, hi+1, ResolveWorkers(workers))
	if len(bands) == 1 {
		rows, err := runBand(g, bands[0])
		if err != nil {
			return nil, err
		}
		return assemble(rows), nil
	}

	var (
		eg      errgroup.Group
		results = make([]map[int][]int, len(bands))
	)
	for i, band := range bands {
		eg.Go(func() error {
			rows, err := runBand(g, band)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return merge(bands, results)
}

// runBand steps one band and converts any failure, including a panic, into
// a WorkerError.
func runBand(g *Grid, band Band) (rows map[int][]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, &WorkerError{Band: band, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	rows, err = stepBand(g, band)
	if err != nil {
		return nil, &WorkerError{Band: band, Cause: err}
	}
	return rows, nil
}

// merge joins per-band results into the next generation. Each band only
// writes rows inside its own range, so a row seen twice or outside its band
// is an internal error.
func merge(bands []Band, results []map[int][]int) (*Grid, error) {
	size := 0
	for _, rows := range results {
		size += len(rows)
	}

	merged := make(map[int][]int, size)
	for i, rows := range results {
		for r, cols := range rows {
			if r < bands[i].Lo || r > bands[i].Hi {
				return nil, &WorkerError{Band: bands[i], Cause: errors.Errorf("row %d written outside band", r)}
			}
			if _, dup := merged[r]; dup {
				return nil, &WorkerError{Band: bands[i], Cause: errors.Errorf("row %d written twice", r)}
			}
			merged[r] = cols
		}
	}
	return assemble(merged), nil
}
