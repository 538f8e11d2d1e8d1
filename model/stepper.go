package model

import (
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/rules"
)

// stepBand computes the next generation's rows in [band.Lo, band.Hi].
//
// Only rows whose window (r-1, r, r+1) holds a live cell are scanned; rows
// lo-1 and hi+1 are read as halo but never written. The returned mapping
// contains only non-empty rows, each freshly allocated at its exact length.
func stepBand(g *Grid, band Band) (map[int][]int, error) {
	var (
		next    = make(map[int][]int)
		scratch = columns.Get()
		last    int
		stepped bool
	)
	defer columns.Put(scratch)

	for _, active := range g.RowsInRange(band.Lo-1, band.Hi+1) {
		for r := active - 1; r <= active+1; r++ {
			if r < band.Lo || r > band.Hi || (stepped && r <= last) {
				continue
			}
			last, stepped = r, true

			cols, err := stepRow(g, r, scratch)
			if err != nil {
				return nil, errors.Wrapf(err, "[stepBand] row %d", r)
			}
			if len(cols) == 0 {
				continue
			}
			if !inBounds(r, cols) {
				return nil, errors.Wrapf(ErrOutOfRange, "[stepBand] row %d spans columns [%d, %d]", r, cols[0], cols[len(cols)-1])
			}
			next[r] = cols
		}
	}
	return next, nil
}

// stepRow applies the rule to every candidate of row r. scratch is used as
// the working buffer; the result is a copy.
func stepRow(g *Grid, r int, scratch *[]int) ([]int, error) {
	buf := (*scratch)[:0]
	scan := NewRowScanner(g.Row(r-1), g.Row(r), g.Row(r+1))
	for cand := range scan.All() {
		if rules.ApplyConwayRules(cand.Neighbors, cand.Alive) {
			buf = append(buf, cand.Col)
		}
	}
	*scratch = buf

	if err := scan.Err(); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, nil
	}
	return append(make([]int, 0, len(buf)), buf...), nil
}
