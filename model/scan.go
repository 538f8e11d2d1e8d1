package model

import (
	"iter"

	"github.com/pkg/errors"
)

// Candidate is a column whose 3x3 neighborhood must be evaluated
type Candidate struct {
	Col       int
	Neighbors int
	Alive     bool
}

// cursor is a forward-only read position into one row's ascending columns.
// A nil or empty row behaves as an exhausted cursor.
type cursor struct {
	cols []int
	pos  int
	err  error
}

// skipBelow moves the cursor past every column < col
func (c *cursor) skipBelow(col int) {
	for c.pos < len(c.cols) && c.cols[c.pos] < col {
		c.pos++
		if c.pos < len(c.cols) && c.cols[c.pos] <= c.cols[c.pos-1] {
			c.err = errors.Wrapf(ErrUnsortedRow, "column %d follows %d", c.cols[c.pos], c.cols[c.pos-1])
			c.pos = len(c.cols)
		}
	}
}

func (c *cursor) head() (int, bool) {
	if c.pos >= len(c.cols) {
		return 0, false
	}
	return c.cols[c.pos], true
}

// window counts live columns in [col-1, col+1] and reports whether col itself
// is live. The cursor must already sit at the first column >= col-1; at most
// three positions past it are read.
func (c *cursor) window(col int) (count int, self bool) {
	for i := c.pos; i < len(c.cols) && c.cols[i] <= col+1; i++ {
		count++
		if c.cols[i] == col {
			self = true
		}
	}
	return count, self
}

// RowScanner walks the candidate columns of one center row in ascending
// order using three parallel cursors over the rows above, at and below it.
//
// The candidates are the union of {c-1, c, c+1} over every live column c of
// the three rows. Each step picks the smallest candidate greater than the
// previous one from the cursor heads, so the scan costs time proportional to
// the live cells of the three rows and never searches a row.
type RowScanner struct {
	rows    [3]cursor // above, center, below
	col     int
	started bool
	done    bool
}

// NewRowScanner returns a scanner for the window (above, center, below).
// The slices are read but never modified.
func NewRowScanner(above, center, below []int) *RowScanner {
	return &RowScanner{
		rows: [3]cursor{{cols: above}, {cols: center}, {cols: below}},
	}
}

// Next returns the next candidate column, or false once the window is exhausted.
func (s *RowScanner) Next() (Candidate, bool) {
	if s.done {
		return Candidate{}, false
	}

	var (
		next  int
		found bool
	)
	for i := range s.rows {
		row := &s.rows[i]
		if s.started {
			// columns below the previous candidate cannot touch any later one
			row.skipBelow(s.col)
		}
		if h, ok := row.head(); ok && (!found || h < next) {
			next, found = h, true
		}
	}
	if !found || s.Err() != nil {
		s.done = true
		return Candidate{}, false
	}

	col := next - 1
	if s.started && col <= s.col {
		col = s.col + 1
	}

	cand := Candidate{Col: col}
	for i := range s.rows {
		row := &s.rows[i]
		row.skipBelow(col - 1)
		n, self := row.window(col)
		cand.Neighbors += n
		if i == 1 && self {
			cand.Alive = true
			cand.Neighbors--
		}
	}
	if s.Err() != nil {
		s.done = true
		return Candidate{}, false
	}

	s.col, s.started = col, true
	return cand, true
}

// All yields the remaining candidates lazily
func (s *RowScanner) All() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for {
			cand, ok := s.Next()
			if !ok || !yield(cand) {
				return
			}
		}
	}
}

// Err returns the first invariant violation seen by the scanner, if any
func (s *RowScanner) Err() error {
	for i := range s.rows {
		if s.rows[i].err != nil {
			return s.rows[i].err
		}
	}
	return nil
}
