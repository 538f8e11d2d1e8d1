package model

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"slices"
	"sort"

	"github.com/pkg/errors"
)

// Cell is a live cell coordinate. Rows grow downwards, columns to the right.
type Cell struct {
	Row int
	Col int
}

// Rect is an inclusive bounding box of live cells
type Rect struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Width returns the number of columns covered by the box
func (r Rect) Width() int { return r.MaxCol - r.MinCol + 1 }

// Height returns the number of rows covered by the box
func (r Rect) Height() int { return r.MaxRow - r.MinRow + 1 }

// Grid is one generation of live cells on an unbounded plane.
//
// Cells are indexed by row; each row holds its live columns in strictly
// ascending order and only non-empty rows are stored. A Grid is read-only
// once constructed, which is what lets Advance share it between workers
// without locking.
type Grid struct {
	rows       map[int][]int
	keys       []int // non-empty row indices, ascending
	population int
}

// EmptyGrid returns a grid with no live cells
func EmptyGrid() *Grid {
	return &Grid{rows: map[int][]int{}}
}

// NewGrid builds a grid from an arbitrary set of live cells.
// Duplicates are dropped and each row is sorted; this is the only place a
// sorting cost is paid.
func NewGrid(cells []Cell) (*Grid, error) {
	rows := make(map[int][]int)
	for _, c := range cells {
		rows[c.Row] = append(rows[c.Row], c.Col)
	}
	for r, cols := range rows {
		slices.Sort(cols)
		rows[r] = slices.Clip(slices.Compact(cols))
	}

	g := assemble(rows)
	if err := g.validate(); err != nil {
		return nil, errors.Wrapf(err, "[NewGrid] failed to build grid from %d cells", len(cells))
	}
	return g, nil
}

// NewGridFromRows builds a grid from rows that are already sorted.
// Empty rows are dropped; rows that are not strictly ascending are rejected
// with ErrMalformedInput. The column slices are retained, not copied.
func NewGridFromRows(rows map[int][]int) (*Grid, error) {
	kept := make(map[int][]int, len(rows))
	for r, cols := range rows {
		if len(cols) > 0 {
			kept[r] = cols
		}
	}

	g := assemble(kept)
	if err := g.validate(); err != nil {
		return nil, errors.Wrap(err, "[NewGridFromRows] rejected rows")
	}
	return g, nil
}

// assemble indexes rows without checking them
func assemble(rows map[int][]int) *Grid {
	g := &Grid{
		rows: rows,
		keys: make([]int, 0, len(rows)),
	}
	for r, cols := range rows {
		g.keys = append(g.keys, r)
		g.population += len(cols)
	}
	slices.Sort(g.keys)
	return g
}

func (g *Grid) validate() error {
	for _, r := range g.keys {
		cols := g.rows[r]
		if len(cols) == 0 {
			return errors.Wrapf(ErrMalformedInput, "row %d is empty", r)
		}
		for i := 1; i < len(cols); i++ {
			if cols[i] <= cols[i-1] {
				return errors.Wrapf(ErrMalformedInput, "row %d: column %d follows %d", r, cols[i], cols[i-1])
			}
		}
		if !inBounds(r, cols) {
			return errors.Wrapf(ErrMalformedInput, "row %d spans columns [%d, %d], outside [%d, %d]",
				r, cols[0], cols[len(cols)-1], MinCoord, MaxCoord)
		}
	}
	return nil
}

// inBounds reports whether row r and its ascending columns lie inside
// [MinCoord, MaxCoord].
func inBounds(r int, cols []int) bool {
	return r >= MinCoord && r <= MaxCoord && cols[0] >= MinCoord && cols[len(cols)-1] <= MaxCoord
}

// RowsInRange returns the non-empty row indices r with lo <= r <= hi, ascending.
func (g *Grid) RowsInRange(lo, hi int) []int {
	if lo > hi {
		return nil
	}
	start := sort.SearchInts(g.keys, lo)
	end := sort.SearchInts(g.keys, hi+1)
	if hi == maxInt {
		end = len(g.keys)
	}
	return g.keys[start:end:end]
}

// Row returns the live columns of row r, ascending. The slice is shared with
// the grid and must not be modified. Absent rows yield nil.
func (g *Grid) Row(r int) []int {
	return g.rows[r]
}

// MinRow returns the smallest non-empty row index
func (g *Grid) MinRow() (int, error) {
	if len(g.keys) == 0 {
		return 0, errors.Wrap(ErrEmptyGrid, "[MinRow]")
	}
	return g.keys[0], nil
}

// MaxRow returns the largest non-empty row index
func (g *Grid) MaxRow() (int, error) {
	if len(g.keys) == 0 {
		return 0, errors.Wrap(ErrEmptyGrid, "[MaxRow]")
	}
	return g.keys[len(g.keys)-1], nil
}

// Population returns the total number of living cells
func (g *Grid) Population() int {
	return g.population
}

// IsEmpty reports whether the grid has no live cells
func (g *Grid) IsEmpty() bool {
	return g.population == 0
}

// Cells returns every live cell in ascending (row, column) order
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.population)
	for _, r := range g.keys {
		for _, c := range g.rows[r] {
			cells = append(cells, Cell{Row: r, Col: c})
		}
	}
	return cells
}

// Window returns the live cells with top <= row < bottom and
// left <= col < right, in ascending (row, column) order.
func (g *Grid) Window(top, left, bottom, right int) []Cell {
	var cells []Cell
	if bottom <= top {
		return cells
	}
	for _, r := range g.RowsInRange(top, bottom-1) {
		cols := g.rows[r]
		start := sort.SearchInts(cols, left)
		for _, c := range cols[start:] {
			if c >= right {
				break
			}
			cells = append(cells, Cell{Row: r, Col: c})
		}
	}
	return cells
}

// Bounds returns the bounding box of the live cells
func (g *Grid) Bounds() (Rect, error) {
	if len(g.keys) == 0 {
		return Rect{}, errors.Wrap(ErrEmptyGrid, "[Bounds]")
	}
	box := Rect{
		MinRow: g.keys[0],
		MaxRow: g.keys[len(g.keys)-1],
		MinCol: g.rows[g.keys[0]][0],
		MaxCol: g.rows[g.keys[0]][0],
	}
	for _, r := range g.keys {
		cols := g.rows[r]
		box.MinCol = min(box.MinCol, cols[0])
		box.MaxCol = max(box.MaxCol, cols[len(cols)-1])
	}
	return box, nil
}

// Equal reports whether both grids hold exactly the same live cells
func (g *Grid) Equal(other *Grid) bool {
	if g.population != other.population || !slices.Equal(g.keys, other.keys) {
		return false
	}
	for _, r := range g.keys {
		if !slices.Equal(g.rows[r], other.rows[r]) {
			return false
		}
	}
	return true
}

// Hash returns an MD5 digest of the canonical cell enumeration
func (g *Grid) Hash() string {
	var (
		h   = md5.New()
		buf [8]byte
	)
	for _, r := range g.keys {
		// frame each row by index and length
		binary.LittleEndian.PutUint64(buf[:], uint64(r))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(len(g.rows[r])))
		h.Write(buf[:])
		for _, c := range g.rows[r] {
			binary.LittleEndian.PutUint64(buf[:], uint64(c))
			h.Write(buf[:])
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

const maxInt = int(^uint(0) >> 1)

// Coordinates of live cells must lie in [MinCoord, MaxCoord]. Stepping reads
// two rows and columns past the live cells, which must still fit in an int.
const (
	MinCoord = -maxInt + 1
	MaxCoord = maxInt - 2
)
