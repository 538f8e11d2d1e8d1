package model

import (
	"math/rand"

	"github.com/pkg/errors"
)

// FillKind selects how Fill populates its box
type FillKind string

const (
	FillRandom      FillKind = "random"
	FillAlternating FillKind = "alternating"
	FillAll         FillKind = "all"
	FillEmpty       FillKind = "empty"
)

// ParseFillKind validates a fill name
func ParseFillKind(s string) (FillKind, error) {
	switch k := FillKind(s); k {
	case FillRandom, FillAlternating, FillAll, FillEmpty:
		return k, nil
	}
	return "", errors.Errorf("unknown fill kind %q", s)
}

// Fill returns the live cells of a width x height box anchored at the origin.
// density only applies to FillRandom.
func Fill(width, height int, kind FillKind, density float64, rng *rand.Rand) []Cell {
	var cells []Cell
	for row := range height {
		for col := range width {
			var alive bool
			switch kind {
			case FillRandom:
				alive = rng.Float64() < density
			case FillAlternating:
				alive = (row+col)%2 == 0
			case FillAll:
				alive = true
			}
			if alive {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}
	return cells
}

func offset(pattern []Cell, row, col int) []Cell {
	cells := make([]Cell, len(pattern))
	for i, c := range pattern {
		cells[i] = Cell{Row: c.Row + row, Col: c.Col + col}
	}
	return cells
}

// Glider returns a glider whose bounding box starts at (row, col).
// It travels one row down and one column right every four generations.
func Glider(row, col int) []Cell {
	return offset([]Cell{
		{0, 1},
		{1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}, row, col)
}

// Blinker returns a horizontal period-2 oscillator starting at (row, col)
func Blinker(row, col int) []Cell {
	return offset([]Cell{{0, 0}, {0, 1}, {0, 2}}, row, col)
}

// Block returns a 2x2 still life with its top-left cell at (row, col)
func Block(row, col int) []Cell {
	return offset([]Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, row, col)
}
