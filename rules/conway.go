package rules

// next is indexed by [alive][neighbors] and holds the B3/S23 outcome.
var next = [2][9]bool{
	{false, false, false, true, false, false, false, false, false},
	{false, false, true, true, false, false, false, false, false},
}

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3

Neighbor counts outside [0, 8] cannot occur on a square lattice and are reported dead.
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	if neighbors < 0 || neighbors > 8 {
		return false
	}
	if alive {
		return next[1][neighbors]
	}
	return next[0][neighbors]
}
