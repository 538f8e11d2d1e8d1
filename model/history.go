package model

// historySize is how many recent generation hashes are kept
const historySize = 5

// History remembers the hashes of recent generations to detect still lifes
// and short-period oscillators.
type History struct {
	hashes []string
}

// Update adds the grid's hash and drops the oldest beyond historySize
func (h *History) Update(g *Grid) {
	h.hashes = append(h.hashes, g.Hash())
	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
}

// Stagnant reports whether g repeats one of the last three recorded
// generations. At least three generations must have been recorded.
func (h *History) Stagnant(g *Grid) bool {
	if len(h.hashes) < 3 {
		return false
	}

	current := g.Hash()
	for _, prev := range h.hashes[len(h.hashes)-3:] {
		if prev == current {
			return true
		}
	}
	return false
}

// Reset forgets every recorded generation
func (h *History) Reset() {
	h.hashes = nil
}
