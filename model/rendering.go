package model

import (
	"bufio"
	"io"
	"os/exec"

	"github.com/pkg/errors"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	macosClearCmd = "clear"
)

// Viewport is the rectangle of the plane shown by a renderer
type Viewport struct {
	Top, Left     int
	Width, Height int
}

// Pan moves the viewport by the given number of rows and columns
func (v Viewport) Pan(rows, cols int) Viewport {
	v.Top += rows
	v.Left += cols
	return v
}

// TerminalRenderer implements basic terminal rendering
type TerminalRenderer struct {
	Out  io.Writer
	View Viewport
	// LineEnd terminates each line, "\n" when empty. A terminal in raw mode
	// needs "\r\n".
	LineEnd string
}

// Display renders the part of the grid inside the viewport, followed by the
// footer line when it is not empty.
func (r *TerminalRenderer) Display(g *Grid, footer string) error {
	var (
		v    = r.View
		w    = bufio.NewWriter(r.Out)
		live = g.Window(v.Top, v.Left, v.Top+v.Height, v.Left+v.Width)
		next = 0
		eol  = r.LineEnd
	)
	if eol == "" {
		eol = "\n"
	}
	for row := v.Top; row < v.Top+v.Height; row++ {
		for col := v.Left; col < v.Left+v.Width; col++ {
			if next < len(live) && live[next] == (Cell{Row: row, Col: col}) {
				w.WriteString(gridPosBlock)
				next++
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteString(eol)
	}
	if footer != "" {
		w.WriteString(footer)
		w.WriteString(eol)
	}
	return errors.Wrap(w.Flush(), "[Display] failed to flush frame")
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = r.Out
	return errors.Wrap(cmd.Run(), "[Clear] failed to clear terminal")
}
