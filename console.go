package main

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/sheikhrachel/go-gol/model"
)

// keyCommand is a key press understood by the console
type keyCommand int

const (
	keyExit keyCommand = iota
	keyUp
	keyDown
	keyLeft
	keyRight
)

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b

	// each cell is drawn two characters wide
	cellWidth = 2
	// the bottom line holds the footer
	footerLines = 1

	fallbackCols = 80
	fallbackRows = 24
)

// readKeys decodes key presses from r until it fails, then closes keys.
// Arrow keys arrive as the escape sequences ESC [ A..D.
func readKeys(r io.Reader, keys chan<- keyCommand) {
	defer close(keys)
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		switch b {
		case keyCtrlC, 'q':
			keys <- keyExit
		case keyEscape:
			if next, err := br.ReadByte(); err != nil || next != '[' {
				if err != nil {
					return
				}
				continue
			}
			arrow, err := br.ReadByte()
			if err != nil {
				return
			}
			switch arrow {
			case 'A':
				keys <- keyUp
			case 'B':
				keys <- keyDown
			case 'C':
				keys <- keyRight
			case 'D':
				keys <- keyLeft
			}
		}
	}
}

// applyKeys pans view by every key press waiting in keys. It reports false
// once an exit key is read.
func applyKeys(keys <-chan keyCommand, view *model.Viewport) bool {
	for {
		select {
		case k, ok := <-keys:
			if !ok {
				return true
			}
			switch k {
			case keyExit:
				return false
			case keyUp:
				*view = view.Pan(-1, 0)
			case keyDown:
				*view = view.Pan(1, 0)
			case keyLeft:
				*view = view.Pan(0, -1)
			case keyRight:
				*view = view.Pan(0, 1)
			}
		default:
			return true
		}
	}
}

// fitTerminal returns the number of cells that fit a cols x rows terminal
func fitTerminal(cols, rows int) (width, height int) {
	return max(cols/cellWidth, 1), max(rows-footerLines, 1)
}

// terminalSize returns the viewport that fits out, or a standard 80x24
// terminal when its size is unknown.
func terminalSize(out *os.File) (width, height int) {
	cols, rows, err := term.GetSize(int(out.Fd()))
	if err != nil {
		cols, rows = fallbackCols, fallbackRows
	}
	return fitTerminal(cols, rows)
}

// console holds stdin in raw mode and feeds its key presses to the run
type console struct {
	fd    int
	state *term.State
	keys  chan keyCommand
}

// openConsole switches stdin to raw mode and starts reading key presses.
// When stdin is not a terminal, no keys are read and Ctrl+C still arrives as
// a signal.
func openConsole(in *os.File) (*console, error) {
	c := &console{fd: int(in.Fd())}
	if !term.IsTerminal(c.fd) {
		return c, nil
	}
	state, err := term.MakeRaw(c.fd)
	if err != nil {
		return nil, errors.Wrap(err, "[openConsole] failed to enter raw mode")
	}
	c.state = state
	c.keys = make(chan keyCommand, 16)
	go readKeys(in, c.keys)
	return c, nil
}

// Keys returns the key presses read from stdin, nil when stdin is not a
// terminal.
func (c *console) Keys() <-chan keyCommand { return c.keys }

// Close restores the terminal mode saved by openConsole
func (c *console) Close() error {
	if c.state == nil {
		return nil
	}
	return errors.Wrap(term.Restore(c.fd, c.state), "[Close] failed to restore terminal")
}
