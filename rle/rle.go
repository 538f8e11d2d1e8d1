// Package rle reads and writes live cells in the run-length encoded pattern
// format used by most Life tools.
package rle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/model"
)

// maxLineLen is where encoded pattern lines are wrapped
const maxLineLen = 70

// ErrMalformedPattern is returned for input that is not valid RLE
var ErrMalformedPattern = errors.New("malformed RLE pattern")

var token = regexp.MustCompile(`(\d*)([bo$!])`)

// Decode reads an RLE pattern and returns its live cells. The first encoded
// row is row 0 and every row starts at column 0.
func Decode(r io.Reader) ([]model.Cell, error) {
	var (
		cells   []model.Cell
		row     int
		col     int
		scanner = bufio.NewScanner(r)
		lineNo  int
		pending string // run count whose tag is on a later line
	)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "x") {
			continue
		}
		line, pending = splitCount(pending + line)
		if line == "" {
			continue
		}

		// every byte of the line must belong to a token
		rest := token.ReplaceAllString(line, "")
		if rest = strings.Join(strings.Fields(rest), ""); rest != "" {
			return nil, errors.Wrapf(ErrMalformedPattern, "[Decode] line %d: unexpected %q", lineNo, rest)
		}

		for _, m := range token.FindAllStringSubmatch(line, -1) {
			run := 1
			if m[1] != "" {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, errors.Wrapf(ErrMalformedPattern, "[Decode] line %d: bad run %q", lineNo, m[1])
				}
				run = n
			}

			switch m[2] {
			case "!":
				return cells, nil
			case "o":
				for range run {
					cells = append(cells, model.Cell{Row: row, Col: col})
					col++
				}
			case "b":
				col += run
			case "$":
				row += run
				col = 0
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "[Decode] failed to read pattern")
	}
	if pending != "" {
		return nil, errors.Wrapf(ErrMalformedPattern, "[Decode] run %q has no tag", pending)
	}
	return cells, nil
}

// splitCount cuts the trailing digits off line
func splitCount(line string) (rest, count string) {
	i := strings.LastIndexFunc(line, func(r rune) bool { return r < '0' || r > '9' })
	return line[:i+1], line[i+1:]
}

// runWriter accumulates <count><tag> runs, wrapping lines at maxLineLen
type runWriter struct {
	sb      strings.Builder
	lineLen int
}

func (w *runWriter) push(run int, tag byte) {
	var s string
	switch run {
	case 0:
		return
	case 1:
		s = string(tag)
	default:
		s = strconv.Itoa(run) + string(tag)
	}
	if w.lineLen+len(s) > maxLineLen {
		w.sb.WriteByte('\n')
		w.lineLen = 0
	}
	w.lineLen += len(s)
	w.sb.WriteString(s)
}

// Encode writes g as an RLE pattern. The header carries the bounding box and
// coordinates are written relative to its top-left corner. name, when not
// empty, is emitted as a #N line.
func Encode(w io.Writer, g *model.Grid, name string) error {
	var (
		header strings.Builder
		body   runWriter
	)
	if name != "" {
		fmt.Fprintf(&header, "#N %s\n", name)
	}

	box, err := g.Bounds()
	if err != nil {
		// an empty pattern is still a valid file
		header.WriteString("x = 0, y = 0, rule = B3/S23\n")
		_, err = io.WriteString(w, header.String()+"!\n")
		return errors.Wrap(err, "[Encode] failed to write pattern")
	}
	fmt.Fprintf(&header, "x = %d, y = %d, rule = B3/S23\n", box.Width(), box.Height())

	var (
		lastRow = box.MinRow
		lastCol = box.MinCol - 1
		alive   = 0
	)
	for _, r := range g.RowsInRange(box.MinRow, box.MaxRow) {
		for _, c := range g.Row(r) {
			if r == lastRow && c == lastCol+1 {
				alive++
				lastCol = c
				continue
			}

			body.push(alive, 'o')
			dead := c - lastCol - 1
			if r != lastRow {
				body.push(r-lastRow, '$')
				dead = c - box.MinCol
			}
			body.push(dead, 'b')

			alive = 1
			lastRow, lastCol = r, c
		}
	}
	body.push(alive, 'o')
	body.sb.WriteByte('!')

	_, err = io.WriteString(w, header.String()+body.sb.String()+"\n")
	return errors.Wrap(err, "[Encode] failed to write pattern")
}
