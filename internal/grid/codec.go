// internal/grid/codec.go
//
// Text format for grid layouts, and rendering of filled grids.
//
// Format: a header line "width,height", then the cells in row-major order
// using '.' for open and '#' for blocked. Whitespace and newlines between
// cells are ignored, so rows may be laid out one per line for readability:
//
//	5,5
//	.....
//	..#..
//	.....
//	..#..
//	.....

package grid

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	openChar    = '.'
	blockedChar = '#'
	blockGlyph  = '█' // rendered for blocked cells
)

// Parse decodes the text format above and builds the grid.
func Parse(text string) (*Grid, error) {
	header, body, found := strings.Cut(text, "\n")
	if !found {
		return nil, fmt.Errorf("%w: missing header line", ErrInvalidGrid)
	}
	ws, hs, found := strings.Cut(header, ",")
	if !found {
		return nil, fmt.Errorf("%w: header must be \"width,height\"", ErrInvalidGrid)
	}
	width, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return nil, fmt.Errorf("%w: bad width %q", ErrInvalidGrid, ws)
	}
	height, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return nil, fmt.Errorf("%w: bad height %q", ErrInvalidGrid, hs)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, width, height)
	}

	var states []bool
	for _, ch := range body {
		switch ch {
		case openChar:
			states = append(states, true)
		case blockedChar:
			states = append(states, false)
		}
	}
	if len(states) != width*height {
		return nil, fmt.Errorf("%w: got %d cells, want %d", ErrInvalidGrid, len(states), width*height)
	}

	open := make([][]bool, height)
	for r := range open {
		open[r] = states[r*width : (r+1)*width]
	}
	return Build(open)
}

// Render draws the grid: blocked cells as a block glyph, open cells as the
// letter reported by letterAt, or a space when unset.
func (g *Grid) Render(letterAt func(Coord) (rune, bool)) string {
	var b strings.Builder
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			switch {
			case !g.open[r][c]:
				b.WriteRune(blockGlyph)
			default:
				if ch, ok := letterAt(Coord{Row: r, Col: c}); ok {
					b.WriteRune(ch)
				} else {
					b.WriteByte(' ')
				}
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
