// internal/grid/grid.go
//
// Grid model for the crossword filler.
// Responsibilities:
//   - Build slots (maximal runs of ≥2 open cells, across and down) from a
//     2D layout of open/blocked cells.
//   - Precompute crossings: shared cells between one across- and one
//     down-slot, with the shared index in each slot's coordinate frame.
//   - Reject layouts with nothing to solve (ErrInvalidGrid).
//
// The grid and its slots/crossings are built once and never mutated; the
// solver keeps its own slot→word assignment and never writes back here.

package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid is returned for empty, non-rectangular, or slotless layouts.
var ErrInvalidGrid = errors.New("invalid grid")

// Direction of a slot.
type Direction int

const (
	Across Direction = iota
	Down
)

// String returns "across" or "down".
func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "across"
}

// Coord is a cell position, zero-based, row-major.
type Coord struct {
	Row, Col int
}

// Slot is a maximal run of ≥2 open cells in one direction.
// ID is the slot's index into Grid.Slots.
type Slot struct {
	ID    int
	Dir   Direction
	Cells []Coord
}

// Len returns the number of cells (the required word length).
func (s Slot) Len() int { return len(s.Cells) }

// Crossing records the single cell shared by an across-slot A and a
// down-slot B: A.Cells[IndexA] == B.Cells[IndexB].
type Crossing struct {
	A, B           int
	IndexA, IndexB int
}

// Grid is the immutable layout: cell states plus derived slots and crossings.
type Grid struct {
	Width, Height int
	Slots         []Slot
	Crossings     []Crossing

	open   [][]bool
	bySlot [][]Crossing // crossings touching each slot, indexed by slot ID
}

// Build derives slots and crossings from a 2D array of cell states
// (true = open, false = blocked). Rows must all have the same width.
func Build(open [][]bool) (*Grid, error) {
	if len(open) == 0 || len(open[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidGrid)
	}
	width := len(open[0])
	for r, row := range open {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, r, len(row), width)
		}
	}

	g := &Grid{Width: width, Height: len(open), open: open}

	// Across: scan each row left to right.
	for r := range open {
		run := []Coord{}
		for c := 0; c <= width; c++ {
			if c < width && open[r][c] {
				run = append(run, Coord{Row: r, Col: c})
				continue
			}
			g.addSlot(Across, run)
			run = []Coord{}
		}
	}
	// Down: scan each column top to bottom.
	for c := 0; c < width; c++ {
		run := []Coord{}
		for r := 0; r <= g.Height; r++ {
			if r < g.Height && open[r][c] {
				run = append(run, Coord{Row: r, Col: c})
				continue
			}
			g.addSlot(Down, run)
			run = []Coord{}
		}
	}

	if len(g.Slots) == 0 {
		return nil, fmt.Errorf("%w: no slots of length >= 2", ErrInvalidGrid)
	}

	g.buildCrossings()
	return g, nil
}

// addSlot records a finished run if it is long enough to be a slot.
func (g *Grid) addSlot(dir Direction, run []Coord) {
	if len(run) < 2 {
		return
	}
	cells := make([]Coord, len(run))
	copy(cells, run)
	g.Slots = append(g.Slots, Slot{ID: len(g.Slots), Dir: dir, Cells: cells})
}

// buildCrossings pairs every across-slot with every down-slot that shares a
// cell. An across/down pair can share at most one cell, so the first match
// per pair is the crossing.
func (g *Grid) buildCrossings() {
	// Index down-slot cells for O(1) overlap checks.
	type slotPos struct {
		slot, idx int
	}
	downAt := make(map[Coord]slotPos)
	for _, s := range g.Slots {
		if s.Dir != Down {
			continue
		}
		for i, c := range s.Cells {
			downAt[c] = slotPos{slot: s.ID, idx: i}
		}
	}

	g.bySlot = make([][]Crossing, len(g.Slots))
	for _, s := range g.Slots {
		if s.Dir != Across {
			continue
		}
		for i, c := range s.Cells {
			dp, ok := downAt[c]
			if !ok {
				continue
			}
			x := Crossing{A: s.ID, B: dp.slot, IndexA: i, IndexB: dp.idx}
			g.Crossings = append(g.Crossings, x)
			g.bySlot[s.ID] = append(g.bySlot[s.ID], x)
			g.bySlot[dp.slot] = append(g.bySlot[dp.slot], x)
		}
	}
}

// CrossingsOf returns the crossings touching the given slot.
func (g *Grid) CrossingsOf(slotID int) []Crossing {
	return g.bySlot[slotID]
}

// Open reports whether the cell at (row, col) is open.
func (g *Grid) Open(row, col int) bool {
	return g.open[row][col]
}
