// internal/solver/solver.go
//
// Backtracking search engine.
//
// Depth-first search over slot assignments:
//   - At each node, pick the unassigned slot with the fewest remaining
//     candidates (MRV); ties go to the longer slot, then the lower slot ID
//     so runs are reproducible.
//   - Try that slot's candidates in evaluator order, recursing after each
//     tentative assignment and undoing it exactly before the next try.
//   - First complete assignment wins; full exhaustion is ErrUnsolvable.
//
// Assignment and used-word state are owned by the engine instance for the
// duration of one Solve call; backtracking is strict LIFO, so the state seen
// by any node is exactly the path above it.

package solver

import (
	"context"
	"errors"
	"time"

	"github.com/wrieger93/gridsolver/internal/dict"
	"github.com/wrieger93/gridsolver/internal/grid"
)

// ErrUnsolvable means the search space was exhausted without a complete
// assignment. It is a normal outcome, distinct from input errors.
var ErrUnsolvable = errors.New("no solution exists for this grid and dictionary")

// Options tune the engine.
type Options struct {
	// AllowRepeats permits one word to fill several slots. Off by default;
	// crossword convention wants distinct entries.
	AllowRepeats bool
}

// Stats describes one Solve run.
type Stats struct {
	Nodes      int // slot assignments tried
	Backtracks int // assignments undone
	Duration   time.Duration
}

// Solution is a complete, consistent assignment.
type Solution struct {
	Words map[int]string // slot ID → word

	g *grid.Grid
}

// Letter returns the solved letter at an open cell, if any slot covers it.
func (s *Solution) Letter(c grid.Coord) (rune, bool) {
	for _, slot := range s.g.Slots {
		w, ok := s.Words[slot.ID]
		if !ok {
			continue
		}
		for i, sc := range slot.Cells {
			if sc == c {
				return rune(w[i]), true
			}
		}
	}
	return 0, false
}

// Render draws the filled grid.
func (s *Solution) Render() string {
	return s.g.Render(s.Letter)
}

type engine struct {
	g    *grid.Grid
	ev   *Evaluator
	opts Options

	assignment map[int]string
	used       map[string]struct{}
	unassigned int
	stats      Stats
}

// Solve searches for one complete assignment. It returns ErrUnsolvable after
// full exhaustion, or the context's error if ctx is done first — callers use
// a context deadline as the safeguard against pathological inputs.
func Solve(ctx context.Context, g *grid.Grid, d *dict.Dictionary, opts Options) (*Solution, Stats, error) {
	start := time.Now()
	e := &engine{
		g:          g,
		ev:         NewEvaluator(g, d),
		opts:       opts,
		assignment: make(map[int]string, len(g.Slots)),
		used:       make(map[string]struct{}, len(g.Slots)),
		unassigned: len(g.Slots),
	}
	found, err := e.dfs(ctx)
	e.stats.Duration = time.Since(start)
	if err != nil {
		return nil, e.stats, err
	}
	if !found {
		return nil, e.stats, ErrUnsolvable
	}
	return &Solution{Words: e.assignment, g: g}, e.stats, nil
}

// dfs fills one slot and recurses. It reports whether a complete assignment
// was reached below this node; the error is only ever a context error.
func (e *engine) dfs(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if e.unassigned == 0 {
		return true, nil
	}

	slotID, candidates := e.pickSlot()
	if len(candidates) == 0 {
		// Dead end: some slot can no longer be filled.
		return false, nil
	}

	for _, word := range candidates {
		e.assign(slotID, word)
		found, err := e.dfs(ctx)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
		e.unassign(slotID, word)
	}
	return false, nil
}

// pickSlot applies the MRV rule over the unassigned slots and returns the
// chosen slot with its candidate list (so the winner is not re-queried).
// Ties: longer slot first, then lower ID.
func (e *engine) pickSlot() (int, []string) {
	bestID := -1
	var bestCands []string
	for _, s := range e.g.Slots {
		if _, done := e.assignment[s.ID]; done {
			continue
		}
		cands := e.candidatesFor(s.ID)
		if bestID == -1 ||
			len(cands) < len(bestCands) ||
			(len(cands) == len(bestCands) && s.Len() > e.g.Slots[bestID].Len()) {
			bestID, bestCands = s.ID, cands
		}
	}
	return bestID, bestCands
}

func (e *engine) candidatesFor(slotID int) []string {
	if e.opts.AllowRepeats {
		return e.ev.Candidates(slotID, e.assignment, nil)
	}
	return e.ev.Candidates(slotID, e.assignment, e.used)
}

func (e *engine) assign(slotID int, word string) {
	e.assignment[slotID] = word
	e.used[word] = struct{}{}
	e.unassigned--
	e.stats.Nodes++
}

func (e *engine) unassign(slotID int, word string) {
	delete(e.assignment, slotID)
	delete(e.used, word)
	e.unassigned++
	e.stats.Backtracks++
}
