// internal/solver/evaluator.go
//
// Constraint evaluator: computes the valid candidate words for one
// unassigned slot under a partial assignment. A candidate must have the
// slot's length, agree with every crossing whose other slot is already
// assigned, and (under the default policy) not already be in use elsewhere.

package solver

import (
	"github.com/wrieger93/gridsolver/internal/dict"
	"github.com/wrieger93/gridsolver/internal/grid"
)

// Evaluator answers candidate queries against a fixed grid and dictionary.
type Evaluator struct {
	g *grid.Grid
	d *dict.Dictionary
}

// NewEvaluator binds an evaluator to a grid and dictionary.
func NewEvaluator(g *grid.Grid, d *dict.Dictionary) *Evaluator {
	return &Evaluator{g: g, d: d}
}

// Candidates returns, in dictionary candidate order, the words that could
// fill slotID given the current assignment (slot ID → word) and used set.
// An empty result is the normal dead-end signal, not an error.
func (ev *Evaluator) Candidates(slotID int, assignment map[int]string, used map[string]struct{}) []string {
	fixed := ev.fixedLetters(slotID, assignment)
	cands := ev.d.Candidates(ev.g.Slots[slotID].Len(), fixed)
	if len(used) == 0 {
		return cands
	}
	out := cands[:0]
	for _, w := range cands {
		if _, taken := used[w]; !taken {
			out = append(out, w)
		}
	}
	return out
}

// fixedLetters projects assigned crossing partners into slotID's own
// coordinate frame: for each crossing, the shared cell's index in *this*
// slot maps to the partner word's letter at the shared cell's index in the
// *partner* slot.
func (ev *Evaluator) fixedLetters(slotID int, assignment map[int]string) map[int]byte {
	var fixed map[int]byte
	for _, x := range ev.g.CrossingsOf(slotID) {
		other, myIdx, otherIdx := x.B, x.IndexA, x.IndexB
		if other == slotID {
			other, myIdx, otherIdx = x.A, x.IndexB, x.IndexA
		}
		w, ok := assignment[other]
		if !ok {
			continue
		}
		if fixed == nil {
			fixed = make(map[int]byte)
		}
		fixed[myIdx] = w[otherIdx]
	}
	return fixed
}
