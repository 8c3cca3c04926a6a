package automaton

import (
	"github.com/bits-and-blooms/bitset"
)

// Run returns true if a accepts s. The automaton may be nondeterministic: the set of states
// it could be in is tracked through epsilon closures, so nothing is determinized up front.
// Epsilon is never an input symbol, so a string containing it is rejected.
func Run(a *Automaton, s string) bool {
	closures := a.epsilonClosures()
	current := closures[a.initial].Clone()
	for _, symbol := range s {
		if symbol == Epsilon {
			return false
		}
		next := bitset.New(uint(a.NumStates()))
		for state, ok := current.NextSet(0); ok; state, ok = current.NextSet(state + 1) {
			to := a.targets(int(state), symbol)
			if to == nil {
				continue
			}
			for t, ok := to.NextSet(0); ok; t, ok = to.NextSet(t + 1) {
				next.InPlaceUnion(closures[t])
			}
		}
		if next.None() {
			return false
		}
		current = next
	}
	return current.IntersectionCardinality(a.isAccept) > 0
}
