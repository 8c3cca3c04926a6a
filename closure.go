package automaton

import (
	"github.com/bits-and-blooms/bitset"
)

// EpsilonClosure returns the states reachable from state using zero or more epsilon
// transitions, state included, in ascending order. Unknown states have an empty closure.
func (a *Automaton) EpsilonClosure(state string) []string {
	id, ok := a.ids[state]
	if !ok {
		return nil
	}
	return a.labelsOf(a.epsilonClosures()[id])
}

// EpsilonClosures returns the epsilon closure of every state.
func (a *Automaton) EpsilonClosures() map[string][]string {
	closures := a.epsilonClosures()
	result := make(map[string][]string, len(closures))
	for id, closure := range closures {
		result[a.labels[id]] = a.labelsOf(closure)
	}
	return result
}

// epsilonClosures computes the closure table once. The returned bitsets must not be modified.
func (a *Automaton) epsilonClosures() []*bitset.BitSet {
	a.closureOnce.Do(func() {
		a.closures = make([]*bitset.BitSet, len(a.labels))
		for state := range a.labels {
			a.closures[state] = a.epsilonClosure(state)
		}
	})
	return a.closures
}

// epsilonClosure walks epsilon transitions breadth-first from state. The visited set is
// what keeps epsilon cycles finite.
func (a *Automaton) epsilonClosure(state int) *bitset.BitSet {
	seen := bitset.New(uint(len(a.labels)))
	seen.Set(uint(state))

	workList := []int{state}
	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]

		to := a.targets(s, Epsilon)
		if to == nil {
			continue
		}
		for t, ok := to.NextSet(0); ok; t, ok = to.NextSet(t + 1) {
			if !seen.Test(t) {
				seen.Set(t)
				workList = append(workList, int(t))
			}
		}
	}
	return seen
}
