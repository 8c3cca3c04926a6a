package automaton

import (
	"github.com/bits-and-blooms/bitset"
)

// ReachableStates returns the states reachable from the initial state over the alphabet,
// in ascending order.
func ReachableStates(a *Automaton) []string {
	return a.labelsOf(getLiveStatesFromInitial(a))
}

// LiveStates returns the reachable states from which an accepting state can be reached,
// in ascending order.
func LiveStates(a *Automaton) []string {
	return a.labelsOf(getLiveStatesToAccept(a, getLiveStatesFromInitial(a)))
}

// IsEmpty returns true if the given automaton accepts no strings.
func IsEmpty(a *Automaton) bool {
	if a.isAccept.None() {
		// Common case: no accept states at all
		return true
	}
	reachable := getLiveStatesFromInitial(a)
	return reachable.IntersectionCardinality(a.isAccept) == 0
}

// getLiveStatesFromInitial walks the alphabet breadth-first from the initial state.
func getLiveStatesFromInitial(a *Automaton) *bitset.BitSet {
	live := bitset.New(uint(a.NumStates()))
	live.Set(uint(a.initial))

	workList := []int{a.initial}
	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]

		for _, symbol := range a.alphabet {
			to := a.targets(s, symbol)
			if to == nil {
				continue
			}
			for t, ok := to.NextSet(0); ok; t, ok = to.NextSet(t + 1) {
				if !live.Test(t) {
					live.Set(t)
					workList = append(workList, int(t))
				}
			}
		}
	}
	return live
}

// getLiveStatesToAccept returns the states of within that can reach an accepting state,
// walking transitions over the alphabet backwards from the accepting states of within until
// nothing is added.
func getLiveStatesToAccept(a *Automaton, within *bitset.BitSet) *bitset.BitSet {
	live := within.Intersection(a.isAccept)

	workList := make([]int, 0, live.Count())
	for s, ok := live.NextSet(0); ok; s, ok = live.NextSet(s + 1) {
		workList = append(workList, int(s))
	}

	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]

		for _, symbol := range a.alphabet {
			from := a.sources(s, symbol)
			if from == nil {
				continue
			}
			for p, ok := from.NextSet(0); ok; p, ok = from.NextSet(p + 1) {
				if within.Test(p) && !live.Test(p) {
					live.Set(p)
					workList = append(workList, int(p))
				}
			}
		}
	}
	return live
}

// RemoveDeadStates returns a copy of a restricted to its live states and to transitions over
// its alphabet. The initial state is always kept, so an automaton with an empty language
// becomes a single non-accepting state.
func RemoveDeadStates(a *Automaton) *Automaton {
	live := getLiveStatesToAccept(a, getLiveStatesFromInitial(a))

	b := NewBuilder(a.Initial())
	for _, symbol := range a.alphabet {
		b.AddSymbol(symbol)
	}
	for s, ok := live.NextSet(0); ok; s, ok = live.NextSet(s + 1) {
		source := a.labels[s]
		b.SetAccept(source, a.isAccept.Test(s))
		for _, symbol := range a.alphabet {
			to := a.targets(int(s), symbol)
			if to == nil {
				continue
			}
			// filter out transitions to dead states:
			for t, ok := to.NextSet(0); ok; t, ok = to.NextSet(t + 1) {
				if live.Test(t) {
					b.AddTransition(source, symbol, a.labels[t])
				}
			}
		}
	}
	return b.Finish()
}
