package automaton

import (
	"log/slog"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Minimize returns the minimal deterministic automaton equivalent to a. If a is not
// deterministic it is determinized first, with determinizeWorkLimit as the work limit.
//
// Unreachable states and states that cannot reach an accepting state are dropped, and the
// remaining states are merged by partition refinement. Each merged state is named after the
// smallest label among its members, so the output does not depend on the order in which
// classes were split. When a accepts nothing the result is a single non-accepting state
// named after the initial state.
func Minimize(a *Automaton, determinizeWorkLimit int) (*Automaton, error) {
	if !a.IsDeterministic() {
		d, err := Determinize(a, determinizeWorkLimit)
		if err != nil {
			return nil, err
		}
		a = d
	}

	reachable := getLiveStatesFromInitial(a)
	live := getLiveStatesToAccept(a, reachable)
	if !live.Test(uint(a.initial)) {
		// Every live state is reachable, so a dead initial state means there are none.
		b := NewBuilder(a.Initial())
		addDeterministicAlphabet(b, a)
		return b.Finish(), nil
	}

	classes := refineEquivalenceClasses(a, live)
	result := quotient(a, classes)
	slog.Debug("minimized automaton", "states", a.NumStates(), "reachable", reachable.Count(),
		"live", live.Count(), "result_states", result.NumStates())
	return result, nil
}

// EquivalenceClasses returns the classes of indistinguishable live states of the
// deterministic automaton a. Each class is sorted and classes are ordered by their smallest
// member.
func EquivalenceClasses(a *Automaton) [][]string {
	live := getLiveStatesToAccept(a, getLiveStatesFromInitial(a))
	classes := refineEquivalenceClasses(a, live)
	result := make([][]string, 0, len(classes))
	for _, class := range classes {
		result = append(result, a.labelsOf(class))
	}
	slices.SortFunc(result, func(x, y []string) int {
		return slices.Compare(x, y)
	})
	return result
}

// refineEquivalenceClasses splits {live non-final, live final} until every class is stable:
// for each class C and symbol, the predecessors of C on that symbol are either all or none
// of the members of any other class. Classes are only ever split, never merged.
func refineEquivalenceClasses(a *Automaton, live *bitset.BitSet) []*bitset.BitSet {
	classes := make([]*bitset.BitSet, 0, 2)
	for _, class := range []*bitset.BitSet{live.Difference(a.isAccept), live.Intersection(a.isAccept)} {
		if class.Any() {
			classes = append(classes, class)
		}
	}

	// pending marks the classes currently in workList.
	pending := bitset.New(uint(len(classes)))
	workList := linkedlistqueue.New()
	schedule := func(class int) {
		pending.Set(uint(class))
		workList.Enqueue(class)
	}
	for i := range classes {
		schedule(i)
	}

	for !workList.Empty() {
		v, _ := workList.Dequeue()
		c := v.(int)
		pending.Clear(uint(c))

		splitter := classes[c].Clone()
		for _, symbol := range a.alphabet {
			pre := bitset.New(uint(a.NumStates()))
			for s, ok := splitter.NextSet(0); ok; s, ok = splitter.NextSet(s + 1) {
				if from := a.sources(int(s), symbol); from != nil {
					pre.InPlaceUnion(from)
				}
			}
			if pre.None() {
				continue
			}

			// Pieces appended below are already stable with respect to pre.
			n := len(classes)
			for i := 0; i < n; i++ {
				inter := classes[i].Intersection(pre)
				if inter.None() {
					continue
				}
				diff := classes[i].Difference(pre)
				if diff.None() {
					continue
				}

				classes[i] = inter
				classes = append(classes, diff)
				j := len(classes) - 1
				if !pending.Test(uint(i)) {
					schedule(i)
				}
				schedule(j)
			}
		}
	}
	return classes
}

// quotient builds the automaton whose states are the classes, each named after its smallest
// member. State numbers follow label order, so the smallest member is the first set bit.
func quotient(a *Automaton, classes []*bitset.BitSet) *Automaton {
	classOf := make([]int, a.NumStates())
	for i := range classOf {
		classOf[i] = -1
	}
	reps := make([]string, len(classes))
	for i, class := range classes {
		first, _ := class.NextSet(0)
		reps[i] = a.labels[first]
		for s, ok := class.NextSet(0); ok; s, ok = class.NextSet(s + 1) {
			classOf[s] = i
		}
	}

	b := NewBuilder(reps[classOf[a.initial]])
	addDeterministicAlphabet(b, a)
	for i, class := range classes {
		b.AddState(reps[i])
		if class.IntersectionCardinality(a.isAccept) > 0 {
			b.SetAccept(reps[i], true)
		}
		for s, ok := class.NextSet(0); ok; s, ok = class.NextSet(s + 1) {
			for _, symbol := range a.alphabet {
				to := a.targets(int(s), symbol)
				if to == nil {
					continue
				}
				for t, ok := to.NextSet(0); ok; t, ok = to.NextSet(t + 1) {
					if classOf[t] >= 0 {
						b.AddTransition(reps[i], symbol, reps[classOf[t]])
					}
				}
			}
		}
	}
	return b.Finish()
}

// addDeterministicAlphabet copies the alphabet of a into b without Epsilon.
func addDeterministicAlphabet(b *Builder, a *Automaton) {
	for _, symbol := range a.alphabet {
		if symbol != Epsilon {
			b.AddSymbol(symbol)
		}
	}
}
