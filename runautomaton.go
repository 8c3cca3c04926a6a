package automaton

import (
	"slices"
)

// RunAutomaton is a table-driven matcher built from an automaton. States are numbered like
// the states of the deterministic automaton it was built from; -1 is the dead state.
type RunAutomaton struct {
	automaton *Automaton
	symbols   []rune
	accept    []bool
	initial   int
	// transitions[state*len(symbols)+symbol index] is the next state, or -1.
	transitions []int
}

// NewRunAutomaton builds a matcher for a. If a is not deterministic it is determinized first,
// and determinizeWorkLimit bounds that work as it does for Determinize.
func NewRunAutomaton(a *Automaton, determinizeWorkLimit int) (*RunAutomaton, error) {
	if !a.IsDeterministic() {
		d, err := Determinize(a, determinizeWorkLimit)
		if err != nil {
			return nil, err
		}
		a = d
	}

	numStates := a.NumStates()
	r := &RunAutomaton{
		automaton:   a,
		symbols:     a.Alphabet(),
		accept:      make([]bool, numStates),
		initial:     a.initial,
		transitions: make([]int, numStates*len(a.alphabet)),
	}
	for state := 0; state < numStates; state++ {
		r.accept[state] = a.isAccept.Test(uint(state))
		for i, symbol := range r.symbols {
			next := -1
			if to := a.targets(state, symbol); to != nil {
				if t, ok := to.NextSet(0); ok {
					next = int(t)
				}
			}
			r.transitions[state*len(r.symbols)+i] = next
		}
	}
	return r, nil
}

// Automaton returns the deterministic automaton this matcher runs.
func (r *RunAutomaton) Automaton() *Automaton {
	return r.automaton
}

// NumStates returns the number of states, not counting the dead state.
func (r *RunAutomaton) NumStates() int {
	return len(r.accept)
}

// Initial returns the initial state.
func (r *RunAutomaton) Initial() int {
	return r.initial
}

// IsAccept returns true if state is accepting. The dead state never is.
func (r *RunAutomaton) IsAccept(state int) bool {
	return state >= 0 && r.accept[state]
}

// Step returns the state reached from state on symbol, or -1 if there is none.
func (r *RunAutomaton) Step(state int, symbol rune) int {
	if state < 0 {
		return -1
	}
	i, ok := slices.BinarySearch(r.symbols, symbol)
	if !ok {
		return -1
	}
	return r.transitions[state*len(r.symbols)+i]
}

// Run returns true if the given string is accepted by this automaton.
func (r *RunAutomaton) Run(s string) bool {
	p := r.initial
	for _, symbol := range s {
		p = r.Step(p, symbol)
		if p == -1 {
			return false
		}
	}
	return r.accept[p]
}
