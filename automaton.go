package automaton

import (
	"slices"
	"sort"
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// Epsilon is the reserved symbol of an empty transition.
const Epsilon = '&'

// Automaton is an immutable finite automaton. States are text labels; internally each
// state is numbered by the position of its label in ascending label order, so comparing
// state numbers is the same as comparing labels. Accepting states and every state set
// handed out by the algorithms are bitsets over those numbers.
//
// An Automaton is only ever created by a Builder (or Build, which uses one) and is never
// modified afterwards, so it is safe to share between goroutines.
type Automaton struct {
	labels []string
	ids    map[string]int

	initial int

	isAccept *bitset.BitSet

	// Sorted; may contain Epsilon for nondeterministic automata.
	alphabet []rune

	// Forward and reverse transition relation, indexed by state number.
	next []map[rune]*bitset.BitSet
	prev []map[rune]*bitset.BitSet

	numTransitions int

	// True if there is no epsilon transition and no (state, symbol) pair with more than one target.
	deterministic bool

	closureOnce sync.Once
	closures    []*bitset.BitSet
}

// NumStates returns how many states this automaton has.
func (a *Automaton) NumStates() int {
	return len(a.labels)
}

// NumTransitions returns how many (source, symbol, target) triples this automaton has.
func (a *Automaton) NumTransitions() int {
	return a.numTransitions
}

// States returns every state label in ascending order.
func (a *Automaton) States() []string {
	return slices.Clone(a.labels)
}

// Initial returns the label of the initial state.
func (a *Automaton) Initial() string {
	return a.labels[a.initial]
}

// Finals returns the accepting state labels in ascending order.
func (a *Automaton) Finals() []string {
	return a.labelsOf(a.isAccept)
}

// IsFinal returns true if state is an accepting state. Unknown states are not accepting.
func (a *Automaton) IsFinal(state string) bool {
	id, ok := a.ids[state]
	return ok && a.isAccept.Test(uint(id))
}

// Alphabet returns the input symbols in ascending order.
func (a *Automaton) Alphabet() []rune {
	return slices.Clone(a.alphabet)
}

// IsDeterministic returns true if this automaton has no epsilon transitions and at most one
// target for every (state, symbol) pair.
func (a *Automaton) IsDeterministic() bool {
	return a.deterministic
}

// Transition returns the targets of state on symbol in ascending order. A missing transition
// is an empty result, never an error.
func (a *Automaton) Transition(state string, symbol rune) []string {
	id, ok := a.ids[state]
	if !ok {
		return nil
	}
	return a.labelsOf(a.targets(id, symbol))
}

// Predecessors returns the states that have a transition on any symbol into state.
func (a *Automaton) Predecessors(state string) []string {
	id, ok := a.ids[state]
	if !ok {
		return nil
	}
	return a.labelsOf(a.sourcesAny(id))
}

// PredecessorsOn returns the states that have a transition on symbol into state.
func (a *Automaton) PredecessorsOn(state string, symbol rune) []string {
	id, ok := a.ids[state]
	if !ok {
		return nil
	}
	return a.labelsOf(a.sources(id, symbol))
}

// targets returns the target set of (state, symbol), or nil. The result must not be modified.
func (a *Automaton) targets(state int, symbol rune) *bitset.BitSet {
	return a.next[state][symbol]
}

// sources returns the states with a transition on symbol into state, or nil. The result must
// not be modified.
func (a *Automaton) sources(state int, symbol rune) *bitset.BitSet {
	return a.prev[state][symbol]
}

func (a *Automaton) sourcesAny(state int) *bitset.BitSet {
	result := bitset.New(uint(len(a.labels)))
	for _, from := range a.prev[state] {
		result.InPlaceUnion(from)
	}
	return result
}

// symbolsFrom returns the symbols with at least one transition leaving state, in ascending order.
func (a *Automaton) symbolsFrom(state int) []rune {
	symbols := make([]rune, 0, len(a.next[state]))
	for symbol := range a.next[state] {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)
	return symbols
}

func (a *Automaton) labelsOf(set *bitset.BitSet) []string {
	if set == nil {
		return nil
	}
	result := make([]string, 0, set.Count())
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		result = append(result, a.labels[i])
	}
	return result
}

// Builder collects states and transitions and produces an Automaton. Adding a transition
// or marking a state accepting implicitly adds the states involved.
type Builder struct {
	initial     string
	states      map[string]struct{}
	accept      map[string]struct{}
	alphabet    map[rune]struct{}
	transitions map[builderKey]map[string]struct{}
}

type builderKey struct {
	source string
	symbol rune
}

// NewBuilder returns a builder whose automaton starts in initial.
func NewBuilder(initial string) *Builder {
	return &Builder{
		initial:     initial,
		states:      map[string]struct{}{initial: {}},
		accept:      make(map[string]struct{}),
		alphabet:    make(map[rune]struct{}),
		transitions: make(map[builderKey]map[string]struct{}),
	}
}

// AddState adds state if it is not already present.
func (r *Builder) AddState(state string) {
	r.states[state] = struct{}{}
}

// SetAccept sets or clears state as an accept state.
func (r *Builder) SetAccept(state string, accept bool) {
	r.AddState(state)
	if accept {
		r.accept[state] = struct{}{}
	} else {
		delete(r.accept, state)
	}
}

// IsAccept returns true if state has been marked accepting.
func (r *Builder) IsAccept(state string) bool {
	_, ok := r.accept[state]
	return ok
}

// AddSymbol adds symbol to the alphabet.
func (r *Builder) AddSymbol(symbol rune) {
	r.alphabet[symbol] = struct{}{}
}

// AddTransition adds a transition from source to target on symbol. The symbol is not added to
// the alphabet; use AddSymbol for that.
func (r *Builder) AddTransition(source string, symbol rune, target string) {
	r.AddState(source)
	r.AddState(target)
	key := builderKey{source: source, symbol: symbol}
	to, ok := r.transitions[key]
	if !ok {
		to = make(map[string]struct{}, 1)
		r.transitions[key] = to
	}
	to[target] = struct{}{}
}

// GetNumStates returns how many states have been added so far.
func (r *Builder) GetNumStates() int {
	return len(r.states)
}

// Finish numbers the states in label order and returns the automaton.
func (r *Builder) Finish() *Automaton {
	labels := make([]string, 0, len(r.states))
	for state := range r.states {
		labels = append(labels, state)
	}
	sort.Strings(labels)

	numStates := len(labels)
	a := &Automaton{
		labels:        labels,
		ids:           make(map[string]int, numStates),
		isAccept:      bitset.New(uint(numStates)),
		alphabet:      make([]rune, 0, len(r.alphabet)),
		next:          make([]map[rune]*bitset.BitSet, numStates),
		prev:          make([]map[rune]*bitset.BitSet, numStates),
		deterministic: true,
	}
	for i, label := range labels {
		a.ids[label] = i
		a.next[i] = make(map[rune]*bitset.BitSet)
		a.prev[i] = make(map[rune]*bitset.BitSet)
	}
	a.initial = a.ids[r.initial]

	for state := range r.accept {
		a.isAccept.Set(uint(a.ids[state]))
	}

	for symbol := range r.alphabet {
		a.alphabet = append(a.alphabet, symbol)
	}
	slices.Sort(a.alphabet)

	for key, to := range r.transitions {
		source := a.ids[key.source]
		if key.symbol == Epsilon || len(to) > 1 {
			a.deterministic = false
		}
		for label := range to {
			target := a.ids[label]
			addEdge(a.next[source], key.symbol, target, numStates)
			addEdge(a.prev[target], key.symbol, source, numStates)
			a.numTransitions++
		}
	}

	return a
}

func addEdge(edges map[rune]*bitset.BitSet, symbol rune, state, numStates int) {
	set, ok := edges[symbol]
	if !ok {
		set = bitset.New(uint(numStates))
		edges[symbol] = set
	}
	set.Set(uint(state))
}
