package automaton

import (
	"fmt"
	"log/slog"

	"github.com/bits-and-blooms/bitset"

	"github.com/geange/fa/internal/logutil"
)

// DefaultDeterminizeWorkLimit is a decent work limit for Determinize and Minimize if you
// don't otherwise know what to specify.
const DefaultDeterminizeWorkLimit = 100000

// Determinize converts a (possibly epsilon-) nondeterministic automaton into an equivalent
// deterministic one by subset construction.
//
// Every output state is a set of input states named by SetLabel, so reaching the same set
// twice always yields the same state. The output alphabet is the input alphabet without
// Epsilon. A (set, symbol) pair that leads nowhere gets no transition.
//
// Worst case complexity: exponential in the number of states. The work spent is the sum of
// the sizes of all discovered sets; when workLimit is positive and that sum exceeds it,
// Determinize fails with ErrTooComplex. A workLimit of zero or less means no limit.
func Determinize(a *Automaton, workLimit int) (*Automaton, error) {
	alphabet := make([]rune, 0, len(a.alphabet))
	for _, symbol := range a.alphabet {
		if symbol != Epsilon {
			alphabet = append(alphabet, symbol)
		}
	}
	closures := a.epsilonClosures()

	subsets := newSubsetTable()
	names := newHandleLabels()

	start := closures[a.initial].Clone()
	handle, _ := subsets.intern(start)
	if err := names.assign(handle, a.setLabel(start)); err != nil {
		return nil, err
	}

	b := NewBuilder(names.get(handle))
	for _, symbol := range alphabet {
		b.AddSymbol(symbol)
	}

	// Handles are numbered in discovery order, so walking them in order is a FIFO worklist.
	effort := 0
	for handle := 0; handle < subsets.size(); handle++ {
		set := subsets.get(handle)
		label := names.get(handle)

		effort += set.Size()
		if workLimit > 0 && effort > workLimit {
			return nil, fmt.Errorf("%w: work limit %d exceeded after %d states", ErrTooComplex, workLimit, handle)
		}

		for _, s := range set.GetArray() {
			if a.isAccept.Test(uint(s)) {
				b.SetAccept(label, true)
				break
			}
		}

		for _, symbol := range alphabet {
			target := bitset.New(uint(a.NumStates()))
			for _, s := range set.GetArray() {
				to := a.targets(s, symbol)
				if to == nil {
					continue
				}
				for t, ok := to.NextSet(0); ok; t, ok = to.NextSet(t + 1) {
					target.InPlaceUnion(closures[t])
				}
			}
			if target.None() {
				continue
			}

			next, isNew := subsets.intern(target)
			if isNew {
				if err := names.assign(next, a.setLabel(target)); err != nil {
					return nil, err
				}
				logutil.Trace("determinize: new state", "state", names.get(next), "from", label, "symbol", string(symbol))
			}
			b.AddTransition(label, symbol, names.get(next))
		}
	}

	result := b.Finish()
	slog.Debug("determinized automaton", "states", a.NumStates(), "result_states", result.NumStates(), "effort", effort)
	return result, nil
}

// setLabel names the composite state made of the states in set.
func (a *Automaton) setLabel(set *bitset.BitSet) string {
	return SetLabel(a.labelsOf(set))
}
