package automaton

import (
	"strconv"
)

// MakeEmpty returns a new (deterministic) automaton with the empty language over alphabet.
func MakeEmpty(alphabet ...rune) *Automaton {
	b := NewBuilder("0")
	for _, symbol := range alphabet {
		b.AddSymbol(symbol)
	}
	return b.Finish()
}

// MakeEmptyString returns a new (deterministic) automaton that accepts only the empty string.
func MakeEmptyString(alphabet ...rune) *Automaton {
	b := NewBuilder("0")
	b.SetAccept("0", true)
	for _, symbol := range alphabet {
		b.AddSymbol(symbol)
	}
	return b.Finish()
}

// MakeAnyString returns a new (deterministic) automaton that accepts all strings over alphabet.
func MakeAnyString(alphabet ...rune) *Automaton {
	b := NewBuilder("0")
	b.SetAccept("0", true)
	for _, symbol := range alphabet {
		b.AddSymbol(symbol)
		b.AddTransition("0", symbol, "0")
	}
	return b.Finish()
}

// MakeString returns a new (deterministic) automaton that accepts only s. States are named
// by how many symbols have been read.
func MakeString(s string) *Automaton {
	b := NewBuilder("0")
	state := 0
	for _, symbol := range s {
		b.AddSymbol(symbol)
		b.AddTransition(strconv.Itoa(state), symbol, strconv.Itoa(state+1))
		state++
	}
	b.SetAccept(strconv.Itoa(state), true)
	return b.Finish()
}
