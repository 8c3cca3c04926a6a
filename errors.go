package automaton

import (
	"errors"
	"fmt"
)

var (
	// ErrTooComplex is returned when subset construction needs more effort than the work limit allows.
	ErrTooComplex = errors.New("automaton: too complex to determinize")
	// ErrAmbiguousLabel is returned when two different state sets render to the same composite label.
	ErrAmbiguousLabel = errors.New("automaton: ambiguous composite state label")
)

// ParseError reports malformed canonical automaton text.
type ParseError struct {
	// Field names the part of the text that failed, e.g. "state count" or "transition".
	Field string
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("automaton: parse error: %s", e.Msg)
	}
	return fmt.Sprintf("automaton: parse error in %s: %s", e.Field, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SyntaxError reports a malformed regular expression. Pos is the rune offset in the input,
// or the input length when the problem is detected at the end.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("automaton: regex syntax error at position %d: %s", e.Pos, e.Msg)
}
