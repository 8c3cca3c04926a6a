package automaton

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteDOT writes a Graphviz representation of a to w. States appear in label order,
// accepting states are drawn as double circles and epsilon transitions are labeled ε.
func WriteDOT(w io.Writer, a *Automaton) error {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	b.WriteString("    rankdir=LR;\n")

	for state, label := range a.labels {
		shape := "circle"
		if a.isAccept.Test(uint(state)) {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "    %s [shape=%s];\n", strconv.Quote(label), shape)
	}
	for _, t := range a.sortedTransitions() {
		symbol := string(t.symbol)
		if t.symbol == Epsilon {
			symbol = "ε"
		}
		fmt.Fprintf(&b, "    %s -> %s [label=%s];\n", strconv.Quote(t.source), strconv.Quote(t.target), strconv.Quote(symbol))
	}
	fmt.Fprintf(&b, "    _start [shape=point]; _start -> %s;\n", strconv.Quote(a.Initial()))

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
