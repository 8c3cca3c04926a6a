package automaton

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SetLabel returns the canonical label of a composite state: the member labels sorted and
// concatenated inside braces. Combining A and C gives {AC}.
func SetLabel(states []string) string {
	sorted := slices.Clone(states)
	slices.Sort(sorted)
	return "{" + strings.Join(sorted, "") + "}"
}

// positionsLabel renders a regex position set as {1.2.5}. Positions are joined with a dot so
// that {1.12} and {11.2} stay distinct.
func positionsLabel(positions []int) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range positions {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(p))
	}
	b.WriteByte('}')
	return b.String()
}

// stripBraces drops the braces a composite label is wrapped in.
func stripBraces(label string) string {
	return strings.Trim(label, "{}")
}

// handleLabels maps interned state handles to their labels and rejects two handles that
// would share one label.
type handleLabels struct {
	labels  []string
	handles map[string]int
}

func newHandleLabels() *handleLabels {
	return &handleLabels{handles: make(map[string]int)}
}

// assign records the label of a freshly interned handle. Handles must be assigned in order.
func (l *handleLabels) assign(handle int, label string) error {
	if other, ok := l.handles[label]; ok && other != handle {
		return fmt.Errorf("%w: %s", ErrAmbiguousLabel, label)
	}
	l.handles[label] = handle
	l.labels = append(l.labels, label)
	return nil
}

func (l *handleLabels) get(handle int) string {
	return l.labels[handle]
}
