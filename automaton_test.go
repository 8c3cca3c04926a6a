package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioNFA has A initial, B reached from A on a, C reached from B on b and from A on
// epsilon, and C accepting.
const scenarioNFA = "3;A;{C};{a,b,&};A,a,B;B,b,C;A,&,C"

// words returns every string over alphabet with at most maxLen symbols.
func words(alphabet []rune, maxLen int) []string {
	result := []string{""}
	frontier := []string{""}
	for n := 0; n < maxLen; n++ {
		var next []string
		for _, w := range frontier {
			for _, symbol := range alphabet {
				next = append(next, w+string(symbol))
			}
		}
		result = append(result, next...)
		frontier = next
	}
	return result
}

// assertSameLanguage compares acceptance of every string up to maxLen symbols.
func assertSameLanguage(t *testing.T, want, got *Automaton, alphabet []rune, maxLen int) {
	t.Helper()
	for _, w := range words(alphabet, maxLen) {
		assert.Equal(t, Run(want, w), Run(got, w), "word %q", w)
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder("q0")
	b.AddSymbol('b')
	b.AddSymbol('a')
	b.AddTransition("q0", 'a', "q1")
	b.AddTransition("q1", 'b', "q0")
	b.SetAccept("q1", true)
	b.AddState("q2")
	b.SetAccept("q2", true)
	b.SetAccept("q2", false)

	assert.True(t, b.IsAccept("q1"))
	assert.False(t, b.IsAccept("q2"))
	assert.Equal(t, 3, b.GetNumStates())

	a := b.Finish()
	assert.Equal(t, []string{"q0", "q1", "q2"}, a.States())
	assert.Equal(t, "q0", a.Initial())
	assert.Equal(t, []string{"q1"}, a.Finals())
	assert.Equal(t, []rune{'a', 'b'}, a.Alphabet())
	assert.Equal(t, 3, a.NumStates())
	assert.Equal(t, 2, a.NumTransitions())
	assert.True(t, a.IsDeterministic())
	assert.True(t, a.IsFinal("q1"))
	assert.False(t, a.IsFinal("q0"))
	assert.False(t, a.IsFinal("missing"))
}

func TestIsDeterministic(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "dfa", text: "2;A;{B};{a};A,a,B;B,a,B", want: true},
		{name: "two targets", text: "2;A;{B};{a};A,a,A;A,a,B", want: false},
		{name: "epsilon", text: scenarioNFA, want: false},
		{name: "no transitions", text: "1;A;{};{a};", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Build(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.IsDeterministic())
		})
	}
}

func TestTransition(t *testing.T) {
	a := MustBuild("3;A;{C};{a,b};A,a,B;A,a,C;B,b,C")

	assert.Equal(t, []string{"B", "C"}, a.Transition("A", 'a'))
	assert.Equal(t, []string{"C"}, a.Transition("B", 'b'))

	// missing transitions are empty, never errors
	assert.Empty(t, a.Transition("A", 'b'))
	assert.Empty(t, a.Transition("C", 'a'))
	assert.Empty(t, a.Transition("A", 'z'))
	assert.Empty(t, a.Transition("missing", 'a'))
}

func TestPredecessors(t *testing.T) {
	a := MustBuild("3;A;{C};{a,b};A,a,B;A,b,C;B,b,C;C,a,C")

	assert.Equal(t, []string{"A", "B", "C"}, a.Predecessors("C"))
	assert.Equal(t, []string{"A", "B"}, a.PredecessorsOn("C", 'b'))
	assert.Equal(t, []string{"C"}, a.PredecessorsOn("C", 'a'))
	assert.Equal(t, []string{"A"}, a.Predecessors("B"))
	assert.Empty(t, a.Predecessors("A"))
	assert.Empty(t, a.PredecessorsOn("B", 'b'))
	assert.Empty(t, a.Predecessors("missing"))
}

func TestMakeAutomata(t *testing.T) {
	empty := MakeEmpty('a', 'b')
	assert.True(t, IsEmpty(empty))
	assert.False(t, Run(empty, ""))
	assert.Equal(t, []rune{'a', 'b'}, empty.Alphabet())

	emptyString := MakeEmptyString('a')
	assert.True(t, Run(emptyString, ""))
	assert.False(t, Run(emptyString, "a"))

	anyString := MakeAnyString('a', 'b')
	for _, w := range words([]rune{'a', 'b'}, 3) {
		assert.True(t, Run(anyString, w), "word %q", w)
	}
	assert.False(t, Run(anyString, "c"))

	s := MakeString("abc")
	assert.True(t, s.IsDeterministic())
	assert.Equal(t, 4, s.NumStates())
	assert.True(t, Run(s, "abc"))
	assert.False(t, Run(s, "ab"))
	assert.False(t, Run(s, "abcc"))
	assert.True(t, Run(MakeString(""), ""))
}
