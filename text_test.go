package automaton

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	a, err := Build(scenarioNFA)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, a.States())
	assert.Equal(t, "A", a.Initial())
	assert.Equal(t, []string{"C"}, a.Finals())
	assert.Equal(t, []rune{Epsilon, 'a', 'b'}, a.Alphabet())
	assert.Equal(t, 3, a.NumTransitions())
	assert.Equal(t, []string{"C"}, a.Transition("A", Epsilon))
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "sorted alphabet and transitions",
			text: scenarioNFA,
			want: "3;A;{C};{&,a,b};A,&,C;A,a,B;B,b,C",
		},
		{
			name: "declared count is rewritten",
			text: "7;A;{B};{a};A,a,B",
			want: "2;A;{B};{a};A,a,B",
		},
		{
			name: "sources compare without braces",
			text: "2;C;{};{a};C,a,{B};{B},a,C",
			want: "2;C;{};{a};{B},a,C;C,a,{B}",
		},
		{
			name: "no transitions",
			text: "1;A;{A};{a,b};",
			want: "1;A;{A};{a,b};",
		},
		{
			name: "no trailing separator",
			text: "1;A;{};{}",
			want: "1;A;{};{};",
		},
		{
			name: "finals sorted",
			text: "3;A;{C,B};{b,a};A,b,C;A,a,B",
			want: "3;A;{B,C};{a,b};A,a,B;A,b,C",
		},
		{
			name: "nested composite labels",
			text: "2;{{AC}{B}};{{C}};{a};{{AC}{B}},a,{{C}}",
			want: "2;{{AC}{B}};{{C}};{a};{{AC}{B}},a,{{C}}",
		},
		{
			name: "multibyte symbols",
			text: "2;q0;{q1};{β,α};q0,α,q1;q0,β,q1",
			want: "2;q0;{q1};{α,β};q0,α,q1;q0,β,q1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Build(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func TestRoundTrip(t *testing.T) {
	nfa := MustBuild(scenarioNFA)
	dfa, err := Determinize(nfa, 0)
	require.NoError(t, err)
	twice, err := Determinize(dfa, 0)
	require.NoError(t, err)
	minimal, err := Minimize(MustBuild("4;0;{2,3};{a,b};0,a,1;0,b,2;1,a,3;1,b,2;2,a,2;3,b,3"), 0)
	require.NoError(t, err)

	for _, a := range []*Automaton{
		nfa,
		dfa,
		twice,
		minimal,
		MustCompileRegexp("a(b|c)*"),
		MustCompileRegexp("(a|b)*abb"),
		MakeEmpty('x'),
		MakeString("hello"),
	} {
		text := a.String()
		again, err := Build(text)
		require.NoError(t, err, text)
		assert.Equal(t, text, again.String())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
	}{
		{name: "too few fields", text: "3;A;{C}", field: "field count"},
		{name: "empty", text: "", field: "field count"},
		{name: "count not a number", text: "x;A;{C};{a}", field: "state count"},
		{name: "negative count", text: "-1;A;{};{a}", field: "state count"},
		{name: "multi-character alphabet symbol", text: "2;A;{B};{ab};A,a,B", field: "alphabet"},
		{name: "multi-character transition symbol", text: "2;A;{B};{a};A,a,B;A,ab,B", field: "transition 2"},
		{name: "truncated transition", text: "2;A;{B};{a};A,a"},
		{name: "finals without braces", text: "2;A;B;{a};A,a,B"},
		{name: "unbalanced label", text: "2;{A;{B};{a};A,a,B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Build(tt.text)
			require.Error(t, err)
			assert.Nil(t, a)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %T", err)
			if tt.field != "" {
				assert.Equal(t, tt.field, perr.Field)
			}
			assert.Contains(t, err.Error(), "parse error")
		})
	}
}

func TestMustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustBuild("nonsense")
	})
}
