package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReachableAndLiveStates(t *testing.T) {
	// U is unreachable, D is reachable but dead
	a := MustBuild("5;A;{C};{a,b};A,a,B;A,b,D;B,b,C;D,a,D;U,a,C")

	assert.Equal(t, []string{"A", "B", "C", "D"}, ReachableStates(a))
	assert.Equal(t, []string{"A", "B", "C"}, LiveStates(a))
}

func TestReachableFollowsEpsilon(t *testing.T) {
	a := MustBuild(scenarioNFA)
	assert.Equal(t, []string{"A", "B", "C"}, ReachableStates(a))
	assert.Equal(t, []string{"A", "B", "C"}, LiveStates(a))
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		a    *Automaton
		want bool
	}{
		{name: "no accept states", a: MakeEmpty('a'), want: true},
		{name: "empty string", a: MakeEmptyString(), want: false},
		{name: "unreachable accept state", a: MustBuild("3;A;{C};{a};A,a,B;C,a,A"), want: true},
		{name: "reachable accept state", a: MustBuild("2;A;{B};{a};A,a,B"), want: false},
		{name: "accept through epsilon", a: MustBuild("2;A;{B};{&};A,&,B"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmpty(tt.a))
		})
	}
}

func TestRemoveDeadStates(t *testing.T) {
	a := MustBuild("5;A;{C};{a,b};A,a,B;A,b,D;B,b,C;D,a,D;U,a,C")
	assert.Equal(t, "3;A;{C};{a,b};A,a,B;B,b,C", RemoveDeadStates(a).String())

	empty := RemoveDeadStates(MustBuild("2;A;{};{a};A,a,B"))
	assert.Equal(t, "1;A;{};{a};", empty.String())
}

func TestOperationsIgnoreSymbolsOutsideAlphabet(t *testing.T) {
	a := MustBuild("3;A;{B};{a};A,a,C;C,y,B")
	assert.Equal(t, []string{"A", "C"}, ReachableStates(a))
	assert.Empty(t, LiveStates(a))
	assert.True(t, IsEmpty(a))

	a = MustBuild("2;A;{B};{a};A,a,B;B,y,A")
	assert.Equal(t, "2;A;{B};{a};A,a,B", RemoveDeadStates(a).String())
}
