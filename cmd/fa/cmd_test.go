package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	automaton "github.com/geange/fa"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewCLI()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestDeterminizeCommand(t *testing.T) {
	out, err := execute(t, "3;A;{C};{a,b,&};A,a,B;B,b,C;A,&,C\n", "determinize")
	require.NoError(t, err)
	assert.Equal(t, "3;{AC};{{AC},{C}};{a,b};{AC},a,{B};{B},b,{C}\n", out)
}

func TestMinimizeCommand(t *testing.T) {
	out, err := execute(t, "3;A;{B,C};{a};A,a,B;B,a,C;C,a,C", "minimize")
	require.NoError(t, err)
	assert.Equal(t, "2;A;{B};{a};A,a,B;B,a,B\n", out)
}

func TestRegexCommand(t *testing.T) {
	out, err := execute(t, "a(b|c)*\n", "regex")
	require.NoError(t, err)
	assert.Equal(t, "2;{1};{{2.3.4}};{a,b,c};{1},a,{2.3.4};{2.3.4},b,{2.3.4};{2.3.4},c,{2.3.4}\n", out)

	out, err = execute(t, "(a|b)*abb\n", "regex", "--minimize")
	require.NoError(t, err)
	a, err := automaton.Build(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, 4, a.NumStates())
}

func TestMatchCommand(t *testing.T) {
	out, err := execute(t, "a(b|c)*", "match", "--regex", "a", "ab", "ac", "abcbc", "", "b", "ba")
	require.NoError(t, err)
	assert.Equal(t, "accept\naccept\naccept\naccept\nreject\nreject\nreject\n", out)

	out, err = execute(t, "3;A;{C};{a,b,&};A,a,B;B,b,C;A,&,C", "match", "", "ab", "a")
	require.NoError(t, err)
	assert.Equal(t, "accept\naccept\nreject\n", out)
}

func TestDOTFormat(t *testing.T) {
	out, err := execute(t, "2;A;{B};{a};A,a,B", "determinize", "--format", "dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph G {\n"))
	assert.Contains(t, out, `"{B}" [shape=doublecircle];`)
	assert.Contains(t, out, `"{A}" -> "{B}" [label="a"];`)
}

func TestCommandErrors(t *testing.T) {
	cases := map[string]struct {
		stdin string
		args  []string
		check func(t *testing.T, err error)
	}{
		"parse error": {
			stdin: "3;A",
			args:  []string{"minimize"},
			check: func(t *testing.T, err error) {
				var perr *automaton.ParseError
				assert.True(t, errors.As(err, &perr))
			},
		},
		"syntax error": {
			stdin: "(ab",
			args:  []string{"regex"},
			check: func(t *testing.T, err error) {
				var serr *automaton.SyntaxError
				assert.True(t, errors.As(err, &serr))
			},
		},
		"too complex": {
			stdin: "3;A;{C};{a,b,&};A,a,B;B,b,C;A,&,C",
			args:  []string{"determinize", "--work-limit", "1"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, automaton.ErrTooComplex)
			},
		},
		"no input": {
			stdin: "\n",
			args:  []string{"determinize"},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "no input")
			},
		},
		"bad format": {
			stdin: "2;A;{B};{a};A,a,B",
			args:  []string{"determinize", "--format", "svg"},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "unknown format")
			},
		},
		"match without words": {
			stdin: "a",
			args:  []string{"match", "--regex"},
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, tc.stdin, tc.args...)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestEnvCommand(t *testing.T) {
	out, err := execute(t, "", "env")
	require.NoError(t, err)
	for _, name := range []string{"FA_DEBUG", "FA_FORMAT", "FA_TRACE", "FA_WORK_LIMIT"} {
		assert.Contains(t, out, name)
	}
}
