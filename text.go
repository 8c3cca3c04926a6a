package automaton

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The canonical text form is
//
//	<state count>;<initial>;{<finals>};{<alphabet>};<source>,<symbol>,<target>;...
//
// Composite labels such as {AC} or {{AC}{B}} keep their braces, so braces are tokens of their
// own and a label is a run of plain text and brace-wrapped groups.
var textLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Punct", Pattern: `[;,{}]`},
	{Name: "Text", Pattern: `[^;,{}]+`},
})

type automatonText struct {
	Count       string            `parser:"@Text ';'"`
	Initial     *labelText        `parser:"@@ ';'"`
	Finals      []*labelText      `parser:"'{' ( @@ ( ',' @@ )* )? '}' ';'"`
	Alphabet    []string          `parser:"'{' ( @Text ( ',' @Text )* )? '}'"`
	Transitions []*transitionText `parser:"( ';' @@? )*"`
}

type labelText struct {
	Parts []*labelPart `parser:"@@+"`
}

type labelPart struct {
	Group *labelGroup `parser:"  @@"`
	Text  *string     `parser:"| @Text"`
}

type labelGroup struct {
	Parts []*labelPart `parser:"'{' @@* '}'"`
}

func (l *labelText) String() string {
	var b strings.Builder
	writeLabelParts(&b, l.Parts)
	return b.String()
}

func writeLabelParts(b *strings.Builder, parts []*labelPart) {
	for _, part := range parts {
		switch {
		case part.Group != nil:
			b.WriteByte('{')
			writeLabelParts(b, part.Group.Parts)
			b.WriteByte('}')
		case part.Text != nil:
			b.WriteString(*part.Text)
		}
	}
}

type transitionText struct {
	Source *labelText `parser:"@@ ','"`
	Symbol string     `parser:"@Text ','"`
	Target *labelText `parser:"@@"`
}

var textParser = participle.MustBuild[automatonText](participle.Lexer(textLexer))

// minTextFields is the number of ';'-separated fields before the transitions.
const minTextFields = 4

// Build parses the canonical text form. It fails with a *ParseError when the text has too
// few fields, a non-numeric state count, a multi-character symbol or a malformed transition.
//
// The states of the result are the initial state, the final states and every state named
// by a transition. The declared state count is validated as a number but not compared with
// that set; String always writes the real count.
func Build(text string) (*Automaton, error) {
	if n := strings.Count(text, ";") + 1; n < minTextFields {
		return nil, &ParseError{
			Field: "field count",
			Msg:   fmt.Sprintf("expected at least %d ';'-separated fields, got %d", minTextFields, n),
		}
	}

	parsed, err := textParser.ParseString("", text)
	if err != nil {
		field := ""
		var perr participle.Error
		if errors.As(err, &perr) {
			offset := min(max(perr.Position().Offset, 0), len(text))
			field = textFieldName(strings.Count(text[:offset], ";"))
		}
		return nil, &ParseError{Field: field, Msg: err.Error(), Err: err}
	}

	count, err := strconv.Atoi(strings.TrimSpace(parsed.Count))
	if err != nil || count < 0 {
		return nil, &ParseError{Field: "state count", Msg: fmt.Sprintf("%q is not a state count", parsed.Count), Err: err}
	}

	b := NewBuilder(parsed.Initial.String())
	for _, final := range parsed.Finals {
		b.SetAccept(final.String(), true)
	}
	for _, s := range parsed.Alphabet {
		symbol, err := parseSymbol(s)
		if err != nil {
			return nil, &ParseError{Field: "alphabet", Msg: err.Error()}
		}
		b.AddSymbol(symbol)
	}
	for i, t := range parsed.Transitions {
		symbol, err := parseSymbol(t.Symbol)
		if err != nil {
			return nil, &ParseError{Field: textFieldName(minTextFields + i), Msg: err.Error()}
		}
		b.AddTransition(t.Source.String(), symbol, t.Target.String())
	}
	return b.Finish(), nil
}

// MustBuild is like Build but panics on error. It is meant for fixtures.
func MustBuild(text string) *Automaton {
	a, err := Build(text)
	if err != nil {
		panic(err)
	}
	return a
}

func parseSymbol(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("symbol %q is not a single character", s)
	}
	return r, nil
}

func textFieldName(field int) string {
	switch field {
	case 0:
		return "state count"
	case 1:
		return "initial state"
	case 2:
		return "final states"
	case 3:
		return "alphabet"
	default:
		return fmt.Sprintf("transition %d", field-minTextFields+1)
	}
}

type textTransition struct {
	source string
	symbol rune
	target string
}

// sortedTransitions returns every transition ordered by source label without braces, then
// symbol, then raw source and target.
func (a *Automaton) sortedTransitions() []textTransition {
	transitions := make([]textTransition, 0, a.numTransitions)
	for source := range a.labels {
		for _, symbol := range a.symbolsFrom(source) {
			to := a.targets(source, symbol)
			for t, ok := to.NextSet(0); ok; t, ok = to.NextSet(t + 1) {
				transitions = append(transitions, textTransition{
					source: a.labels[source],
					symbol: symbol,
					target: a.labels[t],
				})
			}
		}
	}
	slices.SortFunc(transitions, func(x, y textTransition) int {
		return cmp.Or(
			strings.Compare(stripBraces(x.source), stripBraces(y.source)),
			cmp.Compare(x.symbol, y.symbol),
			strings.Compare(x.source, y.source),
			strings.Compare(x.target, y.target),
		)
	})
	return transitions
}

// String serializes the automaton to the canonical text form. Final states and symbols are
// sorted; transitions are ordered by source label without braces, then symbol. Equal
// automata always serialize to equal strings.
func (a *Automaton) String() string {
	transitions := a.sortedTransitions()

	var b strings.Builder
	b.WriteString(strconv.Itoa(a.NumStates()))
	b.WriteByte(';')
	b.WriteString(a.Initial())
	b.WriteString(";{")
	b.WriteString(strings.Join(a.Finals(), ","))
	b.WriteString("};{")
	for i, symbol := range a.alphabet {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteRune(symbol)
	}
	b.WriteString("};")
	for i, t := range transitions {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(t.source)
		b.WriteByte(',')
		b.WriteRune(t.symbol)
		b.WriteByte(',')
		b.WriteString(t.target)
	}
	return b.String()
}
