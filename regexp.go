package automaton

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// Regular expression syntax: '|' is union, '*' is Kleene star, '(' and ')' group, '&' is the
// empty string and every other character stands for itself. Concatenation is implicit.
// There is no escaping.
//
// The separators of the text format (',', ';', '{' and '}') are valid symbols here, but an
// automaton using them has no text form that Build can read back. Use WriteDOT for those.

type tokenKind int

const (
	tokenSymbol  = tokenKind(iota) // An alphabet symbol
	tokenEpsilon                   // The empty string
	tokenUnion                     // '|'
	tokenConcat                    // Inserted between adjacent operands
	tokenStar                      // '*'
	tokenLParen                    // '('
	tokenRParen                    // ')'
	tokenEnd                       // Marks the end of the expression
)

type token struct {
	kind   tokenKind
	symbol rune
	pos    int
}

func (t token) String() string {
	switch t.kind {
	case tokenSymbol:
		return string(t.symbol)
	case tokenEpsilon:
		return string(Epsilon)
	case tokenUnion:
		return "|"
	case tokenConcat:
		return "."
	case tokenStar:
		return "*"
	case tokenLParen:
		return "("
	case tokenRParen:
		return ")"
	default:
		return "#"
	}
}

// precedence of the binary operators; star binds tighter than both and is emitted directly.
func (t token) precedence() int {
	switch t.kind {
	case tokenConcat:
		return 2
	case tokenUnion:
		return 1
	default:
		return 0
	}
}

// tokenize splits expr into one token per character. Positions count characters, not bytes.
func tokenize(expr string) []token {
	tokens := make([]token, 0, len(expr))
	for pos, c := range []rune(expr) {
		t := token{kind: tokenSymbol, symbol: c, pos: pos}
		switch c {
		case '|':
			t.kind = tokenUnion
		case '*':
			t.kind = tokenStar
		case '(':
			t.kind = tokenLParen
		case ')':
			t.kind = tokenRParen
		case Epsilon:
			t.kind = tokenEpsilon
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// insertConcat makes concatenation explicit. A concatenation goes before every token except
// ')', '|' and '*', unless the previous token is '(' or '|'.
func insertConcat(tokens []token) []token {
	result := make([]token, 0, 2*len(tokens))
	for i, t := range tokens {
		if i > 0 {
			prev := tokens[i-1].kind
			switch {
			case t.kind == tokenRParen, t.kind == tokenUnion, t.kind == tokenStar:
			case prev == tokenLParen, prev == tokenUnion:
			default:
				result = append(result, token{kind: tokenConcat, pos: t.pos})
			}
		}
		result = append(result, t)
	}
	return result
}

// toPostfix reorders tokens with the shunting-yard algorithm. Both binary operators are left
// associative.
func toPostfix(tokens []token) ([]token, error) {
	output := make([]token, 0, len(tokens))
	operators := make([]token, 0)
	for _, t := range tokens {
		switch t.kind {
		case tokenSymbol, tokenEpsilon, tokenStar:
			output = append(output, t)
		case tokenConcat, tokenUnion:
			for len(operators) > 0 {
				top := operators[len(operators)-1]
				if top.kind == tokenLParen || top.precedence() < t.precedence() {
					break
				}
				output = append(output, top)
				operators = operators[:len(operators)-1]
			}
			operators = append(operators, t)
		case tokenLParen:
			operators = append(operators, t)
		case tokenRParen:
			matched := false
			for len(operators) > 0 {
				top := operators[len(operators)-1]
				operators = operators[:len(operators)-1]
				if top.kind == tokenLParen {
					matched = true
					break
				}
				output = append(output, top)
			}
			if !matched {
				return nil, &SyntaxError{Pos: t.pos, Msg: "unmatched ')'"}
			}
		}
	}
	for len(operators) > 0 {
		top := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		if top.kind == tokenLParen {
			return nil, &SyntaxError{Pos: top.pos, Msg: "unmatched '('"}
		}
		output = append(output, top)
	}
	return output, nil
}

// node is a syntax tree node: one of *unionNode, *concatNode, *starNode, *symbolNode or
// *epsilonNode.
type node interface {
	attrs() *nodeAttrs
}

type nodeAttrs struct {
	nullable bool
	firstpos *bitset.BitSet
	lastpos  *bitset.BitSet
}

func (n *nodeAttrs) attrs() *nodeAttrs {
	return n
}

type unionNode struct {
	nodeAttrs
	left, right node
}

type concatNode struct {
	nodeAttrs
	left, right node
}

type starNode struct {
	nodeAttrs
	child node
}

// symbolNode is a leaf holding one position. The end marker is a symbolNode whose symbol is
// endMarker, which no character can equal.
type symbolNode struct {
	nodeAttrs
	position int
	symbol   rune
}

type epsilonNode struct {
	nodeAttrs
}

const endMarker rune = -1

// RegExp is a parsed regular expression with its position attributes computed. It is
// immutable once NewRegExp returns.
type RegExp struct {
	expr string

	root node

	// symbols[p] is the symbol at position p; positions start at 1, symbols[0] is unused.
	symbols []rune
	// followpos[p] is the set of positions that can follow position p.
	followpos []*bitset.BitSet
	endPos    int

	alphabet []rune
}

// NewRegExp parses expr and computes nullable, firstpos, lastpos and followpos. It fails with
// a *SyntaxError on unbalanced parentheses, an operator without its operands or an empty
// expression.
func NewRegExp(expr string) (*RegExp, error) {
	postfix, err := toPostfix(insertConcat(tokenize(expr)))
	if err != nil {
		return nil, err
	}

	r := &RegExp{
		expr:    expr,
		symbols: []rune{0},
	}
	nodes, err := r.buildTree(postfix, len([]rune(expr)))
	if err != nil {
		return nil, err
	}
	r.root = nodes[len(nodes)-1]
	r.computeAttributes(nodes)
	return r, nil
}

// buildTree consumes postfix tokens and returns every node in post-order, so children come
// before their parents and the root is last. The end marker is concatenated onto the whole
// expression.
func (r *RegExp) buildTree(postfix []token, end int) ([]node, error) {
	nodes := make([]node, 0, len(postfix)+2)
	stack := make([]node, 0)
	pop := func() node {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return n
	}
	push := func(n node) {
		nodes = append(nodes, n)
		stack = append(stack, n)
	}

	for _, t := range postfix {
		switch t.kind {
		case tokenSymbol:
			push(r.newLeaf(t.symbol))
		case tokenEpsilon:
			push(&epsilonNode{})
		case tokenStar:
			if len(stack) < 1 {
				return nil, &SyntaxError{Pos: t.pos, Msg: "'*' has no operand"}
			}
			push(&starNode{child: pop()})
		case tokenConcat, tokenUnion:
			if len(stack) < 2 {
				if t.kind == tokenConcat {
					return nil, &SyntaxError{Pos: t.pos, Msg: "missing operand"}
				}
				return nil, &SyntaxError{Pos: t.pos, Msg: "'|' is missing an operand"}
			}
			right := pop()
			left := pop()
			if t.kind == tokenConcat {
				push(&concatNode{left: left, right: right})
			} else {
				push(&unionNode{left: left, right: right})
			}
		}
	}

	switch len(stack) {
	case 0:
		return nil, &SyntaxError{Pos: end, Msg: "empty expression"}
	case 1:
	default:
		return nil, &SyntaxError{Pos: end, Msg: fmt.Sprintf("%d operands left without an operator", len(stack))}
	}

	marker := r.newLeaf(endMarker)
	r.endPos = marker.position
	nodes = append(nodes, marker)
	nodes = append(nodes, &concatNode{left: pop(), right: marker})
	return nodes, nil
}

func (r *RegExp) newLeaf(symbol rune) *symbolNode {
	n := &symbolNode{position: len(r.symbols), symbol: symbol}
	r.symbols = append(r.symbols, symbol)
	return n
}

// computeAttributes walks the post-order node list once for nullable, firstpos and lastpos,
// and once more for followpos.
func (r *RegExp) computeAttributes(nodes []node) {
	numPositions := uint(len(r.symbols))
	for _, n := range nodes {
		switch n := n.(type) {
		case *symbolNode:
			n.firstpos = bitset.New(numPositions).Set(uint(n.position))
			n.lastpos = bitset.New(numPositions).Set(uint(n.position))
		case *epsilonNode:
			n.nullable = true
			n.firstpos = bitset.New(numPositions)
			n.lastpos = bitset.New(numPositions)
		case *starNode:
			child := n.child.attrs()
			n.nullable = true
			n.firstpos = child.firstpos.Clone()
			n.lastpos = child.lastpos.Clone()
		case *unionNode:
			left, right := n.left.attrs(), n.right.attrs()
			n.nullable = left.nullable || right.nullable
			n.firstpos = left.firstpos.Union(right.firstpos)
			n.lastpos = left.lastpos.Union(right.lastpos)
		case *concatNode:
			left, right := n.left.attrs(), n.right.attrs()
			n.nullable = left.nullable && right.nullable
			n.firstpos = left.firstpos.Clone()
			if left.nullable {
				n.firstpos.InPlaceUnion(right.firstpos)
			}
			n.lastpos = right.lastpos.Clone()
			if right.nullable {
				n.lastpos.InPlaceUnion(left.lastpos)
			}
		}
	}

	r.followpos = make([]*bitset.BitSet, numPositions)
	for p := range r.followpos {
		r.followpos[p] = bitset.New(numPositions)
	}
	for _, n := range nodes {
		switch n := n.(type) {
		case *concatNode:
			last, first := n.left.attrs().lastpos, n.right.attrs().firstpos
			for p, ok := last.NextSet(0); ok; p, ok = last.NextSet(p + 1) {
				r.followpos[p].InPlaceUnion(first)
			}
		case *starNode:
			for p, ok := n.lastpos.NextSet(0); ok; p, ok = n.lastpos.NextSet(p + 1) {
				r.followpos[p].InPlaceUnion(n.firstpos)
			}
		}
	}

	seen := make(map[rune]struct{})
	for _, symbol := range r.symbols[1:] {
		if _, ok := seen[symbol]; !ok && symbol != endMarker {
			seen[symbol] = struct{}{}
			r.alphabet = append(r.alphabet, symbol)
		}
	}
	slices.Sort(r.alphabet)
}

// String returns the expression as given.
func (r *RegExp) String() string {
	return r.expr
}

// NumPositions returns the number of symbol positions, the end marker included.
func (r *RegExp) NumPositions() int {
	return len(r.symbols) - 1
}

// Symbol returns the symbol at position p. It panics if p is out of range.
func (r *RegExp) Symbol(p int) rune {
	if p < 1 || p >= len(r.symbols) {
		panic(fmt.Sprintf("position %d out of range [1, %d]", p, r.NumPositions()))
	}
	return r.symbols[p]
}

// EndPosition returns the position of the end marker, which is always the last one.
func (r *RegExp) EndPosition() int {
	return r.endPos
}

// Nullable returns true if the expression matches the empty string.
func (r *RegExp) Nullable() bool {
	// The root concatenates the end marker, so look at its left side.
	return r.root.(*concatNode).left.attrs().nullable
}

// Firstpos returns the positions that can start a match, the end marker included when the
// expression is nullable.
func (r *RegExp) Firstpos() []int {
	return bitsToInts(r.root.attrs().firstpos)
}

// Followpos returns the positions that can follow position p, in ascending order.
func (r *RegExp) Followpos(p int) []int {
	if p < 1 || p >= len(r.followpos) {
		return nil
	}
	return bitsToInts(r.followpos[p])
}

// ToAutomaton builds the deterministic automaton directly from the position sets. Every
// state is a set of positions labeled like {1.2.3}; a state is accepting when it holds the
// end marker. The alphabet is the set of symbols in the expression.
func (r *RegExp) ToAutomaton() *Automaton {
	subsets := newSubsetTable()
	names := make([]string, 0)
	intern := func(set *bitset.BitSet) int {
		handle, isNew := subsets.intern(set)
		if isNew {
			names = append(names, positionsLabel(subsets.get(handle).GetArray()))
		}
		return handle
	}

	start := intern(r.root.attrs().firstpos)
	b := NewBuilder(names[start])
	for _, symbol := range r.alphabet {
		b.AddSymbol(symbol)
	}

	for handle := 0; handle < subsets.size(); handle++ {
		set := subsets.get(handle)
		label := names[handle]

		for _, p := range set.GetArray() {
			if p == r.endPos {
				b.SetAccept(label, true)
				break
			}
		}

		for _, symbol := range r.alphabet {
			target := bitset.New(uint(len(r.symbols)))
			for _, p := range set.GetArray() {
				if r.symbols[p] == symbol {
					target.InPlaceUnion(r.followpos[p])
				}
			}
			if target.None() {
				continue
			}
			next := intern(target)
			b.AddTransition(label, symbol, names[next])
		}
	}

	result := b.Finish()
	slog.Debug("compiled regexp", "expr", r.expr, "positions", r.NumPositions(), "states", result.NumStates())
	return result
}

// CompileRegexp parses expr and returns its deterministic automaton.
func CompileRegexp(expr string) (*Automaton, error) {
	r, err := NewRegExp(expr)
	if err != nil {
		return nil, err
	}
	return r.ToAutomaton(), nil
}

// MustCompileRegexp is like CompileRegexp but panics if the expression cannot be parsed.
func MustCompileRegexp(expr string) *Automaton {
	a, err := CompileRegexp(expr)
	if err != nil {
		panic(err)
	}
	return a
}

func bitsToInts(b *bitset.BitSet) []int {
	result := make([]int, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		result = append(result, int(i))
	}
	return result
}
