package textpat

import (
	"errors"
	"fmt"

	"github.com/KromDaniel/textpat/internal/ast"
	"github.com/KromDaniel/textpat/internal/charset"
)

// Pattern is a node of a grammar. Patterns are immutable and may be shared
// freely between grammars and goroutines. A *Matcher is itself a Pattern, so a
// finished grammar can be embedded in a larger one.
type Pattern interface {
	Node() ast.Node
}

type pattern struct {
	node ast.Node
}

func (p pattern) Node() ast.Node { return p.node }

func (p pattern) String() string { return p.node.String() }

// must panics with an ArgumentError when err is non-nil.
func must[N ast.Node](builder string, n N, err error) Pattern {
	if err != nil {
		panic(&ArgumentError{Builder: builder, Err: err})
	}
	return pattern{node: n}
}

func nodes(builder string, ps []Pattern) []ast.Node {
	out := make([]ast.Node, len(ps))
	for i, p := range ps {
		out[i] = nodeOf(builder, p)
	}
	return out
}

func nodeOf(builder string, p Pattern) ast.Node {
	if p == nil {
		panic(&ArgumentError{Builder: builder, Err: ast.ErrNilNode})
	}
	n := p.Node()
	if n == nil {
		panic(&ArgumentError{Builder: builder, Err: ast.ErrNilNode})
	}
	return n
}

// Try runs build and returns the pattern it produces, or the ArgumentError it
// panicked with. Any other panic is propagated.
func Try(build func() Pattern) (p Pattern, err error) {
	defer func() {
		if r := recover(); r != nil {
			var argErr *ArgumentError
			if e, ok := r.(error); ok && errors.As(e, &argErr) {
				p, err = nil, argErr
				return
			}
			panic(r)
		}
	}()
	return build(), nil
}

// Text matches s literally. No character of s has special meaning.
func Text(s string) Pattern {
	return pattern{node: ast.NewLiteral(s)}
}

// Sequence matches each pattern in turn.
func Sequence(ps ...Pattern) Pattern {
	n, err := ast.NewSequence(nodes("Sequence", ps)...)
	return must("Sequence", n, err)
}

// Either matches the first of ps that matches. Later alternatives are not
// tried once one succeeds.
func Either(ps ...Pattern) Pattern {
	n, err := ast.NewAlternative(nodes("Either", ps)...)
	return must("Either", n, err)
}

// Optional matches p or nothing.
func Optional(p Pattern) Pattern {
	n, err := ast.NewOptional(nodeOf("Optional", p))
	return must("Optional", n, err)
}

// ZeroOrMore matches p any number of times.
func ZeroOrMore(p Pattern) Pattern {
	n, err := ast.NewRepeat(nodeOf("ZeroOrMore", p), 0, ast.Unbounded)
	return must("ZeroOrMore", n, err)
}

// OneOrMore matches p at least once.
func OneOrMore(p Pattern) Pattern {
	n, err := ast.NewRepeat(nodeOf("OneOrMore", p), 1, ast.Unbounded)
	return must("OneOrMore", n, err)
}

// Exactly matches p exactly count times.
func Exactly(count int, p Pattern) Pattern {
	n, err := ast.NewRepeat(nodeOf("Exactly", p), count, count)
	return must("Exactly", n, err)
}

// From matches p between min and max times inclusive.
func From(min, max int, p Pattern) Pattern {
	if max < 0 {
		return must[ast.Node]("From", nil, fmt.Errorf("%w: %d", ast.ErrNegativeMax, max))
	}
	n, err := ast.NewRepeat(nodeOf("From", p), min, max)
	return must("From", n, err)
}

// AnyCharacter matches any single character.
func AnyCharacter() Pattern {
	return pattern{node: &ast.AnyChar{}}
}

// AnyCharacterIn matches one character of spec, where "a-z" style tokens are
// inclusive ranges and any other character stands for itself.
func AnyCharacterIn(spec string) Pattern {
	return charClass("AnyCharacterIn", spec, false)
}

// AnyCharacterNotIn matches one character not in spec.
func AnyCharacterNotIn(spec string) Pattern {
	return charClass("AnyCharacterNotIn", spec, true)
}

// AnyCharacterInCategory matches one character of the Unicode general
// category code, such as "Lu" or "Nd".
func AnyCharacterInCategory(code string) Pattern {
	return category("AnyCharacterInCategory", code, false)
}

// AnyCharacterNotInCategory matches one character outside the category.
func AnyCharacterNotInCategory(code string) Pattern {
	return category("AnyCharacterNotInCategory", code, true)
}

func charClass(builder, spec string, negated bool) Pattern {
	set, err := charset.Parse(spec)
	if err != nil {
		return must[ast.Node](builder, nil, err)
	}
	n, err := ast.NewCharClass(set, negated)
	return must(builder, n, err)
}

func category(builder, code string, negated bool) Pattern {
	set, err := charset.Category(code)
	if err != nil {
		return must[ast.Node](builder, nil, err)
	}
	n, err := ast.NewCharClass(set, negated)
	return must(builder, n, err)
}

// Group captures the text matched by p under name. The capture can be read
// from a Parse and matched again with ValueOf.
func Group(name string, p Pattern) Pattern {
	n, err := ast.NewGroup(name, nodeOf("Group", p))
	return must("Group", n, err)
}

// ValueOf matches the exact text captured earlier by the group at path. A
// plain name finds the nearest enclosing capture; a dotted path such as
// "inside.xs" reaches into a named group.
func ValueOf(path string) Pattern {
	n, err := ast.NewReference(path)
	return must("ValueOf", n, err)
}

// ListPattern is a list of elements. It matches comma-separated elements
// unless another separator is chosen.
type ListPattern struct {
	element ast.Node
	node    *ast.List
}

// ListOf matches zero or more occurrences of p separated by commas.
func ListOf(p Pattern) *ListPattern {
	element := nodeOf("ListOf", p)
	n, err := ast.NewList(element, ast.NewLiteral(","))
	must("ListOf", n, err)
	return &ListPattern{element: element, node: n}
}

// SeparatedBy returns a list that uses sep between elements.
func (l *ListPattern) SeparatedBy(sep string) *ListPattern {
	return l.SeparatedByPattern(Text(sep))
}

// SeparatedByPattern returns a list that uses any match of sep between elements.
func (l *ListPattern) SeparatedByPattern(sep Pattern) *ListPattern {
	n, err := ast.NewList(l.element, nodeOf("SeparatedBy", sep))
	must("SeparatedBy", n, err)
	return &ListPattern{element: l.element, node: n}
}

func (l *ListPattern) Node() ast.Node { return l.node }

func (l *ListPattern) String() string { return l.node.String() }
