// Package ast defines the immutable pattern tree evaluated by the matching engine.
//
// Nodes are plain values behind a sealed interface; the engine dispatches on the
// concrete type. A node is never mutated after construction, so a tree can be
// shared between grammars and traversed concurrently.
package ast

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/KromDaniel/textpat/internal/charset"
)

// Unbounded is the Max of a Repeat with no upper limit.
const Unbounded = -1

var (
	// ErrNegativeMin is returned for a repetition with a negative minimum.
	ErrNegativeMin = errors.New("negative minimum repetition count")
	// ErrNegativeMax is returned for an explicit repetition maximum below zero.
	ErrNegativeMax = errors.New("negative maximum repetition count")
	// ErrInvertedBounds is returned when a repetition minimum exceeds its maximum.
	ErrInvertedBounds = errors.New("minimum repetition count exceeds maximum")
	// ErrInvalidName is returned for an empty or dotted group name.
	ErrInvalidName = errors.New("invalid group name")
	// ErrInvalidPath is returned for a reference path with empty segments.
	ErrInvalidPath = errors.New("invalid reference path")
	// ErrNilNode is returned when a required child node is missing.
	ErrNilNode = errors.New("nil pattern")
)

// Node is a pattern tree node.
type Node interface {
	fmt.Stringer
	node()
}

// Literal matches Text verbatim.
type Literal struct {
	Text string
}

// Sequence matches Children one after another.
type Sequence struct {
	Children []Node
}

// Alternative is an ordered choice: the first child that matches wins.
type Alternative struct {
	Children []Node
}

// Optional matches Inner or nothing.
type Optional struct {
	Inner Node
}

// Repeat matches Inner between Min and Max times. Max is Unbounded for no limit.
type Repeat struct {
	Inner Node
	Min   int
	Max   int
}

// AnyChar matches exactly one character.
type AnyChar struct{}

// CharClass matches one character that is (or, when Negated, is not) in Set.
type CharClass struct {
	Set     *charset.Set
	Negated bool
}

// Group captures the text matched by Inner under Name.
type Group struct {
	Name  string
	Inner Node
}

// Reference matches the text previously captured at Path.
type Reference struct {
	Path []string
}

// List matches Element separated by Separator, with no trailing separator.
type List struct {
	Element   Node
	Separator Node
}

func (*Literal) node()     {}
func (*Sequence) node()    {}
func (*Alternative) node() {}
func (*Optional) node()    {}
func (*Repeat) node()      {}
func (*AnyChar) node()     {}
func (*CharClass) node()   {}
func (*Group) node()       {}
func (*Reference) node()   {}
func (*List) node()        {}

// NewLiteral returns a Literal node.
func NewLiteral(text string) *Literal {
	return &Literal{Text: text}
}

// NewSequence returns a Sequence of children.
func NewSequence(children ...Node) (*Sequence, error) {
	if err := checkNodes(children); err != nil {
		return nil, err
	}
	return &Sequence{Children: append([]Node(nil), children...)}, nil
}

// NewAlternative returns an ordered choice between children.
func NewAlternative(children ...Node) (*Alternative, error) {
	if err := checkNodes(children); err != nil {
		return nil, err
	}
	return &Alternative{Children: append([]Node(nil), children...)}, nil
}

// NewOptional returns an Optional node.
func NewOptional(inner Node) (*Optional, error) {
	if inner == nil {
		return nil, ErrNilNode
	}
	return &Optional{Inner: inner}, nil
}

// NewRepeat returns a Repeat node, validating its bounds.
func NewRepeat(inner Node, min, max int) (*Repeat, error) {
	if inner == nil {
		return nil, ErrNilNode
	}
	if min < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeMin, min)
	}
	if max != Unbounded && min > max {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvertedBounds, min, max)
	}
	return &Repeat{Inner: inner, Min: min, Max: max}, nil
}

// NewCharClass returns a CharClass node over set.
func NewCharClass(set *charset.Set, negated bool) (*CharClass, error) {
	if set == nil {
		return nil, ErrNilNode
	}
	return &CharClass{Set: set, Negated: negated}, nil
}

// NewGroup returns a Group node.
func NewGroup(name string, inner Node) (*Group, error) {
	if name == "" || strings.Contains(name, ".") {
		return nil, fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	if inner == nil {
		return nil, ErrNilNode
	}
	return &Group{Name: name, Inner: inner}, nil
}

// NewReference returns a Reference to a dotted path such as "outer.inner".
func NewReference(path string) (*Reference, error) {
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w %q", ErrInvalidPath, path)
		}
	}
	return &Reference{Path: segments}, nil
}

// NewList returns a List node.
func NewList(element, separator Node) (*List, error) {
	if element == nil || separator == nil {
		return nil, ErrNilNode
	}
	return &List{Element: element, Separator: separator}, nil
}

func checkNodes(nodes []Node) error {
	for i, n := range nodes {
		if n == nil {
			return fmt.Errorf("%w at position %d", ErrNilNode, i)
		}
	}
	return nil
}

// DottedPath joins a reference path back into its dotted form.
func (r *Reference) DottedPath() string {
	return strings.Join(r.Path, ".")
}

// Walk calls fn for n and every node beneath it in depth-first order.
// Children are skipped when fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Sequence:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Alternative:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Optional:
		Walk(n.Inner, fn)
	case *Repeat:
		Walk(n.Inner, fn)
	case *Group:
		Walk(n.Inner, fn)
	case *List:
		Walk(n.Element, fn)
		Walk(n.Separator, fn)
	}
}

// GroupNames returns the distinct group names in the tree, in walk order.
func GroupNames(n Node) []string {
	var names []string
	Walk(n, func(n Node) bool {
		if g, ok := n.(*Group); ok && !slices.Contains(names, g.Name) {
			names = append(names, g.Name)
		}
		return true
	})
	return names
}
