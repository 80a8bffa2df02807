package grammar

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/KromDaniel/textpat/pkg/textpat"
)

// errReported marks a failure already recorded against another rule.
var errReported = errors.New("reported")

type ruleState int

const (
	unvisited ruleState = iota
	building
	built
	failed
)

type compiler struct {
	grammar *Grammar
	opts    []textpat.Option
	state   map[string]ruleState
	stack   []string
}

func (c *compiler) rule(name string) (*textpat.Matcher, error) {
	switch c.state[name] {
	case built:
		return c.grammar.matchers[name], nil
	case failed:
		return nil, errReported
	case building:
		cycle := append(slices.Clone(c.stack[indexOf(c.stack, name):]), name)
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " -> "))
	}

	r, ok := c.grammar.rules[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRule, name)
	}

	c.state[name] = building
	c.stack = append(c.stack, name)
	p, err := c.expr(r.Pattern, "pattern")
	c.stack = c.stack[:len(c.stack)-1]

	if err != nil {
		c.state[name] = failed
		if errors.Is(err, errReported) {
			return nil, err
		}
		return nil, fmt.Errorf("rule %q: %w", name, err)
	}

	m := textpat.NewMatcher(p, c.opts...)
	c.grammar.matchers[name] = m
	c.state[name] = built
	return m, nil
}

// expr builds e; at is its location within the rule, for error messages.
func (c *compiler) expr(e Expr, at string) (textpat.Pattern, error) {
	kinds := e.kinds()
	switch len(kinds) {
	case 0:
		return nil, fmt.Errorf("%s: %w: empty pattern", at, ErrInvalidPattern)
	case 1:
	default:
		return nil, fmt.Errorf("%s: %w: more than one of %s", at, ErrInvalidPattern, strings.Join(kinds, ", "))
	}

	var (
		p   textpat.Pattern
		ps  []textpat.Pattern
		err error
	)
	switch {
	case e.Text != nil:
		p = textpat.Text(*e.Text)

	case e.Sequence != nil:
		if ps, err = c.exprs(e.Sequence, at+".sequence"); err != nil {
			return nil, err
		}
		p, err = try(at, func() textpat.Pattern { return textpat.Sequence(ps...) })

	case e.Either != nil:
		if ps, err = c.exprs(e.Either, at+".either"); err != nil {
			return nil, err
		}
		p, err = try(at, func() textpat.Pattern { return textpat.Either(ps...) })

	case e.Optional != nil:
		p, err = c.wrap(*e.Optional, at+".optional", textpat.Optional)

	case e.ZeroOrMore != nil:
		p, err = c.wrap(*e.ZeroOrMore, at+".zeroOrMore", textpat.ZeroOrMore)

	case e.OneOrMore != nil:
		p, err = c.wrap(*e.OneOrMore, at+".oneOrMore", textpat.OneOrMore)

	case e.Exactly != nil:
		count := e.Exactly.Count
		p, err = c.wrap(e.Exactly.Pattern, at+".exactly.pattern", func(inner textpat.Pattern) textpat.Pattern {
			return textpat.Exactly(count, inner)
		})

	case e.From != nil:
		min, max := e.From.Min, e.From.Max
		p, err = c.wrap(e.From.Pattern, at+".from.pattern", func(inner textpat.Pattern) textpat.Pattern {
			return textpat.From(min, max, inner)
		})

	case e.AnyCharacter:
		p = textpat.AnyCharacter()

	case e.AnyCharacterIn != nil:
		p, err = try(at, func() textpat.Pattern { return textpat.AnyCharacterIn(*e.AnyCharacterIn) })

	case e.AnyCharacterNotIn != nil:
		p, err = try(at, func() textpat.Pattern { return textpat.AnyCharacterNotIn(*e.AnyCharacterNotIn) })

	case e.AnyCharacterInCategory != nil:
		p, err = try(at, func() textpat.Pattern { return textpat.AnyCharacterInCategory(*e.AnyCharacterInCategory) })

	case e.AnyCharacterNotInCategory != nil:
		p, err = try(at, func() textpat.Pattern { return textpat.AnyCharacterNotInCategory(*e.AnyCharacterNotInCategory) })

	case e.Group != nil:
		name := e.Group.Name
		p, err = c.wrap(e.Group.Pattern, at+".group.pattern", func(inner textpat.Pattern) textpat.Pattern {
			return textpat.Group(name, inner)
		})

	case e.ValueOf != nil:
		p, err = try(at, func() textpat.Pattern { return textpat.ValueOf(*e.ValueOf) })

	case e.ListOf != nil:
		sep := ","
		if e.ListOf.SeparatedBy != nil {
			sep = *e.ListOf.SeparatedBy
		}
		p, err = c.wrap(e.ListOf.Pattern, at+".listOf.pattern", func(inner textpat.Pattern) textpat.Pattern {
			return textpat.ListOf(inner).SeparatedBy(sep)
		})

	case e.Rule != nil:
		var m *textpat.Matcher
		m, err = c.rule(*e.Rule)
		if err != nil && !errors.Is(err, errReported) && !errors.Is(err, ErrCycle) {
			err = fmt.Errorf("%s: %w", at, err)
		}
		p = m
	}

	if err != nil {
		return nil, err
	}
	return p, nil
}

func (c *compiler) exprs(es []Expr, at string) ([]textpat.Pattern, error) {
	ps := make([]textpat.Pattern, len(es))
	for i, e := range es {
		p, err := c.expr(e, fmt.Sprintf("%s[%d]", at, i))
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

// wrap builds inner and applies a single-child builder to it.
func (c *compiler) wrap(inner Expr, at string, build func(textpat.Pattern) textpat.Pattern) (textpat.Pattern, error) {
	p, err := c.expr(inner, at)
	if err != nil {
		return nil, err
	}
	return try(at, func() textpat.Pattern { return build(p) })
}

func try(at string, build func() textpat.Pattern) (textpat.Pattern, error) {
	p, err := textpat.Try(build)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	return p, nil
}

func (e Expr) kinds() []string {
	var kinds []string
	add := func(set bool, name string) {
		if set {
			kinds = append(kinds, name)
		}
	}
	add(e.Text != nil, "text")
	add(e.Sequence != nil, "sequence")
	add(e.Either != nil, "either")
	add(e.Optional != nil, "optional")
	add(e.ZeroOrMore != nil, "zeroOrMore")
	add(e.OneOrMore != nil, "oneOrMore")
	add(e.Exactly != nil, "exactly")
	add(e.From != nil, "from")
	add(e.AnyCharacter, "anyCharacter")
	add(e.AnyCharacterIn != nil, "anyCharacterIn")
	add(e.AnyCharacterNotIn != nil, "anyCharacterNotIn")
	add(e.AnyCharacterInCategory != nil, "anyCharacterInCategory")
	add(e.AnyCharacterNotInCategory != nil, "anyCharacterNotInCategory")
	add(e.Group != nil, "group")
	add(e.ValueOf != nil, "valueOf")
	add(e.ListOf != nil, "listOf")
	add(e.Rule != nil, "rule")
	return kinds
}

func indexOf(stack []string, name string) int {
	for i, s := range stack {
		if s == name {
			return i
		}
	}
	return 0
}
