// Package textpat builds grammars out of small pattern combinators and matches
// them against text.
//
// A grammar is assembled from builders such as Text, Sequence, Either and
// OneOrMore, then bound to a Matcher:
//
//	word := textpat.OneOrMore(textpat.AnyCharacterIn("a-z"))
//	m := textpat.NewMatcher(textpat.Sequence(
//		textpat.Group("user", word), textpat.Text("@"), textpat.Group("host", word)))
//
//	m.Matches("joe@example")         // true
//	p, _ := m.Parse("joe@example")
//	p.Get("host")                    // "example", nil
//
// Matching is anchored: the whole input must match. Named groups capture the
// text they match and may be referenced later in the same grammar with
// ValueOf. Patterns are immutable; a Matcher may be used from many goroutines
// at once.
package textpat

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/KromDaniel/textpat/internal/ast"
	"github.com/KromDaniel/textpat/internal/engine"
)

// Option configures a Matcher.
type Option func(*Matcher)

// WithStepLimit bounds the work done per match attempt. Inputs that need more
// than n evaluation steps do not match. Use it for grammars or inputs from
// untrusted sources.
func WithStepLimit(n int) Option {
	return func(m *Matcher) {
		m.opts.StepLimit = n
	}
}

// WithLogger logs engine decisions at debug level.
func WithLogger(zl zerolog.Logger) Option {
	return func(m *Matcher) {
		m.opts.Logger = engine.NewZerologLogger(zl)
	}
}

// Matcher matches a grammar against whole inputs.
type Matcher struct {
	root ast.Node
	opts engine.Options
}

// NewMatcher binds p to the matching engine.
func NewMatcher(p Pattern, opts ...Option) *Matcher {
	m := &Matcher{root: nodeOf("NewMatcher", p)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Node returns the root of the grammar. It makes a Matcher usable as a
// Pattern; embedding a Matcher behaves exactly as if its grammar were inlined.
func (m *Matcher) Node() ast.Node {
	return m.root
}

// Matches reports whether the whole input matches. It never fails.
func (m *Matcher) Matches(input string) bool {
	res, err := engine.Match(m.root, input, m.opts)
	return err == nil && res.Matched
}

// Parse matches input and returns the captured groups. It returns a
// *NoMatchError wrapping ErrNoMatch when input does not match.
func (m *Matcher) Parse(input string) (*Parse, error) {
	res, err := engine.Match(m.root, input, m.opts)
	if err != nil {
		return nil, fmt.Errorf("textpat: %w", err)
	}
	if !res.Matched {
		return nil, &NoMatchError{Input: input, Offset: res.Farthest}
	}
	return &Parse{input: input, values: res.Bindings()}, nil
}

// Replace matches input and expands template with its captures. See
// Parse.Expand for the template syntax.
func (m *Matcher) Replace(input, template string) (string, error) {
	p, err := m.Parse(input)
	if err != nil {
		return "", err
	}
	return p.Expand(template)
}

// String describes the grammar in a regular-expression-like notation.
func (m *Matcher) String() string {
	return m.root.String()
}

// DescribeMismatch explains why input does not match, or returns "" when it
// does.
func (m *Matcher) DescribeMismatch(input string) string {
	res, err := engine.Match(m.root, input, m.opts)
	switch {
	case errors.Is(err, engine.ErrStepLimit):
		return fmt.Sprintf("%q could not be matched against /%s/ within %d steps", input, m, m.opts.StepLimit)
	case res.Matched:
		return ""
	case res.Farthest >= len(input):
		return fmt.Sprintf("%q ended before /%s/ was complete", input, m)
	default:
		return fmt.Sprintf("%q does not match /%s/: diverged at offset %d, unmatched %q",
			input, m, res.Farthest, input[res.Farthest:])
	}
}
