// Package grammar loads named textpat grammars from YAML files.
//
// A file holds a list of rules. Each rule names a pattern, and a pattern may
// embed any other rule by name, so larger grammars are assembled from smaller
// ones:
//
//	rules:
//	  - name: word
//	    pattern:
//	      oneOrMore: {anyCharacterIn: "a-z"}
//	  - name: email
//	    pattern:
//	      sequence:
//	        - group: {name: user, pattern: {rule: word}}
//	        - text: "@"
//	        - group: {name: host, pattern: {listOf: {pattern: {rule: word}, separatedBy: "."}}}
package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/KromDaniel/textpat/pkg/textpat"
)

var (
	// ErrUnknownRule is returned for a reference to a rule that is not defined.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrDuplicateRule is returned when two rules share a name.
	ErrDuplicateRule = errors.New("duplicate rule")
	// ErrCycle is returned when rules embed each other in a loop.
	ErrCycle = errors.New("rule cycle")
	// ErrInvalidPattern is returned for a pattern with no kind or more than one.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// File is the YAML document layout.
type File struct {
	Rules []Rule `yaml:"rules"`
}

// Rule is a named pattern.
type Rule struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Pattern     Expr   `yaml:"pattern"`
}

// Expr is one pattern. Exactly one field must be set.
type Expr struct {
	Text                      *string    `yaml:"text,omitempty"`
	Sequence                  []Expr     `yaml:"sequence,omitempty"`
	Either                    []Expr     `yaml:"either,omitempty"`
	Optional                  *Expr      `yaml:"optional,omitempty"`
	ZeroOrMore                *Expr      `yaml:"zeroOrMore,omitempty"`
	OneOrMore                 *Expr      `yaml:"oneOrMore,omitempty"`
	Exactly                   *CountExpr `yaml:"exactly,omitempty"`
	From                      *RangeExpr `yaml:"from,omitempty"`
	AnyCharacter              bool       `yaml:"anyCharacter,omitempty"`
	AnyCharacterIn            *string    `yaml:"anyCharacterIn,omitempty"`
	AnyCharacterNotIn         *string    `yaml:"anyCharacterNotIn,omitempty"`
	AnyCharacterInCategory    *string    `yaml:"anyCharacterInCategory,omitempty"`
	AnyCharacterNotInCategory *string    `yaml:"anyCharacterNotInCategory,omitempty"`
	Group                     *GroupExpr `yaml:"group,omitempty"`
	ValueOf                   *string    `yaml:"valueOf,omitempty"`
	ListOf                    *ListExpr  `yaml:"listOf,omitempty"`
	Rule                      *string    `yaml:"rule,omitempty"`
}

// CountExpr repeats Pattern exactly Count times.
type CountExpr struct {
	Count   int  `yaml:"count"`
	Pattern Expr `yaml:"pattern"`
}

// RangeExpr repeats Pattern between Min and Max times.
type RangeExpr struct {
	Min     int  `yaml:"min"`
	Max     int  `yaml:"max"`
	Pattern Expr `yaml:"pattern"`
}

// GroupExpr captures Pattern under Name.
type GroupExpr struct {
	Name    string `yaml:"name"`
	Pattern Expr   `yaml:"pattern"`
}

// ListExpr is a separated list of Pattern. SeparatedBy defaults to ",".
type ListExpr struct {
	Pattern     Expr    `yaml:"pattern"`
	SeparatedBy *string `yaml:"separatedBy,omitempty"`
}

// Grammar is a set of compiled rules.
type Grammar struct {
	rules    map[string]Rule
	order    []string
	matchers map[string]*textpat.Matcher
}

// Load reads and compiles the grammar file at path.
func Load(path string, opts ...textpat.Option) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse decodes and compiles a YAML grammar. Unknown keys are rejected.
func Parse(data []byte, opts ...textpat.Option) (*Grammar, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode grammar: %w", err)
	}
	return Compile(f, opts...)
}

// Compile builds every rule of f. All problems found are reported together.
func Compile(f File, opts ...textpat.Option) (*Grammar, error) {
	if len(f.Rules) == 0 {
		return nil, errors.New("grammar has no rules")
	}

	g := &Grammar{
		rules:    make(map[string]Rule, len(f.Rules)),
		matchers: make(map[string]*textpat.Matcher, len(f.Rules)),
	}

	var result *multierror.Error
	for i, r := range f.Rules {
		switch {
		case r.Name == "":
			result = multierror.Append(result, fmt.Errorf("rule #%d has no name", i+1))
		case g.has(r.Name):
			result = multierror.Append(result, fmt.Errorf("%w %q", ErrDuplicateRule, r.Name))
		default:
			g.rules[r.Name] = r
			g.order = append(g.order, r.Name)
		}
	}

	c := &compiler{grammar: g, opts: opts, state: make(map[string]ruleState)}
	for _, name := range g.order {
		if _, err := c.rule(name); err != nil && !errors.Is(err, errReported) {
			result = multierror.Append(result, err)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grammar) has(name string) bool {
	_, ok := g.rules[name]
	return ok
}

// Names returns the rule names in declaration order.
func (g *Grammar) Names() []string {
	return slices.Clone(g.order)
}

// Rule returns the definition of the named rule.
func (g *Grammar) Rule(name string) (Rule, bool) {
	r, ok := g.rules[name]
	return r, ok
}

// Matcher returns the compiled matcher for the named rule.
func (g *Grammar) Matcher(name string) (*textpat.Matcher, error) {
	m, ok := g.matchers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRule, name)
	}
	return m, nil
}
