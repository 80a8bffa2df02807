package textpat

import (
	"fmt"
	"maps"
	"slices"

	"github.com/KromDaniel/textpat/replace"
)

// Parse holds the groups captured by a successful match, keyed by dotted path
// ("email", "email.user").
type Parse struct {
	input  string
	values map[string]string
}

// Input returns the text that was matched.
func (p *Parse) Input() string {
	return p.input
}

// Get returns the text captured at path. It returns an *UnknownGroupError
// when the match did not bind path, for example because the group sits in an
// alternative that was not taken.
func (p *Parse) Get(path string) (string, error) {
	v, ok := p.values[path]
	if !ok {
		return "", &UnknownGroupError{Path: path}
	}
	return v, nil
}

// Lookup returns the text captured at path and whether it was bound.
func (p *Parse) Lookup(path string) (string, bool) {
	v, ok := p.values[path]
	return v, ok
}

// Paths returns every bound path, sorted.
func (p *Parse) Paths() []string {
	return slices.Sorted(maps.Keys(p.values))
}

// Map returns a copy of all captures.
func (p *Parse) Map() map[string]string {
	return maps.Clone(p.values)
}

// Expand renders template with the captures of p. $name and ${outer.inner}
// insert captured groups, $0 inserts the whole input and $$ a dollar sign.
// Referring to an unbound group fails with an *UnknownGroupError.
func (p *Parse) Expand(template string) (string, error) {
	tmpl, err := replace.Parse(template)
	if err != nil {
		return "", fmt.Errorf("textpat: invalid template: %w", err)
	}
	return tmpl.Expand(p.input, p.Get)
}
