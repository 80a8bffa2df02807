package textpat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentParsesDoNotShareBindings(t *testing.T) {
	t.Parallel()
	m := NewMatcher(Sequence(
		Group("n", OneOrMore(AnyCharacterIn("0-9"))),
		Text(":"),
		Group("echo", ValueOf("n")),
	))

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				n := fmt.Sprint(i*1000 + j)
				p, err := m.Parse(n + ":" + n)
				if err != nil {
					return err
				}
				for _, path := range []string{"n", "echo"} {
					got, err := p.Get(path)
					if err != nil {
						return err
					}
					if got != n {
						return fmt.Errorf("%s = %q, want %q", path, got, n)
					}
				}
				if m.Matches(n + ":" + strings.Repeat("9", len(n)+1)) {
					return fmt.Errorf("unexpected match for %s", n)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestEmbeddedMatcherScopes(t *testing.T) {
	t.Parallel()
	pair := NewMatcher(Sequence(Group("a", OneOrMore(Text("x"))), Text("="), ValueOf("a")))
	outer := NewMatcher(Sequence(
		Group("a", OneOrMore(Text("y"))),
		Text(" "),
		Group("left", pair),
		Text(" "),
		ValueOf("a"),
		Text(" "),
		ValueOf("left.a"),
	))

	p, err := outer.Parse("yy xx=xx yy xx")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a":      "yy",
		"left":   "xx=xx",
		"left.a": "xx",
	}, p.Map())
	assert.False(t, outer.Matches("yy xx=xx xx xx"))
}
