package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromDaniel/textpat/internal/ast"
	"github.com/KromDaniel/textpat/internal/charset"
)

func lit(s string) ast.Node { return ast.NewLiteral(s) }

func seq(children ...ast.Node) ast.Node { return &ast.Sequence{Children: children} }

func plus(n ast.Node) ast.Node { return &ast.Repeat{Inner: n, Min: 1, Max: ast.Unbounded} }

func star(n ast.Node) ast.Node { return &ast.Repeat{Inner: n, Min: 0, Max: ast.Unbounded} }

func group(name string, n ast.Node) ast.Node { return &ast.Group{Name: name, Inner: n} }

func ref(path ...string) ast.Node { return &ast.Reference{Path: path} }

func matched(t *testing.T, root ast.Node, input string) *Result {
	t.Helper()
	res, err := Match(root, input, Options{})
	require.NoError(t, err)
	return res
}

func TestRepeatBacktracksIntoSequence(t *testing.T) {
	t.Parallel()
	// x+ followed by a literal x needs the repetition to give one back.
	root := seq(group("xs", plus(lit("x"))), lit("x"))

	res := matched(t, root, "xxxx")
	require.True(t, res.Matched)
	assert.Equal(t, map[string]string{"xs": "xxx"}, res.Bindings())

	assert.False(t, matched(t, root, "x").Matched)
}

func TestAlternativeCommitsToFirstSuccess(t *testing.T) {
	t.Parallel()
	// "a" wins locally, so "ab" is never tried even though it would let the
	// rest of the sequence match.
	root := seq(&ast.Alternative{Children: []ast.Node{lit("a"), lit("ab")}}, lit("c"))

	assert.True(t, matched(t, root, "ac").Matched)
	assert.False(t, matched(t, root, "abc").Matched)
}

func TestZeroWidthRepeatTerminates(t *testing.T) {
	t.Parallel()
	root := &ast.Repeat{Inner: &ast.Optional{Inner: lit("x")}, Min: 3, Max: ast.Unbounded}

	assert.True(t, matched(t, root, "").Matched)
	assert.True(t, matched(t, root, "xx").Matched)
	assert.True(t, matched(t, root, "xxxxx").Matched)
	assert.False(t, matched(t, root, "y").Matched)
}

func TestScopeShadowingAndQualifiedPaths(t *testing.T) {
	t.Parallel()
	root := seq(
		group("xs", plus(lit("x"))),
		lit("-"),
		group("inside", seq(group("xs", plus(lit("y"))), lit("-"), ref("xs"))),
		lit("-"),
		ref("xs"),
		lit("-"),
		ref("inside", "xs"),
	)

	res := matched(t, root, "xx-yy-yy-xx-yy")
	require.True(t, res.Matched)
	assert.Equal(t, map[string]string{
		"xs":        "xx",
		"inside":    "yy-yy",
		"inside.xs": "yy",
	}, res.Bindings())

	assert.False(t, matched(t, root, "xx-yy-xx-xx-yy").Matched)
	assert.False(t, matched(t, root, "xx-yy-yy-yy-yy").Matched)
}

func TestUnboundReferenceFailsCleanly(t *testing.T) {
	t.Parallel()
	assert.False(t, matched(t, seq(ref("later"), group("later", lit("a"))), "aa").Matched)
	assert.False(t, matched(t, group("self", seq(lit("a"), ref("self"))), "aa").Matched)
	assert.False(t, matched(t, seq(group("a", lit("x")), ref("a", "missing")), "xx").Matched)
}

func TestGroupInsideRepeatKeepsLastBinding(t *testing.T) {
	t.Parallel()
	item := group("item", seq(group("key", plus(&ast.CharClass{Set: mustSet(t, "a-z")})), lit(";")))
	res := matched(t, star(item), "ab;cd;efg;")
	require.True(t, res.Matched)
	assert.Equal(t, map[string]string{"item": "efg;", "item.key": "efg"}, res.Bindings())
}

func TestListRejectsTrailingSeparator(t *testing.T) {
	t.Parallel()
	root := &ast.List{Element: lit("x"), Separator: lit(",")}

	for _, in := range []string{"", "x", "x,x", "x,x,x,x,x"} {
		assert.True(t, matched(t, root, in).Matched, in)
	}
	for _, in := range []string{",", "x,x,x,", ",x", "xx"} {
		assert.False(t, matched(t, root, in).Matched, in)
	}
}

func TestCharactersAreCodePoints(t *testing.T) {
	t.Parallel()
	root := seq(&ast.AnyChar{}, &ast.CharClass{Set: mustSet(t, "α-ω")})
	assert.True(t, matched(t, root, "日β").Matched)
	assert.False(t, matched(t, root, "日").Matched)
	assert.False(t, matched(t, root, "日βx").Matched)
}

func TestInvalidUTF8IsNoSetMember(t *testing.T) {
	t.Parallel()
	symbol, err := charset.Category("So")
	require.NoError(t, err)
	replacement := mustSet(t, "\uFFFD")
	invalid := "\xff"

	tests := []struct {
		name string
		root ast.Node
		want bool
	}{
		{"any character", &ast.AnyChar{}, true},
		{"set holding U+FFFD", &ast.CharClass{Set: replacement}, false},
		{"negated set holding U+FFFD", &ast.CharClass{Set: replacement, Negated: true}, true},
		{"category So", &ast.CharClass{Set: symbol}, false},
		{"negated category So", &ast.CharClass{Set: symbol, Negated: true}, true},
		{"literal U+FFFD", lit("\uFFFD"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, matched(t, tt.root, invalid).Matched)
		})
	}

	// an encoded U+FFFD is an ordinary character
	assert.True(t, matched(t, &ast.CharClass{Set: replacement}, "\uFFFD").Matched)
	assert.True(t, matched(t, &ast.CharClass{Set: symbol}, "\uFFFD").Matched)
}

func TestStepLimit(t *testing.T) {
	t.Parallel()
	root := seq(star(lit("x")), lit("y"))
	input := strings.Repeat("x", 2000)

	res, err := Match(root, input, Options{StepLimit: 500})
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.False(t, res.Matched)
	assert.Equal(t, 501, res.Steps)

	res, err = Match(root, input+"y", Options{})
	require.NoError(t, err)
	assert.True(t, res.Matched)
}

func TestFarthest(t *testing.T) {
	t.Parallel()
	root := seq(lit("hello"), &ast.Optional{Inner: lit(" world")})

	res := matched(t, root, "hello there")
	assert.False(t, res.Matched)
	assert.Equal(t, 5, res.Farthest)
}

func TestLoggerRecordsDecisions(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf))
	require.True(t, log.Enabled())

	_, err := Match(group("g", lit("a")), "a", Options{Logger: log})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `group \"g\" bound to \"a\"`)

	assert.False(t, NewZerologLogger(zerolog.Nop()).Enabled())
	var nilLogger *Logger
	assert.False(t, nilLogger.Enabled())
}

func mustSet(t *testing.T, spec string) *charset.Set {
	t.Helper()
	s, err := charset.Parse(spec)
	require.NoError(t, err)
	return s
}
