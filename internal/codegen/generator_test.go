package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KromDaniel/textpat/internal/ast"
	"github.com/KromDaniel/textpat/internal/charset"
)

func mustSet(t *testing.T, spec string) *charset.Set {
	t.Helper()
	s, err := charset.Parse(spec)
	if err != nil {
		t.Fatalf("charset.Parse(%q): %v", spec, err)
	}
	return s
}

func emailTree(t *testing.T) ast.Node {
	word := &ast.Repeat{Inner: &ast.CharClass{Set: mustSet(t, "a-z")}, Min: 1, Max: ast.Unbounded}
	return &ast.Sequence{Children: []ast.Node{
		&ast.Group{Name: "user", Inner: word},
		ast.NewLiteral("@"),
		&ast.Group{Name: "host", Inner: &ast.List{Element: word, Separator: ast.NewLiteral(".")}},
	}}
}

func TestExpr(t *testing.T) {
	upper, err := charset.Category("Lu")
	if err != nil {
		t.Fatal(err)
	}
	x := ast.NewLiteral("x")

	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"text", x, `textpat.Text("x")`},
		{"any", &ast.AnyChar{}, `textpat.AnyCharacter()`},
		{"class", &ast.CharClass{Set: mustSet(t, "0-9")}, `textpat.AnyCharacterIn("0-9")`},
		{"negated class", &ast.CharClass{Set: mustSet(t, "0-9"), Negated: true}, `textpat.AnyCharacterNotIn("0-9")`},
		{"category", &ast.CharClass{Set: upper}, `textpat.AnyCharacterInCategory("Lu")`},
		{"negated category", &ast.CharClass{Set: upper, Negated: true}, `textpat.AnyCharacterNotInCategory("Lu")`},
		{"star", &ast.Repeat{Inner: x, Min: 0, Max: ast.Unbounded}, `textpat.ZeroOrMore(textpat.Text("x"))`},
		{"plus", &ast.Repeat{Inner: x, Min: 1, Max: ast.Unbounded}, `textpat.OneOrMore(textpat.Text("x"))`},
		{"exact", &ast.Repeat{Inner: x, Min: 3, Max: 3}, `textpat.Exactly(3, textpat.Text("x"))`},
		{"range", &ast.Repeat{Inner: x, Min: 3, Max: 5}, `textpat.From(3, 5, textpat.Text("x"))`},
		{"optional", &ast.Optional{Inner: x}, `textpat.Optional(textpat.Text("x"))`},
		{"group", &ast.Group{Name: "g", Inner: x}, `textpat.Group("g", textpat.Text("x"))`},
		{"reference", &ast.Reference{Path: []string{"a", "b"}}, `textpat.ValueOf("a.b")`},
		{"default list", &ast.List{Element: x, Separator: ast.NewLiteral(",")}, `textpat.ListOf(textpat.Text("x"))`},
		{"list", &ast.List{Element: x, Separator: ast.NewLiteral(":")}, `textpat.ListOf(textpat.Text("x")).SeparatedBy(":")`},
		{"single sequence", &ast.Sequence{Children: []ast.Node{x}}, `textpat.Sequence(textpat.Text("x"))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Expr(tt.node)
			if err != nil {
				t.Fatalf("Expr() error: %v", err)
			}
			if got := code.GoString(); got != tt.want {
				t.Errorf("Expr() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSource(t *testing.T) {
	g := New(Config{
		Name:      "Email",
		Package:   "patterns",
		Source:    "url.yaml#email",
		StepLimit: 1000,
	})

	src, err := g.Source(emailTree(t))
	if err != nil {
		t.Fatalf("Source() error: %v", err)
	}

	out := string(src)
	for _, want := range []string{
		"// Code generated by textpat from url.yaml#email. DO NOT EDIT.",
		"package patterns",
		`textpat "github.com/KromDaniel/textpat/pkg/textpat"`,
		"// Email matches /(?<user>[a-z]+)@(?<host>(?:[a-z]+(?:\\.[a-z]+)*)?)/.",
		"var Email = textpat.NewMatcher(",
		`textpat.Group("user", textpat.OneOrMore(textpat.AnyCharacterIn("a-z")))`,
		`textpat.ListOf(textpat.OneOrMore(textpat.AnyCharacterIn("a-z"))).SeparatedBy(".")`,
		"textpat.WithStepLimit(1000)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q\n%s", want, out)
		}
	}
}

func TestGenerateWithTestFile(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "email.go")

	g := New(Config{
		Name:             "Email",
		Package:          "patterns",
		OutputFile:       output,
		GenerateTestFile: true,
		TestFileInputs:   []string{"joe@example.com", "not an email"},
	})
	if err := g.Generate(emailTree(t)); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := os.Stat(output); os.IsNotExist(err) {
		t.Fatal("output file was not created")
	}

	test, err := os.ReadFile(filepath.Join(dir, "email_test.go"))
	if err != nil {
		t.Fatalf("test file was not created: %v", err)
	}
	for _, want := range []string{
		"func TestEmailMatches(t *testing.T)",
		"func BenchmarkEmailMatches(b *testing.B)",
		`{"joe@example.com", true}`,
		`{"not an email", false}`,
	} {
		if !strings.Contains(string(test), want) {
			t.Errorf("generated test missing %q\n%s", want, test)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{Name: "Email", Package: "patterns"}, false},
		{"unexported name", Config{Name: "email", Package: "patterns"}, true},
		{"bad package", Config{Name: "Email", Package: "my-patterns"}, true},
		{"test file without output", Config{Name: "Email", Package: "p", GenerateTestFile: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
