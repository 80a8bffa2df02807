package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/KromDaniel/textpat/internal/ast"
	"github.com/KromDaniel/textpat/internal/engine"
)

// Config holds the configuration for code generation.
type Config struct {
	Name             string   // Exported name of the generated matcher variable
	Package          string   // Package clause of the generated file
	OutputFile       string   // Path of the generated file
	Source           string   // Where the grammar came from, for the header comment
	Description      string   // Doc comment for the matcher variable
	StepLimit        int      // Passed to WithStepLimit when positive
	GenerateTestFile bool     // Generate a test file next to the output
	TestFileInputs   []string // Inputs for the generated test; expectations come from the live grammar
}

// Validate checks if the config is valid.
func (c Config) Validate() error {
	if !token.IsIdentifier(c.Name) || !token.IsExported(c.Name) {
		return fmt.Errorf("name %q must be an exported Go identifier", c.Name)
	}
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("package %q must be a Go identifier", c.Package)
	}
	if c.GenerateTestFile && c.OutputFile == "" {
		return errors.New("test file generation needs an output file")
	}
	return nil
}

// Generator renders a pattern tree as Go source that rebuilds it with the
// public builders.
type Generator struct {
	config Config
}

// New creates a new generator instance.
func New(config Config) *Generator {
	return &Generator{config: config}
}

// Generate writes the matcher source for root to the output file, and the test
// file when requested.
func (g *Generator) Generate(root ast.Node) error {
	if g.config.OutputFile == "" {
		return errors.New("output file cannot be empty")
	}

	src, err := g.Source(root)
	if err != nil {
		return err
	}
	if err := os.WriteFile(g.config.OutputFile, src, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	if g.config.GenerateTestFile {
		if err := g.generateTestFile(root); err != nil {
			return fmt.Errorf("failed to generate test file: %w", err)
		}
	}
	return nil
}

// Source returns the formatted matcher source for root.
func (g *Generator) Source(root ast.Node) ([]byte, error) {
	if err := g.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	expr, err := Expr(root)
	if err != nil {
		return nil, err
	}

	f := jen.NewFile(g.config.Package)
	f.HeaderComment(g.header())

	args := []jen.Code{expr}
	if g.config.StepLimit > 0 {
		args = append(args, jen.Qual(PackagePath, "WithStepLimit").Call(jen.Lit(g.config.StepLimit)))
	}

	description := g.config.Description
	if description == "" {
		description = "matches /" + root.String() + "/."
	}
	f.Comment(g.config.Name + " " + description)
	f.Var().Id(g.config.Name).Op("=").Qual(PackagePath, MatcherCtorName).Call(args...)

	return render(f)
}

func (g *Generator) header() string {
	if g.config.Source != "" {
		return fmt.Sprintf("Code generated by textpat from %s. DO NOT EDIT.", g.config.Source)
	}
	return "Code generated by textpat. DO NOT EDIT."
}

// generateTestFile writes a test checking the generated matcher against the
// outcome of the grammar it was generated from.
func (g *Generator) generateTestFile(root ast.Node) error {
	casesVar := LowerFirst(g.config.Name) + "Cases"

	cases := make([]jen.Code, 0, len(g.config.TestFileInputs))
	for _, input := range g.config.TestFileInputs {
		res, err := engine.Match(root, input, engine.Options{StepLimit: g.config.StepLimit})
		if err != nil {
			return fmt.Errorf("input %q: %w", input, err)
		}
		cases = append(cases, jen.Values(jen.Lit(input), jen.Lit(res.Matched)))
	}

	f := jen.NewFile(g.config.Package)
	f.HeaderComment(g.header())

	f.Var().Id(casesVar).Op("=").Index().Struct(
		jen.Id(InputName).String(),
		jen.Id(WantName).Bool(),
	).Custom(jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true}, cases...)

	tc := jen.Id("tc")
	f.Func().Id(TestFuncName(g.config.Name)).Params(jen.Id(TestingName).Op("*").Qual("testing", "T")).Block(
		jen.For(jen.List(jen.Id("_"), tc.Clone()).Op(":=").Range().Id(casesVar)).Block(
			jen.If(
				jen.Id("got").Op(":=").Id(g.config.Name).Dot("Matches").Call(tc.Clone().Dot(InputName)),
				jen.Id("got").Op("!=").Add(tc.Clone()).Dot(WantName),
			).Block(
				jen.Id(TestingName).Dot("Errorf").Call(
					jen.Lit(g.config.Name+".Matches(%q) = %v, want %v"),
					tc.Clone().Dot(InputName), jen.Id("got"), tc.Clone().Dot(WantName),
				),
			),
		),
	)
	f.Line()

	f.Func().Id(BenchmarkFuncName(g.config.Name)).Params(jen.Id("b").Op("*").Qual("testing", "B")).Block(
		jen.For(jen.Id("i").Op(":=").Lit(0), jen.Id("i").Op("<").Id("b").Dot("N"), jen.Id("i").Op("++")).Block(
			jen.For(jen.List(jen.Id("_"), tc.Clone()).Op(":=").Range().Id(casesVar)).Block(
				jen.Id(g.config.Name).Dot("Matches").Call(tc.Clone().Dot(InputName)),
			),
		),
	)

	src, err := render(f)
	if err != nil {
		return err
	}
	return os.WriteFile(testFilePath(g.config.OutputFile), src, 0644)
}

func testFilePath(output string) string {
	return strings.TrimSuffix(output, ".go") + "_test.go"
}

// render renders f and formats it with go/format.
func render(f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render file: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format file: %w", err)
	}
	return formatted, nil
}
