package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/KromDaniel/textpat/internal/ast"
	"github.com/KromDaniel/textpat/internal/charset"
)

var multiline = jen.Options{Open: "(", Close: ")", Separator: ",", Multi: true}

func call(name string, args ...jen.Code) *jen.Statement {
	return jen.Qual(PackagePath, name).Call(args...)
}

// Expr returns the builder expression that reconstructs n.
func Expr(n ast.Node) (*jen.Statement, error) {
	switch n := n.(type) {
	case *ast.Literal:
		return call("Text", jen.Lit(n.Text)), nil

	case *ast.Sequence:
		return variadic("Sequence", n.Children)

	case *ast.Alternative:
		return variadic("Either", n.Children)

	case *ast.Optional:
		inner, err := Expr(n.Inner)
		if err != nil {
			return nil, err
		}
		return call("Optional", inner), nil

	case *ast.Repeat:
		return repeat(n)

	case *ast.AnyChar:
		return call("AnyCharacter"), nil

	case *ast.CharClass:
		var builder string
		switch {
		case n.Set.Kind() == charset.KindCategory && n.Negated:
			builder = "AnyCharacterNotInCategory"
		case n.Set.Kind() == charset.KindCategory:
			builder = "AnyCharacterInCategory"
		case n.Negated:
			builder = "AnyCharacterNotIn"
		default:
			builder = "AnyCharacterIn"
		}
		return call(builder, jen.Lit(n.Set.Source())), nil

	case *ast.Group:
		inner, err := Expr(n.Inner)
		if err != nil {
			return nil, err
		}
		return call("Group", jen.Lit(n.Name), inner), nil

	case *ast.Reference:
		return call("ValueOf", jen.Lit(n.DottedPath())), nil

	case *ast.List:
		element, err := Expr(n.Element)
		if err != nil {
			return nil, err
		}
		list := call("ListOf", element)
		if sep, ok := n.Separator.(*ast.Literal); ok {
			if sep.Text == "," {
				return list, nil
			}
			return list.Dot("SeparatedBy").Call(jen.Lit(sep.Text)), nil
		}
		sep, err := Expr(n.Separator)
		if err != nil {
			return nil, err
		}
		return list.Dot("SeparatedByPattern").Call(sep), nil
	}

	return nil, fmt.Errorf("unsupported node type %T", n)
}

func variadic(name string, children []ast.Node) (*jen.Statement, error) {
	args := make([]jen.Code, len(children))
	for i, c := range children {
		code, err := Expr(c)
		if err != nil {
			return nil, err
		}
		args[i] = code
	}
	if len(args) < 2 {
		return call(name, args...), nil
	}
	return jen.Qual(PackagePath, name).Custom(multiline, args...), nil
}

func repeat(n *ast.Repeat) (*jen.Statement, error) {
	inner, err := Expr(n.Inner)
	if err != nil {
		return nil, err
	}
	switch {
	case n.Min == 0 && n.Max == ast.Unbounded:
		return call("ZeroOrMore", inner), nil
	case n.Min == 1 && n.Max == ast.Unbounded:
		return call("OneOrMore", inner), nil
	case n.Max == ast.Unbounded:
		// n or more: n exact repetitions followed by any number
		return jen.Qual(PackagePath, "Sequence").Custom(multiline,
			call("Exactly", jen.Lit(n.Min), inner),
			call("ZeroOrMore", inner.Clone()),
		), nil
	case n.Min == n.Max:
		return call("Exactly", jen.Lit(n.Min), inner), nil
	default:
		return call("From", jen.Lit(n.Min), jen.Lit(n.Max), inner), nil
	}
}
