package ast

import (
	"strconv"
	"strings"

	"github.com/KromDaniel/textpat/internal/charset"
)

// Node descriptions use a regular-expression-like notation: groups print as
// (?<name>...), references as \k<path> and literals are quoted where needed.

const special = `\.+*?()|[]{}^$`

func (n *Literal) String() string {
	var b strings.Builder
	for _, r := range n.Text {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (n *Sequence) String() string {
	var b strings.Builder
	for _, c := range n.Children {
		if _, ok := c.(*Alternative); ok {
			b.WriteString("(?:" + c.String() + ")")
			continue
		}
		b.WriteString(c.String())
	}
	return b.String()
}

func (n *Alternative) String() string {
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}

func (n *Optional) String() string {
	return atom(n.Inner) + "?"
}

func (n *Repeat) String() string {
	inner := atom(n.Inner)
	switch {
	case n.Min == 0 && n.Max == Unbounded:
		return inner + "*"
	case n.Min == 1 && n.Max == Unbounded:
		return inner + "+"
	case n.Max == Unbounded:
		return inner + "{" + strconv.Itoa(n.Min) + ",}"
	case n.Min == n.Max:
		return inner + "{" + strconv.Itoa(n.Min) + "}"
	default:
		return inner + "{" + strconv.Itoa(n.Min) + "," + strconv.Itoa(n.Max) + "}"
	}
}

func (*AnyChar) String() string {
	return "."
}

func (n *CharClass) String() string {
	if n.Set.Kind() == charset.KindCategory {
		if n.Negated {
			return `\P{` + n.Set.Source() + "}"
		}
		return `\p{` + n.Set.Source() + "}"
	}
	if n.Negated {
		return "[^" + n.Set.Source() + "]"
	}
	return "[" + n.Set.Source() + "]"
}

func (n *Group) String() string {
	return "(?<" + n.Name + ">" + n.Inner.String() + ")"
}

func (n *Reference) String() string {
	return `\k<` + n.DottedPath() + ">"
}

func (n *List) String() string {
	tail := "(?:" + n.Separator.String() + n.Element.String() + ")*"
	return "(?:" + n.Element.String() + tail + ")?"
}

// atom wraps composite nodes so a postfix operator applies to the whole node.
func atom(n Node) string {
	switch n := n.(type) {
	case *AnyChar, *CharClass, *Group, *Reference:
		return n.String()
	case *Literal:
		if len([]rune(n.Text)) == 1 {
			return n.String()
		}
	}
	return "(?:" + n.String() + ")"
}
