package textpat_test

import (
	"fmt"

	"github.com/KromDaniel/textpat/pkg/textpat"
)

func emailMatcher() *textpat.Matcher {
	word := textpat.OneOrMore(textpat.AnyCharacterIn("a-zA-Z0-9_-"))
	return textpat.NewMatcher(textpat.Sequence(
		textpat.Group("user", word),
		textpat.Text("@"),
		textpat.Group("host", textpat.ListOf(word).SeparatedBy(".")),
	))
}

func Example() {
	email := emailMatcher()

	p, err := email.Parse("joe@example.com")
	if err != nil {
		panic(err)
	}
	user, _ := p.Get("user")
	host, _ := p.Get("host")
	fmt.Println(user, host)
	fmt.Println(email.Matches("not an email"))
	// Output:
	// joe example.com
	// false
}

func Example_embeddedGrammar() {
	email := emailMatcher()

	// The email grammar joins the URL grammar's scopes as if it were inlined.
	mailto := textpat.NewMatcher(textpat.Sequence(
		textpat.Text("mailto:"),
		textpat.Group("to", email),
		textpat.Optional(textpat.Sequence(
			textpat.Text("?cc="),
			textpat.Group("cc", email),
		)),
	))

	p, err := mailto.Parse("mailto:joe@example.com?cc=ann@example.org")
	if err != nil {
		panic(err)
	}
	for _, path := range p.Paths() {
		v, _ := p.Get(path)
		fmt.Printf("%s=%s\n", path, v)
	}
	// Output:
	// cc=ann@example.org
	// cc.host=example.org
	// cc.user=ann
	// to=joe@example.com
	// to.host=example.com
	// to.user=joe
}

func Example_backreference() {
	tag := textpat.OneOrMore(textpat.AnyCharacterIn("a-z"))
	element := textpat.NewMatcher(textpat.Sequence(
		textpat.Text("<"), textpat.Group("tag", tag), textpat.Text(">"),
		textpat.Group("body", textpat.ZeroOrMore(textpat.AnyCharacterNotIn("<"))),
		textpat.Text("</"), textpat.ValueOf("tag"), textpat.Text(">"),
	))

	fmt.Println(element.Matches("<b>bold</b>"))
	fmt.Println(element.Matches("<b>bold</i>"))
	fmt.Println(element.DescribeMismatch("<b>bold</i>"))
	// Output:
	// true
	// false
	// "<b>bold</i>" does not match /<(?<tag>[a-z]+)>(?<body>[^<]*)</\k<tag>>/: diverged at offset 9, unmatched "i>"
}
