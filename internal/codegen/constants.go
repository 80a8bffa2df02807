// Package codegen provides code generation helpers and constants.
package codegen

import "fmt"

// PackagePath is the import path generated code builds patterns with.
const PackagePath = "github.com/KromDaniel/textpat/pkg/textpat"

// Names used in generated code
const (
	MatcherCtorName = "NewMatcher"
	InputName       = "input"
	WantName        = "want"
	CasesName       = "cases"
	TestingName     = "t"
)

// TestFuncName returns the name of the generated test for a matcher variable.
func TestFuncName(name string) string {
	return fmt.Sprintf("Test%sMatches", UpperFirst(name))
}

// BenchmarkFuncName returns the name of the generated benchmark for a matcher variable.
func BenchmarkFuncName(name string) string {
	return fmt.Sprintf("Benchmark%sMatches", UpperFirst(name))
}

// LowerFirst converts the first character of a string to lowercase.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

// UpperFirst converts the first character of a string to uppercase.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]&^0x20) + s[1:]
}
