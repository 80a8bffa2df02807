// Package replace parses replacement templates that refer to captured groups.
package replace

import (
	"fmt"
	"strings"
	"unicode"
)

// SegmentType indicates the type of segment in a replacement template.
type SegmentType int

const (
	// SegmentLiteral represents literal text (no capture reference).
	SegmentLiteral SegmentType = iota
	// SegmentFullMatch represents a reference to the full match ($0).
	SegmentFullMatch
	// SegmentCapture represents a reference to a group by dotted path ($name, ${outer.inner}).
	SegmentCapture
)

// Segment represents a parsed segment of a replacement template.
type Segment struct {
	Type    SegmentType
	Literal string // For SegmentLiteral: the literal text
	Path    string // For SegmentCapture: the dotted group path
}

// Template represents a fully parsed replacement template.
type Template struct {
	Original string
	Segments []Segment
}

// Parse parses a replacement template string into segments.
// Template syntax:
//   - $0 or ${0}: full match
//   - $name or $outer.inner: group by path; a '.' continues the path only
//     when a name follows it
//   - ${name} or ${outer.inner}: group by path with an explicit boundary;
//     segments may hold any characters but '.' and '}', e.g. ${first-name}
//   - $$: literal dollar sign
//   - Everything else: literal text
//
// Groups are named, so numbered references other than $0 are rejected.
func Parse(template string) (*Template, error) {
	result := &Template{
		Original: template,
		Segments: make([]Segment, 0),
	}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			result.Segments = append(result.Segments, Segment{Type: SegmentLiteral, Literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); {
		if template[i] != '$' || i+1 >= len(template) {
			lit.WriteByte(template[i])
			i++
			continue
		}

		next := template[i+1]
		switch {
		case next == '$':
			lit.WriteByte('$')
			i += 2

		case next == '{':
			seg, consumed, err := parseBracedRef(template[i:])
			if err != nil {
				return nil, fmt.Errorf("at position %d: %w", i, err)
			}
			flush()
			result.Segments = append(result.Segments, seg)
			i += consumed

		case next == '0':
			flush()
			result.Segments = append(result.Segments, Segment{Type: SegmentFullMatch})
			i += 2

		case next >= '1' && next <= '9':
			return nil, fmt.Errorf("at position %d: numbered reference $%c: groups are referenced by name", i, next)

		case isNameStart(rune(next)):
			flush()
			seg, consumed := parseNamedRef(template[i:])
			result.Segments = append(result.Segments, seg)
			i += consumed

		default:
			// A lone $ followed by something that is not a reference.
			lit.WriteByte('$')
			i++
		}
	}
	flush()

	return result, nil
}

// Expand renders the template. full is substituted for $0 and lookup resolves
// group paths.
func (t *Template) Expand(full string, lookup func(path string) (string, error)) (string, error) {
	var b strings.Builder
	for _, seg := range t.Segments {
		switch seg.Type {
		case SegmentLiteral:
			b.WriteString(seg.Literal)
		case SegmentFullMatch:
			b.WriteString(full)
		case SegmentCapture:
			v, err := lookup(seg.Path)
			if err != nil {
				return "", err
			}
			b.WriteString(v)
		}
	}
	return b.String(), nil
}

// Paths returns the group paths the template refers to, in order.
func (t *Template) Paths() []string {
	var paths []string
	for _, seg := range t.Segments {
		if seg.Type == SegmentCapture {
			paths = append(paths, seg.Path)
		}
	}
	return paths
}

// parseBracedRef parses ${...} reference starting at s[0]='$', s[1]='{'
func parseBracedRef(s string) (Segment, int, error) {
	closeIdx := strings.Index(s, "}")
	if closeIdx == -1 {
		return Segment{}, 0, fmt.Errorf("unclosed ${")
	}

	content := s[2:closeIdx]
	if len(content) == 0 {
		return Segment{}, 0, fmt.Errorf("empty ${}")
	}
	if content == "0" {
		return Segment{Type: SegmentFullMatch}, closeIdx + 1, nil
	}
	if !isValidPath(content) {
		return Segment{}, 0, fmt.Errorf("invalid group path ${%s}", content)
	}

	return Segment{Type: SegmentCapture, Path: content}, closeIdx + 1, nil
}

// parseNamedRef parses $name or $a.b.c where each segment is an identifier.
func parseNamedRef(s string) (Segment, int) {
	end := 2
	for end < len(s) {
		c := rune(s[end])
		if isNameContinue(c) {
			end++
			continue
		}
		if c == '.' && end+1 < len(s) && isNameStart(rune(s[end+1])) {
			end += 2
			continue
		}
		break
	}

	return Segment{Type: SegmentCapture, Path: s[1:end]}, end
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isValidPath accepts the same paths as group references: dot-separated,
// non-empty segments. Segments need not be identifiers, so groups such as
// "first-name" are reachable in braced form.
func isValidPath(s string) bool {
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			return false
		}
	}
	return true
}
