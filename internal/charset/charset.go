// Package charset implements the membership tests behind character-class patterns:
// explicit member/range specs such as "a-z0-9_" and Unicode general categories.
package charset

import (
	"errors"
	"fmt"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

var (
	// ErrEmptySpec is returned when a character-set spec contains no characters.
	ErrEmptySpec = errors.New("empty character set")
	// ErrInvertedRange is returned for a range whose low bound exceeds its high bound.
	ErrInvertedRange = errors.New("inverted character range")
	// ErrUnknownCategory is returned for an unrecognised Unicode category code.
	ErrUnknownCategory = errors.New("unknown unicode category")
)

// Kind distinguishes how a Set was specified.
type Kind int

const (
	// KindMembers is a set built from an explicit member/range spec.
	KindMembers Kind = iota
	// KindCategory is a Unicode general category.
	KindCategory
)

// Set is an immutable character membership test.
type Set struct {
	kind   Kind
	source string
	// ranges holds inclusive rune pairs [lo0, hi0, lo1, hi1, ...].
	ranges []rune
	bitmap [32]byte
	table  *unicode.RangeTable
	// complement is set when members are the runes outside table (Cn).
	complement bool
}

var (
	// assigned covers every rune with a general category other than Cn.
	assigned = sync.OnceValue(func() *unicode.RangeTable {
		return rangetable.Merge(unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C)
	})
	casedLetter = sync.OnceValue(func() *unicode.RangeTable {
		return rangetable.Merge(unicode.Lu, unicode.Ll, unicode.Lt)
	})
)

// Parse builds a Set from spec. Within spec, "x-y" denotes the inclusive range
// x..y and every other character denotes itself. A '-' that cannot form a range
// (leading or trailing) is a member.
func Parse(spec string) (*Set, error) {
	runes := []rune(spec)
	if len(runes) == 0 {
		return nil, ErrEmptySpec
	}

	var pairs []rune
	for i := 0; i < len(runes); {
		if i+2 < len(runes) && runes[i+1] == '-' {
			lo, hi := runes[i], runes[i+2]
			if lo > hi {
				return nil, fmt.Errorf("%w %q", ErrInvertedRange, string([]rune{lo, '-', hi}))
			}
			pairs = append(pairs, lo, hi)
			i += 3
			continue
		}
		pairs = append(pairs, runes[i], runes[i])
		i++
	}

	tables := make([]*unicode.RangeTable, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		tables = append(tables, rangeTable(pairs[i], pairs[i+1]))
	}

	return &Set{
		kind:   KindMembers,
		source: spec,
		ranges: pairs,
		bitmap: createBitmap(pairs),
		table:  rangetable.Merge(tables...),
	}, nil
}

// Category builds a Set for a Unicode general category code such as "Lu" or
// "Nd". Besides the codes in unicode.Categories it accepts "LC" (cased letter:
// Lu, Ll or Lt) and "Cn" (unassigned code points).
func Category(code string) (*Set, error) {
	s := &Set{kind: KindCategory, source: code}
	switch code {
	case "Cn":
		s.table, s.complement = assigned(), true
	case "LC":
		s.table = casedLetter()
	default:
		table, ok := unicode.Categories[code]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownCategory, code)
		}
		s.table = table
	}

	for r := rune(0); r < 256; r++ {
		if s.inTable(r) {
			s.bitmap[r/8] |= 1 << (r % 8)
		}
	}
	return s, nil
}

func (s *Set) inTable(r rune) bool {
	return unicode.Is(s.table, r) != s.complement
}

// Contains reports whether r is a member of the set.
func (s *Set) Contains(r rune) bool {
	if r >= 0 && r < 256 {
		return s.bitmap[r/8]&(1<<(r%8)) != 0
	}
	if r > unicode.MaxRune {
		return false
	}
	return s.inTable(r)
}

// Kind reports how the set was specified.
func (s *Set) Kind() Kind {
	return s.kind
}

// Source returns the spec or category code the set was built from.
func (s *Set) Source() string {
	return s.source
}

// Ranges returns a copy of the inclusive rune pairs of a member set.
// It is nil for category sets.
func (s *Set) Ranges() []rune {
	if s.ranges == nil {
		return nil
	}
	out := make([]rune, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// createBitmap creates a 256-bit bitmap for the given rune pairs.
func createBitmap(runes []rune) [32]byte {
	var bitmap [32]byte
	for i := 0; i < len(runes); i += 2 {
		lo, hi := runes[i], runes[i+1]
		for c := lo; c <= hi && c < 256; c++ {
			bitmap[c/8] |= 1 << (c % 8)
		}
	}
	return bitmap
}

// rangeTable builds a single-range table, splitting at the 16-bit boundary.
func rangeTable(lo, hi rune) *unicode.RangeTable {
	t := &unicode.RangeTable{}
	if lo <= 0xFFFF {
		top := hi
		if top > 0xFFFF {
			top = 0xFFFF
		}
		t.R16 = []unicode.Range16{{Lo: uint16(lo), Hi: uint16(top), Stride: 1}}
		if top <= unicode.MaxLatin1 {
			t.LatinOffset = 1
		}
	}
	if hi > 0xFFFF {
		start := lo
		if start < 0x10000 {
			start = 0x10000
		}
		t.R32 = []unicode.Range32{{Lo: uint32(start), Hi: uint32(hi), Stride: 1}}
	}
	return t
}
