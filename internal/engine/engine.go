// Package engine evaluates pattern trees against input text.
//
// Evaluation is a single recursive walk in continuation-passing style: each
// node calls its continuation with the position and scope it ends at, and a
// false return from the continuation asks the node for another way to match.
// Only repetitions offer other ways (fewer iterations); alternatives and
// optionals commit to their first local success.
//
// Input is decoded as UTF-8. A byte that does not start a valid encoding is
// one character that belongs to no character set: AnyChar and negated classes
// consume it, positive classes and categories never do, even those containing
// U+FFFD.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KromDaniel/textpat/internal/ast"
)

// ErrStepLimit is returned when a match attempt exceeds its step budget.
var ErrStepLimit = errors.New("step limit exceeded")

// Options configures a match attempt.
type Options struct {
	// StepLimit bounds the number of node evaluations; zero means no limit.
	StepLimit int
	// Logger receives engine decisions; nil disables logging.
	Logger *Logger
}

// Result describes a finished match attempt.
type Result struct {
	// Matched reports whether the root consumed the entire input.
	Matched bool
	// Root is the newest committed binding of the outermost frame.
	Root *Binding
	// Farthest is the largest input offset the attempt consumed up to.
	Farthest int
	// Steps is the number of node evaluations performed.
	Steps int
}

// Bindings returns the committed captures keyed by dotted path.
func (r *Result) Bindings() map[string]string {
	return Flatten(r.Root)
}

type cont func(pos int, s *Scope) bool

// state is allocated per attempt; nothing in it is shared between attempts.
type state struct {
	input    string
	limit    int
	steps    int
	farthest int
	err      error
	log      *Logger
}

// Match evaluates root against the whole of input. The match is anchored at
// both ends. A non-match is not an error; the error is non-nil only when the
// step limit was exceeded.
func Match(root ast.Node, input string, opts Options) (*Result, error) {
	st := &state{
		input: input,
		limit: opts.StepLimit,
		log:   opts.Logger,
	}

	var final *Scope
	ok := st.match(root, 0, &Scope{}, func(end int, s *Scope) bool {
		if end != len(input) {
			st.log.Log("rejected partial match ending at %d of %d", end, len(input))
			return false
		}
		final = s
		return true
	})

	res := &Result{
		Matched:  ok,
		Farthest: st.farthest,
		Steps:    st.steps,
	}
	if ok {
		res.Root = final.Bindings()
	}
	st.log.Log("match %q: matched=%v steps=%d farthest=%d", input, ok, st.steps, st.farthest)
	return res, st.err
}

func (st *state) match(n ast.Node, pos int, s *Scope, k cont) bool {
	if st.err != nil {
		return false
	}
	st.steps++
	if st.limit > 0 && st.steps > st.limit {
		st.err = fmt.Errorf("%w (%d)", ErrStepLimit, st.limit)
		st.log.Log("step limit %d exceeded at offset %d", st.limit, pos)
		return false
	}

	switch n := n.(type) {
	case *ast.Literal:
		return st.literal(n.Text, pos, s, k)

	case *ast.Sequence:
		return st.sequence(n.Children, pos, s, k)

	case *ast.Alternative:
		for _, c := range n.Children {
			if end, next, ok := st.first(c, pos, s); ok {
				return k(end, next)
			}
			if st.err != nil {
				return false
			}
		}
		return false

	case *ast.Optional:
		if end, next, ok := st.first(n.Inner, pos, s); ok {
			return k(end, next)
		}
		if st.err != nil {
			return false
		}
		return k(pos, s)

	case *ast.Repeat:
		return st.repeat(n.Inner, n.Min, n.Max, pos, s, k)

	case *ast.AnyChar:
		_, size := st.next(pos)
		if size == 0 {
			return false
		}
		st.reach(pos + size)
		return k(pos+size, s)

	case *ast.CharClass:
		r, size := st.next(pos)
		if size == 0 {
			return false
		}
		member := !(r == utf8.RuneError && size == 1) && n.Set.Contains(r)
		if member == n.Negated {
			return false
		}
		st.reach(pos + size)
		return k(pos+size, s)

	case *ast.Group:
		return st.group(n, pos, s, k)

	case *ast.Reference:
		value, ok := s.Resolve(n.Path)
		if !ok {
			st.log.Log("reference %q is not bound at offset %d", n.DottedPath(), pos)
			return false
		}
		return st.literal(value, pos, s, k)

	case *ast.List:
		end, next, ok := st.first(n.Element, pos, s)
		if !ok {
			if st.err != nil {
				return false
			}
			return k(pos, s)
		}
		tail := &ast.Sequence{Children: []ast.Node{n.Separator, n.Element}}
		return st.repeat(tail, 0, ast.Unbounded, end, next, k)
	}

	panic(fmt.Sprintf("engine: unexpected node type %T", n))
}

// first returns the first way n matches at pos, without consulting anything
// that follows n.
func (st *state) first(n ast.Node, pos int, s *Scope) (int, *Scope, bool) {
	var (
		end  int
		next *Scope
	)
	ok := st.match(n, pos, s, func(p int, ns *Scope) bool {
		end, next = p, ns
		return true
	})
	return end, next, ok
}

func (st *state) literal(text string, pos int, s *Scope, k cont) bool {
	if !strings.HasPrefix(st.input[pos:], text) {
		return false
	}
	end := pos + len(text)
	st.reach(end)
	return k(end, s)
}

func (st *state) sequence(children []ast.Node, pos int, s *Scope, k cont) bool {
	if len(children) == 0 {
		return k(pos, s)
	}
	return st.match(children[0], pos, s, func(end int, next *Scope) bool {
		return st.sequence(children[1:], end, next, k)
	})
}

type iteration struct {
	pos   int
	scope *Scope
}

// repeat matches inner greedily, then hands the continuation each iteration
// count from the largest down to min until one is accepted.
func (st *state) repeat(inner ast.Node, min, max, pos int, s *Scope, k cont) bool {
	its := []iteration{{pos, s}}
	for max == ast.Unbounded || len(its)-1 < max {
		cur := its[len(its)-1]
		end, next, ok := st.first(inner, cur.pos, cur.scope)
		if !ok {
			break
		}
		its = append(its, iteration{end, next})
		if end == cur.pos {
			// zero-width body; more iterations would change nothing
			for len(its)-1 < min {
				its = append(its, iteration{end, next})
			}
			break
		}
	}
	if st.err != nil {
		return false
	}

	for count := len(its) - 1; count >= min; count-- {
		if k(its[count].pos, its[count].scope) {
			return true
		}
		if st.err != nil {
			return false
		}
		if count > min {
			st.log.Log("backtracking repetition at offset %d to %d iterations", its[count].pos, count-1)
		}
	}
	return false
}

func (st *state) group(g *ast.Group, pos int, s *Scope, k cont) bool {
	return st.match(g.Inner, pos, s.open(), func(end int, body *Scope) bool {
		value := st.input[pos:end]
		st.log.Log("group %q bound to %q", g.Name, value)
		return k(end, s.bind(g.Name, value, body.head))
	})
}

// next decodes the character at pos; size is zero at the end of input.
func (st *state) next(pos int) (rune, int) {
	if pos >= len(st.input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(st.input[pos:])
}

func (st *state) reach(pos int) {
	if pos > st.farthest {
		st.farthest = pos
	}
}
