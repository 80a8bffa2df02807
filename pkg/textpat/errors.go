package textpat

import (
	"errors"
	"fmt"

	"github.com/KromDaniel/textpat/internal/engine"
)

var (
	// ErrNoMatch is returned by Parse when the input does not match the pattern.
	ErrNoMatch = errors.New("input does not match pattern")

	// ErrUnknownGroup is returned by Parse.Get for a path that was not bound
	// by the match that produced the Parse.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrInvalidArgument is wrapped by every ArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStepLimit is returned by Parse when a matcher built WithStepLimit
	// gives up on an input.
	ErrStepLimit = engine.ErrStepLimit
)

// NoMatchError reports an input that did not match.
type NoMatchError struct {
	Input string
	// Offset is the largest input offset the attempt got to.
	Offset int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("textpat: %q does not match (diverged at offset %d)", e.Input, e.Offset)
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}

// UnknownGroupError reports a lookup of a path that was never bound.
type UnknownGroupError struct {
	Path string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("textpat: unknown group %q", e.Path)
}

func (e *UnknownGroupError) Unwrap() error {
	return ErrUnknownGroup
}

// ArgumentError reports a builder called with arguments that cannot form a
// pattern. Builders panic with it; Try turns the panic back into an error.
type ArgumentError struct {
	Builder string
	Err     error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("textpat: invalid argument to %s: %v", e.Builder, e.Err)
}

func (e *ArgumentError) Unwrap() []error {
	return []error{ErrInvalidArgument, e.Err}
}
