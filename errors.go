// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import (
	"errors"
	"fmt"
)

// Sentinel errors corresponding to the three ways a parse can fail. Use
// errors.Is to test a returned error against one of these.
var (
	// ErrNoMem reports that the token capacity supplied to Parse was
	// exhausted before the input was fully consumed. The caller may retry
	// with a larger token array after calling Init, or size the array ahead
	// of time by parsing once in counting mode.
	ErrNoMem = errors.New("token capacity exhausted")

	// ErrInval reports that the input contains a byte that is not legal at
	// the parser's current position.
	ErrInval = errors.New("invalid input")

	// ErrPart reports that the input ended in the middle of a JSON element,
	// or with one or more containers still open. The parser's state is
	// preserved, so a subsequent call with an extended buffer may succeed.
	ErrPart = errors.New("incomplete input")
)

// A ParseError reports the position at which a parse failed, wrapping one of
// ErrNoMem, ErrInval, or ErrPart.
type ParseError struct {
	Pos int // byte offset into the input at which the error was detected
	err error
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.err.Error(), e.Pos)
}

// Unwrap supports error wrapping, so errors.Is(err, jtok.ErrInval) and
// friends work on a returned *ParseError.
func (e *ParseError) Unwrap() error { return e.err }

func (p *Parser) errAt(err error) error {
	return &ParseError{Pos: p.pos, err: err}
}
