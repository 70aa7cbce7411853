// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over a flat []jtok.Token array.
//
// jtok itself exposes no navigation beyond the Parent and NextSibling
// fields on a Token; this package is the idiomatic way to walk those
// fields without hand-rolling index arithmetic at every call site. It adds
// no decoding and no allocation beyond the convenience slices Children and
// Path return and the path stack Down grows: every lookup reads straight
// out of the []jtok.Token the caller already has.
//
// Children, ChildAt, Find, and Down all rely on Token.Parent, so the
// tokens passed to New must have been produced by a Parser constructed
// with Options.ParentLinks set; without it every token's Parent is
// jtok.None and Children always reports none.
package cursor

import (
	"fmt"

	"github.com/go-jtok/jtok"
)

// A Cursor is a pointer that navigates into the structure described by a
// []jtok.Token array, relative to some origin token (usually the root, but
// a Cursor can be rooted anywhere, for example to resume traversal from a
// previously found member). Navigating a Cursor never mutates the token
// array or the source bytes it was parsed from.
type Cursor struct {
	toks []jtok.Token
	src  []byte
	org  int
	stk  []int
	err  error
}

// New constructs a Cursor over toks rooted at origin, the index of the
// token that AtOrigin refers to. src is the input buffer toks was parsed
// from; it is used only to compare key text in Find and Down, and may be nil if the
// caller never navigates by string key.
func New(toks []jtok.Token, src []byte, origin int) *Cursor {
	return &Cursor{toks: toks, src: src, org: origin}
}

// Origin returns the index this Cursor was constructed with.
func (c *Cursor) Origin() int { return c.org }

// AtOrigin reports whether c is currently at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Index reports the index of the token currently under the cursor.
func (c *Cursor) Index() int {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Token reports the token currently under the cursor.
func (c *Cursor) Token() jtok.Token { return c.toks[c.Index()] }

// Path reports the complete sequence of indices from the origin to the
// current location of c.
func (c *Cursor) Path() []int {
	out := make([]int, 1, len(c.stk)+1)
	out[0] = c.org
	return append(out, c.stk...)
}

// Err reports the error from the most recent call to Down, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position toward the origin, if possible. It
// returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset returns the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Children returns the indices of the immediate children of the current
// token, in input order. The result is nil if the current token has no
// children or is not a container.
func (c *Cursor) Children() []int {
	cur := c.Index()
	if !c.toks[cur].Has(jtok.Container) {
		return nil
	}
	var out []int
	for i, tok := range c.toks {
		if tok.Parent == cur {
			out = append(out, i)
		}
	}
	return out
}

// ChildAt returns the index of the i-th immediate child of the current
// token, in input order. A negative i counts backward from the last child
// (-1 is last). ChildAt panics if i is out of range, the same contract
// indexing a Go slice has; Down recovers this panic and reports it through
// Err instead.
func (c *Cursor) ChildAt(i int) int {
	kids := c.Children()
	if i < 0 {
		i += len(kids)
	}
	return kids[i]
}

// Find returns the index of the immediate child of the current token that
// is a KEY whose text equals key, or jtok.None if there is none. The
// corresponding value is always at the returned index plus one: a key and
// its value are allocated back to back by the parser that produced toks.
func (c *Cursor) Find(key string) int {
	for _, i := range c.Children() {
		tok := c.toks[i]
		if tok.Has(jtok.Key) && tok.Text(c.src).EqualString(key) {
			return i
		}
	}
	return jtok.None
}

// Down traverses a sequential path into the structure of c starting from
// the current token, where each path element is either a string (an
// object member name), an int (a child position, as ChildAt interprets
// it), or nil (a no-op, useful to line up path elements positionally with
// a caller's own data).
//
// If the path is valid, the cursor ends on the element it names. If the
// path cannot be fully consumed, traversal stops where it failed and the
// error is recorded; use Err to recover it. Down resets any error carried
// over from a previous call before it starts.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	for _, elt := range path {
		switch v := elt.(type) {
		case string:
			i := c.Find(v)
			if i == jtok.None {
				return c.fail("key %q not found", v)
			}
			c.push(i + 1)

		case int:
			i, ok := c.tryChildAt(v)
			if !ok {
				return c.fail("child %d out of range", v)
			}
			c.push(i)

		case nil:
			// No-op.

		default:
			return c.fail("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) tryChildAt(i int) (idx int, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return c.ChildAt(i), true
}

func (c *Cursor) push(i int) { c.stk = append(c.stk, i) }

func (c *Cursor) fail(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}
