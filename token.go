// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

import "go4.org/mem"

// None is the sentinel value used in place of a valid token index, for
// example in Token.Parent and Token.NextSibling when the corresponding
// relationship does not exist.
const None = -1

// Kind is a bit set classifying a Token. The low four bits name the basic
// shape of the token (object, array, string, primitive); the high four bits
// record the token's structural role (key, value, and whether a close
// bracket or a delimiter is expected to follow it).
type Kind uint8

// Basic shapes. Exactly one of these (aside from the Container and AnyType
// unions below) is set on any allocated token.
const (
	Undefined Kind = 0
	Object    Kind = 1 << 0 // "{...}"
	Array     Kind = 1 << 1 // "[...]"
	String    Kind = 1 << 2 // a quoted string
	Primitive Kind = 1 << 3 // number, true, false, null (strict); any unquoted run (permissive)

	Key   Kind = 1 << 4 // token occupies a key position in an object
	Value Kind = 1 << 5 // token occupies a value position

	Close     Kind = 1 << 6 // a "}" or "]" is grammatically legal next
	Delimiter Kind = 1 << 7 // a ":" or "," is grammatically legal next
)

// Convenience unions combining more than one basic shape.
const (
	Container Kind = Object | Array
	AnyType   Kind = Object | Array | String | Primitive
)

// Has reports whether k has any of the bits set in mask. This is the "has
// any of these" test.
func (k Kind) Has(mask Kind) bool { return k&mask != 0 }

// Is reports whether k has all of the bits set in mask. Compare the result
// of Token.Mask against a composite value with == for the "is exactly this"
// test; Is is the boolean shorthand for that comparison.
func (k Kind) Is(mask Kind) bool { return k&mask == mask }

func (k Kind) String() string {
	if k == Undefined {
		return "undefined"
	}
	var s []byte
	add := func(bit Kind, name string) {
		if k&bit != 0 {
			if len(s) != 0 {
				s = append(s, '|')
			}
			s = append(s, name...)
		}
	}
	add(Object, "object")
	add(Array, "array")
	add(String, "string")
	add(Primitive, "primitive")
	add(Key, "key")
	add(Value, "value")
	add(Close, "close")
	add(Delimiter, "delimiter")
	return string(s)
}

// A Token describes one JSON element by its byte offsets within the input
// buffer that was parsed, together with its structural metadata. Start and
// End are half-open and exclude surrounding punctuation that is not part of
// the element's payload: for a string they exclude the quotation marks, for
// an object or array Start is the offset of the opening brace/bracket and
// End is one past the closing brace/bracket, and for a primitive they
// bracket exactly the literal text.
//
// A Token is only ever refined after it is allocated (End, additional Kind
// bits, Size, NextSibling); it is never deleted or moved, so indices into a
// token array returned by Parser.Parse remain valid for the lifetime of the
// array.
type Token struct {
	Kind Kind

	Start, End int // byte offsets into the input; End == None until closed
	Size       int // number of immediate children

	Parent      int // index of the enclosing container (for a value after ':', its key), or None
	NextSibling int // index of the next child of Parent, or None
}

// Mask returns the bits t.Kind has in common with mask. This mirrors the
// jsmn_is_type/jsmn_is_kind helper: compare the result against a composite
// mask with == for an "is exactly this" test, or against zero for a
// "has any of these" test. Token.Is and Token.Has below spell out both
// tests directly.
func (t Token) Mask(mask Kind) Kind { return t.Kind & mask }

// Has reports whether t.Kind has any of the bits in mask set.
func (t Token) Has(mask Kind) bool { return t.Kind.Has(mask) }

// Is reports whether t.Kind has all of the bits in mask set.
func (t Token) Is(mask Kind) bool { return t.Kind.Is(mask) }

// Text returns a zero-copy view of the bytes of src spanned by t. It is the
// caller's responsibility to ensure src is the same buffer (or an extension
// of the same buffer) that was passed to the Parser that produced t.
// Text returns the zero mem.RO if t has not yet been closed (End == None).
func (t Token) Text(src []byte) mem.RO {
	if t.Start < 0 || t.End < 0 || t.End > len(src) || t.Start > t.End {
		return mem.RO{}
	}
	return mem.B(src[t.Start:t.End])
}
