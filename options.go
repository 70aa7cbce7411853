// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

// A Dialect selects which JSON grammar a Parser accepts.
type Dialect int

const (
	// Strict accepts only RFC 8259 JSON: a root that is an object or array,
	// quoted string keys, and primitives restricted to numbers, true,
	// false, and null.
	Strict Dialect = iota

	// Permissive relaxes several grammar rules: any value may appear at the
	// root, object keys may be unquoted, unquoted values are accepted
	// wherever a value is legal, commas between elements may be omitted,
	// and multiple root values are tolerated. See the package doc comment
	// for the full list of relaxations and their quirks.
	Permissive
)

func (d Dialect) String() string {
	if d == Permissive {
		return "permissive"
	}
	return "strict"
}

// Options control the behavior of a Parser. The zero value is a strict
// parser with no parent links and no sibling links; every Token still has
// Parent and NextSibling fields, which are then left as None.
type Options struct {
	// Dialect selects the grammar the parser accepts.
	Dialect Dialect

	// ParentLinks causes each token's Parent field to be populated with the
	// index of its enclosing container (or, for a value after ':', its
	// key), and a close brace then finds the currently open container by
	// walking up Parent links from the last token. When false, every Parent
	// is None and the parser instead scans the token array backward to find
	// the nearest unclosed container.
	ParentLinks bool

	// NextSibling causes each token's NextSibling field to be maintained as
	// a linked chain of the children of its parent, in order. Cost is
	// O(children) per insert.
	NextSibling bool
}
