// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jtok implements a minimal, allocation-free JSON tokenizer.
//
// # Parsing
//
// Construct a Parser with New, giving it Options describing the dialect and
// the structural links it should maintain, then call Parse with an input
// buffer and a token array to fill in:
//
//	p := jtok.New(jtok.Options{ParentLinks: true})
//	toks := make([]jtok.Token, 32)
//	n, err := p.Parse(input, toks)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	toks = toks[:n]
//
// Parse never allocates on behalf of the caller and never copies bytes out
// of input; each Token locates its element by byte offset, and Token.Text
// returns a zero-copy view of the corresponding span.
//
// # Sizing ahead of time
//
// Passing a nil token slice runs the full grammar without writing any
// tokens, so the caller can size an array before parsing for real:
//
//	n, err := p.Parse(input, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p.Init() // counting advances state exactly as a real parse would
//	toks := make([]jtok.Token, n)
//	p.Parse(input, toks)
//
// # Resuming a partial parse
//
// If Parse returns an error wrapping ErrPart, the input ended in the
// middle of an element or with containers still open. The Parser's
// position and container stack are preserved, so the caller may extend the
// buffer (never shorten or rewrite its existing prefix) and call Parse
// again with the same Parser:
//
//	n, err := p.Parse(moreInput, toks)
//
// # Dialects
//
// Strict dialect accepts RFC 8259 JSON. Permissive dialect relaxes several
// rules: any value may appear at the root, object keys and values may be
// unquoted, commas between elements may be omitted, and multiple root
// values are tolerated. See Options and Dialect for the full list of
// relaxations. A few of Permissive's rules are quirkier than they look:
// a missing comma is only repaired when ParentLinks is set, and an
// unquoted key is flagged KEY only once the ':' after it is seen, so a
// reader walking tokens as they're produced sees it with neither KEY nor
// VALUE set until then.
package jtok
