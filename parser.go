// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtok

// A Parser holds the state of a single tokenization pass: the current input
// offset, the next unused token index, the index of the currently open
// container (its "super"), and the set of token kinds that are
// grammatically legal next. Outside counting mode a Parser allocates
// nothing; the only storage it touches besides its own fields is the token
// array the caller supplies to Parse. In counting mode it grows an internal
// scratch array instead.
//
// Construct one with New, and call Parse one or more times:
//
//	p := jtok.New(jtok.Options{ParentLinks: true})
//	toks := make([]jtok.Token, 64)
//	n, err := p.Parse(input, toks)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	toks = toks[:n]
//
// If Parse returns an error wrapping ErrPart, the input ended in the middle
// of an element or with unclosed containers. The parser's position, token
// count, and container stack are preserved, so the caller may extend the
// buffer (never shorten or rewrite its existing prefix) and call Parse
// again with the same Parser and the same token array, which holds the
// tokens produced so far:
//
//	n, err := p.Parse(moreInput, toks)
//
// To size a token array ahead of time, call Parse once with a nil token
// array. In this "counting mode" the full grammar is still validated and
// the token count that would have been required is returned, but no Token
// is written. Call Init to reset the parser before the real parse that
// follows, since a counting call advances the parser's position exactly as
// a real one would.
type Parser struct {
	opts Options

	pos      int
	toknext  int
	toksuper int
	expected Kind

	// scratch holds token metadata for counting-mode calls (tokens == nil
	// in Parse), across however many calls it takes to reach the end of
	// the input. Rebuilding it from scratch on every call would discard
	// the Kind/Start/End/Parent already computed for tokens 0..toknext-1
	// and break resumption after a PART in counting mode.
	scratch []Token
}

// New constructs a Parser configured by opts and calls Init on it.
func New(opts Options) *Parser {
	p := &Parser{opts: opts}
	p.Init()
	return p
}

// Init resets p to parse a fresh input from the beginning. It does not
// touch p's Options.
func (p *Parser) Init() {
	p.pos = 0
	p.toknext = 0
	p.toksuper = None
	p.scratch = nil
	if p.opts.Dialect == Permissive {
		p.expected = AnyType
	} else {
		p.expected = Container
	}
}

// Options reports the options p was constructed with.
func (p *Parser) Options() Options { return p.opts }

// Pos reports the parser's current byte offset into its input.
func (p *Parser) Pos() int { return p.pos }

// Parse consumes src from p's current position and fills tokens with
// descriptors for each JSON element found, returning the total number of
// tokens the parser has produced since it was last initialized (i.e.
// including any produced by earlier calls on the same Parser since New or
// Init).
//
// If tokens is nil, Parse runs in counting mode: grammar is fully
// validated and the token count is computed and returned, but nothing is
// written. Otherwise tokens must have length equal to the token capacity
// the caller wishes to allow; Parse never grows or reallocates it.
//
// On success the error is nil. On failure the error wraps one of ErrNoMem,
// ErrInval, or ErrPart; use errors.Is to distinguish them.
func (p *Parser) Parse(src []byte, tokens []Token) (int, error) {
	counting := tokens == nil
	permissive := p.opts.Dialect == Permissive

	work := tokens
	if counting {
		work = p.scratch
	}

	var err error
	for p.pos < len(src) {
		c := src[p.pos]
		switch {
		case c == '{' || c == '[':
			work, err = p.openContainer(c, work, counting)

		case c == '}' || c == ']':
			work, err = p.closeContainer(c, work, counting, permissive)

		case c == '"':
			work, err = p.parseString(src, work, counting, permissive)
			if err == nil && p.toksuper != None {
				work[p.toksuper].Size++
			}

		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			// Ignored.

		case c == ':':
			err = p.colon(work)

		case c == ',':
			err = p.comma(work, permissive)

		case permissive || isStrictPrimitiveStart(c):
			work, err = p.parsePrimitive(src, work, counting, permissive)
			if err == nil && p.toksuper != None {
				work[p.toksuper].Size++
			}

		default:
			err = p.errAt(ErrInval)
		}
		if counting {
			p.scratch = work
		}
		if err != nil {
			return 0, err
		}
		p.pos++
	}

	for i := p.toknext - 1; i >= 0; i-- {
		if work[i].Start != None && work[i].End == None {
			return 0, p.errAt(ErrPart)
		}
	}
	return p.toknext, nil
}

func isStrictPrimitiveStart(c byte) bool {
	switch c {
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 't', 'f', 'n':
		return true
	}
	return false
}

// alloc allocates the next token from the pool. In counting mode work is
// p.scratch, which grows by one and is never returned to the caller of
// Parse; otherwise work is the caller's fixed-size array and alloc reports
// ErrNoMem once it is exhausted.
func (p *Parser) alloc(work []Token, counting bool) ([]Token, int, error) {
	idx := p.toknext
	if counting {
		if idx == len(work) {
			work = append(work, Token{})
		}
	} else if idx >= len(work) {
		return work, 0, p.errAt(ErrNoMem)
	}
	work[idx] = Token{Start: None, End: None, Parent: None, NextSibling: None}
	p.toknext++
	return work, idx, nil
}

// linkSibling threads the token at newIdx onto the end of the sibling chain
// of the current container's children (parser.toksuper, before newIdx is
// considered the latest child).
func (p *Parser) linkSibling(work []Token, newIdx int) {
	sibling := 0
	if p.toksuper != None {
		sibling = p.toksuper + 1
	}
	if sibling == newIdx {
		return
	}
	for work[sibling].NextSibling != None {
		sibling = work[sibling].NextSibling
	}
	work[sibling].NextSibling = newIdx
}

// openContainer handles a '{' or '['.
func (p *Parser) openContainer(c byte, work []Token, counting bool) ([]Token, error) {
	kind := Object
	if c == '[' {
		kind = Array
	}
	work, idx, err := p.alloc(work, counting)
	if err != nil {
		return work, err
	}
	if !p.expected.Has(kind) {
		return work, p.errAt(ErrInval)
	}
	tok := &work[idx]
	tok.Kind = kind | Value

	if p.opts.Dialect == Permissive {
		p.expected = AnyType | Close
	} else if kind == Object {
		p.expected = String | Close
	} else {
		p.expected = AnyType | Close
	}

	if p.toksuper != None {
		work[p.toksuper].Size++
		if p.opts.ParentLinks {
			tok.Parent = p.toksuper
		}
		if p.opts.NextSibling {
			p.linkSibling(work, idx)
		}
	}
	tok.Start = p.pos
	p.toksuper = idx
	return work, nil
}

// closeContainer handles a '}' or ']'.
func (p *Parser) closeContainer(c byte, work []Token, counting, permissive bool) ([]Token, error) {
	if !p.expected.Has(Close) {
		return work, p.errAt(ErrInval)
	}
	want := Object
	if c == ']' {
		want = Array
	}

	if p.opts.ParentLinks {
		if p.toknext < 1 {
			return work, p.errAt(ErrInval)
		}
		idx := p.toknext - 1
		for {
			tok := &work[idx]
			if tok.Start != None && tok.End == None {
				if !tok.Kind.Has(want) {
					return work, p.errAt(ErrInval)
				}
				tok.End = p.pos + 1
				p.toksuper = tok.Parent
				break
			}
			if tok.Parent == None {
				if !tok.Kind.Has(want) || p.toksuper == None {
					return work, p.errAt(ErrInval)
				}
				break
			}
			idx = tok.Parent
		}
	} else {
		i := p.toknext - 1
		found := false
		for ; i >= 0; i-- {
			tok := &work[i]
			if tok.Start != None && tok.End == None {
				if !tok.Kind.Has(want) {
					return work, p.errAt(ErrInval)
				}
				p.toksuper = None
				tok.End = p.pos + 1
				found = true
				break
			}
		}
		if !found {
			return work, p.errAt(ErrInval)
		}
		for ; i >= 0; i-- {
			if work[i].Start != None && work[i].End == None {
				p.toksuper = i
				break
			}
		}
	}

	if p.toksuper == None {
		if permissive {
			work[p.toknext-1].Kind |= Value
			p.expected = AnyType
		} else {
			p.expected = Container
		}
	} else {
		p.expected = Delimiter | Close
	}
	return work, nil
}

// colon handles a ':'.
func (p *Parser) colon(work []Token) error {
	if !p.expected.Has(Delimiter) {
		return p.errAt(ErrInval)
	}
	if p.opts.Dialect != Permissive {
		if p.toksuper == None || !work[p.toknext-1].Kind.Has(Key) {
			return p.errAt(ErrInval)
		}
	} else {
		work[p.toknext-1].Kind |= Key
	}
	p.expected = AnyType
	p.toksuper = p.toknext - 1
	return nil
}

// comma handles a ','. A comma seen while no container is open is silently
// consumed without any grammar check at all, in both dialects; this quirk
// is inherited from the reference implementation and preserved here.
func (p *Parser) comma(work []Token, permissive bool) error {
	if p.toksuper == None {
		return nil
	}
	if !p.expected.Has(Delimiter) {
		return p.errAt(ErrInval)
	}
	if !permissive {
		if work[p.toknext-1].Kind.Has(Key) {
			return p.errAt(ErrInval)
		}
		if work[p.toksuper].Kind.Has(Object) {
			p.expected = String
		} else {
			p.expected = AnyType
		}
	} else {
		work[p.toknext-1].Kind |= Value
		p.expected = AnyType
	}

	if !work[p.toksuper].Kind.Has(Container) {
		// toksuper currently points at a KEY token (a ':' advanced it);
		// reset it to the enclosing container.
		if p.opts.ParentLinks {
			p.toksuper = work[p.toksuper].Parent
		} else {
			p.toksuper = None
			for i := p.toknext - 1; i >= 0; i-- {
				if work[i].Kind.Has(Container) && work[i].Start != None && work[i].End == None {
					p.toksuper = i
					break
				}
			}
		}
	}

	// Now that toksuper is the enclosing container rather than a key,
	// settle what may follow the comma in strict mode: a key string inside
	// an object, any value inside an array.
	if !permissive {
		if p.toksuper != None && work[p.toksuper].Kind.Has(Object) {
			p.expected = String
		} else {
			p.expected = AnyType
		}
	}
	return nil
}

// repairToksuper undoes the effect of a ':' advancing toksuper to a key
// token when the element that follows turns out not to be separated from
// the prior element by a ',' (a missing comma). This repair is only
// performed in permissive mode with parent links enabled, matching the
// reference implementation; scan-mode permissive parsing does not attempt
// it, and nested or pathological inputs can leave toksuper pointing at a
// non-container as a result.
func (p *Parser) repairToksuper(work []Token) {
	if p.opts.Dialect != Permissive || !p.opts.ParentLinks {
		return
	}
	if p.toknext < 2 || !p.expected.Has(Delimiter) || !work[p.toknext-2].Kind.Has(Key) {
		return
	}
	if p.toksuper != None {
		p.toksuper = work[p.toksuper].Parent
	}
}

// parseString consumes a '"'-delimited string starting at p.pos. src[p.pos]
// must be '"'.
func (p *Parser) parseString(src []byte, work []Token, counting, permissive bool) ([]Token, error) {
	if !p.expected.Has(String) {
		return work, p.errAt(ErrInval)
	}
	p.repairToksuper(work)

	start := p.pos
	i := p.pos + 1
	for i < len(src) {
		c := src[i]
		if c == '"' {
			work, idx, err := p.alloc(work, counting)
			if err != nil {
				p.pos = start
				return work, err
			}
			tok := &work[idx]
			tok.Kind = String
			tok.Start, tok.End = start+1, i

			if !permissive {
				if work[p.toksuper].Kind.Has(Object) && work[idx-1].Kind.Has(Object|Value) {
					tok.Kind |= Key
					p.expected = Delimiter
				} else {
					tok.Kind |= Value
					p.expected = Delimiter | Close
				}
			} else {
				if idx >= 2 && work[idx-1].Kind.Has(Key) {
					tok.Kind |= Value
				}
				p.expected = AnyType | Delimiter | Close
			}
			if p.opts.ParentLinks {
				tok.Parent = p.toksuper
			}
			if p.opts.NextSibling {
				p.linkSibling(work, idx)
			}
			p.pos = i
			return work, nil
		}
		if c == '\\' && i+1 < len(src) {
			i++
			switch src[i] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				// Single-byte escape, nothing further to check.
			case 'u':
				for k := 0; k < 4; k++ {
					i++
					if i >= len(src) {
						p.pos = start
						return work, p.errAt(ErrPart)
					}
					if !isHexDigit(src[i]) {
						p.pos = start
						return work, p.errAt(ErrInval)
					}
				}
			default:
				p.pos = start
				return work, p.errAt(ErrInval)
			}
		}
		i++
	}
	p.pos = start
	return work, p.errAt(ErrPart)
}

// parsePrimitive consumes an unquoted run starting at p.pos, up to (but not
// including) the next terminator byte.
func (p *Parser) parsePrimitive(src []byte, work []Token, counting, permissive bool) ([]Token, error) {
	if !p.expected.Has(Primitive) {
		return work, p.errAt(ErrInval)
	}
	p.repairToksuper(work)

	start := p.pos
	i := p.pos
	for i < len(src) {
		c := src[i]
		if isPrimitiveTerminator(c, permissive) {
			break
		}
		if c < 32 || c >= 127 {
			p.pos = start
			return work, p.errAt(ErrInval)
		}
		i++
	}
	if i == len(src) && !permissive {
		p.pos = start
		return work, p.errAt(ErrPart)
	}

	work, idx, err := p.alloc(work, counting)
	if err != nil {
		p.pos = start
		return work, err
	}
	tok := &work[idx]
	tok.Kind = Primitive
	tok.Start, tok.End = start, i

	if !permissive {
		tok.Kind |= Value
	} else if p.toksuper != None && work[p.toksuper].Kind.Has(Key) {
		tok.Kind |= Value
	}
	p.expected = Delimiter | Close
	if permissive {
		if p.toksuper == None {
			p.expected |= AnyType
		} else if p.opts.ParentLinks {
			if work[p.toksuper].Parent == None {
				p.expected |= AnyType
			}
		} else {
			for j := p.toksuper; j >= 0; j-- {
				if work[j].Kind.Has(Container) {
					break
				}
				if j == 0 {
					p.expected |= AnyType
				}
			}
		}
	}
	if p.opts.ParentLinks {
		tok.Parent = p.toksuper
	}
	if p.opts.NextSibling {
		p.linkSibling(work, idx)
	}
	p.pos = i - 1 // the outer loop advances pos by one before the next iteration
	return work, nil
}

func isPrimitiveTerminator(c byte, permissive bool) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ',', ']', '}':
		return true
	case ':':
		return permissive
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
