package xon

import (
	"fmt"
	"io"
	"strings"
)

// DefaultMaxDepth is the default limit on the nesting depth of objects and
// lists accepted by a Parser.
const DefaultMaxDepth = 10000

// A Parser is an incremental parser for the XON grammar:
//
//	value  = null | true | false | NUMBER | STRING | object | list
//	object = "{" [ pair { "," pair } ] "}"
//	pair   = STRING ":" value
//	list   = "[" [ value { "," value } ] "]"
//
// Tokens are pushed one at a time with Push, and the end of the input is
// signalled with End. The parser keeps an explicit stack of open objects and
// lists rather than recursing, so nesting depth costs no Go stack. Structure
// is reported to a Handler as tokens arrive.
//
// Once Push or End reports an error, the parser is finished and every later
// call reports the same error.
type Parser struct {
	h        Handler
	stk      []frame
	tcomma   bool
	maxDepth int
	err      error
}

// NewParser constructs a Parser that delivers events to h.
func NewParser(h Handler) *Parser {
	return &Parser{
		h:        h,
		stk:      []frame{{kind: topFrame, state: wantValue}},
		maxDepth: DefaultMaxDepth,
	}
}

// AllowTrailingCommas configures p to allow (true) or reject (false) a comma
// after the last member of an object or the last element of a list.
func (p *Parser) AllowTrailingCommas(ok bool) { p.tcomma = ok }

// SetMaxDepth sets the maximum nesting depth of objects and lists. A value
// of zero or less removes the limit.
func (p *Parser) SetMaxDepth(n int) { p.maxDepth = n }

// Depth reports the number of objects and lists currently open.
func (p *Parser) Depth() int { return len(p.stk) - 1 }

// Done reports whether p has received a complete top-level value.
func (p *Parser) Done() bool { return len(p.stk) == 1 && p.stk[0].state == done }

// Push delivers the token at a to the parser.
func (p *Parser) Push(a Anchor) (err error) {
	if p.err != nil {
		return p.err
	}
	defer p.recoverParseError(&err)
	p.shift(a)
	return nil
}

// End reports the end of the input to the parser. It reports an error if no
// value was seen, or if any object or list is still open.
func (p *Parser) End(a Anchor) (err error) {
	if p.err != nil {
		return p.err
	}
	defer p.recoverParseError(&err)

	switch {
	case p.Done():
		p.h.EndOfInput(a)
	case len(p.stk) == 1:
		p.syntaxError(a, io.ErrUnexpectedEOF, "unexpected end of input: no value")
	default:
		p.syntaxError(a, io.ErrUnexpectedEOF, "unexpected end of input: unclosed %s",
			p.stk[len(p.stk)-1].kind)
	}
	return nil
}

func (p *Parser) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
		p.err = *errp
	}
}

// shift consumes one token according to the state of the innermost open
// aggregate.
func (p *Parser) shift(a Anchor) {
	tok := a.Token()
	i := len(p.stk) - 1
	switch cur := p.stk[i]; cur.state {
	case wantValue:
		p.parseValue(a)

	case wantValueOrEnd:
		if tok == RSquare {
			p.closeFrame(a)
			return
		}
		p.parseValue(a)

	case wantKeyOrEnd:
		if tok == RBrace {
			p.closeFrame(a)
			return
		}
		p.parseKey(a, String, RBrace)

	case wantKey:
		p.parseKey(a, String)

	case wantColon:
		if tok != Colon {
			p.syntaxError(a, nil, "%v", tokLabel([]Token{Colon}, tok))
		}
		p.stk[i].state = wantValue

	case wantCommaOrEnd:
		if cur.kind == objectFrame {
			if tok != Comma && tok != RBrace {
				p.syntaxError(a, nil, "%v", tokLabel([]Token{Comma, RBrace}, tok))
			}
			p.checkError(p.h.EndMember(a))
			if tok == RBrace {
				p.closeFrame(a)
			} else if p.tcomma {
				p.stk[i].state = wantKeyOrEnd
			} else {
				p.stk[i].state = wantKey
			}
			return
		}
		switch tok {
		case RSquare:
			p.closeFrame(a)
		case Comma:
			if p.tcomma {
				p.stk[i].state = wantValueOrEnd
			} else {
				p.stk[i].state = wantValue
			}
		default:
			p.syntaxError(a, nil, "%v", tokLabel([]Token{Comma, RSquare}, tok))
		}

	case done:
		p.syntaxError(a, ErrExtraInput, "unexpected %v after end of value", tok)
	}
}

// parseValue consumes the first token of a value.
func (p *Parser) parseValue(a Anchor) {
	switch tok := a.Token(); tok {
	case LBrace:
		p.openFrame(a, objectFrame)
		p.checkError(p.h.BeginObject(a))
	case LSquare:
		p.openFrame(a, arrayFrame)
		p.checkError(p.h.BeginArray(a))
	case Number, String, True, False, Null:
		p.checkError(p.h.Value(a))
		p.complete()
	case RBrace, RSquare, Comma, Colon:
		p.syntaxError(a, nil, "unexpected %v", tok)
	default:
		p.syntaxError(a, nil, "unknown token %v", tok)
	}
}

// parseKey consumes the key of an object member.
func (p *Parser) parseKey(a Anchor, want ...Token) {
	switch tok := a.Token(); tok {
	case String:
		p.checkError(p.h.BeginMember(a))
		p.stk[len(p.stk)-1].state = wantColon
	case Colon:
		p.syntaxError(a, nil, "unexpected %v without a key", tok)
	default:
		p.syntaxError(a, nil, "%v", tokLabel(want, tok))
	}
}

func (p *Parser) openFrame(a Anchor, kind frameKind) {
	if p.maxDepth > 0 && len(p.stk) > p.maxDepth {
		p.syntaxError(a, nil, "nesting depth exceeds %d", p.maxDepth)
	}
	p.stk = append(p.stk, frame{kind: kind, state: initialState[kind]})
}

// closeFrame ends the innermost open aggregate at a and completes the value
// it denotes in the enclosing context.
func (p *Parser) closeFrame(a Anchor) {
	top := p.stk[len(p.stk)-1]
	p.stk = p.stk[:len(p.stk)-1]
	if top.kind == objectFrame {
		p.checkError(p.h.EndObject(a))
	} else {
		p.checkError(p.h.EndArray(a))
	}
	p.complete()
}

// complete records that a value has been finished in the innermost context.
func (p *Parser) complete() {
	i := len(p.stk) - 1
	if p.stk[i].kind == topFrame {
		p.stk[i].state = done
	} else {
		p.stk[i].state = wantCommaOrEnd
	}
}

func (p *Parser) syntaxError(a Anchor, err error, msg string, args ...any) {
	panic(&SyntaxError{
		Location: a.Location().First,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	})
}

func (p *Parser) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

type frameKind byte

const (
	topFrame frameKind = iota
	objectFrame
	arrayFrame
)

func (k frameKind) String() string {
	switch k {
	case objectFrame:
		return "object"
	case arrayFrame:
		return "list"
	default:
		return "document"
	}
}

type parseState byte

const (
	wantValue      parseState = iota // a value is required
	wantValueOrEnd                   // a value or "]"
	wantKeyOrEnd                     // a member key or "}"
	wantKey                          // a member key
	wantColon                        // the ":" after a member key
	wantCommaOrEnd                   // "," or the closing bracket
	done                             // the top-level value is complete
)

var initialState = [...]parseState{
	topFrame:    wantValue,
	objectFrame: wantKeyOrEnd,
	arrayFrame:  wantValueOrEnd,
}

// A frame records the parse state of one open aggregate.
type frame struct {
	kind  frameKind
	state parseState
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprint(got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}
