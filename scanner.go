// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package xon

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/isaacmuliro/Xerxis-Object-Notation/internal/escape"
	"go4.org/mem"
)

// Token is the type of a lexical token in the XON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Number               // number: decimal or hexadecimal
	String               // quoted string or bare identifier
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// ErrUnexpectedChar is wrapped by the error reported when the scanner finds a
// character that cannot begin any token.
var ErrUnexpectedChar = errors.New("unexpected character found")

// A Scanner reads lexical tokens from an input stream.  Each call to Next
// advances the scanner to the next token, or reports an error.
//
// Comments ("//" to end of line) and whitespace are discarded.  String,
// number, and identifier text is accumulated in a growable buffer, so long
// tokens are never truncated.
type Scanner struct {
	r      *bufio.Reader
	buf    bytes.Buffer // current token
	tok    Token
	err    error
	num    float64 // value of the current Number token
	closed bool    // the current String token has a closing quote

	pos, end int // start and end offsets of current token

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int

	// State before the last byte read, for unbyte.
	last        bool
	lline, lcol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// Next advances s to the next token of the input and reports whether a token
// is available. At the end of the input, or if an error occurs, Next returns
// false and Err reports the reason. At the end of input, Err returns io.EOF.
func (s *Scanner) Next() bool {
	s.buf.Reset()
	s.err = nil
	s.tok = Invalid
	s.num = 0
	s.closed = false
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, err := s.byte()
		if err == io.EOF {
			s.setErr(err)
			return false
		} else if err != nil {
			s.fail(err)
			return false
		}

		// Discard whitespace.
		if isSpace(ch) {
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Discard line comments. A lone slash is not a token.
		if ch == '/' {
			if err := s.skipComment(); err == io.EOF {
				s.setErr(err)
				return false
			} else if err != nil {
				return false
			}
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteByte(ch)
			s.tok = t
			return true
		}

		switch {
		case isNumStart(ch):
			err = s.scanNumber(ch)
		case ch == '"':
			err = s.scanString(ch)
		case isNameStart(ch):
			err = s.scanName(ch)
		default:
			s.unexpected(ch)
			return false
		}
		return err == nil
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return bytes.Clone(s.buf.Bytes()) }

// Unquote returns the decoded text of the current String token.  For a quoted
// string the quotation marks are removed and escapes are replaced; for a bare
// identifier the text is returned as written. A string left unterminated at
// the end of input decodes to whatever text was read before the input ended.
func (s *Scanner) Unquote() string {
	text := s.buf.Bytes()
	if len(text) == 0 || text[0] != '"' {
		return string(text)
	}
	text = text[1:]
	if s.closed {
		text = text[:len(text)-1]
	}
	return string(escape.Unquote(mem.B(text)))
}

// Float64 returns the value of the current Number token, or 0 if the current
// token is not a number.
func (s *Scanner) Float64() float64 { return s.num }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// Line returns the 1-based line number of the current scan position.
func (s *Scanner) Line() int { return s.eline + 1 }

// skipComment consumes the remainder of a "//" comment, whose first slash has
// already been read. It returns io.EOF if the comment ends the input.
func (s *Scanner) skipComment() error {
	ch, err := s.byte()
	if err == io.EOF {
		s.unexpected('/')
		return s.err
	} else if err != nil {
		return s.fail(err)
	}
	if ch != '/' {
		s.unbyte()
		s.unexpected('/')
		return s.err
	}
	_, _, err = s.skipWhile(isNotLF)
	if err != nil && err != io.EOF {
		return s.fail(err)
	}
	return err
}

func (s *Scanner) scanString(open byte) error {
	s.buf.WriteByte(open)
	var esc bool
	for {
		ch, err := s.byte()
		if err == io.EOF {
			// An unterminated string ends with the input.
			s.tok = String
			return nil
		} else if err != nil {
			return s.fail(err)
		}
		s.buf.WriteByte(ch)
		if ch == open && !esc {
			s.closed = true
			s.tok = String
			return nil
		}
		esc = !esc && ch == '\\'
	}
}

func (s *Scanner) scanNumber(start byte) error {
	s.buf.WriteByte(start)

	switch start {
	case '0':
		// A leading 0x or 0X introduces a hexadecimal literal.
		ch, err := s.byte()
		if err == io.EOF {
			return s.setNumber()
		} else if err != nil {
			return s.fail(err)
		}
		if ch == 'x' || ch == 'X' {
			s.buf.WriteByte(ch)
			_, _, err = s.readWhile(isHexDigit)
			if err == nil {
				s.unbyte()
			} else if err != io.EOF {
				return s.fail(err)
			}
			v := hexValue(s.buf.Bytes()[2:])
			if math.IsInf(v, 0) {
				return s.failf("number %q out of range", s.buf.String())
			}
			s.tok = Number
			s.num = v
			return nil
		}
		s.unbyte()

	case '-':
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		ch, err := s.require(isDigit, "digit")
		if err != nil {
			return err
		}
		s.buf.WriteByte(ch)
	}

	// Consume the remainder of the integer part.
	_, ch, err := s.readWhile(isDigit)
	if err == io.EOF {
		return s.setNumber()
	} else if err != nil {
		return s.fail(err)
	}

	// If a decimal point follows, consume a fractional part.
	if ch == '.' {
		s.buf.WriteByte(ch)
		var nr int
		nr, _, err = s.readWhile(isDigit)
		if err != nil && err != io.EOF {
			return s.fail(err)
		} else if nr == 0 {
			return s.failf("no digits after decimal point")
		} else if err == io.EOF {
			return s.setNumber()
		}
	}
	s.unbyte()
	return s.setNumber()
}

// setNumber decodes the decimal text of the current token as a Number.
func (s *Scanner) setNumber() error {
	v, err := mem.ParseFloat(mem.B(s.buf.Bytes()), 64)
	if math.IsInf(v, 0) {
		return s.failf("number %q out of range", s.buf.String())
	} else if err != nil && !errors.Is(err, strconv.ErrRange) {
		return s.failf("invalid number %q: %w", s.buf.String(), err)
	}
	s.tok = Number
	s.num = v
	return nil
}

func (s *Scanner) scanName(first byte) error {
	s.buf.WriteByte(first)
	_, _, err := s.readWhile(isNameByte)
	if err == nil {
		s.unbyte()
	} else if err != io.EOF {
		return s.fail(err)
	}

	switch word := mem.B(s.buf.Bytes()); {
	case word.Equal(mem.S("true")):
		s.tok = True
	case word.Equal(mem.S("false")):
		s.tok = False
	case word.Equal(mem.S("null")):
		s.tok = Null
	default:
		s.tok = String // a bare object key
	}
	return nil
}

func (s *Scanner) byte() (byte, error) {
	ch, err := s.r.ReadByte()
	if err != nil {
		s.last = false
		return 0, err
	}
	s.last = true
	s.lline, s.lcol = s.eline, s.ecol
	s.end++
	if ch == '\n' {
		s.eline++
		s.ecol = 0
	} else {
		s.ecol++
	}
	return ch, nil
}

func (s *Scanner) unbyte() {
	if !s.last {
		return
	}
	s.end--
	s.eline, s.ecol = s.lline, s.lcol
	s.last = false
	s.r.UnreadByte()
}

// require reads a single byte matching f from the input, or returns an error
// mentioning the desired label.
func (s *Scanner) require(f func(byte) bool, label string) (byte, error) {
	ch, err := s.byte()
	if err != nil {
		return 0, s.failf("want %s, got error: %w", label, err)
	} else if !f(ch) {
		s.unbyte()
		return 0, s.failf("got %q, want %s", ch, label)
	}
	return ch, nil
}

// readWhile consumes bytes matching f from the input until EOF or until a byte
// not matching f is found. The first non-matching byte (if any) is returned.
// It is the caller's responsibility to unread this byte, if desired.
// The int reports the number of bytes consumed.
func (s *Scanner) readWhile(f func(byte) bool) (int, byte, error) {
	var nr int
	for {
		ch, err := s.byte()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteByte(ch)
		nr++
	}
}

// skipWhile is as readWhile, but discards the bytes it consumes.
func (s *Scanner) skipWhile(f func(byte) bool) (int, byte, error) {
	var nr int
	for {
		ch, err := s.byte()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		nr++
	}
}

type posError struct {
	line int
	err  error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (line %d)", p.err.Error(), p.line)
}

func (p posError) Unwrap() error { return p.err }

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

func (s *Scanner) fail(err error) error {
	return s.setErr(posError{s.pline + 1, err})
}

func (s *Scanner) failf(msg string, args ...any) error {
	return s.setErr(posError{s.pline + 1, fmt.Errorf(msg, args...)})
}

func (s *Scanner) unexpected(ch byte) error {
	return s.failf("%w: %q", ErrUnexpectedChar, ch)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isNotLF(ch byte) bool     { return ch != '\n' }
func isNumStart(ch byte) bool  { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool     { return '0' <= ch && ch <= '9' }
func isAlpha(ch byte) bool     { return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') }
func isNameStart(ch byte) bool { return isAlpha(ch) || ch == '_' }
func isNameByte(ch byte) bool  { return isNameStart(ch) || isDigit(ch) }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// hexValue returns the value of the hexadecimal digits in buf.  The value is
// accumulated as a float64, so long literals lose precision, and literals
// beyond the float64 range yield +Inf.  An empty buf has value 0.
func hexValue(buf []byte) float64 {
	var v float64
	for _, b := range buf {
		var d byte
		switch {
		case isDigit(b):
			d = b - '0'
		case b >= 'a' && b <= 'f':
			d = b - 'a' + 10
		default:
			d = b - 'A' + 10
		}
		v = v*16 + float64(d)
	}
	return v
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Token, bool) {
	i := strings.IndexByte("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
