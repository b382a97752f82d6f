// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package xon

import (
	"errors"
	"fmt"
	"io"
)

// An Anchor represents a location in source text. The methods of an Anchor
// will report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // Returns the token type of the anchor
	Text() []byte       // Returns a view of the raw (undecoded) text of the anchor
	Copy() []byte       // Returns a copy of the raw text of the anchor
	Unquote() string    // Returns the decoded text of a String anchor
	Float64() float64   // Returns the value of a Number anchor
	Location() Location // Returns the full location of the anchor
}

// A Handler handles events from parsing an input stream.  If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and lists are correctly balanced.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call. If the method needs to retain information about the
// location after it returns, it must copy the relevant data.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new list, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened list, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc.  The key is a String
	// token, either quoted or a bare identifier; use loc.Unquote to obtain
	// its decoded text.
	BeginMember(loc Anchor) error

	// End the current object member giving the location and type of the token
	// that terminated the member (either Comma or RBrace).
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type of the value can be
	// recovered from the token.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input stream.
	EndOfInput(loc Anchor)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input. It is the push loop
// that feeds tokens from a Scanner into a Parser.
type Stream struct {
	s        *Scanner
	tcomma   bool // allow trailing commas in objects and lists
	maxDepth int
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return NewStreamWithScanner(NewScanner(r)) }

// NewStreamWithScanner constructs a new Stream that consumes input from s.
func NewStreamWithScanner(s *Scanner) *Stream {
	return &Stream{s: s, maxDepth: DefaultMaxDepth}
}

// AllowTrailingCommas configures the parser to allow (true) or reject (false)
// trailing commas in objects and lists.
func (s *Stream) AllowTrailingCommas(ok bool) { s.tcomma = ok }

// SetMaxDepth sets the maximum nesting depth of objects and lists. A value
// of zero or less removes the limit.
func (s *Stream) SetMaxDepth(n int) { s.maxDepth = n }

// Parse parses a single XON document from the input stream and delivers
// events to h until either an error occurs or the input is exhausted.  The
// document must contain exactly one value.  In case of a lexical or syntax
// error, the returned error has type [*SyntaxError]. If a Handler method
// reports an error, parsing stops and that error is returned.
func (s *Stream) Parse(h Handler) error {
	p := NewParser(h)
	p.AllowTrailingCommas(s.tcomma)
	p.SetMaxDepth(s.maxDepth)

	for s.s.Next() {
		if err := p.Push(s.s); err != nil {
			return err
		}
	}
	if err := s.s.Err(); err != io.EOF {
		return lexicalError(s.s.Location().First, err)
	}
	return p.End(s.s)
}

func lexicalError(loc LineCol, err error) *SyntaxError {
	msg := err.Error()
	var pe posError
	if errors.As(err, &pe) {
		msg = pe.err.Error()
	}
	return &SyntaxError{Location: loc, Message: msg, err: err}
}

// ErrExtraInput is wrapped by the error reported when a document contains
// further tokens after its value is complete.
var ErrExtraInput = errors.New("extra input after value")

// SyntaxError is the concrete type of errors reported by the stream parser.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
