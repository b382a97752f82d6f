// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements step-wise navigation over a XON syntax tree.
package cursor

import (
	"fmt"

	"github.com/isaacmuliro/Xerxis-Object-Notation"
	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
)

// Path traverses a sequential path into the structure of v where path elements
// are as documented for the Cursor.Down method, and returns the value reached
// as a T. It reports an error if the path cannot be followed, or if the value
// reached is not a T.
func Path[T ast.Value](v ast.Value, path ...any) (T, error) {
	c := New(v).Down(path...)
	var zero T
	if err := c.Err(); err != nil {
		return zero, err
	}
	out, ok := c.Value().(T)
	if !ok {
		return zero, fmt.Errorf("got %s, want %s", ast.KindOf(c.Value()), zero.Kind())
	}
	return out, nil
}

// A Cursor is a pointer that navigates into the structure of an ast.Value.
// A cursor never modifies the tree it traverses.
type Cursor struct {
	org ast.Value
	stk []step
	err error
}

type step struct {
	v     ast.Value
	label string
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin ast.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() ast.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() ast.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1].v
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []ast.Value {
	out := make([]ast.Value, 0, len(c.stk)+1)
	out = append(out, c.org)
	for _, s := range c.stk {
		out = append(out, s.v)
	}
	return out
}

// Location renders the steps from the origin to the current value as a
// string, for example ".server.ports[0]". At the origin it returns "".
func (c *Cursor) Location() string {
	var out []byte
	for _, s := range c.stk {
		out = append(out, s.label...)
	}
	return string(out)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current value, where path elements are strings (object keys), integers
// (offsets into lists or objects), functions (see below), or nil. If the path
// cannot be completely consumed, traversal stops at the last valid position
// and an error is recorded. Use Err to recover the error.
//
// A string path element requires an object, and resolves to the value of the
// first member with that key.
//
// An integer path element requires a list or an object, and resolves to the
// element (or member value) at that offset. Negative offsets count backward
// from the end (-1 is last, -2 second last).
//
// A function path element must have the signature
//
//	func(ast.Value) (ast.Value, error)
//
// and its result becomes the next value in the sequence. If the function
// reports an error, traversal stops and the error is recorded.
//
// A nil path element is ignored.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			obj, ok := cur.(ast.Object)
			if !ok {
				return c.setErrorf("at %q: cannot select key %q from %s", c.Location(), t, ast.KindOf(cur))
			}
			m := obj.Find(t)
			if m == nil {
				return c.setErrorf("at %q: key %q not found", c.Location(), t)
			}
			cur = c.push(m.Value, keyLabel(t))

		case int:
			var n int
			switch e := cur.(type) {
			case ast.List:
				n = len(e)
				if i, ok := fixBound(n, t); ok {
					cur = c.push(e[i], fmt.Sprintf("[%d]", i))
					continue
				}
			case ast.Object:
				n = len(e)
				if i, ok := fixBound(n, t); ok {
					cur = c.push(e[i].Value, keyLabel(e[i].Key))
					continue
				}
			default:
				return c.setErrorf("at %q: cannot index %s with %d", c.Location(), ast.KindOf(cur), t)
			}
			return c.setErrorf("at %q: index %d out of bounds (n=%d)", c.Location(), t, n)

		case func(ast.Value) (ast.Value, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next, "")

		case nil:
			// skip

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v ast.Value, label string) ast.Value {
	c.stk = append(c.stk, step{v: v, label: label})
	return v
}

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func keyLabel(key string) string {
	if xon.IsName(key) {
		return "." + key
	}
	return fmt.Sprintf("[%q]", key)
}

func fixBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
