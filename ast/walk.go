package ast

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// SkipChildren is a special error value that a Walk callback may return to
// prevent Walk from visiting the children of the current value. Walk does not
// report this error to its caller.
var SkipChildren = errors.New("skip children")

// Walk visits v and each of its descendants in pre-order, calling f for each
// value. Object members are visited in source order, followed by list elements
// in index order. If f returns SkipChildren, the descendants of that value are
// not visited; if f returns any other error, Walk stops and returns it.
//
// Walk uses an explicit stack, so arbitrarily deep trees do not exhaust the
// Go stack. A nil v is not visited.
func Walk(v Value, f func(Value) error) error {
	if v == nil {
		return nil
	}
	stk := []Value{v}
	for len(stk) != 0 {
		next := stk[len(stk)-1]
		stk = stk[:len(stk)-1]

		if err := f(next); errors.Is(err, SkipChildren) {
			continue
		} else if err != nil {
			return err
		}

		// Push children in reverse so the first is visited first.
		switch t := next.(type) {
		case Object:
			for i := len(t) - 1; i >= 0; i-- {
				if t[i] != nil && t[i].Value != nil {
					stk = append(stk, t[i].Value)
				}
			}
		case List:
			for i := len(t) - 1; i >= 0; i-- {
				if t[i] != nil {
					stk = append(stk, t[i])
				}
			}
		}
	}
	return nil
}

// Release tears down the tree rooted at v, clearing the references held by
// every object and list so that no part of the tree retains another. It
// returns the number of values released, counting v and each descendant once.
// Release is safe to call on a nil value or on a partially built tree.
//
// Teardown is iterative and visits children before their parents.
func Release(v Value) int {
	if v == nil {
		return 0
	}
	type item struct {
		v    Value
		seen bool // children have already been pushed
	}
	var n int
	stk := []item{{v: v}}
	for len(stk) != 0 {
		top := &stk[len(stk)-1]
		if top.seen {
			switch t := top.v.(type) {
			case Object:
				for i, m := range t {
					if m != nil {
						m.Value = nil
					}
					t[i] = nil
				}
			case List:
				clear(t)
			}
			stk = stk[:len(stk)-1]
			n++
			continue
		}
		top.seen = true
		switch t := top.v.(type) {
		case Object:
			for _, m := range t {
				if m != nil && m.Value != nil {
					stk = append(stk, item{v: m.Value})
				}
			}
		case List:
			for _, elt := range t {
				if elt != nil {
					stk = append(stk, item{v: elt})
				}
			}
		}
	}
	return n
}

// Print writes a human-readable rendering of the tree rooted at v to w, one
// value per line, indenting two spaces for each level of nesting:
//
//	OBJECT
//	  Key: name
//	    STRING: "edge"
//	  Key: ports
//	    LIST
//	      NUMBER: 80.000000
//
// A nil value prints as NULL.
func Print(w io.Writer, v Value) error {
	type item struct {
		key   string
		isKey bool
		v     Value
		depth int
	}
	stk := []item{{v: v}}
	for len(stk) != 0 {
		next := stk[len(stk)-1]
		stk = stk[:len(stk)-1]

		indent := strings.Repeat("  ", next.depth)
		if next.isKey {
			if _, err := fmt.Fprintf(w, "%sKey: %s\n", indent, next.key); err != nil {
				return err
			}
			stk = append(stk, item{v: next.v, depth: next.depth + 1})
			continue
		}

		var err error
		switch t := next.v.(type) {
		case nil, Null:
			_, err = fmt.Fprintf(w, "%sNULL\n", indent)
		case Bool:
			_, err = fmt.Fprintf(w, "%sBOOL: %t\n", indent, bool(t))
		case Number:
			_, err = fmt.Fprintf(w, "%sNUMBER: %f\n", indent, float64(t))
		case String:
			_, err = fmt.Fprintf(w, "%sSTRING: \"%s\"\n", indent, string(t))
		case Object:
			_, err = fmt.Fprintf(w, "%sOBJECT\n", indent)
			for i := len(t) - 1; i >= 0; i-- {
				if t[i] != nil {
					stk = append(stk, item{key: t[i].Key, isKey: true, v: t[i].Value, depth: next.depth + 1})
				}
			}
		case List:
			_, err = fmt.Fprintf(w, "%sLIST\n", indent)
			for i := len(t) - 1; i >= 0; i-- {
				stk = append(stk, item{v: t[i], depth: next.depth + 1})
			}
		default:
			err = fmt.Errorf("unknown value type %T", t)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
