// Package query implements structural queries over XON values.
//
// A query describes a syntactic substructure of a XON syntax tree, such as an
// object member, list element, or a path through the tree. Evaluating a query
// against a concrete value traverses the structure described by the query and
// returns the resulting value. Queries never modify their input; a query that
// produces a list or object builds a new one.
//
// The simplest query is for a "path", a sequence of object keys and/or list
// indices that describes a path from the root of a value. For example, given
// the document:
//
//	[{a: 1, b: 2}, {c: {d: true}, e: false}]
//
// the query
//
//	query.Path(1, "c", "d")
//
// yields the value true.
package query

import (
	"errors"
	"fmt"

	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
)

// Eval evaluates the given query beginning from root, returning the resulting
// value or an error.
func Eval(root ast.Value, q Query) (ast.Value, error) {
	return q.eval(root)
}

// A Query describes a traversal of a XON value.
type Query interface {
	eval(ast.Value) (ast.Value, error)
}

// Path traverses a sequence of nested object keys or list indices from the
// root.  If no keys are specified, the root is returned. Each key must be a
// string, an int, or a Query.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathElem(keys[0])
	}
	pq := make(Seq, 0, len(keys))
	for _, key := range keys {
		q := pathElem(key)
		if sq, ok := q.(Seq); ok {
			pq = append(pq, sq...)
		} else {
			pq = append(pq, q)
		}
	}
	return pq
}

func pathElem(key any) Query {
	switch t := key.(type) {
	case string:
		return objKey(t)
	case int:
		return nthQuery(t)
	case Query:
		return t
	default:
		panic(fmt.Sprintf("invalid path element %T", key))
	}
}

type objKey string

func (o objKey) eval(v ast.Value) (ast.Value, error) {
	return with(v, func(obj ast.Object) (ast.Value, error) {
		mem := obj.Find(string(o))
		if mem == nil {
			return nil, fmt.Errorf("key %q not found", o)
		}
		return mem.Value, nil
	})
}

type nthQuery int

func (nq nthQuery) eval(v ast.Value) (ast.Value, error) {
	return with(v, func(lst ast.List) (ast.Value, error) {
		idx, ok := fixBound(len(lst), int(nq))
		if !ok {
			return nil, fmt.Errorf("index %d out of range (0..%d)", nq, len(lst))
		}
		return lst[idx], nil
	})
}

// Selection constructs a list of the elements of its input list, for which
// the specified function returns true.
type Selection func(ast.Value) bool

func (q Selection) eval(v ast.Value) (ast.Value, error) {
	return with(v, func(lst ast.List) (ast.Value, error) {
		out := ast.List{}
		for _, elt := range lst {
			if q(elt) {
				out = append(out, elt)
			}
		}
		return out, nil
	})
}

// Mapping constructs a list in which each value is replaced by the result of
// calling the specified function on the corresponding input value.
type Mapping func(ast.Value) ast.Value

func (q Mapping) eval(v ast.Value) (ast.Value, error) {
	return with(v, func(lst ast.List) (ast.Value, error) {
		out := make(ast.List, len(lst))
		for i, elt := range lst {
			out[i] = q(elt)
		}
		return out, nil
	})
}

// Slice selects a slice of a list from offsets lo to hi.  The range includes
// lo but excludes hi. Negative offsets select from the end of the list.
// If hi == 0, the length of the list is used.
func Slice(lo, hi int) Query { return sliceQuery{lo, hi} }

type sliceQuery struct{ lo, hi int }

func (q sliceQuery) eval(v ast.Value) (ast.Value, error) {
	return with(v, func(lst ast.List) (ast.Value, error) {
		lox := q.lo
		if lox < 0 {
			lox += len(lst)
		}
		hix := q.hi
		if hix <= 0 {
			hix += len(lst)
		}
		if lox < 0 || lox > len(lst) {
			return nil, fmt.Errorf("index %d out of range (0..%d)", q.lo, len(lst))
		} else if hix < 0 || hix > len(lst) {
			return nil, fmt.Errorf("index %d out of range (0..%d)", q.hi, len(lst))
		} else if lox > hix {
			return nil, fmt.Errorf("index start %d > end %d", q.lo, q.hi)
		}
		return append(ast.List{}, lst[lox:hix]...), nil
	})
}

// Pick constructs a list by picking the designated offsets from a list.
// Negative offsets select from the end of the input list.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

type pickQuery []int

func (q pickQuery) eval(v ast.Value) (ast.Value, error) {
	return with(v, func(lst ast.List) (ast.Value, error) {
		out := make(ast.List, 0, len(q))
		for _, off := range q {
			idx, ok := fixBound(len(lst), off)
			if !ok {
				return nil, fmt.Errorf("index %d out of range (0..%d)", off, len(lst))
			}
			out = append(out, lst[idx])
		}
		return out, nil
	})
}

// Len returns a number representing the length of the root.
//
// For an object, the length is the number of members.
// For a list, the length is the number of elements.
// For a string, the length is the length of the string in bytes.
// For null, the length is zero.
func Len() Query { return lenQuery{} }

type lenQuery struct{}

func (lenQuery) eval(v ast.Value) (ast.Value, error) {
	switch t := v.(type) {
	case interface{ Len() int }:
		return ast.Number(t.Len()), nil
	case ast.Null:
		return ast.Number(0), nil
	}
	return nil, fmt.Errorf("cannot take length of %s", ast.KindOf(v))
}

// Keys returns a list of the keys of an object, in order of occurrence.
// For null, the result is an empty list.
func Keys() Query { return keysQuery{} }

type keysQuery struct{}

func (keysQuery) eval(v ast.Value) (ast.Value, error) {
	switch t := v.(type) {
	case ast.Object:
		return ast.ListOf(t.Keys()...), nil
	case ast.Null:
		return ast.List{}, nil
	}
	return nil, fmt.Errorf("cannot list keys of %s", ast.KindOf(v))
}

// Seq is a sequential composition of queries. An empty sequence selects the
// root; otherwise, each query is applied to the result selected by the
// previous query in the sequence.
type Seq []Query

func (q Seq) eval(v ast.Value) (ast.Value, error) {
	cur := v
	for _, sq := range q {
		next, err := sq.eval(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Alt is a query that selects among a sequence of alternatives.  The result of
// the first alternative that does not report an error is returned. If there
// are no alternatives, the query fails on all inputs.
type Alt []Query

func (q Alt) eval(v ast.Value) (ast.Value, error) {
	for _, alt := range q {
		if w, err := alt.eval(v); err == nil {
			return w, nil
		}
	}
	return nil, errors.New("no matching alternatives")
}

// Recur applies a query to each recursive descendant of its input, including
// the input itself, and returns a list of the values for which it succeeds, in
// pre-order. It fails if there are no matches. The arguments have the same
// constraints as Path.
func Recur(keys ...any) Query { return recQuery{Path(keys...)} }

type recQuery struct{ Query }

func (q recQuery) eval(v ast.Value) (ast.Value, error) {
	var out ast.List
	ast.Walk(v, func(next ast.Value) error {
		if r, err := q.Query.eval(next); err == nil {
			out = append(out, r)
		}
		return nil
	})
	if len(out) == 0 {
		return nil, errors.New("no matches")
	}
	return out, nil
}

// Each applies a query to each element of a list and returns a list of the
// resulting values. It fails if the input is not a list.  The arguments have
// the same constraints as Path.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

type eachQuery struct{ Query }

func (q eachQuery) eval(v ast.Value) (ast.Value, error) {
	return with(v, func(lst ast.List) (ast.Value, error) {
		out := make(ast.List, 0, len(lst))
		for i, elt := range lst {
			v, err := q.Query.eval(elt)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	})
}

// Object constructs an object with the given keys mapped to the results of
// matching the query values against its input. Members of the result are in
// lexicographic order by key.
type Object map[string]Query

func (o Object) eval(v ast.Value) (ast.Value, error) {
	out := make(ast.Object, 0, len(o))
	for _, key := range sortedKeys(o) {
		val, err := o[key].eval(v)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", key, err)
		}
		out = append(out, &ast.Member{Key: key, Value: val})
	}
	return out, nil
}

// List constructs a list with the values produced by matching the given
// queries against its input.
type List []Query

func (a List) eval(v ast.Value) (ast.Value, error) {
	out := make(ast.List, len(a))
	for i, q := range a {
		val, err := q.eval(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = val
	}
	return out, nil
}

// A Value query ignores its input and returns the given value.  The argument
// must be a string, int, float, bool, nil, or ast.Value, as for ast.ToValue.
func Value(v any) Query { return constQuery{ast.ToValue(v)} }

type constQuery struct{ ast.Value }

func (c constQuery) eval(_ ast.Value) (ast.Value, error) { return c.Value, nil }

// A Glob query returns a list of all its inputs: the values of the members
// of an object, or the elements of a list.
func Glob() Query { return globQuery{} }

type globQuery struct{}

func (globQuery) eval(v ast.Value) (ast.Value, error) {
	switch t := v.(type) {
	case ast.Object:
		out := make(ast.List, len(t))
		for i, m := range t {
			out[i] = m.Value
		}
		return out, nil
	case ast.List:
		return t, nil
	default:
		return nil, errors.New("no matching values")
	}
}

func with[T ast.Value](v ast.Value, f func(T) (ast.Value, error)) (ast.Value, error) {
	if w, ok := v.(T); ok {
		return f(w)
	}
	var zero T
	return nil, fmt.Errorf("got %s, want %s", ast.KindOf(v), zero.Kind())
}

func fixBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
