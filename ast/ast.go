// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a syntax tree for XON values, and a parser that
// constructs syntax trees from XON source.
//
// A tree is made of the concrete types Null, Bool, Number, String, List, and
// Object. An Object is an ordered sequence of members, each pairing a key with
// a value. Duplicate keys are preserved in source order, and lookup by key
// finds the first.
package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/isaacmuliro/Xerxis-Object-Notation/internal/escape"
	"go4.org/mem"
)

// A Value is an arbitrary XON value.
// The concrete type is one of Null, Bool, Number, String, List, or Object.
type Value interface {
	// Kind reports which variant of value this is.
	Kind() Kind

	// JSON renders the value as compact JSON text.
	JSON() string

	// String renders the value as text. For a String this is the string
	// itself; other values render as JSON.
	String() string
}

// Kind identifies the variant of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindList
)

var kindStr = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindObject: "object",
	KindList:   "list",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindStr[k]
}

// Null represents the null constant.
type Null struct{}

func (Null) Kind() Kind       { return KindNull }
func (Null) JSON() string     { return "null" }
func (n Null) String() string { return n.JSON() }

// A Bool is a Boolean constant, true or false.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) JSON() string   { return strconv.FormatBool(bool(b)) }
func (b Bool) String() string { return b.JSON() }

// A Number is a numeric value. Decimal and hexadecimal literals both parse to
// a Number.
type Number float64

func (Number) Kind() Kind { return KindNumber }

// JSON renders n as a JSON number. JSON has no representation for infinities
// or NaN, so those render as null.
func (n Number) JSON() string {
	v := float64(n)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "null"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (n Number) String() string { return n.JSON() }

// Float64 returns the value of n as a float64.
func (n Number) Float64() float64 { return float64(n) }

// Int64 returns the value of n truncated toward zero.
func (n Number) Int64() int64 { return int64(n) }

// IsInt reports whether n has no fractional part.
func (n Number) IsInt() bool {
	v := float64(n)
	return !math.IsInf(v, 0) && v == math.Trunc(v)
}

// A String is a string value.
type String string

func (String) Kind() Kind       { return KindString }
func (s String) JSON() string   { return string(escape.QuoteJSON(mem.S(string(s)))) }
func (s String) String() string { return string(s) }

// Len returns the length of s in bytes.
func (s String) Len() int { return len(s) }

// A List is an ordered sequence of values.
type List []Value

func (List) Kind() Kind { return KindList }

func (a List) JSON() string {
	if len(a) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, elt := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(jsonOf(elt))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a List) String() string { return a.JSON() }

// Len returns the number of elements in a.
func (a List) Len() int { return len(a) }

// An Object is a collection of key-value members, in source order.
type Object []*Member

func (Object) Kind() Kind { return KindObject }

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m != nil && m.Key == key {
			return m
		}
	}
	return nil
}

// Keys returns the keys of o in source order, including duplicates.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, m := range o {
		if m != nil {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

func (o Object) JSON() string {
	if len(o) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o Object) String() string { return o.JSON() }

// Len returns the number of members in o.
func (o Object) Len() int { return len(o) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// JSON renders m as a JSON object member, "key":value.
func (m *Member) JSON() string {
	return String(m.Key).JSON() + ":" + jsonOf(m.Value)
}

func (m *Member) String() string { return fmt.Sprintf("Member(key=%q)", m.Key) }

// Field constructs an object member with the given key and value.
// The value must be a string, int, float, bool, nil, or ast.Value.
func Field(key string, value any) *Member {
	return &Member{Key: key, Value: ToValue(value)}
}

// ListOf constructs a list of the given values, each converted by ToValue.
func ListOf[T any](vs ...T) List {
	out := make(List, len(vs))
	for i, v := range vs {
		out[i] = ToValue(v)
	}
	return out
}

// ToValue converts a string, int, float, bool, nil, or ast.Value into an
// ast.Value. It panics if v does not have one of those types.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Number(t)
	case int64:
		return Number(t)
	case float64:
		return Number(t)
	case float32:
		return Number(t)
	default:
		panic(fmt.Sprintf("cannot convert %T to a value", v))
	}
}

// jsonOf renders v as JSON, treating a nil Value as null.
func jsonOf(v Value) string {
	if v == nil {
		return "null"
	}
	return v.JSON()
}
