// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isaacmuliro/Xerxis-Object-Notation"
)

// Parse parses and returns a single XON document from r. Trailing commas are
// permitted in objects and lists. In case of error, Parse returns nil and the
// error; a partially built tree is never returned.
func Parse(r io.Reader) (Value, error) {
	st := xon.NewStream(r)
	st.AllowTrailingCommas(true)
	return ParseStream(st)
}

// ParseString parses and returns a single XON document from s.
func ParseString(s string) (Value, error) { return Parse(strings.NewReader(s)) }

// ParseFile parses and returns the XON document in the named file. If the
// file cannot be opened, the error from the filesystem is returned.
func ParseFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	v, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ParseStream parses a single document from st, which the caller may have
// configured.
func ParseStream(st *xon.Stream) (Value, error) {
	h := new(parseHandler)
	if err := st.Parse(h); err != nil {
		h.release()
		return nil, err
	}
	return h.root, nil
}

// A parseHandler implements the xon.Handler interface to construct syntax
// trees for XON values. Each open object or list has a frame on the stack,
// which accumulates its contents until it is closed.
type parseHandler struct {
	stk  []*frame
	root Value
	made int // number of values constructed
}

// A frame is the partial state of an object or list under construction.
type frame struct {
	obj    Object
	list   List
	isObj  bool
	key    string // the key of the member awaiting its value
	hasKey bool
}

func (f *frame) value() Value {
	if f.isObj {
		if f.obj == nil {
			return Object{}
		}
		return f.obj
	}
	if f.list == nil {
		return List{}
	}
	return f.list
}

func (h *parseHandler) push(f *frame) { h.stk = append(h.stk, f); h.made++ }

func (h *parseHandler) pop() *frame {
	last := h.stk[len(h.stk)-1]
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

// attach adds a completed value to the innermost open aggregate, or makes it
// the root if none is open.
func (h *parseHandler) attach(v Value) error {
	if len(h.stk) == 0 {
		h.root = v
		return nil
	}
	top := h.stk[len(h.stk)-1]
	if !top.isObj {
		top.list = append(top.list, v)
		return nil
	}
	if !top.hasKey {
		return fmt.Errorf("object value %s has no key", v.Kind())
	}
	top.obj = append(top.obj, &Member{Key: top.key, Value: v})
	top.key, top.hasKey = "", false
	return nil
}

// release tears down the root and any partially built aggregates. It returns
// the number of values released.
func (h *parseHandler) release() int {
	n := Release(h.root)
	for i := len(h.stk) - 1; i >= 0; i-- {
		n += Release(h.stk[i].value())
		h.stk[i] = nil
	}
	h.stk, h.root = nil, nil
	return n
}

func (h *parseHandler) BeginObject(loc xon.Anchor) error {
	h.push(&frame{isObj: true})
	return nil
}

func (h *parseHandler) EndObject(loc xon.Anchor) error { return h.attach(h.pop().value()) }

func (h *parseHandler) BeginArray(loc xon.Anchor) error {
	h.push(new(frame))
	return nil
}

func (h *parseHandler) EndArray(loc xon.Anchor) error { return h.attach(h.pop().value()) }

func (h *parseHandler) BeginMember(loc xon.Anchor) error {
	top := h.stk[len(h.stk)-1]
	top.key, top.hasKey = loc.Unquote(), true
	return nil
}

func (h *parseHandler) EndMember(loc xon.Anchor) error { return nil }

func (h *parseHandler) Value(loc xon.Anchor) error {
	var v Value
	switch loc.Token() {
	case xon.String:
		v = String(loc.Unquote())
	case xon.Number:
		v = Number(loc.Float64())
	case xon.True, xon.False:
		v = Bool(loc.Token() == xon.True)
	case xon.Null:
		v = Null{}
	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
	h.made++
	return h.attach(v)
}

func (h *parseHandler) EndOfInput(loc xon.Anchor) {}
