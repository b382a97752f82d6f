// Package keypath implements a small path expression language for selecting
// values from a XON document.
//
// A path is a sequence of steps, optionally preceded by a "$" root marker:
//
//	server.port        member "port" of member "server"
//	features[1]        second element of the list "features"
//	features[-1]       last element
//	features[0,2]      a list of the first and third elements
//	features[1:3]      a slice of the list
//	server.*           a list of the member values of "server"
//	..name             every value of a "name" member, at any depth
//	["feature list"]   a member whose key is not a bare name
//
// Steps after one that produces a list of results ("*", "..", slices and
// multiple indices) are applied to each result in turn.
package keypath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/isaacmuliro/Xerxis-Object-Notation"
	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
	"github.com/isaacmuliro/Xerxis-Object-Notation/ast/cursor"
	"github.com/isaacmuliro/Xerxis-Object-Notation/query"
)

/*
Grammar:

  expr = ["$"] [first] {step}
 first = name
  step = "." name
  step = ".." name
  step = "." "*"
  step = "[" "*" "]"
  step = "[" index {"," index} "]"
  step = "[" [index] ":" [index] "]"
  step = "[" quoted "]"
  name = WORD
quoted = "'" QTEXT "'" | XON string

  WORD = RE `\w+`
 QTEXT = RE `[^']*`
 index = RE `-?\d+`
*/

// An Expr is a parsed path expression.
type Expr []Step

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // object member lookup
	Index              // list index lookup, one or more offsets
	Slice              // list slice
	Wildcard           // all member values or list elements (*)
	Recur              // recursive member lookup (..)
)

var opText = [...]string{
	Invalid:  "invalid",
	Member:   "member",
	Index:    "index",
	Slice:    "slice",
	Wildcard: "wildcard",
	Recur:    "recur",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a path expression.
type Step struct {
	Op    Op
	Key   string // for Member and Recur
	Index []int  // for Index
	Lo    int    // for Slice
	Hi    int    // for Slice; 0 means the end of the list
}

// fanout reports whether s produces a list of results.
func (s Step) fanout() bool {
	switch s.Op {
	case Index:
		return len(s.Index) != 1
	case Slice, Wildcard, Recur:
		return true
	}
	return false
}

// Parse parses s as a path expression. The empty string and "$" denote the
// root value.
func Parse(s string) (Expr, error) {
	rest, _ := strings.CutPrefix(s, "$")
	var out Expr
	if rest != "" && !strings.HasPrefix(rest, ".") && !strings.HasPrefix(rest, "[") {
		name, u, err := parseName(rest)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", len(s)-len(rest), err)
		}
		out = append(out, Step{Op: Member, Key: name})
		rest = u
	}
	for rest != "" {
		step, u, err := parseStep(rest)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", len(s)-len(rest), err)
		}
		out = append(out, step)
		rest = u
	}
	return out, nil
}

// MustParse is as Parse, but panics if s is not a valid path expression.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("keypath: %v", err))
	}
	return e
}

func (e Expr) String() string {
	var buf strings.Builder
	for i, s := range e {
		switch s.Op {
		case Member:
			if !xon.IsName(s.Key) {
				fmt.Fprintf(&buf, "[%s]", xon.Quote(s.Key))
			} else if i == 0 {
				buf.WriteString(s.Key)
			} else {
				buf.WriteString("." + s.Key)
			}
		case Recur:
			if xon.IsName(s.Key) {
				buf.WriteString(".." + s.Key)
			} else {
				fmt.Fprintf(&buf, "..%s", xon.Quote(s.Key))
			}
		case Index:
			buf.WriteByte('[')
			for j, idx := range s.Index {
				if j > 0 {
					buf.WriteByte(',')
				}
				buf.WriteString(strconv.Itoa(idx))
			}
			buf.WriteByte(']')
		case Slice:
			buf.WriteByte('[')
			if s.Lo != 0 {
				buf.WriteString(strconv.Itoa(s.Lo))
			}
			buf.WriteByte(':')
			if s.Hi != 0 {
				buf.WriteString(strconv.Itoa(s.Hi))
			}
			buf.WriteByte(']')
		case Wildcard:
			if i == 0 {
				buf.WriteString("[*]")
			} else {
				buf.WriteString(".*")
			}
		}
	}
	if buf.Len() == 0 {
		return "$"
	}
	return buf.String()
}

// Query compiles e into a query. Steps following a step that fans out into a
// list of results are applied to each result.
func (e Expr) Query() query.Query {
	var out query.Seq
	for i, s := range e {
		out = append(out, s.query())
		if s.fanout() {
			if rest := e[i+1:]; len(rest) != 0 {
				out = append(out, query.Each(rest.Query()))
			}
			break
		}
	}
	return out
}

// Path returns the steps of e as a cursor path, and reports whether e can be
// expressed as one. Only expressions consisting of member lookups and single
// indices can.
func (e Expr) Path() ([]any, bool) {
	out := make([]any, 0, len(e))
	for _, s := range e {
		switch {
		case s.Op == Member:
			out = append(out, s.Key)
		case s.Op == Index && len(s.Index) == 1:
			out = append(out, s.Index[0])
		default:
			return nil, false
		}
	}
	return out, true
}

func (s Step) query() query.Query {
	switch s.Op {
	case Member:
		return query.Path(s.Key)
	case Index:
		if len(s.Index) == 1 {
			return query.Path(s.Index[0])
		}
		return query.Pick(s.Index...)
	case Slice:
		return query.Slice(s.Lo, s.Hi)
	case Wildcard:
		return query.Glob()
	case Recur:
		return query.Recur(s.Key)
	}
	panic(fmt.Sprintf("invalid step operator %v", s.Op))
}

// Lookup parses path and evaluates it against root. Errors from simple paths
// report the location at which traversal stopped.
func Lookup(root ast.Value, path string) (ast.Value, error) {
	e, err := Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	return e.Eval(root)
}

// Eval evaluates e against root.
func (e Expr) Eval(root ast.Value) (ast.Value, error) {
	if p, ok := e.Path(); ok {
		c := cursor.New(root).Down(p...)
		if err := c.Err(); err != nil {
			return nil, err
		}
		return c.Value(), nil
	}
	return query.Eval(root, e.Query())
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		}
		return Step{Op: Recur, Key: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, ".*"); ok {
		return Step{Op: Wildcard}, t, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		}
		return Step{Op: Member, Key: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		out, u, err := parseBracket(t)
		if err != nil {
			return Step{}, t, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, u, errors.New("missing close bracket")
		}
		return out, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

func parseBracket(s string) (Step, string, error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return Step{Op: Wildcard}, t, nil
	}
	if s != "" && (s[0] == '\'' || s[0] == '"') {
		name, rest, err := parseQuoted(s)
		if err != nil {
			return Step{}, s, err
		}
		return Step{Op: Member, Key: name}, rest, nil
	}

	lo, rest, loErr := parseIndex(s)
	if u, ok := strings.CutPrefix(rest, ":"); ok {
		hi, v, err := parseIndex(u)
		if err != nil {
			hi, v = 0, u
		}
		return Step{Op: Slice, Lo: lo, Hi: hi}, v, nil
	}
	if loErr != nil {
		return Step{}, s, fmt.Errorf("invalid index: %q", s)
	}
	idx := []int{lo}
	for {
		u, ok := strings.CutPrefix(rest, ",")
		if !ok {
			break
		}
		next, v, err := parseIndex(u)
		if err != nil {
			return Step{}, u, fmt.Errorf("invalid index: %q", u)
		}
		idx = append(idx, next)
		rest = v
	}
	return Step{Op: Index, Index: idx}, rest, nil
}

func parseName(s string) (name, rest string, _ error) {
	if m := wordRE.FindString(s); m != "" {
		return m, s[len(m):], nil
	}
	if s != "" && (s[0] == '\'' || s[0] == '"') {
		return parseQuoted(s)
	}
	return "", s, errors.New("invalid name")
}

func parseQuoted(s string) (name, rest string, _ error) {
	if m := squoteRE.FindStringSubmatch(s); m != nil {
		return m[1], s[len(m[0]):], nil
	}
	if m := dquoteRE.FindString(s); m != "" {
		name, err := xon.Unquote(m)
		if err != nil {
			return "", s, err
		}
		return name, s[len(m):], nil
	}
	return "", s, errors.New("unterminated quoted name")
}

// parseIndex returns (0, s, err) if s does not begin with an index.
func parseIndex(s string) (int, string, error) {
	m := indexRE.FindString(s)
	if m == "" {
		return 0, s, errors.New("invalid index")
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, s, err
	}
	return n, s[len(m):], nil
}

var (
	wordRE   = regexp.MustCompile(`^\w+`)
	indexRE  = regexp.MustCompile(`^-?\d+`)
	squoteRE = regexp.MustCompile(`^'([^']*)'`)
	dquoteRE = regexp.MustCompile(`^"(?:[^"\\]|\\.)*"`)
)
