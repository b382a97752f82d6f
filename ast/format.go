package ast

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/isaacmuliro/Xerxis-Object-Notation"
	"github.com/tailscale/hujson"
)

// A Formatter carries the settings for pretty-printing XON values.
// A zero value is ready for use with default settings.
type Formatter struct {
	// Indent is the number of spaces per level of indentation.
	// If zero, 2 is used.
	Indent int

	// MaxLineItems is the most scalar elements a list may have to be
	// rendered on a single line. If zero, 3 is used.
	MaxLineItems int

	// MaxDepth bounds the nesting depth of values the formatter will
	// render. If zero, xon.DefaultMaxDepth is used; if negative, there is
	// no limit.
	MaxDepth int
}

func (f Formatter) indent() string {
	if f.Indent <= 0 {
		return "  "
	}
	return strings.Repeat(" ", f.Indent)
}

func (f Formatter) maxLineItems() int {
	if f.MaxLineItems <= 0 {
		return 3
	}
	return f.MaxLineItems
}

func (f Formatter) tooDeep(depth int) bool {
	switch {
	case f.MaxDepth < 0:
		return false
	case f.MaxDepth == 0:
		return depth > xon.DefaultMaxDepth
	}
	return depth > f.MaxDepth
}

// errTooDeep is reported when a value is nested more deeply than the
// formatter permits.
var errTooDeep = errors.New("value nested too deeply")

// Format renders a pretty-printed XON representation of v to w with default
// settings.
func Format(w io.Writer, v Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatToString formats v to a string with default settings.
// In case of error in formatting, it returns an empty string. Values that
// cannot be written as XON, such as infinite or NaN numbers, are errors.
func FormatToString(v Value) string {
	var buf bytes.Buffer
	if Format(&buf, v) != nil {
		return ""
	}
	return buf.String()
}

// Format renders a pretty-printed XON representation of v to w using the
// settings from f. Object keys are written bare where they are valid
// identifiers, and quoted otherwise. The output ends with a newline.
// Nothing is written to w if v cannot be formatted.
func (f Formatter) Format(w io.Writer, v Value) error {
	var buf bytes.Buffer
	if err := f.formatValue(&buf, v, "", 0); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// formatValue writes a representation of v to buf, with any nested lines
// indented by indent.
func (f Formatter) formatValue(buf *bytes.Buffer, v Value, indent string, depth int) error {
	if f.tooDeep(depth) {
		return errTooDeep
	}
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case Null, Bool:
		buf.WriteString(t.JSON())
	case Number:
		s, err := formatNumber(t)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case String:
		buf.WriteString(xon.Quote(string(t)))
	case List:
		return f.formatList(buf, t, indent, depth)
	case Object:
		return f.formatObject(buf, t, indent, depth)
	default:
		return fmt.Errorf("unknown value type %T", v)
	}
	return nil
}

func (f Formatter) formatList(buf *bytes.Buffer, a List, indent string, depth int) error {
	if f.isBoring(a) {
		buf.WriteByte('[')
		for i, v := range a {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := f.formatValue(buf, v, "", depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	buf.WriteString("[\n")
	adent := indent + f.indent()
	for _, v := range a {
		buf.WriteString(adent)
		if err := f.formatValue(buf, v, adent, depth+1); err != nil {
			return err
		}
		buf.WriteString(",\n")
	}
	buf.WriteString(indent)
	buf.WriteByte(']')
	return nil
}

func (f Formatter) formatObject(buf *bytes.Buffer, o Object, indent string, depth int) error {
	if len(o) == 0 {
		buf.WriteString("{}")
		return nil
	}

	buf.WriteString("{\n")
	mdent := indent + f.indent()
	keys := make([]string, len(o))
	for i, m := range o {
		if m != nil {
			keys[i] = mdent + formatKey(m.Key) + ":"
		}
	}
	widths := f.keyWidths(o, keys)

	prevBoring, curBoring := true, true
	for i, m := range o {
		if m == nil {
			continue
		}
		// Leave extra space around members whose values span lines.
		prevBoring, curBoring = curBoring, f.isBoring(m.Value)
		if i != 0 && !(prevBoring && curBoring) {
			buf.WriteByte('\n')
		}

		buf.WriteString(keys[i])
		if curBoring {
			buf.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(keys[i])))
		} else {
			buf.WriteByte(' ')
		}
		if err := f.formatValue(buf, m.Value, mdent, depth+1); err != nil {
			return err
		}
		buf.WriteString(",\n")
	}
	buf.WriteString(indent)
	buf.WriteByte('}')
	return nil
}

// keyWidths returns the padded width of each key prefix in o. Consecutive
// members with boring values form a block whose values line up in a column
// at least one space past the longest key in the block, and no narrower
// than minKeyWidth. Members with non-boring values end a block.
func (f Formatter) keyWidths(o Object, keys []string) []int {
	widths := make([]int, len(o))
	for i := 0; i < len(o); {
		if o[i] == nil || !f.isBoring(o[i].Value) {
			i++
			continue
		}
		j, w := i, minKeyWidth
		for ; j < len(o) && (o[j] == nil || f.isBoring(o[j].Value)); j++ {
			if o[j] != nil {
				w = max(w, utf8.RuneCountInString(keys[j])+1)
			}
		}
		for k := i; k < j; k++ {
			widths[k] = w
		}
		i = j
	}
	return widths
}

// minKeyWidth is the narrowest padded key column.
const minKeyWidth = 4

// isBoring reports whether v has a simple enough structure that it can be
// rendered on one line.
func (f Formatter) isBoring(v Value) bool {
	switch t := v.(type) {
	case List:
		if len(t) > f.maxLineItems() {
			return false
		}
		for _, elt := range t {
			if elt != nil && (elt.Kind() == KindList || elt.Kind() == KindObject) {
				return false
			}
		}
		return true
	case Object:
		return len(t) == 0
	default:
		return true
	}
}

// formatKey renders an object key, bare if possible.
func formatKey(key string) string {
	if xon.IsName(key) {
		return key
	}
	return xon.Quote(key)
}

// formatNumber renders n in a form the scanner reads back to the same value.
func formatNumber(n Number) (string, error) {
	v := float64(n)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "", fmt.Errorf("cannot format number %v", v)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if s == "-0" {
		s = "0"
	}
	return s, nil
}

// FormatJSON renders v as indented JSON text. Each non-empty object is
// expanded to one member per line; lists are kept on one line where they fit.
// Members with duplicate keys are all retained, in source order.
func FormatJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	writeExpandedJSON(&buf, v)
	out, err := hujson.Format(buf.Bytes())
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(out, "\n"), nil
}

// writeExpandedJSON writes v as JSON with a line break after the opening
// brace of each non-empty object, which hujson.Format preserves.
func writeExpandedJSON(buf *bytes.Buffer, v Value) {
	type item struct {
		v     Value
		text  string // literal text to emit instead of v
		isLit bool
	}
	stk := []item{{v: v}}
	for len(stk) != 0 {
		next := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if next.isLit {
			buf.WriteString(next.text)
			continue
		}
		switch t := next.v.(type) {
		case Object:
			if len(t) == 0 {
				buf.WriteString("{}")
				continue
			}
			buf.WriteString("{\n")
			stk = append(stk, item{text: "\n}", isLit: true})
			for i := len(t) - 1; i >= 0; i-- {
				stk = append(stk, item{v: t[i].Value})
				sep := String(t[i].Key).JSON() + ":"
				if i > 0 {
					sep = ",\n" + sep
				}
				stk = append(stk, item{text: sep, isLit: true})
			}
		case List:
			if len(t) == 0 {
				buf.WriteString("[]")
				continue
			}
			buf.WriteString("[")
			stk = append(stk, item{text: "]", isLit: true})
			for i := len(t) - 1; i >= 0; i-- {
				stk = append(stk, item{v: t[i]})
				if i > 0 {
					stk = append(stk, item{text: ",", isLit: true})
				}
			}
		default:
			buf.WriteString(jsonOf(t))
		}
	}
}
