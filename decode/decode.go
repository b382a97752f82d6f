// Package decode converts XON syntax trees into native Go values.
//
// Native produces the generic representation used by encoding/json and
// gopkg.in/yaml.v3 (maps, slices and scalars). Into decodes a tree into a
// caller-supplied destination, matching object keys to struct fields.
package decode

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
)

// Native converts v into a plain Go value:
//
//	Object -> map[string]any (the first member with a given key wins)
//	List   -> []any
//	Number -> float64
//	String -> string
//	Bool   -> bool
//	Null   -> nil
//
// A nil Value converts to nil.
func Native(v ast.Value) any {
	switch t := v.(type) {
	case ast.Object:
		out := make(map[string]any, len(t))
		for _, m := range t {
			if _, ok := out[m.Key]; !ok {
				out[m.Key] = Native(m.Value)
			}
		}
		return out
	case ast.List:
		out := make([]any, len(t))
		for i, elt := range t {
			out[i] = Native(elt)
		}
		return out
	case ast.Number:
		return float64(t)
	case ast.String:
		return string(t)
	case ast.Bool:
		return bool(t)
	}
	return nil
}

// ErrInvalidTarget is reported by Into when its destination is not a non-nil
// pointer.
var ErrInvalidTarget = errors.New("decode target must be a non-nil pointer")

// A TypeError reports a value that cannot be stored in a destination of the
// given type.
type TypeError struct {
	Path string       // location of the value, e.g. ".server.port"
	Kind ast.Kind     // the kind of the value
	Type reflect.Type // the destination type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("at %s: cannot decode %s into %v", orRoot(e.Path), e.Kind, e.Type)
}

// Into decodes v into the value pointed to by dst.
//
// Objects decode into structs and maps with string keys, lists into slices
// and arrays, and scalars into the corresponding Go kinds; anything decodes
// into an interface value as by Native. Numbers decoding into integer types
// must be integral and in range. Null leaves the destination unchanged.
//
// A struct field matches an object key given by its `xon:"name"` tag, or
// failing that the snake_case or lowerCamelCase form of its name, or failing
// that a case-insensitive match of the name. A tag of "-" skips the field.
// Keys with no matching field are ignored.
func Into(v ast.Value, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	return decodeValue(v, rv.Elem(), "")
}

func decodeValue(v ast.Value, dst reflect.Value, path string) error {
	if v == nil || ast.IsNull(v) {
		return nil
	}
	if dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return decodeValue(v, dst.Elem(), path)
	}
	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		dst.Set(reflect.ValueOf(Native(v)))
		return nil
	}
	bad := func() error { return &TypeError{Path: path, Kind: v.Kind(), Type: dst.Type()} }

	switch t := v.(type) {
	case ast.Bool:
		if dst.Kind() != reflect.Bool {
			return bad()
		}
		dst.SetBool(bool(t))

	case ast.String:
		if dst.Kind() != reflect.String {
			return bad()
		}
		dst.SetString(string(t))

	case ast.Number:
		f := float64(t)
		switch dst.Kind() {
		case reflect.Float32, reflect.Float64:
			dst.SetFloat(f)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if !t.IsInt() || f < math.MinInt64 || f >= math.MaxInt64 || dst.OverflowInt(int64(f)) {
				return bad()
			}
			dst.SetInt(int64(f))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if !t.IsInt() || f < 0 || f >= math.MaxUint64 || dst.OverflowUint(uint64(f)) {
				return bad()
			}
			dst.SetUint(uint64(f))
		default:
			return bad()
		}

	case ast.List:
		switch dst.Kind() {
		case reflect.Slice:
			out := reflect.MakeSlice(dst.Type(), len(t), len(t))
			for i, elt := range t {
				if err := decodeValue(elt, out.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
			dst.Set(out)
		case reflect.Array:
			if len(t) > dst.Len() {
				return fmt.Errorf("at %s: list of %d elements overflows %v", orRoot(path), len(t), dst.Type())
			}
			for i, elt := range t {
				if err := decodeValue(elt, dst.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
		default:
			return bad()
		}

	case ast.Object:
		switch dst.Kind() {
		case reflect.Struct:
			return decodeStruct(t, dst, path)
		case reflect.Map:
			if dst.Type().Key().Kind() != reflect.String {
				return bad()
			}
			if dst.IsNil() {
				dst.Set(reflect.MakeMapWithSize(dst.Type(), len(t)))
			}
			et := dst.Type().Elem()
			seen := make(map[string]bool)
			for _, m := range t {
				if seen[m.Key] {
					continue // first key wins
				}
				seen[m.Key] = true
				key := reflect.ValueOf(m.Key).Convert(dst.Type().Key())
				elt := reflect.New(et).Elem()
				if err := decodeValue(m.Value, elt, path+"."+m.Key); err != nil {
					return err
				}
				dst.SetMapIndex(key, elt)
			}
		default:
			return bad()
		}

	default:
		return fmt.Errorf("at %s: unknown value type %T", orRoot(path), v)
	}
	return nil
}

func decodeStruct(obj ast.Object, dst reflect.Value, path string) error {
	fields := structFields(dst.Type())
	seen := make(map[int]bool)
	for _, m := range obj {
		fi, ok := fields.find(m.Key)
		if !ok || seen[fi] {
			continue
		}
		seen[fi] = true
		if err := decodeValue(m.Value, dst.Field(fi), path+"."+m.Key); err != nil {
			return err
		}
	}
	return nil
}

type fieldSet struct {
	exact map[string]int // tag, snake_case and lowerCamelCase names
	fold  map[string]int // lower-cased field names
}

func (fs fieldSet) find(key string) (int, bool) {
	if i, ok := fs.exact[key]; ok {
		return i, true
	}
	i, ok := fs.fold[strings.ToLower(key)]
	return i, ok
}

func structFields(t reflect.Type) fieldSet {
	fs := fieldSet{exact: make(map[string]int), fold: make(map[string]int)}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("xon"), ",")
		if tag == "-" {
			continue
		} else if tag != "" {
			fs.exact[tag] = i
			continue
		}
		for _, name := range []string{strcase.ToSnake(f.Name), strcase.ToLowerCamel(f.Name)} {
			if !hasKey(fs.exact, name) {
				fs.exact[name] = i
			}
		}
		if key := strings.ToLower(f.Name); !hasKey(fs.fold, key) {
			fs.fold[key] = i
		}
	}
	return fs
}

func hasKey(m map[string]int, key string) bool { _, ok := m[key]; return ok }

func orRoot(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
