package ast

// The functions in this file are the read-only view of a tree used by
// bindings. Each accepts a nil Value and returns a zero default on a nil or
// mismatched argument instead of failing.

// KindOf returns the kind of v. A nil value reports KindNull.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// IsNull reports whether v is a null constant. It is false for a nil Value,
// which denotes an absent result rather than a null in the input.
func IsNull(v Value) bool { return v != nil && v.Kind() == KindNull }

// IsBool reports whether v is a Bool.
func IsBool(v Value) bool { return v != nil && v.Kind() == KindBool }

// IsNumber reports whether v is a Number.
func IsNumber(v Value) bool { return v != nil && v.Kind() == KindNumber }

// IsString reports whether v is a String.
func IsString(v Value) bool { return v != nil && v.Kind() == KindString }

// IsObject reports whether v is an Object.
func IsObject(v Value) bool { return v != nil && v.Kind() == KindObject }

// IsList reports whether v is a List.
func IsList(v Value) bool { return v != nil && v.Kind() == KindList }

// BoolOf returns the value of a Bool, or false.
func BoolOf(v Value) bool {
	b, _ := v.(Bool)
	return bool(b)
}

// NumberOf returns the value of a Number, or 0.
func NumberOf(v Value) float64 {
	n, _ := v.(Number)
	return float64(n)
}

// StringOf returns the text of a String, or "".
func StringOf(v Value) string {
	s, _ := v.(String)
	return string(s)
}

// Get returns the value of the first member of the object v whose key equals
// key. It returns nil if v is not an object or has no such member.
func Get(v Value, key string) Value {
	obj, ok := v.(Object)
	if !ok {
		return nil
	}
	if m := obj.Find(key); m != nil {
		return m.Value
	}
	return nil
}

// Has reports whether the object v has a member with the given key.
func Has(v Value, key string) bool {
	obj, ok := v.(Object)
	return ok && obj.Find(key) != nil
}

// Size returns the number of members of an object or elements of a list.
// It returns 0 for any other value.
func Size(v Value) int {
	switch t := v.(type) {
	case Object:
		return len(t)
	case List:
		return len(t)
	}
	return 0
}

// Index returns the element of the list v at 0-based offset i, or nil if v
// is not a list or i is out of range.
func Index(v Value, i int) Value {
	a, ok := v.(List)
	if !ok || i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// Keys returns the keys of the object v in source order, or nil if v is not
// an object.
func Keys(v Value) []string {
	obj, ok := v.(Object)
	if !ok {
		return nil
	}
	return obj.Keys()
}
