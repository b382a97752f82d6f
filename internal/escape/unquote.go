// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of XON strings.
package escape

import "go4.org/mem"

// Unquote decodes the body of an XON string. The input must have the
// enclosing double quotation marks already removed.
//
// The escapes \n, \t, \r, \" and \\ are replaced by the characters they
// denote. Any other escaped character stands for itself, so \q decodes as q.
// A backslash at the very end of src is dropped.
func Unquote(src mem.RO) []byte {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src)
	}

	for i >= 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return dec // incomplete escape at end of input
		}

		switch b := src.At(0); b {
		case 'n':
			dec = append(dec, '\n')
		case 't':
			dec = append(dec, '\t')
		case 'r':
			dec = append(dec, '\r')
		default:
			dec = append(dec, b)
		}
		src = src.SliceFrom(1)
		i = mem.IndexByte(src, '\\')
	}
	return mem.Append(dec, src)
}
