// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package xon

import (
	"errors"
	"strings"

	"github.com/isaacmuliro/Xerxis-Object-Notation/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as an XON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.Quote(mem.S(src))) }

// Unquote decodes an XON string value.  Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
func Unquote(src string) (string, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return "", errors.New("missing quotations")
	}
	return string(escape.Unquote(mem.S(src[1 : len(src)-1]))), nil
}

// IsName reports whether s can be written as a bare object key, that is, it
// matches [A-Za-z_][A-Za-z0-9_]* and is not one of the constants true, false,
// or null.
func IsName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return s != "true" && s != "false" && s != "null"
}
