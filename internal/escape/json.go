package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// QuoteJSON encodes src as a JSON string literal, including the enclosing
// double quotation marks. Control characters are escaped, and invalid UTF-8
// is replaced by the Unicode replacement rune.
func QuoteJSON(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len()+2)
	buf = append(buf, '"')
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					buf = append(buf, '\\', b)
				} else {
					buf = append(buf, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else if r == '\\' || r == '"' {
				buf = append(buf, '\\', byte(r))
			} else {
				buf = append(buf, byte(r))
			}
		} else {
			switch r {
			case utf8.RuneError:
				buf = append(buf, `\ufffd`...)
			case '\u2028': // line separator
				buf = append(buf, `\u2028`...)
			case '\u2029': // paragraph separator
				buf = append(buf, `\u2029`...)
			default:
				buf = utf8.AppendRune(buf, r)
			}
		}
		src = src.SliceFrom(n)
	}
	return append(buf, '"')
}
