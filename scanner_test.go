// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package xon_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/isaacmuliro/Xerxis-Object-Notation"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []xon.Token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t  \r\n \t  \r\n\v\f", nil},
		{"// only a comment", nil},
		{"// one\n// two\n", nil},

		// Constants
		{"true false null", []xon.Token{xon.True, xon.False, xon.Null}},

		// Punctuation
		{"{ [ ] } , :", []xon.Token{
			xon.LBrace, xon.LSquare, xon.RSquare, xon.RBrace, xon.Comma, xon.Colon,
		}},
		{"{}[],:", []xon.Token{
			xon.LBrace, xon.RBrace, xon.LSquare, xon.RSquare, xon.Comma, xon.Colon,
		}},

		// Strings and identifiers
		{`"" "a b c" "a\nb\tc"`, []xon.Token{xon.String, xon.String, xon.String}},
		{`"\"\\\/\q\n\r\t"`, []xon.Token{xon.String}},
		{`name _private x9 trueish null_ok`, []xon.Token{
			xon.String, xon.String, xon.String, xon.String, xon.String,
		}},

		// Numbers
		{`0 -1 5139 2.3 -0.001 0x14 0XfF 0x 007`, []xon.Token{
			xon.Number, xon.Number, xon.Number, xon.Number, xon.Number,
			xon.Number, xon.Number, xon.Number, xon.Number,
		}},

		// Mixed types
		{`{true,"false":-15 null[]}`, []xon.Token{
			xon.LBrace, xon.True, xon.Comma, xon.String, xon.Colon,
			xon.Number, xon.Null, xon.LSquare, xon.RSquare, xon.RBrace,
		}},
		{`{a: true, "b":[null, 1, 0.5]} // done`, []xon.Token{
			xon.LBrace,
			xon.String, xon.Colon, xon.True, xon.Comma,
			xon.String, xon.Colon,
			xon.LSquare,
			xon.Null, xon.Comma, xon.Number, xon.Comma, xon.Number,
			xon.RSquare,
			xon.RBrace,
		}},
		{`"a",1,true // comment
       false["b"]
       `, []xon.Token{
			xon.String, xon.Comma, xon.Number, xon.Comma, xon.True,
			xon.False, xon.LSquare, xon.String, xon.RSquare,
		}},

		// Number boundaries
		{`12abc`, []xon.Token{xon.Number, xon.String}},
		{`0x1g`, []xon.Token{xon.Number, xon.String}},
		{`1,2`, []xon.Token{xon.Number, xon.Comma, xon.Number}},
	}

	for _, test := range tests {
		var got []xon.Token
		s := xon.NewScanner(strings.NewReader(test.input))
		for s.Next() {
			got = append(got, s.Token())
		}
		if s.Err() != io.EOF {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScannerValues(t *testing.T) {
	mustScan := func(t *testing.T, input string, want xon.Token) *xon.Scanner {
		t.Helper()
		s := xon.NewScanner(strings.NewReader(input))
		if !s.Next() {
			t.Fatalf("Next failed: %v", s.Err())
		} else if s.Token() != want {
			t.Fatalf("Next token: got %v, want %v", s.Token(), want)
		}
		return s
	}

	t.Run("Number", func(t *testing.T) {
		tests := []struct {
			input string
			want  float64
		}{
			{"0", 0},
			{"15", 15},
			{"-15", -15},
			{"3.25", 3.25},
			{"-0.5", -0.5},
			{"007", 7},
			{"0x14", 20},
			{"0X1f", 31},
			{"0xDEADBEEF", 0xdeadbeef},
			{"0x", 0},
			{"0x10000000000000000", 1 << 64},
		}
		for _, test := range tests {
			s := mustScan(t, test.input, xon.Number)
			if got := s.Float64(); got != test.want {
				t.Errorf("Float64(%q): got %v, want %v", test.input, got, test.want)
			}
			if text := string(s.Text()); text != test.input {
				t.Errorf("Text(%q): got %q", test.input, text)
			}
		}
	})

	t.Run("Underflow", func(t *testing.T) {
		s := mustScan(t, "0."+strings.Repeat("0", 400)+"1", xon.Number)
		if got := s.Float64(); got != 0 {
			t.Errorf("Float64: got %v, want 0", got)
		}
	})

	t.Run("Constants", func(t *testing.T) {
		mustScan(t, `true`, xon.True)
		mustScan(t, `false`, xon.False)
		mustScan(t, `null`, xon.Null)
	})

	t.Run("String", func(t *testing.T) {
		const wantText = `"a\tb\"c\n"` // as written
		const wantDec = "a\tb\"c\n"    // with escapes undone
		s := mustScan(t, `"a\tb\"c\n"`, xon.String)
		if got := string(s.Text()); got != wantText {
			t.Errorf("Text: got %#q, want %#q", got, wantText)
		}
		if got := s.Unquote(); got != wantDec {
			t.Errorf("Unquote: got %#q, want %#q", got, wantDec)
		}
		if got := string(s.Copy()); got != wantText {
			t.Errorf("Copy: got %#q, want %#q", got, wantText)
		}
	})

	t.Run("Ident", func(t *testing.T) {
		s := mustScan(t, `app_name: 1`, xon.String)
		if got := s.Unquote(); got != "app_name" {
			t.Errorf("Unquote: got %q, want %q", got, "app_name")
		}
	})

	t.Run("Unterminated", func(t *testing.T) {
		s := mustScan(t, `"abc\"`, xon.String)
		if got := s.Unquote(); got != `abc"` {
			t.Errorf("Unquote: got %#q, want %#q", got, `abc"`)
		}
		if s.Next() {
			t.Errorf("Next: got %v, want end of input", s.Token())
		} else if s.Err() != io.EOF {
			t.Errorf("Err: got %v, want EOF", s.Err())
		}
	})

	t.Run("Long", func(t *testing.T) {
		long := strings.Repeat("0123456789", 500)
		s := mustScan(t, `"`+long+`"`, xon.String)
		if got := s.Unquote(); got != long {
			t.Errorf("Unquote: got %d bytes, want %d", len(got), len(long))
		}
		id := "x" + long
		s = mustScan(t, id, xon.String)
		if got := s.Unquote(); got != id {
			t.Errorf("Ident: got %d bytes, want %d", len(got), len(id))
		}
	})
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		input string
		ntok  int    // tokens before the error
		want  string // error text
		char  bool   // error wraps ErrUnexpectedChar
	}{
		{"@", 0, `unexpected character found: '@' (line 1)`, true},
		{"{ a: 1,\n\n  b: #\n}", 7, `unexpected character found: '#' (line 3)`, true},
		{"/", 0, `unexpected character found: '/' (line 1)`, true},
		{"1 / 2", 1, `unexpected character found: '/' (line 1)`, true},
		{"\n/*x*/", 0, `unexpected character found: '/' (line 2)`, true},
		{"'single'", 0, `unexpected character found: '\'' (line 1)`, true},
		{"-", 0, `want digit, got error: EOF (line 1)`, false},
		{"[-x]", 1, `got 'x', want digit (line 1)`, false},
		{"1.", 0, `no digits after decimal point (line 1)`, false},
		{"\n\n2.e", 0, `no digits after decimal point (line 3)`, false},
		{"[1, 1" + strings.Repeat("0", 400) + "]", 3,
			`number "1` + strings.Repeat("0", 400) + `" out of range (line 1)`, false},
		{"{a: 0x" + strings.Repeat("f", 300) + "}", 3,
			`number "0x` + strings.Repeat("f", 300) + `" out of range (line 1)`, false},
	}
	for _, test := range tests {
		s := xon.NewScanner(strings.NewReader(test.input))
		var n int
		for s.Next() {
			n++
		}
		err := s.Err()
		if err == io.EOF {
			t.Errorf("Input %#q: got EOF, want error", test.input)
			continue
		}
		if n != test.ntok {
			t.Errorf("Input %#q: got %d tokens before error, want %d", test.input, n, test.ntok)
		}
		if got := err.Error(); got != test.want {
			t.Errorf("Input %#q: got error %q, want %q", test.input, got, test.want)
		}
		if got := errors.Is(err, xon.ErrUnexpectedChar); got != test.char {
			t.Errorf("Input %#q: errors.Is(ErrUnexpectedChar) = %v, want %v", test.input, got, test.char)
		}
	}
}

func TestScannerLoc(t *testing.T) {
	type tokPos struct {
		Tok xon.Token
		Pos string
	}
	tests := []struct {
		input string
		want  []tokPos
	}{
		{"", nil},
		{"{ }", []tokPos{{xon.LBrace, "1:0-1"}, {xon.RBrace, "1:2-3"}}},
		{`"foo" // bar`, []tokPos{{xon.String, "1:0-5"}}},
		{"// ok\ntrue\n false\n", []tokPos{{xon.True, "2:0-4"}, {xon.False, "3:1-6"}}},
		{"\"a\nb\" null", []tokPos{{xon.String, "1:0-2:2"}, {xon.Null, "2:3-7"}}},
		{"// first\n[1, 0x2f\n]", []tokPos{
			{xon.LSquare, "2:0-1"}, {xon.Number, "2:1-2"},
			{xon.Comma, "2:2-3"}, {xon.Number, "2:4-8"}, {xon.RSquare, "3:0-1"},
		}},
		{"{key:-12.5}", []tokPos{
			{xon.LBrace, "1:0-1"}, {xon.String, "1:1-4"}, {xon.Colon, "1:4-5"},
			{xon.Number, "1:5-10"}, {xon.RBrace, "1:10-11"},
		}},
	}
	for _, tc := range tests {
		var got []tokPos
		s := xon.NewScanner(strings.NewReader(tc.input))
		for s.Next() {
			got = append(got, tokPos{s.Token(), s.Location().String()})
		}
		if s.Err() != io.EOF {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestScannerSpan(t *testing.T) {
	s := xon.NewScanner(strings.NewReader("  {\n  abc: 1 }"))
	var got []xon.Span
	for s.Next() {
		got = append(got, s.Span())
	}
	want := []xon.Span{
		{Pos: 2, End: 3}, {Pos: 6, End: 9}, {Pos: 9, End: 10}, {Pos: 11, End: 12}, {Pos: 13, End: 14},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Spans (-want, +got):\n%s", diff)
	}
	if s.Line() != 2 {
		t.Errorf("Line: got %d, want 2", s.Line())
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb\r", `"a\t\nb\r"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{"café", "\"café\""},
	}
	for _, test := range tests {
		got := xon.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
		if back, err := xon.Unquote(got); err != nil {
			t.Errorf("Unquote(%#q): %v", got, err)
		} else if back != test.input {
			t.Errorf("Unquote(%#q): got %#q, want %#q", got, back, test.input)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, true},                    // missing quotes
		{`"`, ``, true},                   // missing quotes
		{`"missing quote`, ``, true},      // missing quotes
		{`missing quote"`, ``, true},      // missing quotes
		{`""`, ``, false},                 // ok
		{`"ok go"`, "ok go", false},       // ok
		{`"abc\ndef"`, "abc\ndef", false}, // C escapes
		{`"\tabc\r"`, "\tabc\r", false},   // C escapes
		{`"\q\/\u"`, "q/u", false},        // other escapes are literal
		{`"a\"b"`, `a"b`, false},          // ok
		{`"a\\b\\cd"`, `a\b\cd`, false},   // ok
	}

	for _, test := range tests {
		got, err := xon.Unquote(test.input)
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if got != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func TestIsName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"a", true},
		{"_", true},
		{"app_name", true},
		{"x9", true},
		{"9x", false},
		{"a b", false},
		{"a-b", false},
		{"true", false},
		{"null", false},
		{"nullable", true},
		{"café", false},
	}
	for _, test := range tests {
		if got := xon.IsName(test.input); got != test.want {
			t.Errorf("IsName(%q): got %v, want %v", test.input, got, test.want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  xon.Token
		want string
	}{
		{xon.Invalid, "invalid token"},
		{xon.LBrace, `"{"`},
		{xon.Colon, `":"`},
		{xon.Number, "number"},
		{xon.String, "string"},
		{xon.Null, "null"},
		{xon.Token(200), "invalid token"},
	}
	for _, test := range tests {
		if got := test.tok.String(); got != test.want {
			t.Errorf("Token(%d): got %q, want %q", test.tok, got, test.want)
		}
	}
}
