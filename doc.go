// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package xon implements a scanner and parser for XON, a JSON-like notation
// for configuration data. XON extends JSON with line comments, bare
// identifier keys, and hexadecimal numbers:
//
//	// Service settings.
//	{
//	  name: "edge",
//	  server: { host: "localhost", port: 8080 },
//	  pool_size: 0x14,
//	  features: ["auth", "cache"],
//	}
//
// # Scanning
//
// The Scanner type implements a lexical scanner for XON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and reports whether one is available:
//
//	s := xon.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns false when the input has been fully consumed, and then Err
// reports io.EOF. Any other error indicates an I/O or lexical error in the
// input.
//
//	if s.Err() != io.EOF {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// Bare identifiers are reported as String tokens, the same as quoted strings;
// the grammar does not distinguish them. Numbers, decimal or hexadecimal, are
// reported as Number tokens whose value is available from Float64.
//
// # Parsing
//
// The Parser type is an incremental parser: each token is pushed to it in
// turn, and it reports the structure of the input to a Handler as it goes.
// The Stream type is the usual driver, which connects a Scanner to a Parser:
//
//	s := xon.NewStream(input)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// In case of a lexical or syntax error, parsing is terminated and an error of
// concrete type *xon.SyntaxError is returned. If a Handler method reports an
// error, parsing stops and that error is returned.
//
// # Handlers
//
// The Handler interface accepts parser events. The methods of a handler
// correspond to the syntax of XON values:
//
//	XON type   | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	list       | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | key: value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Each method is passed an Anchor value that can be used to retrieve location
// and type information. The Anchor passed to a handler method is only valid
// for the duration of that method call; the handler must copy any data it
// needs to retain beyond the lifetime of the call.
//
// The parser ensures that corresponding Begin and End methods are correctly
// paired, or that a SyntaxError is reported.
//
// Package ast builds a syntax tree from these events.
package xon
