package keypath_test

import (
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
	"github.com/isaacmuliro/Xerxis-Object-Notation/keypath"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", "$"},
		{"$", "$"},
		{"server", "server"},
		{"$.server.port", "server.port"},
		{"features[1]", "features[1]"},
		{"features[-1]", "features[-1]"},
		{"features[0,2,-1]", "features[0,2,-1]"},
		{"features[1:3]", "features[1:3]"},
		{"features[-2:]", "features[-2:]"},
		{"features[:2]", "features[:2]"},
		{"features[:]", "features[:]"},
		{"server.*", "server.*"},
		{"server[*]", "server.*"},
		{"[*].name", "[*].name"},
		{"..name", "..name"},
		{"a..b.c", "a..b.c"},
		{"['feature list']", `["feature list"]`},
		{`["feature list"][0]`, `["feature list"][0]`},
		{`a["true"]`, `a["true"]`},
		{`..'x y'`, `.."x y"`},
		{`a.'b'`, `a.b`},
		{"[0][1].x", "[0][1].x"},
		{"a.0", `a["0"]`},
	}
	for _, test := range tests {
		e, err := keypath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
			continue
		}
		if got := e.String(); got != test.want {
			t.Errorf("Parse %q:\n got %q\nwant %q", test.input, got, test.want)
		}

		// The canonical form parses to the same expression.
		f, err := keypath.Parse(e.String())
		if err != nil {
			t.Errorf("Parse %q: %v", e.String(), err)
		} else if diff := cmp.Diff(e, f); diff != "" {
			t.Errorf("Reparse %q (-want, +got):\n%s", e.String(), diff)
		}
	}
}

func TestParseSteps(t *testing.T) {
	e, err := keypath.Parse(`cfg["a b"][2][1,3][1:]..id.*`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := keypath.Expr{
		{Op: keypath.Member, Key: "cfg"},
		{Op: keypath.Member, Key: "a b"},
		{Op: keypath.Index, Index: []int{2}},
		{Op: keypath.Index, Index: []int{1, 3}},
		{Op: keypath.Slice, Lo: 1},
		{Op: keypath.Recur, Key: "id"},
		{Op: keypath.Wildcard},
	}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("Parse (-want, +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		".",
		"a.",
		"a..",
		"a[",
		"a[1",
		"a[x]",
		"a[1,]",
		"a['unterminated]",
		`a["bad]`,
		"a b",
		"a/b",
		"[1]]",
	}
	for _, input := range tests {
		if e, err := keypath.Parse(input); err == nil {
			t.Errorf("Parse %q: got %v, want error", input, e)
		} else {
			t.Logf("Parse %q: got expected error: %v", input, err)
		}
	}
	mtest.MustPanic(t, func() { keypath.MustParse("a[") })
}

func TestLookup(t *testing.T) {
	root, err := ast.ParseFile("../testdata/config.xon")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		path string
		want string // JSON
	}{
		{"", root.JSON()},
		{"app_name", `"Xerxis Demo"`},
		{"server.port", `8080`},
		{"$.database.pool_size", `20`},
		{"features[0]", `"auth"`},
		{"features[-1]", `"metrics"`},
		{"features[0,2]", `["auth","caching"]`},
		{"features[1:3]", `["logging","caching"]`},
		{"features[2:]", `["caching","metrics"]`},
		{`["feature list"]`, `null`},
		{"server.*", `["localhost",8080,false]`},
		{"..name", `["xon_db"]`},
		{"database.*", `["postgres","xon_db",20]`},
	}
	for _, test := range tests {
		got, err := keypath.Lookup(root, test.path)
		if err != nil {
			t.Errorf("Lookup %q: unexpected error: %v", test.path, err)
			continue
		}
		if diff := cmp.Diff(test.want, got.JSON()); diff != "" {
			t.Errorf("Lookup %q (-want, +got):\n%s", test.path, diff)
		}
	}
}

func TestLookupFanout(t *testing.T) {
	root, err := ast.ParseString(`{
  services: [
    {name: "api", ports: [80, 443]},
    {name: "db", ports: [5432]},
  ],
}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"services[*].name", `["api","db"]`},
		{"services[:].ports[0]", `[80,5432]`},
		{"services[0,1].name", `["api","db"]`},
		{"..ports", `[[80,443],[5432]]`},
		{"..ports[-1]", `[443,5432]`},
	}
	for _, test := range tests {
		got, err := keypath.Lookup(root, test.path)
		if err != nil {
			t.Errorf("Lookup %q: unexpected error: %v", test.path, err)
			continue
		}
		if diff := cmp.Diff(test.want, got.JSON()); diff != "" {
			t.Errorf("Lookup %q (-want, +got):\n%s", test.path, diff)
		}
	}
}

func TestLookupErrors(t *testing.T) {
	root, err := ast.ParseString(`{a: {b: [1, 2]}, c: "x"}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"a.b[5]", `at ".a.b": index 5 out of bounds (n=2)`},
		{"a.nope", `at ".a": key "nope" not found`},
		{"c.d", `at ".c": cannot select key "d" from string`},
		{"a[", `invalid path "a[": offset 1: invalid index: ""`},
		{"c[*]", `no matching values`},
	}
	for _, test := range tests {
		got, err := keypath.Lookup(root, test.path)
		if err == nil {
			t.Errorf("Lookup %q: got %v, want error", test.path, got)
			continue
		}
		if diff := cmp.Diff(test.want, err.Error()); diff != "" {
			t.Errorf("Lookup %q error (-want, +got):\n%s", test.path, diff)
		}
	}
}

func TestPath(t *testing.T) {
	p, ok := keypath.MustParse(`a[1]["x y"]`).Path()
	if !ok {
		t.Fatal("Path: got false, want true")
	}
	if diff := cmp.Diff([]any{"a", 1, "x y"}, p); diff != "" {
		t.Errorf("Path (-want, +got):\n%s", diff)
	}
	if _, ok := keypath.MustParse("a[1:2]").Path(); ok {
		t.Error("Path of a slice: got true, want false")
	}
}
