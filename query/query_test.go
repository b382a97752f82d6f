package query_test

import (
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
	"github.com/isaacmuliro/Xerxis-Object-Notation/query"
)

func TestQuery(t *testing.T) {
	val, err := ast.ParseFile("../testdata/config.xon")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		name  string
		query query.Query
		want  string // JSON
	}{
		{"Root", query.Path(), val.JSON()},
		{"Key", query.Path("app_name"), `"Xerxis Demo"`},
		{"Nested", query.Path("server", "port"), `8080`},
		{"Hex", query.Path("database", "pool_size"), `20`},
		{"QuotedKey", query.Path("feature list"), `null`},
		{"Index", query.Path("features", 1), `"logging"`},
		{"NegIndex", query.Path("features", -1), `"metrics"`},
		{"Seq", query.Seq{query.Path("server"), query.Path("host")}, `"localhost"`},
		{"EmptySeq", query.Seq{}, val.JSON()},

		{"LenObject", query.Len(), `8`},
		{"LenList", query.Path("features", query.Len()), `4`},
		{"LenString", query.Path("version", query.Len()), `5`},
		{"LenNull", query.Path("feature list", query.Len()), `0`},

		{"Keys", query.Path("server", query.Keys()), `["host","port","ssl"]`},
		{"KeysNull", query.Path("feature list", query.Keys()), `[]`},

		{"Slice", query.Path("features", query.Slice(1, 3)), `["logging","caching"]`},
		{"SliceTail", query.Path("features", query.Slice(-2, 0)), `["caching","metrics"]`},
		{"Pick", query.Path("features", query.Pick(3, 0)), `["metrics","auth"]`},

		{"Alt", query.Alt{query.Path("nonesuch"), query.Path("debug")}, `true`},
		{"GlobObject", query.Path("server", query.Glob()), `["localhost",8080,false]`},
		{"GlobList", query.Path("features", query.Glob()), `["auth","logging","caching","metrics"]`},

		{"Recur", query.Recur("name"), `["xon_db"]`},
		{"RecurHost", query.Recur("host"), `["localhost"]`},

		{"Select", query.Path("features", query.Selection(func(v ast.Value) bool {
			return ast.StringOf(v) > "c"
		})), `["logging","caching","metrics"]`},
		{"Map", query.Path("features", query.Map(func(s ast.String) ast.Number {
			return ast.Number(len(s))
		})), `[4,7,7,7]`},

		{"Object", query.Object{
			"where": query.Path("server", "host"),
			"app":   query.Path("app_name"),
		}, `{"app":"Xerxis Demo","where":"localhost"}`},
		{"List", query.List{
			query.Path("server", "ssl"),
			query.Value(3),
			query.Value(nil),
		}, `[false,3,null]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := query.Eval(val, tc.query)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			if diff := cmp.Diff(tc.want, v.JSON()); diff != "" {
				t.Errorf("Result (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestQueryErrors(t *testing.T) {
	val, err := ast.ParseString(`{a: [1, 2, {b: true}], c: "text"}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		name  string
		query query.Query
		want  string
	}{
		{"MissingKey", query.Path("nonesuch"), `key "nonesuch" not found`},
		{"KeyOnList", query.Path("a", "b"), `got list, want object`},
		{"IndexOnObject", query.Path(0), `got object, want list`},
		{"IndexRange", query.Path("a", 3), `index 3 out of range (0..3)`},
		{"NegRange", query.Path("a", -4), `index -4 out of range (0..3)`},
		{"SliceOrder", query.Path("a", query.Slice(2, 1)), `index start 2 > end 1`},
		{"SliceRange", query.Path("a", query.Slice(5, 0)), `index 5 out of range (0..3)`},
		{"PickRange", query.Path("a", query.Pick(0, 9)), `index 9 out of range (0..3)`},
		{"Len", query.Path("a", 0, query.Len()), `cannot take length of number`},
		{"Keys", query.Path("c", query.Keys()), `cannot list keys of string`},
		{"NoAlt", query.Alt{}, `no matching alternatives`},
		{"RecurNone", query.Recur("zzz"), `no matches`},
		{"Glob", query.Path("c", query.Glob()), `no matching values`},
		{"Each", query.Path("a", query.Each("b")), `index 0: got number, want object`},
		{"Object", query.Object{"x": query.Path("q")}, `match "x": key "q" not found`},
		{"List", query.List{query.Path("c"), query.Path(1)}, `index 1: got object, want list`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := query.Eval(val, tc.query)
			if err == nil {
				t.Fatalf("Eval: got %v, want error", v)
			}
			if got := err.Error(); got != tc.want {
				t.Errorf("Eval error: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFuncs(t *testing.T) {
	val, err := ast.ParseString(`[1, "two", {three: 3}, [4], null, true, {four: 4}]`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	eval := func(q query.Query) string {
		t.Helper()
		v, err := query.Eval(val, q)
		if err != nil {
			t.Fatalf("Eval failed: %v", err)
		}
		return v.JSON()
	}

	tests := []struct {
		name  string
		query query.Query
		want  string
	}{
		{"Is", query.Is[ast.Object](), `[{"three":3},{"four":4}]`},
		{"IsNot", query.IsNot[ast.Number](), `["two",{"three":3},[4],null,true,{"four":4}]`},
		{"Exists", query.Exists("four"), `[{"four":4}]`},
		{"ExistsIndex", query.Exists(0), `[[4]]`},
		{"Filter", query.Filter(func(n ast.Number) bool { return n > 0 }), `[1]`},
		{"Map", query.Map(func(b ast.Bool) ast.Bool { return !b }),
			`[1,"two",{"three":3},[4],null,false,{"four":4}]`},
		{"EachExists", query.Seq{query.Exists("three"), query.Each("three")}, `[3]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, eval(tc.query)); diff != "" {
				t.Errorf("Result (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestQueryReadOnly(t *testing.T) {
	val, err := ast.ParseString(`{xs: [3, 1, 2]}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	before := val.JSON()

	for _, q := range []query.Query{
		query.Path("xs", query.Slice(0, 2)),
		query.Path("xs", query.Map(func(n ast.Number) ast.Number { return n * 10 })),
		query.Path("xs", query.Glob()),
		query.Recur(0),
	} {
		if _, err := query.Eval(val, q); err != nil {
			t.Errorf("Eval failed: %v", err)
		}
	}
	if after := val.JSON(); after != before {
		t.Errorf("Input was modified: got %s, want %s", after, before)
	}
}

func TestPathPanics(t *testing.T) {
	mtest.MustPanic(t, func() { query.Path("ok", 2.5) })
	mtest.MustPanic(t, func() { query.Value(struct{}{}) })
}
