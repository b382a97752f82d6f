// Package luaxon exposes XON documents to Lua programs run by gopher-lua.
//
// Objects become tables keyed by member name, lists become sequences indexed
// from 1, and scalars become the corresponding Lua values. Because Lua tables
// cannot hold nil, XON null is represented by the sentinel value returned by
// Null, which the Lua module also exports as xon.null.
//
// To make the module available to require:
//
//	L := lua.NewState()
//	luaxon.Preload(L)
//	L.DoString(`local xon = require("xon"); local cfg = xon.parse_file("app.xon")`)
package luaxon

import (
	"fmt"

	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
	lua "github.com/yuin/gopher-lua"
)

// ModuleName is the name under which Preload registers the module.
const ModuleName = "xon"

const (
	nullKey   = "xon.null"
	keysField = "__xon_keys"
)

// Null returns the value that represents XON null in L. The same value is
// returned for every call on a given state.
func Null(L *lua.LState) lua.LValue {
	reg := L.Get(lua.RegistryIndex).(*lua.LTable)
	if v := reg.RawGetString(nullKey); v != lua.LNil {
		return v
	}
	ud := L.NewUserData()
	ud.Value = ast.Null{}
	mt := L.NewTable()
	mt.RawSetString("__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("null"))
		return 1
	}))
	L.SetMetatable(ud, mt)
	reg.RawSetString(nullKey, ud)
	return ud
}

// ToLua converts v into a Lua value in L. A nil Value converts to lua.LNil.
// Duplicate keys in an object keep the first member. Each object table carries
// a metatable recording its keys in document order.
func ToLua(L *lua.LState, v ast.Value) lua.LValue {
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case ast.Null:
		return Null(L)
	case ast.Bool:
		return lua.LBool(t)
	case ast.Number:
		return lua.LNumber(t)
	case ast.String:
		return lua.LString(t)
	case ast.List:
		tbl := L.CreateTable(len(t), 0)
		for i, elt := range t {
			tbl.RawSetInt(i+1, ToLua(L, elt))
		}
		return tbl
	case ast.Object:
		tbl := L.CreateTable(0, len(t))
		keys := L.CreateTable(len(t), 0)
		for _, m := range t {
			if tbl.RawGetString(m.Key) == lua.LNil {
				tbl.RawSetString(m.Key, ToLua(L, m.Value))
				keys.Append(lua.LString(m.Key))
			}
		}
		mt := L.CreateTable(0, 1)
		mt.RawSetString(keysField, keys)
		L.SetMetatable(tbl, mt)
		return tbl
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

// Keys returns the keys of tbl in document order, if tbl was produced by
// ToLua from an object.
func Keys(L *lua.LState, tbl *lua.LTable) ([]string, bool) {
	keys, ok := L.GetMetaField(tbl, keysField).(*lua.LTable)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, keys.Len())
	keys.ForEach(func(_, v lua.LValue) { out = append(out, v.String()) })
	return out, true
}

// Preload registers the module loader with L so that scripts can load it
// with require("xon").
func Preload(L *lua.LState) { L.PreloadModule(ModuleName, Loader) }

// Loader is a lua.LGFunction that builds the module table and pushes it.
//
// The module provides:
//
//	parse(text)        -> value | nil, errmsg
//	parse_file(path)   -> value | nil, errmsg
//	keys(table)        -> list of keys in document order | nil, errmsg
//	null               -> the null sentinel
//
// The aliases xonify (parse_file) and xonify_string (parse) are also
// provided.
func Loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"parse":         luaParse,
		"parse_file":    luaParseFile,
		"xonify":        luaParseFile,
		"xonify_string": luaParse,
		"keys":          luaKeys,
	})
	mod.RawSetString("null", Null(L))
	L.Push(mod)
	return 1
}

func luaParse(L *lua.LState) int {
	return pushResult(L, func() (ast.Value, error) { return ast.ParseString(L.CheckString(1)) })
}

func luaParseFile(L *lua.LState) int {
	return pushResult(L, func() (ast.Value, error) { return ast.ParseFile(L.CheckString(1)) })
}

func pushResult(L *lua.LState, parse func() (ast.Value, error)) int {
	v, err := parse()
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(ToLua(L, v))
	ast.Release(v)
	return 1
}

func luaKeys(L *lua.LState) int {
	keys, ok := Keys(L, L.CheckTable(1))
	if !ok {
		L.Push(lua.LNil)
		L.Push(lua.LString("table is not a XON object"))
		return 2
	}
	out := L.CreateTable(len(keys), 0)
	for _, k := range keys {
		out.Append(lua.LString(k))
	}
	L.Push(out)
	return 1
}
