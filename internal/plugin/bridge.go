package plugin

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// toGoValue converts a Lua value to a Go value. Functions and userdata
// convert to nil; they are handled separately where they are legal.
func toGoValue(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return tableToGo(v)
	default:
		return nil
	}
}

// tableToGo converts a Lua table to a Go slice when it is a contiguous
// array, otherwise to a string-keyed map.
func tableToGo(t *lua.LTable) any {
	maxN := t.MaxN()
	if maxN > 0 && t.Len() == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = toGoValue(t.RawGetInt(i))
		}
		return arr
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		default:
			key = k.String()
		}
		m[key] = toGoValue(v)
	})
	return m
}

// toLuaValue converts a Go value to a Lua value on the given state.
func toLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		tbl := L.NewTable()
		for _, item := range val {
			tbl.Append(lua.LString(item))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for _, item := range val {
			tbl.Append(toLuaValue(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, toLuaValue(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}

// toStringList converts a Lua string or table value to an argument list.
// Returns nil for anything else.
func toStringList(lv lua.LValue) []string {
	switch v := lv.(type) {
	case lua.LString:
		return fieldsOf(string(v))
	case *lua.LTable:
		var args []string
		for i := 1; i <= v.MaxN(); i++ {
			item := v.RawGetInt(i)
			if s, ok := item.(lua.LString); ok {
				args = append(args, string(s))
			}
		}
		return args
	default:
		return nil
	}
}
