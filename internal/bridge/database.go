package bridge

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/sqlite"
)

func (e *Env) openDatabase(L *lua.LState) int {
	path := L.CheckString(1)
	db, err := sqlite.Open(path, sqlite.Options{
		BusyTimeout:  e.cfg.SQLite.BusyTimeout,
		QueryTimeout: e.cfg.SQLite.QueryTimeout,
	})
	if err != nil {
		L.RaiseError("open %s: %v", path, err)
	}
	e.track(db)
	L.Push(push(e, db))
	return 1
}

// sqlArgs converts the statement parameters from n on. Integral numbers
// bind as integers.
func sqlArgs(L *lua.LState, n int) []any {
	var args []any
	for i := n; i <= L.GetTop(); i++ {
		switch v := L.Get(i).(type) {
		case lua.LNumber:
			f := float64(v)
			if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
				args = append(args, int64(f))
			} else {
				args = append(args, f)
			}
		case lua.LString:
			args = append(args, string(v))
		case lua.LBool:
			args = append(args, bool(v))
		case *lua.LNilType:
			args = append(args, nil)
		default:
			L.ArgError(i, "cannot bind "+typeName(v))
		}
	}
	return args
}

func sqlValue(v any) lua.LValue {
	switch v := v.(type) {
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case []byte:
		return lua.LString(v)
	}
	return lua.LNil
}

func databaseClass() *Class[sqlite.DB] {
	type D = sqlite.DB
	return &Class[D]{
		Name: "SQLite",
		Methods: map[string]Method[D]{
			// query returns an array of rows keyed by column, or nil and
			// the error message.
			"query": func(e *Env, L *lua.LState, db *D) int {
				rows, err := db.Query(L.CheckString(2), sqlArgs(L, 3)...)
				if err != nil {
					L.Push(lua.LNil)
					L.Push(lua.LString(err.Error()))
					return 2
				}
				t := L.CreateTable(len(rows), 0)
				for _, row := range rows {
					r := L.CreateTable(0, len(row))
					for col, v := range row {
						r.RawSetString(col, sqlValue(v))
					}
					t.Append(r)
				}
				L.Push(t)
				return 1
			},
			"exec": func(e *Env, L *lua.LState, db *D) int {
				n, err := db.Exec(L.CheckString(2), sqlArgs(L, 3)...)
				if err != nil {
					L.Push(lua.LNil)
					L.Push(lua.LString(err.Error()))
					return 2
				}
				L.Push(lua.LNumber(n))
				return 1
			},
			"close": func(e *Env, L *lua.LState, db *D) int {
				e.untrack(db)
				if err := db.Close(); err != nil {
					L.RaiseError("%v", err)
				}
				return 0
			},
		},
	}
}
