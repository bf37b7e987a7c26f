package bridge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver/internal/httpc"
)

var processStart = time.Now()

// openLibraries loads the standard Lua libraries and the additions every
// state gets, game or not.
func (e *Env) openLibraries() {
	L := e.L
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.IoLibName, lua.OpenIo},
		{lua.OsLibName, lua.OpenOs},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.DebugLibName, lua.OpenDebug},
		{lua.ChannelLibName, lua.OpenChannel},
		{lua.CoroutineLibName, lua.OpenCoroutine},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	e.openMath()
	L.SetGlobal("print", e.fn(e.print))
	e.openOS()
	e.openHTTP()
	e.openConstructors()
}

func (e *Env) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	e.luaLog.Info(strings.Join(parts, "\t"))
	return 0
}

func (e *Env) openOS() {
	L := e.L
	osLib, ok := L.GetGlobal(lua.OsLibName).(*lua.LTable)
	if !ok {
		return
	}
	for name, f := range map[string]lua.LGFunction{
		"listDirectory": func(L *lua.LState) int {
			entries, err := os.ReadDir(L.CheckString(1))
			if err != nil {
				L.RaiseError("%v", err)
			}
			t := L.CreateTable(len(entries), 0)
			for _, de := range entries {
				ext := filepath.Ext(de.Name())
				f := L.CreateTable(0, 4)
				f.RawSetString("name", lua.LString(de.Name()))
				f.RawSetString("isDirectory", lua.LBool(de.IsDir()))
				f.RawSetString("stem", lua.LString(strings.TrimSuffix(de.Name(), ext)))
				f.RawSetString("extension", lua.LString(ext))
				t.Append(f)
			}
			L.Push(t)
			return 1
		},
		"createDirectory": func(L *lua.LState) int {
			L.Push(lua.LBool(os.MkdirAll(L.CheckString(1), 0o755) == nil))
			return 1
		},
		// realClock is wall time in seconds since the process started.
		"realClock": func(L *lua.LState) int {
			L.Push(lua.LNumber(time.Since(processStart).Seconds()))
			return 1
		},
		"exit": func(L *lua.LState) int {
			e.exit(L.OptInt(1, 0))
			return 0
		},
	} {
		L.SetField(osLib, name, e.fn(f))
	}
}

func headersArg(L *lua.LState, n int) map[string]string {
	t := L.OptTable(n, nil)
	if t == nil {
		return nil
	}
	h := make(map[string]string)
	t.ForEach(func(k, v lua.LValue) {
		h[lua.LVAsString(k)] = lua.LVAsString(v)
	})
	return h
}

func (e *Env) pushResponse(L *lua.LState, url string, resp *httpc.Response, err error) int {
	if err != nil {
		e.log.Warn("http request failed", zap.String("url", url), zap.Error(err))
		L.Push(lua.LNil)
		return 1
	}
	headers := L.CreateTable(0, len(resp.Headers))
	for k, v := range resp.Headers {
		headers.RawSetString(k, lua.LString(v))
	}
	t := L.CreateTable(0, 3)
	t.RawSetString("status", lua.LNumber(resp.Status))
	t.RawSetString("body", lua.LString(resp.Body))
	t.RawSetString("headers", headers)
	L.Push(t)
	return 1
}

// openHTTP registers the blocking client. Requests are bounded by the
// configured timeout.
func (e *Env) openHTTP() {
	e.setFuncs("http", map[string]lua.LGFunction{
		// getSync(scheme, host, path, [headers])
		"getSync": func(L *lua.LState) int {
			scheme, host, path := L.CheckString(1), L.CheckString(2), L.CheckString(3)
			resp, err := e.http.Get(context.Background(), scheme, host, path, headersArg(L, 4))
			return e.pushResponse(L, scheme+"://"+host+path, resp, err)
		},
		// postSync(scheme, host, path, headers, body, contentType)
		"postSync": func(L *lua.LState) int {
			scheme, host, path := L.CheckString(1), L.CheckString(2), L.CheckString(3)
			resp, err := e.http.Post(context.Background(), scheme, host, path, headersArg(L, 4), L.CheckString(5), L.CheckString(6))
			return e.pushResponse(L, scheme+"://"+host+path, resp, err)
		},
	})
}

func (e *Env) openConstructors() {
	e.define(workerClass(), childClass(), databaseClass())
	e.L.SetGlobal("Worker", e.fn(e.newWorker))
	e.L.SetGlobal("ChildProcess", e.fn(e.newChild))
	e.L.SetGlobal("SQLite", e.fn(e.openDatabase))
}
