package bridge

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

// server is the receiver of the global server object; its state lives in
// the world's globals.
type server struct{}

func global[N number](f func(w *overlay.World) *N) Prop[server] {
	return Prop[server]{
		Get: func(e *Env, _ *server) lua.LValue { return lua.LNumber(*f(e.world)) },
		Set: func(e *Env, L *lua.LState, _ *server, v lua.LValue) {
			*f(e.world) = toNumber[N](checkNumber(L, v))
		},
	}
}

func globalStr(f func(w *overlay.World) []byte) Prop[server] {
	return Prop[server]{
		Get: func(e *Env, _ *server) lua.LValue { return lua.LString(overlay.CString(f(e.world))) },
		Set: func(e *Env, L *lua.LState, _ *server, v lua.LValue) {
			s, ok := v.(lua.LString)
			if !ok {
				L.RaiseError("string expected, got %s", typeName(v))
			}
			overlay.SetCString(f(e.world), string(s))
		},
	}
}

// counter exposes a table's host counter.
func counter[T any](f func(w *overlay.World) *overlay.Table[T]) Prop[server] {
	return Prop[server]{
		Get: func(e *Env, _ *server) lua.LValue { return lua.LNumber(f(e.world).Count()) },
		Set: func(e *Env, L *lua.LState, _ *server, v lua.LValue) {
			f(e.world).SetCount(int(checkNumber(L, v)))
		},
	}
}

func serverClass() *Class[server] {
	type S = server
	type W = overlay.World
	return &Class[S]{
		Name: "Server",
		Props: map[string]Prop[S]{
			"TPS":               getter(func(*Env, *S) lua.LValue { return lua.LNumber(game.TPS) }),
			"port":              ro(global(func(w *W) *uint32 { return w.Port })),
			"name":              globalStr(func(w *W) []byte { return w.ServerName[:] }),
			"adminPassword":     globalStr(func(w *W) []byte { return w.AdminPassword[:] }),
			"maxBytesPerSecond": global(func(w *W) *uint32 { return w.MaxBytesPerSecond }),
			"maxPlayers":        global(func(w *W) *int32 { return w.MaxPlayers }),
			"type":              global(func(w *W) *int32 { return w.GameType }),
			"state":             global(func(w *W) *int32 { return w.GameState }),
			"time":              global(func(w *W) *int32 { return w.GameTimer }),
			"ticksSinceReset":   global(func(w *W) *int32 { return w.TicksSinceReset }),
			"gravity":           global(func(w *W) *float32 { return w.Gravity }),
			"numEvents":         ro(global(func(w *W) *uint32 { return w.NumEvents })),
			"versionMajor":      ro(global(func(w *W) *uint32 { return w.Version })),
			"doVoiceChat": {
				Get: func(e *Env, _ *S) lua.LValue { return lua.LBool(*e.world.DoVoiceChat != 0) },
				Set: func(e *Env, _ *lua.LState, _ *S, v lua.LValue) {
					*e.world.DoVoiceChat = boolInt32(lua.LVAsBool(v))
				},
			},
			"sunTime": {
				Get: func(e *Env, _ *S) lua.LValue { return lua.LNumber(*e.world.SunTime) },
				Set: func(e *Env, L *lua.LState, _ *S, v lua.LValue) {
					*e.world.SunTime = uint32(int64(checkNumber(L, v)) % game.SunTimeDay)
				},
			},
			"defaultGravity": getter(func(e *Env, _ *S) lua.LValue { return lua.LNumber(e.world.DefaultGravity) }),
			"version":        getter(func(*Env, *S) lua.LValue { return lua.LString(game.Version) }),
			"numConnections": ro(counter(func(w *W) *overlay.Table[overlay.Connection] { return w.Connections })),
			"numBonds":       counter(func(w *W) *overlay.Table[overlay.Bond] { return w.Bonds }),
			"numParticles":   counter(func(w *W) *overlay.Table[overlay.Particle] { return w.Particles }),
			"numBuildings":   counter(func(w *W) *overlay.Table[overlay.Building] { return w.Buildings }),
		},
		Methods: map[string]Method[S]{
			"setConsoleTitle": func(e *Env, L *lua.LState, _ *S) int {
				fmt.Fprintf(os.Stdout, "\033]0;%s\007", L.CheckString(2))
				return 0
			},
			"reset": func(e *Env, L *lua.LState, _ *S) int {
				if e.host == nil {
					L.RaiseError("server:reset is unavailable here")
				}
				e.host.ResetGame(game.ResetReasonLuaCall)
				return 0
			},
			"addTraffic": func(e *Env, L *lua.LState, _ *S) int {
				e.fns.CreateTraffic(int32(L.CheckInt(2)))
				return 0
			},
		},
	}
}

func boolInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
