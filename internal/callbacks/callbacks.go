// Package callbacks runs the script's hook.run around every hooked host call.
//
// For an event E the script first sees hook.run(E, args...). A truthy first
// result overrides the call: the original is skipped and the host gets the
// second result, or the hook's default. Otherwise the original runs with the
// arguments as the script left them. hook.run("PostE", args..., result)
// follows either way.
package callbacks

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver/internal/bridge"
	"github.com/rosa-go/rosaserver/internal/game"
)

// Runtime is the script lifecycle the dispatcher drives.
type Runtime interface {
	// Enter runs fn under the script lock with the current environment.
	// env is nil until the first Boot.
	Enter(fn func(env *bridge.Env))
	// Boot builds the environment on the first call and reports whether
	// this call did it.
	Boot() bool
	// ResetPending rebuilds the environment if a script asked for it with
	// flagStateForReset, and reports whether it did.
	ResetPending() bool
}

// Dispatcher implements game.Dispatcher.
type Dispatcher struct {
	rt    Runtime
	fns   game.Functions
	log   *zap.Logger
	debug bool
}

var _ game.Dispatcher = (*Dispatcher)(nil)

// New returns a dispatcher. fns must call the host without going through the
// hooks. With debug set every dispatched call is logged.
func New(rt Runtime, fns game.Functions, log *zap.Logger, debug bool) *Dispatcher {
	return &Dispatcher{rt: rt, fns: fns, log: log, debug: debug}
}

func (d *Dispatcher) Dispatch(def *game.HookDef, args []game.Value, original game.Original) int32 {
	if d.debug {
		d.log.Debug("hook", zap.String("event", def.Event), zap.Int("args", len(args)))
	}
	switch def.Symbol {
	case "resetGame":
		reason := game.ResetReasonEngineCall
		if d.rt.Boot() {
			reason = game.ResetReasonBoot
		}
		HookAndReset(d.rt, reason, func() { original(args) })
		return 0
	case "logicSimulation":
		if d.rt.ResetPending() {
			HookAndReset(d.rt, game.ResetReasonLuaReset, d.fns.ResetGame)
		}
	}
	ret := d.call(def, args, original)
	if strings.HasPrefix(def.Symbol, "delete") && len(args) > 0 {
		d.rt.Enter(func(env *bridge.Env) {
			if env != nil {
				env.SideTables().Drop(def.Objects[0], int(args[0].Int))
			}
		})
	}
	return ret
}

// HookAndReset runs reset between the ResetGame and PostResetGame hooks. A
// script overriding ResetGame skips reset.
func HookAndReset(rt Runtime, reason game.ResetReason, reset func()) {
	var override bool
	rt.Enter(func(env *bridge.Env) {
		if env != nil {
			override, _, _ = env.RunHook("ResetGame", lua.LNumber(reason))
		}
	})
	if !override {
		reset()
	}
	rt.Enter(func(env *bridge.Env) {
		if env != nil {
			env.RunHook("PostResetGame", lua.LNumber(reason))
		}
	})
}

func (d *Dispatcher) call(def *game.HookDef, args []game.Value, original game.Original) int32 {
	boxes := make([]*bridge.Integer, len(args))
	var (
		override bool
		ret      lua.LValue = lua.LNil
	)
	d.rt.Enter(func(env *bridge.Env) {
		if env != nil {
			override, ret, _ = env.RunHook(def.Event, scriptArgs(env, def, args, boxes)...)
		}
	})
	for i, b := range boxes {
		if b != nil {
			args[i].Int = b.Value
		}
	}

	result := def.Default
	if !override {
		result = original(args)
	} else if n, ok := ret.(lua.LNumber); ok {
		result = int32(n)
	}

	d.rt.Enter(func(env *bridge.Env) {
		if env == nil {
			return
		}
		post := scriptArgs(env, def, args, boxes)
		if def.Returns {
			post = append(post, resultValue(env, def, result))
		}
		env.RunHook("Post"+def.Event, post...)
	})
	return result
}

// scriptArgs converts native arguments. Arguments naming a table become
// objects; other integers become boxes shared between the pre and post hook.
func scriptArgs(env *bridge.Env, def *game.HookDef, args []game.Value, boxes []*bridge.Integer) []lua.LValue {
	out := make([]lua.LValue, len(args))
	for i, a := range args {
		switch a.Kind {
		case game.Int, game.Uint:
			if i < len(def.Objects) && def.Objects[i] != "" {
				out[i] = env.Object(def.Objects[i], a.Int)
				continue
			}
			if boxes[i] == nil {
				boxes[i] = &bridge.Integer{Value: a.Int}
			}
			out[i] = env.Integer(boxes[i])
		case game.VectorPtr:
			out[i] = env.Vector(a.Vector())
		case game.RotMatrixPtr:
			out[i] = env.RotMatrix(a.RotMatrix())
		case game.CString:
			out[i] = lua.LString(a.Text())
		default:
			out[i] = lua.LNil
		}
	}
	return out
}

func resultValue(env *bridge.Env, def *game.HookDef, result int32) lua.LValue {
	if def.Result != "" {
		return env.Object(def.Result, result)
	}
	return lua.LNumber(result)
}
