// Package bridge builds the Lua environment scripts run in and maps the
// host's records, routines and the server's auxiliary services into it.
package bridge

import (
	"errors"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver/internal/config"
	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/httpc"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

// Host is the part of the lifecycle scripts can drive.
type Host interface {
	// ResetGame resets the game round the way the host does, running the
	// reset hooks.
	ResetGame(reason game.ResetReason)
	// FlagStateForReset asks for a full environment rebuild on the next
	// logic tick, with mode kept as hook.persistentMode.
	FlagStateForReset(mode string)
}

type Options struct {
	World     *overlay.World
	Functions game.Functions
	Host      Host
	Data      *SideTables
	Config    config.Config
	// Log receives bridge diagnostics, LuaLog the output of print.
	Log    *zap.Logger
	LuaLog *zap.Logger
	// Base is the load address reported by memory.getBaseAddress.
	Base uintptr
	// Mode seeds hook.persistentMode.
	Mode string
	// Exit backs os.exit. It defaults to os.Exit.
	Exit func(code int)
	// OnError sees every script error after it is logged.
	OnError func(*ScriptError)
	// OnContext sees what the environment is running each time a hook call
	// starts or returns, and "" once nothing is.
	OnContext func(context string)
}

// Env is one Lua state with everything registered. It must only be used
// from one goroutine at a time.
type Env struct {
	L *lua.LState

	world   *overlay.World
	fns     game.Functions
	host    Host
	data    *SideTables
	cfg     config.Config
	log     *zap.Logger
	luaLog  *zap.Logger
	base    uintptr
	exit    func(int)
	onError func(*ScriptError)
	http    *httpc.Client

	onContext func(string)
	contexts  []string

	classes map[reflect.Type]any

	mu      sync.Mutex
	closers []io.Closer
	closed  bool
}

// ScriptError is a Lua error caught at the boundary.
type ScriptError struct {
	Op    string
	Msg   string
	Trace string
	Err   error
}

func (e *ScriptError) Error() string { return e.Op + ": " + e.Msg }
func (e *ScriptError) Unwrap() error { return e.Err }

func newEnv(opts Options) *Env {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.LuaLog == nil {
		opts.LuaLog = opts.Log
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}
	if opts.Data == nil {
		opts.Data = NewSideTables()
	}
	if opts.Config.Version == "" {
		opts.Config = config.Default()
	}
	return &Env{
		L:         lua.NewState(lua.Options{SkipOpenLibs: true}),
		world:     opts.World,
		fns:       opts.Functions,
		host:      opts.Host,
		data:      opts.Data,
		cfg:       opts.Config,
		log:       opts.Log,
		luaLog:    opts.LuaLog,
		base:      opts.Base,
		exit:      opts.Exit,
		onError:   opts.OnError,
		onContext: opts.OnContext,
		http:      httpc.New(opts.Config.HTTP.Timeout, opts.Config.HTTP.UserAgent),
		classes:   make(map[reflect.Type]any),
	}
}

// New builds a complete environment. Game bindings are registered only
// when opts.World is set.
func New(opts Options) *Env {
	e := newEnv(opts)
	e.openLibraries()
	if e.world != nil {
		e.openGame(opts.Mode)
	}
	return e
}

func (e *Env) define(defs ...classDef) {
	for _, d := range defs {
		d.register(e)
	}
}

// fn wraps a Go function for Lua behind guard.
func (e *Env) fn(f lua.LGFunction) *lua.LFunction { return e.L.NewFunction(guard(f)) }

// guard turns Go panics inside f, index errors included, into Lua errors
// so they unwind only the script.
func guard(f lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(*lua.ApiError); ok {
					panic(r)
				}
				L.RaiseError("%v", r)
			}
		}()
		return f(L)
	}
}

// track closes c with the environment.
func (e *Env) track(c io.Closer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closers = append(e.closers, c)
}

func (e *Env) untrack(c io.Closer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, x := range e.closers {
		if x == c {
			e.closers = append(e.closers[:i], e.closers[i+1:]...)
			return
		}
	}
}

// Close stops workers and children, closes databases and the Lua state.
func (e *Env) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	closers := e.closers
	e.closers = nil
	e.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.L.Close()
	return errors.Join(errs...)
}

// Call runs fn in protected mode and returns nret results.
func (e *Env) Call(op string, fn lua.LValue, nret int, args ...lua.LValue) ([]lua.LValue, error) {
	if err := e.L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
		return nil, e.fail(op, err)
	}
	out := make([]lua.LValue, nret)
	for i := range out {
		out[i] = e.L.Get(-nret + i)
	}
	e.L.Pop(nret)
	return out, nil
}

func (e *Env) fail(op string, err error) *ScriptError {
	se := &ScriptError{Op: op, Msg: err.Error(), Err: err}
	var ae *lua.ApiError
	if errors.As(err, &ae) {
		se.Msg = ae.Object.String()
		se.Trace = ae.StackTrace
	}
	e.log.Error("lua error", zap.String("op", op), zap.String("error", se.Msg), zap.String("traceback", se.Trace))
	if e.onError != nil {
		e.onError(se)
	}
	return se
}

// RunFile loads and runs a script file.
func (e *Env) RunFile(path string) error {
	e.luaLog.Info("Running " + path + "...")
	fn, err := e.L.LoadFile(path)
	if err != nil {
		return e.fail("load "+path, err)
	}
	if _, err := e.Call("run "+path, fn, 0); err != nil {
		return err
	}
	e.luaLog.Info("No problems!")
	return nil
}

// RunString runs a chunk of source.
func (e *Env) RunString(name, src string) error {
	fn, err := e.L.Load(strings.NewReader(src), name)
	if err != nil {
		return e.fail("load "+name, err)
	}
	_, err = e.Call("run "+name, fn, 0)
	return err
}

// RunHook calls hook.run(event, args...). override is the truthiness of
// its first result; ret is the second. A missing hook.run is not an error.
func (e *Env) RunHook(event string, args ...lua.LValue) (override bool, ret lua.LValue, err error) {
	hook, ok := e.L.GetGlobal("hook").(*lua.LTable)
	if !ok {
		return false, lua.LNil, nil
	}
	run, ok := hook.RawGetString("run").(*lua.LFunction)
	if !ok {
		return false, lua.LNil, nil
	}
	e.enter("hook.run(" + event + ")")
	defer e.leave()
	res, err := e.Call("hook "+event, run, 2, append([]lua.LValue{lua.LString(event)}, args...)...)
	if err != nil {
		return false, lua.LNil, err
	}
	return lua.LVAsBool(res[0]), res[1], nil
}

// enter reports what, followed by the Lua frames that led to it, as the
// current context until the matching leave.
func (e *Env) enter(what string) {
	if e.onContext == nil {
		return
	}
	ctx := what + e.frames()
	e.contexts = append(e.contexts, ctx)
	e.onContext(ctx)
}

func (e *Env) leave() {
	if e.onContext == nil {
		return
	}
	e.contexts = e.contexts[:len(e.contexts)-1]
	ctx := ""
	if n := len(e.contexts); n > 0 {
		ctx = e.contexts[n-1]
	}
	e.onContext(ctx)
}

const maxFrames = 32

func (e *Env) frames() string {
	var b strings.Builder
	for level := 0; level < maxFrames; level++ {
		dbg, ok := e.L.GetStack(level)
		if !ok {
			break
		}
		if _, err := e.L.GetInfo("Sl", dbg, lua.LNil); err != nil {
			break
		}
		b.WriteString("\n\t")
		if dbg.What == "G" {
			b.WriteString("[G]")
			continue
		}
		b.WriteString(dbg.Source)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(dbg.CurrentLine))
	}
	return b.String()
}

// Object wraps slot id of the named table, or nil when there is no such
// active slot.
func (e *Env) Object(table string, id int32) lua.LValue {
	w := e.world
	switch table {
	case "connections":
		return push(e, w.Connections.Link(id))
	case "accounts":
		return push(e, w.Accounts.Link(id))
	case "players":
		return push(e, w.Players.Link(id))
	case "humans":
		return push(e, w.Humans.Link(id))
	case "itemTypes":
		return push(e, w.ItemTypes.Link(id))
	case "items":
		return push(e, w.Items.Link(id))
	case "vehicleTypes":
		return push(e, w.VehicleTypes.Link(id))
	case "vehicles":
		return push(e, w.Vehicles.Link(id))
	case "bullets":
		return push(e, w.Bullets.Link(id))
	case "particles":
		return push(e, w.Particles.Link(id))
	case "bonds":
		return push(e, w.Bonds.Link(id))
	case "buildings":
		return push(e, w.Buildings.Link(id))
	case "streets":
		return push(e, w.Streets.Link(id))
	case "intersections":
		return push(e, w.Intersections.Link(id))
	}
	panic("bridge: unknown table " + table)
}

// Vector wraps v as a live view.
func (e *Env) Vector(v *overlay.Vector) lua.LValue { return push(e, v) }

func (e *Env) RotMatrix(r *overlay.RotMatrix) lua.LValue { return push(e, r) }

// Integer wraps a mutable box.
func (e *Env) Integer(i *Integer) lua.LValue { return push(e, i) }

// SideTables returns the data tables the environment hands out.
func (e *Env) SideTables() *SideTables { return e.data }
