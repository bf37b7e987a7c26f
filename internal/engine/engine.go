//go:build linux && amd64

// Package engine connects the host's hooked functions to Go.
//
// Every hook gets a native detour (detours_linux_amd64.c) that forwards its
// argument registers to rsDispatch. The arguments are decoded according to
// the hook's game.HookDef and handed to the dispatcher together with a way
// to run the original through its trampoline.
package engine

/*
#include "detours.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/hook"
	"github.com/rosa-go/rosaserver/internal/offsets"
)

// maxArgs matches RS_MAX_ARGS in detours.h.
const maxArgs = 6

// ErrInstalled means hooks were already installed in this process.
var ErrInstalled = errors.New("engine already installed")

// active is the engine the detours enter. It is set before the first patch
// is written.
var active atomic.Pointer[Engine]

// Engine owns the installed hooks of the process.
type Engine struct {
	log    *zap.Logger
	hooks  *hook.Engine
	caller caller
	tramps []atomic.Uintptr
	disp   atomic.Pointer[dispatcher]

	// Natives calls host routines, bypassing the hooks.
	Natives *Natives
}

type dispatcher struct{ game.Dispatcher }

func newEngine(log *zap.Logger, c caller) *Engine {
	return &Engine{
		log:    log,
		caller: c,
		tramps: make([]atomic.Uintptr, len(game.Hooks)),
	}
}

func detourCount() int { return int(C.rs_num_detours) }

func detourAddr(id int) uintptr { return uintptr(C.rs_detour(C.int(id))) }

// Install patches every hook of game.Hooks using the addresses in tab. Until
// SetDispatcher is called the hooks run the originals unchanged. Nothing is
// left patched when an error is returned.
func Install(tab *offsets.Table, log *zap.Logger) (*Engine, error) {
	if n := detourCount(); n != len(game.Hooks) {
		return nil, fmt.Errorf("engine: %d detours for %d hooks", n, len(game.Hooks))
	}
	fns, err := tab.Funcs(game.CallSymbols)
	if err != nil {
		return nil, err
	}

	e := newEngine(log, cgoCaller{})
	specs := make([]hook.Spec, len(game.Hooks))
	for i, def := range game.Hooks {
		target, err := tab.Func(def.Symbol)
		if err != nil {
			return nil, err
		}
		specs[i] = hook.Spec{
			Name:   def.Symbol,
			Target: target,
			Detour: detourAddr(i),
			Ready:  e.tramps[i].Store,
		}
	}

	if !active.CompareAndSwap(nil, e) {
		return nil, ErrInstalled
	}
	e.hooks = hook.New()
	hooks, err := e.hooks.InstallAll(specs)
	if err != nil {
		active.Store(nil)
		return nil, err
	}
	for _, h := range hooks {
		fns[h.Name] = h.Trampoline
		log.Debug("hooked", zap.String("symbol", h.Name),
			zap.Uintptr("target", h.Target), zap.Uintptr("trampoline", h.Trampoline))
	}
	e.Natives = newNatives(fns, e.caller)
	log.Info("hooks installed", zap.Int("count", len(hooks)))
	return e, nil
}

// SetDispatcher routes every hooked call to d. A nil d restores pass-through.
func (e *Engine) SetDispatcher(d game.Dispatcher) {
	if d == nil {
		e.disp.Store(nil)
		return
	}
	e.disp.Store(&dispatcher{d})
}

// Uninstall restores every patched prologue. Callers must make sure no host
// thread is inside a hooked function.
func (e *Engine) Uninstall() error {
	var errs []error
	for _, name := range e.hooks.Installed() {
		if err := e.hooks.Uninstall(name); err != nil {
			errs = append(errs, err)
		}
	}
	active.CompareAndSwap(e, nil)
	return errors.Join(errs...)
}

//export rsDispatch
func rsDispatch(id C.int, args *C.uint64_t) C.int {
	e := active.Load()
	if e == nil {
		return 0
	}
	return C.int(e.dispatch(int(id), (*[maxArgs]uint64)(unsafe.Pointer(args))))
}

func (e *Engine) dispatch(id int, raw *[maxArgs]uint64) (ret int32) {
	def := game.Hooks[id]
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("hook panicked", zap.String("event", def.Event), zap.Any("panic", r))
			ret = def.Default
		}
	}()

	args := make([]game.Value, len(def.Params))
	for i, k := range def.Params {
		args[i] = decode(k, raw[i])
	}
	original := func(args []game.Value) int32 {
		return e.caller.call(e.tramps[id].Load(), encode(args)...)
	}
	d := e.disp.Load()
	if d == nil {
		return original(args)
	}
	return d.Dispatch(def, args, original)
}

func decode(k game.Kind, raw uint64) game.Value {
	switch k {
	case game.Int:
		return game.IntValue(int32(uint32(raw)))
	case game.Uint:
		return game.UintValue(uint32(raw))
	}
	return game.PtrValue(k, unsafe.Pointer(uintptr(raw)))
}

func encode(args []game.Value) []uint64 {
	out := make([]uint64, len(args))
	for i, a := range args {
		switch a.Kind {
		case game.Int, game.Uint:
			out[i] = uint64(uint32(a.Int))
		default:
			out[i] = uint64(uintptr(a.Ptr))
		}
	}
	return out
}
