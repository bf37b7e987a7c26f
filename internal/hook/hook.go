// Package hook installs inline hooks on native functions of the host process.
//
// Installing a hook on a function (the target) does three things:
//
//   - The first instructions of the target are decoded until at least a full
//     jump sequence fits, and copied into a trampoline. Instructions
//     addressing memory relative to RIP are rewritten for their new location.
//   - The trampoline ends with a jump back to the first target instruction
//     that was not copied, so calling the trampoline runs the original.
//   - The target prologue is overwritten with an absolute jump to the detour.
package hook

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrDoubleHook means the target is already hooked
	ErrDoubleHook = errors.New("double hook")
	// ErrHookNotFound means no hook with that name is installed
	ErrHookNotFound = errors.New("hook not found")
	// ErrRelativeAddr means a prologue instruction cannot be relocated
	ErrRelativeAddr = errors.New("relative address in instruction")
	// ErrTooShort means the function ends before the patch fits
	ErrTooShort = errors.New("function too short to patch")
	// ErrTooFar means no trampoline memory is reachable from the target
	ErrTooFar = errors.New("trampoline out of rel32 range")
)

// InstallError names the hook that failed.
type InstallError struct {
	Name string
	Err  error
}

func (e *InstallError) Error() string { return fmt.Sprintf("hook %s: %v", e.Name, e.Err) }
func (e *InstallError) Unwrap() error { return e.Err }

// Hook is one installed redirection.
type Hook struct {
	Name   string
	Target uintptr
	Detour uintptr
	// Trampoline runs the original function.
	Trampoline uintptr

	// original bytes of the patched region
	saved   []byte
	trampSz int
}

// Spec declares a hook to install.
type Spec struct {
	Name   string
	Target uintptr
	Detour uintptr
	// Ready, if set, receives the trampoline before the target is patched,
	// so the detour can reach the original from its first call.
	Ready func(trampoline uintptr)
}

// Engine keeps the installed hooks. All methods are safe for concurrent use.
type Engine struct {
	mem codeMemory

	lock     sync.Mutex
	byName   map[string]*Hook
	byTarget map[uintptr]*Hook
}

// New returns an engine patching the memory of the current process.
func New() *Engine {
	return newEngine(newProcessMemory())
}

func newEngine(mem codeMemory) *Engine {
	return &Engine{
		mem:      mem,
		byName:   make(map[string]*Hook),
		byTarget: make(map[uintptr]*Hook),
	}
}

// Install hooks target so that calls reach detour.
func (e *Engine) Install(name string, target, detour uintptr) (*Hook, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	h, err := e.install(Spec{Name: name, Target: target, Detour: detour})
	if err != nil {
		return nil, &InstallError{Name: name, Err: err}
	}
	return h, nil
}

func (e *Engine) install(s Spec) (*Hook, error) {
	name, target, detour := s.Name, s.Target, s.Detour
	if _, ok := e.byTarget[target]; ok {
		return nil, ErrDoubleHook
	}
	if _, ok := e.byName[name]; ok {
		return nil, ErrDoubleHook
	}

	p, err := Plan(e.mem.Read(target, maxPrologue), target)
	if err != nil {
		return nil, err
	}
	if isDebug {
		println("hook", name, "patch length", p.Length, "relocations", len(p.Relocs))
	}

	sz := p.TrampolineSize()
	tramp, err := e.mem.Alloc(target, sz)
	if err != nil {
		return nil, err
	}
	code, err := p.Trampoline(tramp)
	if err != nil {
		_ = e.mem.Free(tramp, sz)
		return nil, err
	}
	if err := e.mem.Write(tramp, code); err != nil {
		_ = e.mem.Free(tramp, sz)
		return nil, err
	}
	if s.Ready != nil {
		s.Ready(tramp)
	}

	saved := append([]byte(nil), p.Code...)
	if err := e.mem.Write(target, p.Patch(detour)); err != nil {
		// partial writes are undone with the saved bytes
		_ = e.mem.Write(target, saved)
		_ = e.mem.Free(tramp, sz)
		return nil, err
	}

	h := &Hook{
		Name:       name,
		Target:     target,
		Detour:     detour,
		Trampoline: tramp,
		saved:      saved,
		trampSz:    sz,
	}
	e.byName[name] = h
	e.byTarget[target] = h
	if isDebug {
		println("hook", name, "installed, trampoline", tramp)
	}
	return h, nil
}

// Uninstall restores the original prologue and frees the trampoline.
func (e *Engine) Uninstall(name string) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.uninstall(name)
}

func (e *Engine) uninstall(name string) error {
	h, ok := e.byName[name]
	if !ok {
		return ErrHookNotFound
	}
	if err := e.mem.Write(h.Target, h.saved); err != nil {
		return &InstallError{Name: name, Err: err}
	}
	delete(e.byName, name)
	delete(e.byTarget, h.Target)
	if err := e.mem.Free(h.Trampoline, h.trampSz); err != nil {
		return &InstallError{Name: name, Err: err}
	}
	h.Trampoline = 0
	return nil
}

// InstallAll installs every spec or none of them. On failure the hooks of
// this batch that were already installed are removed again and the first
// error is returned.
func (e *Engine) InstallAll(specs []Spec) ([]*Hook, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	done := make([]*Hook, 0, len(specs))
	for _, s := range specs {
		h, err := e.install(s)
		if err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				_ = e.uninstall(done[i].Name)
			}
			return nil, &InstallError{Name: s.Name, Err: err}
		}
		done = append(done, h)
	}
	return done, nil
}

// Lookup returns the installed hook named name.
func (e *Engine) Lookup(name string) (*Hook, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	h, ok := e.byName[name]
	return h, ok
}

// Installed lists the installed hook names in order.
func (e *Engine) Installed() []string {
	e.lock.Lock()
	defer e.lock.Unlock()
	out := make([]string, 0, len(e.byName))
	for n := range e.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var isDebug = false

// SetDebug turns instruction tracing on stderr on or off.
func SetDebug(x bool) {
	isDebug = x
}
