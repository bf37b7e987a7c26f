package bridge

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver/internal/childproc"
)

func (e *Env) newChild(L *lua.LState) int {
	path := L.CheckString(1)
	log := e.log.Named("child").With(zap.String("script", path))
	p, err := childproc.Start(e.cfg.Child.Runner, []string{path}, childproc.Limits(e.cfg.Child.Limits), log)
	if err != nil {
		L.RaiseError("start %s: %v", path, err)
	}
	e.track(p)
	L.Push(push(e, p))
	return 1
}

// limit builds setXLimit(soft, hard).
func limit(set func(p *childproc.Process, soft, hard uint64) error) Method[childproc.Process] {
	return func(e *Env, L *lua.LState, p *childproc.Process) int {
		if err := set(p, uint64(L.CheckNumber(2)), uint64(L.CheckNumber(3))); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}
}

func childClass() *Class[childproc.Process] {
	type P = childproc.Process
	return &Class[P]{
		Name: "ChildProcess",
		Methods: map[string]Method[P]{
			"isRunning": func(e *Env, L *lua.LState, p *P) int {
				L.Push(lua.LBool(p.IsRunning()))
				return 1
			},
			"terminate": func(e *Env, L *lua.LState, p *P) int {
				if err := p.Terminate(); err != nil {
					L.RaiseError("%v", err)
				}
				return 0
			},
			// getExitCode is nil while the child runs.
			"getExitCode": func(e *Env, L *lua.LState, p *P) int {
				if code, ok := p.ExitCode(); ok {
					L.Push(lua.LNumber(code))
				} else {
					L.Push(lua.LNil)
				}
				return 1
			},
			"sendMessage": func(e *Env, L *lua.LState, p *P) int {
				if err := p.Send([]byte(L.CheckString(2))); err != nil {
					L.RaiseError("%v", err)
				}
				return 0
			},
			"receiveMessage": func(e *Env, L *lua.LState, p *P) int {
				if msg, ok := p.Receive(); ok {
					L.Push(lua.LString(msg))
				} else {
					L.Push(lua.LNil)
				}
				return 1
			},
			"setCPULimit":      limit((*P).SetCPULimit),
			"setMemoryLimit":   limit((*P).SetMemoryLimit),
			"setFileSizeLimit": limit((*P).SetFileSizeLimit),
			"getPriority": func(e *Env, L *lua.LState, p *P) int {
				prio, err := p.Priority()
				if err != nil {
					L.RaiseError("%v", err)
				}
				L.Push(lua.LNumber(prio))
				return 1
			},
			"setPriority": func(e *Env, L *lua.LState, p *P) int {
				if err := p.SetPriority(L.CheckInt(2)); err != nil {
					L.RaiseError("%v", err)
				}
				return 0
			},
		},
	}
}
