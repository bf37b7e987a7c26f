package bridge

import (
	"context"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Worker runs a script file on its own Lua state and goroutine. The two
// sides talk through bounded string queues; neither side blocks on them.
type Worker struct {
	path string
	env  *Env
	in   chan string
	out  chan string

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (e *Env) startWorker(path string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		path:   path,
		in:     make(chan string, e.cfg.Worker.Queue),
		out:    make(chan string, e.cfg.Worker.Queue),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	w.env = newEnv(Options{
		Config: e.cfg,
		Log:    e.log.Named("worker"),
		LuaLog: e.luaLog,
		Exit:   e.exit,
	})
	w.env.openLibraries()
	L := w.env.L
	L.SetGlobal("sendMessage", w.env.fn(func(L *lua.LState) int {
		L.Push(lua.LBool(offer(w.out, L.CheckString(1))))
		return 1
	}))
	L.SetGlobal("receiveMessage", w.env.fn(func(L *lua.LState) int {
		L.Push(poll(w.in))
		return 1
	}))
	// sleep(ms) returns true once the worker has been asked to stop.
	L.SetGlobal("sleep", w.env.fn(func(L *lua.LState) int {
		t := time.NewTimer(time.Duration(L.CheckInt(1)) * time.Millisecond)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
		L.Push(lua.LBool(ctx.Err() != nil))
		return 1
	}))
	L.SetContext(ctx)
	go w.run(ctx)
	return w
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	defer w.env.Close()
	L := w.env.L
	fn, err := L.LoadFile(w.path)
	if err != nil {
		w.env.fail("load "+w.path, err)
		return
	}
	err = L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	switch {
	case err != nil && ctx.Err() == nil:
		w.env.fail("worker "+w.path, err)
	case err != nil:
		w.env.log.Debug("worker stopped", zap.String("path", w.path))
	}
}

// Close stops the worker and waits for its goroutine.
func (w *Worker) Close() error {
	w.once.Do(w.cancel)
	<-w.done
	return nil
}

func offer(ch chan string, msg string) bool {
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

func poll(ch chan string) lua.LValue {
	select {
	case msg := <-ch:
		return lua.LString(msg)
	default:
		return lua.LNil
	}
}

func (e *Env) newWorker(L *lua.LState) int {
	w := e.startWorker(L.CheckString(1))
	e.track(w)
	L.Push(push(e, w))
	return 1
}

func workerClass() *Class[Worker] {
	return &Class[Worker]{
		Name: "Worker",
		Methods: map[string]Method[Worker]{
			"sendMessage": func(e *Env, L *lua.LState, w *Worker) int {
				L.Push(lua.LBool(offer(w.in, L.CheckString(2))))
				return 1
			},
			"receiveMessage": func(e *Env, L *lua.LState, w *Worker) int {
				L.Push(poll(w.out))
				return 1
			},
			"stop": func(e *Env, L *lua.LState, w *Worker) int {
				e.untrack(w)
				_ = w.Close()
				return 0
			},
		},
	}
}
