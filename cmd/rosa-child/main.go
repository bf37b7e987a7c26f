// Command rosa-child runs one Lua file on behalf of a ChildProcess object.
// Messages travel as length-prefixed frames: the parent writes to our stdin
// and reads our stdout. Everything else goes to stderr.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver/internal/childproc"
	"github.com/rosa-go/rosaserver/internal/logging"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: rosa-child script.lua")
		os.Exit(2)
	}
	log := logging.New(os.Getenv("ROSA_CHILD_LOG")).Named("child")
	defer log.Sync()

	out := bufio.NewWriter(os.Stdout)
	r := newRunner(os.Stdin, out, log)
	err := r.run(os.Args[1])
	out.Flush()
	if err != nil {
		log.Error("script failed", zap.String("script", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

type runner struct {
	log *zap.Logger

	wmu sync.Mutex
	out *bufio.Writer

	mu     sync.Mutex
	inbox  [][]byte
	closed bool
}

func newRunner(in io.Reader, out *bufio.Writer, log *zap.Logger) *runner {
	r := &runner{log: log, out: out}
	go r.read(in)
	return r
}

func (r *runner) read(in io.Reader) {
	for {
		msg, err := childproc.ReadFrame(in)
		r.mu.Lock()
		if err != nil {
			r.closed = true
			r.mu.Unlock()
			return
		}
		r.inbox = append(r.inbox, msg)
		r.mu.Unlock()
	}
}

func (r *runner) run(path string) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("sendMessage", L.NewFunction(r.sendMessage))
	L.SetGlobal("receiveMessage", L.NewFunction(r.receiveMessage))
	L.SetGlobal("sleep", L.NewFunction(sleep))
	L.SetGlobal("print", L.NewFunction(r.print))
	return L.DoFile(path)
}

func (r *runner) sendMessage(L *lua.LState) int {
	msg := L.CheckString(1)
	r.wmu.Lock()
	defer r.wmu.Unlock()
	if err := childproc.WriteFrame(r.out, []byte(msg)); err != nil {
		L.RaiseError("sendMessage: %v", err)
	}
	if err := r.out.Flush(); err != nil {
		L.RaiseError("sendMessage: %v", err)
	}
	return 0
}

// receiveMessage returns the next message or nil. Once the parent has
// closed our stdin and the inbox is drained it returns nil, true.
func (r *runner) receiveMessage(L *lua.LState) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.inbox) == 0 {
		L.Push(lua.LNil)
		L.Push(lua.LBool(r.closed))
		return 2
	}
	msg := r.inbox[0]
	r.inbox = r.inbox[1:]
	L.Push(lua.LString(msg))
	return 1
}

func (r *runner) print(L *lua.LState) int {
	n := L.GetTop()
	s := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			s += "\t"
		}
		s += L.ToStringMeta(L.Get(i)).String()
	}
	r.log.Info(s)
	return 0
}

func sleep(L *lua.LState) int {
	ms := L.CheckInt(1)
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return 0
}
