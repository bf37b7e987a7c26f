//go:build linux && amd64

package engine

import (
	"fmt"
	"strings"
	"testing"
	"unsafe"

	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

type recordingCaller struct {
	calls []string
	ret   int32
}

func (c *recordingCaller) call(fn uintptr, args ...uint64) int32 {
	c.calls = append(c.calls, fmt.Sprintf("%#x%v", fn, args))
	return c.ret
}

func (c *recordingCaller) callSound(fn uintptr, sound int32, pos unsafe.Pointer, volume, pitch float32) {
	v := (*overlay.Vector)(pos)
	c.calls = append(c.calls, fmt.Sprintf("%#x sound %d %v %g %g", fn, sound, *v, volume, pitch))
}

func (c *recordingCaller) callTriangle(fn uintptr, out, normal, frac, a, b, triA, triB, triC unsafe.Pointer) int32 {
	*(*float32)(frac) = 0.25
	c.calls = append(c.calls, fmt.Sprintf("%#x triangle", fn))
	return c.ret
}

type dispatchFunc func(def *game.HookDef, args []game.Value, original game.Original) int32

func (f dispatchFunc) Dispatch(def *game.HookDef, args []game.Value, original game.Original) int32 {
	return f(def, args, original)
}

func TestDetourTable(t *testing.T) {
	if n := detourCount(); n != len(game.Hooks) {
		t.Fatalf("%d detours for %d hooks", n, len(game.Hooks))
	}
	seen := map[uintptr]bool{}
	for i := range game.Hooks {
		a := detourAddr(i)
		if a == 0 || seen[a] {
			t.Fatalf("detour %d = %#x", i, a)
		}
		seen[a] = true
	}
	if detourAddr(len(game.Hooks)) != 0 || detourAddr(-1) != 0 {
		t.Fatal("out of range detour")
	}
}

func TestDispatchPassThrough(t *testing.T) {
	c := &recordingCaller{ret: 7}
	e := newEngine(zap.NewNop(), c)
	def := game.HookBySymbol("linkItem")
	e.tramps[def.ID].Store(0x5000)

	raw := [maxArgs]uint64{3, 0xffffffff, 9, 1, 0xdead, 0xbeef}
	if got := e.dispatch(def.ID, &raw); got != 7 {
		t.Fatalf("ret = %d", got)
	}
	if len(c.calls) != 1 || c.calls[0] != "0x5000[3 4294967295 9 1]" {
		t.Fatalf("calls = %v", c.calls)
	}
}

func TestDispatchDecodesArguments(t *testing.T) {
	c := &recordingCaller{}
	e := newEngine(zap.NewNop(), c)
	def := game.HookBySymbol("serverPlayerMessage")
	e.tramps[def.ID].Store(0x6000)

	msg := make([]byte, 8192)
	copy(msg, "/help")
	raw := [maxArgs]uint64{0xffffffff, uint64(uintptr(unsafe.Pointer(&msg[0])))}

	var seen []game.Value
	e.SetDispatcher(dispatchFunc(func(d *game.HookDef, args []game.Value, original game.Original) int32 {
		seen = args
		args[0].Int = 4
		return original(args) + 1
	}))
	if got := e.dispatch(def.ID, &raw); got != 1 {
		t.Fatalf("ret = %d", got)
	}
	if len(seen) != 2 || seen[0].Kind != game.Int || seen[1].Text() != "/help" {
		t.Fatalf("args = %+v", seen)
	}
	if !strings.HasPrefix(c.calls[0], "0x6000[4 ") {
		t.Fatalf("original called with %v", c.calls)
	}
}

func TestDispatchRecoversPanics(t *testing.T) {
	e := newEngine(zap.NewNop(), &recordingCaller{})
	e.SetDispatcher(dispatchFunc(func(*game.HookDef, []game.Value, game.Original) int32 {
		panic("boom")
	}))
	def := game.HookBySymbol("createItem")
	var raw [maxArgs]uint64
	if got := e.dispatch(def.ID, &raw); got != def.Default {
		t.Fatalf("ret = %d, want %d", got, def.Default)
	}
}

func TestNatives(t *testing.T) {
	c := &recordingCaller{ret: 1}
	n := newNatives(map[string]uintptr{
		"linkItem":              0x10,
		"createEventMessage":    0x20,
		"createEventSound":      0x30,
		"lineIntersectTriangle": 0x40,
		"createItem":            0x50,
	}, c)

	if !n.LinkItem(1, -1, 2, 3) {
		t.Fatal("link reported failure")
	}
	n.CreateEventMessage(game.MessageAnnounce, "hi", -1, 0)
	n.CreateEventSound(5, &overlay.Vector{X: 1}, 1, 0.5)
	var frac float32
	var out, normal overlay.Vector
	hit := n.LineIntersectTriangle(&out, &normal, &frac, &overlay.Vector{}, &overlay.Vector{}, &overlay.Vector{}, &overlay.Vector{}, &overlay.Vector{})
	if !hit || frac != 0.25 {
		t.Fatalf("triangle hit=%v frac=%g", hit, frac)
	}
	n.CreateItem(4, &overlay.Vector{}, nil, &overlay.Identity)

	if c.calls[0] != "0x10[1 4294967295 2 3]" {
		t.Fatalf("linkItem: %s", c.calls[0])
	}
	if !strings.HasPrefix(c.calls[1], "0x20[6 ") || !strings.HasSuffix(c.calls[1], " 4294967295 0]") {
		t.Fatalf("message: %s", c.calls[1])
	}
	if c.calls[2] != "0x30 sound 5 Vector(1, 0, 0) 1 0.5" {
		t.Fatalf("sound: %s", c.calls[2])
	}
	if !strings.Contains(c.calls[4], " 0 ") {
		t.Fatalf("nil velocity not passed as null: %s", c.calls[4])
	}

	defer func() {
		if recover() == nil {
			t.Fatal("unknown routine did not panic")
		}
	}()
	n.ResetGame()
}
