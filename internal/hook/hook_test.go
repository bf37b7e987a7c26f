package hook

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

// fakeMemory is a flat byte space standing in for process memory.
type fakeMemory struct {
	base      uintptr
	buf       []byte
	next      uintptr
	live      map[uintptr]int
	failWrite map[uintptr]bool
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{
		base:      0x400000,
		buf:       make([]byte, 0x10000),
		next:      0x8000,
		live:      make(map[uintptr]int),
		failWrite: make(map[uintptr]bool),
	}
}

func (m *fakeMemory) Read(addr uintptr, n int) []byte {
	o := addr - m.base
	return m.buf[o : o+uintptr(n)]
}

func (m *fakeMemory) Write(addr uintptr, b []byte) error {
	if m.failWrite[addr] {
		return fmt.Errorf("mprotect %#x: permission denied", addr)
	}
	copy(m.Read(addr, len(b)), b)
	return nil
}

func (m *fakeMemory) Alloc(near uintptr, size int) (uintptr, error) {
	a := m.base + m.next
	m.next += 64
	m.live[a] = size
	return a, nil
}

func (m *fakeMemory) Free(addr uintptr, size int) error {
	if _, ok := m.live[addr]; !ok {
		return ErrHookNotFound
	}
	delete(m.live, addr)
	return nil
}

// push rbp; mov rbp,rsp; sub rsp,0x20; mov [rbp-0x14],edi; mov rax,[rip+0x1000]; ret
var framePrologue = []byte{
	0x55,
	0x48, 0x89, 0xe5,
	0x48, 0x83, 0xec, 0x20,
	0x89, 0x7d, 0xec,
	0x48, 0x8b, 0x05, 0x00, 0x10, 0x00, 0x00,
	0xc3,
}

func TestPlanRelocatesRIPRelative(t *testing.T) {
	const addr = 0x401000
	p, err := Plan(framePrologue, addr)
	if err != nil {
		t.Fatal(err)
	}
	if p.Length != 18 || len(p.Insts) != 5 {
		t.Fatalf("length = %d, insts = %d", p.Length, len(p.Insts))
	}
	if len(p.Relocs) != 1 {
		t.Fatalf("relocs = %+v", p.Relocs)
	}
	r := p.Relocs[0]
	if r.Off != 14 || r.End != 18 || r.Target != addr+18+0x1000 {
		t.Fatalf("reloc = %+v", r)
	}

	const at = 0x408000
	code, err := p.Trampoline(at)
	if err != nil {
		t.Fatal(err)
	}
	inst, err := x86asm.Decode(code[11:], 64)
	if err != nil {
		t.Fatal(err)
	}
	mem, ok := inst.Args[1].(x86asm.Mem)
	if !ok || mem.Base != x86asm.RIP {
		t.Fatalf("moved instruction = %v", inst)
	}
	if got := uintptr(int64(at+18) + mem.Disp); got != r.Target {
		t.Fatalf("relocated target = %#x, want %#x", got, r.Target)
	}
	back := code[18:]
	if !bytes.Equal(back[:2], []byte{0x49, 0xbb}) || binary.LittleEndian.Uint64(back[2:]) != addr+18 {
		t.Fatalf("jump back = % x", back)
	}
}

func TestPlanRejects(t *testing.T) {
	nops := func(n int) []byte { return bytes.Repeat([]byte{0x90}, n) }
	tests := []struct {
		name string
		code []byte
		want error
	}{
		{"short branch", append([]byte{0x55, 0x85, 0xff, 0x74, 0x05}, nops(16)...), ErrRelativeAddr},
		{"returns early", append([]byte{0x31, 0xc0, 0xc3}, nops(16)...), ErrTooShort},
		{"truncated", []byte{0x55, 0x90}, ErrTooShort},
		// lea rax,[rip-7] points back at the function start
		{"self reference", append([]byte{0x48, 0x8d, 0x05, 0xf9, 0xff, 0xff, 0xff}, nops(6)...), ErrRelativeAddr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Plan(tt.code, 0x401000); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlanTooFar(t *testing.T) {
	p, err := Plan(framePrologue, 0x401000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Trampoline(0x7f0000000000); !errors.Is(err, ErrTooFar) {
		t.Fatalf("err = %v", err)
	}
}

func TestTrampolineAvoidsLiveR11(t *testing.T) {
	// mov r11,rdi followed by padding
	code := append([]byte{0x49, 0x89, 0xfb}, bytes.Repeat([]byte{0x90}, 12)...)
	p, err := Plan(code, 0x401000)
	if err != nil {
		t.Fatal(err)
	}
	if !p.UsesR11 {
		t.Fatal("R11 use not detected")
	}
	tr, err := p.Trampoline(0x408000)
	if err != nil {
		t.Fatal(err)
	}
	back := tr[p.Length:]
	if !bytes.Equal(back[:6], []byte{0xff, 0x25, 0, 0, 0, 0}) {
		t.Fatalf("jump back = % x", back)
	}
}

func TestPatchPadding(t *testing.T) {
	p, err := Plan(framePrologue, 0x401000)
	if err != nil {
		t.Fatal(err)
	}
	patch := p.Patch(0xdeadbeef)
	if len(patch) != p.Length {
		t.Fatalf("patch length %d", len(patch))
	}
	if binary.LittleEndian.Uint64(patch[2:]) != 0xdeadbeef {
		t.Fatal("detour address not encoded")
	}
	for _, b := range patch[patchLen:] {
		if b != 0xcc {
			t.Fatalf("padding = % x", patch[patchLen:])
		}
	}
}

func TestInstallUninstall(t *testing.T) {
	mem := newFakeMemory()
	const target = 0x401000
	copy(mem.Read(target, len(framePrologue)), framePrologue)
	e := newEngine(mem)

	h, err := e.Install("logicSimulation", target, 0x9000000)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(mem.Read(target, 2), []byte{0x49, 0xbb}) {
		t.Fatal("target not patched")
	}
	if !bytes.Equal(mem.Read(h.Trampoline, 11), framePrologue[:11]) {
		t.Fatal("trampoline does not start with the prologue")
	}
	if _, err := e.Install("again", target, 0x9000000); !errors.Is(err, ErrDoubleHook) {
		t.Fatalf("err = %v", err)
	}

	if err := e.Uninstall("logicSimulation"); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(mem.Read(target, len(framePrologue)), framePrologue) {
		t.Fatal("prologue not restored")
	}
	if len(mem.live) != 0 {
		t.Fatal("trampoline leaked")
	}
	if err := e.Uninstall("logicSimulation"); !errors.Is(err, ErrHookNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestInstallAllRollsBack(t *testing.T) {
	mem := newFakeMemory()
	specs := []Spec{
		{Name: "a", Target: 0x401000, Detour: 0x9000000},
		{Name: "b", Target: 0x402000, Detour: 0x9000100},
		{Name: "c", Target: 0x403000, Detour: 0x9000200},
	}
	for _, s := range specs {
		copy(mem.Read(s.Target, len(framePrologue)), framePrologue)
	}
	mem.failWrite[0x403000] = true
	e := newEngine(mem)

	hooks, err := e.InstallAll(specs)
	var ie *InstallError
	if !errors.As(err, &ie) || ie.Name != "c" {
		t.Fatalf("err = %v", err)
	}
	if hooks != nil {
		t.Fatal("hooks returned on failure")
	}
	for _, s := range specs {
		if !bytes.Equal(mem.Read(s.Target, len(framePrologue)), framePrologue) {
			t.Fatalf("%s not restored", s.Name)
		}
	}
	if len(mem.live) != 0 || len(e.Installed()) != 0 {
		t.Fatalf("live trampolines %d, installed %v", len(mem.live), e.Installed())
	}

	delete(mem.failWrite, 0x403000)
	hooks, err = e.InstallAll(specs)
	if err != nil || len(hooks) != 3 {
		t.Fatalf("retry: %v", err)
	}
	if got := e.Installed(); len(got) != 3 || got[0] != "a" {
		t.Fatalf("installed = %v", got)
	}
}

func TestReadyBeforePatch(t *testing.T) {
	mem := newFakeMemory()
	const target = 0x401000
	copy(mem.Read(target, len(framePrologue)), framePrologue)
	e := newEngine(mem)

	var got uintptr
	spec := Spec{Name: "serverSend", Target: target, Detour: 0x9000000, Ready: func(tramp uintptr) {
		if mem.Read(target, 1)[0] != 0x55 {
			t.Error("target patched before the trampoline was published")
		}
		got = tramp
	}}
	hooks, err := e.InstallAll([]Spec{spec})
	if err != nil {
		t.Fatal(err)
	}
	if got == 0 || got != hooks[0].Trampoline {
		t.Fatalf("ready got %#x, trampoline %#x", got, hooks[0].Trampoline)
	}
}
