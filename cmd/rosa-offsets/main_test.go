package main

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/offsets"
	"github.com/rosa-go/rosaserver/internal/symbols"
)

const imageBase = 0x400000

// push rbp; mov rbp, rsp; sub rsp, 0x20; mov [rbp-4], edi; mov [rbp-8], esi
var goodPrologue = []byte{
	0x55,
	0x48, 0x89, 0xe5,
	0x48, 0x83, 0xec, 0x20,
	0x89, 0x7d, 0xfc,
	0x89, 0x75, 0xf8,
}

type fakeImage struct {
	code map[uint64][]byte
	syms map[uint64]string
}

func (f *fakeImage) ReadAt(vaddr uint64, n int) ([]byte, error) {
	code, ok := f.code[vaddr]
	if !ok {
		return nil, fmt.Errorf("address %#x not in a loadable segment", vaddr)
	}
	out := bytes.Repeat([]byte{0xcc}, n)
	copy(out, code)
	return out, nil
}

func (f *fakeImage) At(addr uint64) (symbols.Symbol, uint64, bool) {
	name, ok := f.syms[addr]
	return symbols.Symbol{Name: name, Value: addr}, 0, ok
}

func (f *fakeImage) ImageBase() uint64 { return imageBase }

func fixture() (*fakeImage, *offsets.Version) {
	img := &fakeImage{code: map[uint64][]byte{}, syms: map[uint64]string{}}
	v := &offsets.Version{Tag: "test", Functions: map[string]uint64{}}
	off := uint64(0x1000)
	for _, name := range append(game.HookSymbols(), game.CallSymbols...) {
		v.Functions[name] = off
		img.code[imageBase+off] = goodPrologue
		img.syms[imageBase+off] = name
		off += 0x100
	}
	return img, v
}

func TestCheckAllGood(t *testing.T) {
	img, v := fixture()
	var out bytes.Buffer
	if n := check(&out, img, v, true); n != 0 {
		t.Fatalf("%d failures:\n%s", n, out.String())
	}
	s := out.String()
	if !strings.Contains(s, "resetGame") || !strings.Contains(s, "sub $0x20,%rsp") {
		t.Fatalf("output:\n%s", s)
	}
}

func TestCheckReportsUnpatchable(t *testing.T) {
	img, v := fixture()
	img.code[imageBase+v.Functions["resetGame"]] = []byte{0xc3}
	var out bytes.Buffer
	if n := check(&out, img, v, false); n != 1 {
		t.Fatalf("%d failures:\n%s", n, out.String())
	}
	line := lineWith(out.String(), "resetGame")
	if !strings.Contains(line, "FAIL") || !strings.Contains(line, "too short") {
		t.Fatalf("resetGame line: %q", line)
	}
}

func TestCheckReportsUndeclared(t *testing.T) {
	img, v := fixture()
	hooks := game.HookSymbols()
	var called string
	for _, name := range game.CallSymbols {
		if !slices.Contains(hooks, name) {
			called = name
			break
		}
	}
	if called == "" {
		t.Skip("every called routine is hooked")
	}
	delete(v.Functions, called)
	delete(v.Functions, "createItem")
	var out bytes.Buffer
	if n := check(&out, img, v, false); n != 2 {
		t.Fatalf("%d failures:\n%s", n, out.String())
	}
	if !strings.Contains(lineWith(out.String(), called), "called but not declared") {
		t.Fatalf("output:\n%s", out.String())
	}
	if !strings.Contains(lineWith(out.String(), "createItem"), "not declared") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func lineWith(s, word string) string {
	for _, l := range strings.Split(s, "\n") {
		if strings.Contains(l, word+" ") {
			return l
		}
	}
	return ""
}
