package hook

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mov eax,edi; add eax,1; nop5; nop5; ret
var addOne = []byte{
	0x89, 0xf8,
	0x83, 0xc0, 0x01,
	0x0f, 0x1f, 0x44, 0x00, 0x00,
	0x0f, 0x1f, 0x44, 0x00, 0x00,
	0xc3,
}

// mov eax,100; ret
var hundred = []byte{0xb8, 0x64, 0x00, 0x00, 0x00, 0xc3}

// nativeFunc turns code at addr into a Go func value. Go passes the fourth
// integer argument in RDI and takes the result from RAX, so x lands where
// addOne reads it.
type nativeFunc func(a, b, c, x int32) int32

func funcAt(addr uintptr) nativeFunc {
	code := &addr
	return *(*nativeFunc)(unsafe.Pointer(&code))
}

func TestHookProcessCode(t *testing.T) {
	page, err := unix.Mmap(-1, 0, int(pageSize),
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { unix.Munmap(page) })
	copy(page, addOne)
	copy(page[64:], hundred)
	target := uintptr(unsafe.Pointer(&page[0]))
	detour := target + 64

	if got := funcAt(target)(0, 0, 0, 5); got != 6 {
		t.Fatalf("unhooked = %d", got)
	}

	e := New()
	h, err := e.Install("addOne", target, detour)
	if err != nil {
		t.Fatal(err)
	}
	if got := funcAt(target)(0, 0, 0, 5); got != 100 {
		t.Fatalf("hooked = %d", got)
	}
	if got := funcAt(h.Trampoline)(0, 0, 0, 5); got != 6 {
		t.Fatalf("trampoline = %d", got)
	}
	if d := int64(h.Trampoline) - int64(target); d <= -reach || d >= reach {
		t.Fatalf("trampoline %#x out of reach of %#x", h.Trampoline, target)
	}

	if err := e.Uninstall("addOne"); err != nil {
		t.Fatal(err)
	}
	if got := funcAt(target)(0, 0, 0, 5); got != 6 {
		t.Fatalf("after uninstall = %d", got)
	}
	if string(page[:len(addOne)]) != string(addOne) {
		t.Fatalf("prologue not restored: % x", page[:len(addOne)])
	}
}
