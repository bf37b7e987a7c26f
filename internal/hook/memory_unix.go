//go:build linux

package hook

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

var pageSize = uintptr(unix.Getpagesize())

func makeSlice(addr, size uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
}

// processMemory patches the code of the running process. Trampolines are
// carved out of pages mapped close to their targets.
type processMemory struct {
	lock  sync.Mutex
	pages []*trampPage
}

type trampPage struct {
	base uintptr
	used []bool
}

// trampoline slots are fixed-size so freed slots can be reused
const slotSize = 64

func newProcessMemory() *processMemory { return &processMemory{} }

func (m *processMemory) Read(addr uintptr, n int) []byte {
	return makeSlice(addr, uintptr(n))
}

func (m *processMemory) Write(addr uintptr, b []byte) error {
	if err := protectPages(addr, uintptr(len(b))); err != nil {
		return err
	}
	copy(makeSlice(addr, uintptr(len(b))), b)
	return reProtectPages(addr, uintptr(len(b)))
}

func (m *processMemory) Alloc(near uintptr, size int) (uintptr, error) {
	if size > slotSize {
		return 0, ErrTooShort
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, p := range m.pages {
		if !within(p.base, near) {
			continue
		}
		for i, u := range p.used {
			if !u {
				p.used[i] = true
				return p.base + uintptr(i)*slotSize, nil
			}
		}
	}
	base, err := mapNear(near)
	if err != nil {
		return 0, err
	}
	p := &trampPage{base: base, used: make([]bool, pageSize/slotSize)}
	p.used[0] = true
	m.pages = append(m.pages, p)
	return base, nil
}

func (m *processMemory) Free(addr uintptr, size int) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, p := range m.pages {
		if addr >= p.base && addr < p.base+pageSize {
			p.used[(addr-p.base)/slotSize] = false
			fill := make([]byte, slotSize)
			for i := range fill {
				fill[i] = 0xcc
			}
			return m.Write(addr, fill)
		}
	}
	return ErrHookNotFound
}

// mapNear maps one page within rel32 reach of near, probing hints below and
// then above it in 1MiB steps.
func mapNear(near uintptr) (uintptr, error) {
	const step = 1 << 20
	start := near &^ (step - 1)
	for d := uintptr(step); d < reach; d += step {
		for _, hint := range []uintptr{start - d, start + d} {
			if hint > start+d || hint < pageSize {
				continue
			}
			addr, _, errno := unix.Syscall6(unix.SYS_MMAP, hint, pageSize,
				unix.PROT_READ|unix.PROT_EXEC,
				unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_FIXED_NOREPLACE, ^uintptr(0), 0)
			if errno != 0 {
				continue
			}
			if within(addr, near) {
				if isDebug {
					println("trampoline page", addr, "for", near)
				}
				return addr, nil
			}
			_, _, _ = unix.Syscall(unix.SYS_MUNMAP, addr, pageSize, 0)
		}
	}
	return 0, ErrTooFar
}

func reProtectPages(addr, size uintptr) error {
	start := pageSize * (addr / pageSize)
	length := pageSize * ((addr + size + pageSize - 1 - start) / pageSize)
	for i := uintptr(0); i < length; i += pageSize {
		data := makeSlice(start+i, pageSize)
		err := unix.Mprotect(data, unix.PROT_EXEC|unix.PROT_READ)
		if err != nil {
			return err
		}
	}
	return nil
}

func protectPages(addr, size uintptr) error {
	start := pageSize * (addr / pageSize)
	length := pageSize * ((addr + size + pageSize - 1 - start) / pageSize)
	for i := uintptr(0); i < length; i += pageSize {
		data := makeSlice(start+i, pageSize)
		err := unix.Mprotect(data, unix.PROT_EXEC|unix.PROT_READ|unix.PROT_WRITE)
		if err != nil {
			return err
		}
	}
	return nil
}
