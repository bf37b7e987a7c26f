// Package overlaytest backs an overlay.World with Go-allocated memory so
// tests can drive the overlay, bridge and controller without a server
// process.
package overlaytest

import (
	"fmt"
	"unsafe"

	"github.com/rosa-go/rosaserver/internal/overlay"
)

// Arena allocates zeroed memory for every symbol asked of it. Allocations
// are kept alive for the arena's lifetime.
type Arena struct {
	blocks map[string][]uint64
	// Missing names symbols the arena refuses, for error-path tests.
	Missing map[string]bool
}

func NewArena() *Arena {
	return &Arena{blocks: make(map[string][]uint64), Missing: make(map[string]bool)}
}

// Data implements overlay.Addresser.
func (a *Arena) Data(name string, size uintptr) (uintptr, error) {
	if a.Missing[name] {
		return 0, fmt.Errorf("symbol %q not in arena", name)
	}
	b, ok := a.blocks[name]
	if !ok {
		// uint64 words keep every block 8-byte aligned
		b = make([]uint64, (size+7)/8+1)
		a.blocks[name] = b
	}
	return uintptr(unsafe.Pointer(&b[0])), nil
}

// Size reports how many bytes were reserved for name.
func (a *Arena) Size(name string) int {
	return len(a.blocks[name]) * 8
}

// World binds a fresh world over a new arena.
func World() (*overlay.World, *Arena) {
	a := NewArena()
	w, err := overlay.Bind(a)
	if err != nil {
		panic(err)
	}
	return w, a
}
