package hook

// codeMemory is the executable memory the engine reads and patches.
type codeMemory interface {
	// Read returns n bytes at addr without copying.
	Read(addr uintptr, n int) []byte
	// Write copies b to addr, lifting write protection around the copy.
	Write(addr uintptr, b []byte) error
	// Alloc returns size bytes of executable memory within rel32 reach of near.
	Alloc(near uintptr, size int) (uintptr, error)
	Free(addr uintptr, size int) error
}

// reach is how far a trampoline may sit from its target so that rel32
// displacements copied from the prologue stay encodable.
const reach = 1<<31 - 1<<20

func within(a, b uintptr) bool {
	if a > b {
		a, b = b, a
	}
	return b-a < reach
}
