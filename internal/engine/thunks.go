//go:build linux && amd64

package engine

/*
#include "detours.h"
*/
import "C"

import "unsafe"

// caller invokes native function pointers.
type caller interface {
	call(fn uintptr, args ...uint64) int32
	callSound(fn uintptr, sound int32, pos unsafe.Pointer, volume, pitch float32)
	callTriangle(fn uintptr, out, normal, frac, a, b, triA, triB, triC unsafe.Pointer) int32
}

type cgoCaller struct{}

func (cgoCaller) call(fn uintptr, args ...uint64) int32 {
	var a [maxArgs]C.uint64_t
	for i, v := range args {
		a[i] = C.uint64_t(v)
	}
	return int32(C.rs_call(C.uintptr_t(fn), a[0], a[1], a[2], a[3], a[4], a[5]))
}

func (cgoCaller) callSound(fn uintptr, sound int32, pos unsafe.Pointer, volume, pitch float32) {
	C.rs_call_sound(C.uintptr_t(fn), C.int(sound), pos, C.float(volume), C.float(pitch))
}

func (cgoCaller) callTriangle(fn uintptr, out, normal, frac, a, b, triA, triB, triC unsafe.Pointer) int32 {
	return int32(C.rs_call_triangle(C.uintptr_t(fn), out, normal, frac, a, b, triA, triB, triC))
}
