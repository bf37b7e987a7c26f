//go:build !linux

package hook

import "errors"

var errUnsupported = errors.New("hook: process patching is only supported on linux")

type processMemory struct{}

func newProcessMemory() *processMemory { return &processMemory{} }

func (processMemory) Read(addr uintptr, n int) []byte               { return nil }
func (processMemory) Write(addr uintptr, b []byte) error            { return errUnsupported }
func (processMemory) Alloc(near uintptr, size int) (uintptr, error) { return 0, errUnsupported }
func (processMemory) Free(addr uintptr, size int) error             { return errUnsupported }
