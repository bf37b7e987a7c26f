// Package overlay maps the server's fixed-size record tables as typed Go
// views. Nothing here allocates, frees or calls into the host: accessors only
// read and write memory in place.
package overlay

import (
	"fmt"
	"unsafe"
)

// IndexError reports an out-of-range slot or sub-array index.
type IndexError struct {
	Table string
	Index int
	Max   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for %s (max %d)", e.Index, e.Table, e.Max)
}

// activeRecord is implemented by records carrying an active flag.
type activeRecord interface {
	IsActive() bool
}

// Table is a capped array of records of type T at a fixed address.
type Table[T any] struct {
	name    string
	base    unsafe.Pointer
	max     int
	counter *uint32
}

// NewTable wraps max records at base. counter may be nil when the host has
// no usable count for the table, in which case Count reports max.
func NewTable[T any](name string, base unsafe.Pointer, max int, counter *uint32) *Table[T] {
	return &Table[T]{name: name, base: base, max: max, counter: counter}
}

func (t *Table[T]) Name() string { return t.name }
func (t *Table[T]) Max() int     { return t.max }

// Count is the host's current slot count, clamped to Max.
func (t *Table[T]) Count() int {
	if t.counter == nil {
		return t.max
	}
	n := int(*t.counter)
	if n > t.max {
		return t.max
	}
	return n
}

// SetCount writes the host counter. It is a no-op for tables without one.
func (t *Table[T]) SetCount(n int) {
	if t.counter != nil {
		*t.counter = uint32(n)
	}
}

// HasCounter reports whether Count reads a host counter.
func (t *Table[T]) HasCounter() bool { return t.counter != nil }

func (t *Table[T]) stride() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Get returns slot i. It fails for i outside [0, Max) and never checks the
// active flag.
func (t *Table[T]) Get(i int) (*T, error) {
	if i < 0 || i >= t.max {
		return nil, &IndexError{Table: t.name, Index: i, Max: t.max}
	}
	return (*T)(unsafe.Add(t.base, uintptr(i)*t.stride())), nil
}

// MustGet is Get for callers that turn panics into script errors.
func (t *Table[T]) MustGet(i int) *T {
	r, err := t.Get(i)
	if err != nil {
		panic(err)
	}
	return r
}

// Index recovers the slot number of a record inside the table.
func (t *Table[T]) Index(r *T) int {
	return int((uintptr(unsafe.Pointer(r)) - uintptr(t.base)) / t.stride())
}

// Contains reports whether r points at a slot of this table.
func (t *Table[T]) Contains(r *T) bool {
	p := uintptr(unsafe.Pointer(r))
	b := uintptr(t.base)
	return r != nil && p >= b && p < b+uintptr(t.max)*t.stride() && (p-b)%t.stride() == 0
}

// Address is the absolute address of slot i.
func (t *Table[T]) Address(i int) uintptr {
	return uintptr(t.base) + uintptr(i)*t.stride()
}

// Link resolves a stored slot index. Negative sentinels, out-of-range
// values and inactive slots all resolve to nil.
func (t *Table[T]) Link(id int32) *T {
	r, err := t.Get(int(id))
	if err != nil {
		return nil
	}
	if a, ok := any(r).(activeRecord); ok && !a.IsActive() {
		return nil
	}
	return r
}

// LinkID is the inverse of Link: nil maps to -1.
func (t *Table[T]) LinkID(r *T) int32 {
	if r == nil {
		return -1
	}
	return int32(t.Index(r))
}

// All returns the active records among the first Count slots, in slot order.
func (t *Table[T]) All() []*T {
	n := t.Count()
	out := make([]*T, 0, n)
	for i := 0; i < n; i++ {
		r := (*T)(unsafe.Add(t.base, uintptr(i)*t.stride()))
		if a, ok := any(r).(activeRecord); ok && !a.IsActive() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Active counts what All would return without allocating.
func (t *Table[T]) Active() int {
	n := t.Count()
	c := 0
	for i := 0; i < n; i++ {
		r := (*T)(unsafe.Add(t.base, uintptr(i)*t.stride()))
		if a, ok := any(r).(activeRecord); ok && !a.IsActive() {
			continue
		}
		c++
	}
	return c
}

// At bounds-checks access to an embedded fixed array.
func At[T any](s []T, name string, i int) (*T, error) {
	if i < 0 || i >= len(s) {
		return nil, &IndexError{Table: name, Index: i, Max: len(s)}
	}
	return &s[i], nil
}

// MustAt is At for callers that turn panics into script errors.
func MustAt[T any](s []T, name string, i int) *T {
	r, err := At(s, name, i)
	if err != nil {
		panic(err)
	}
	return r
}

func (p *Player) IsActive() bool    { return p.Active != 0 }
func (h *Human) IsActive() bool     { return h.Active != 0 }
func (it *Item) IsActive() bool     { return it.Active != 0 }
func (v *Vehicle) IsActive() bool   { return v.Active != 0 }
func (e *EarShot) IsActive() bool   { return e.Active != 0 }
func (p *Player) SetActive(b bool)  { p.Active = boolInt(b) }
func (h *Human) SetActive(b bool)   { h.Active = boolInt(b) }
func (it *Item) SetActive(b bool)   { it.Active = boolInt(b) }
func (v *Vehicle) SetActive(b bool) { v.Active = boolInt(b) }
func (e *EarShot) SetActive(b bool) { e.Active = boolInt(b) }
func (h *Human) IsAlive() bool      { return h.Health > 0 }

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// CString reads a NUL-terminated fixed buffer.
func CString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// SetCString copies s into b with strncpy semantics, writing at most
// len(b)-1 bytes and always terminating.
func SetCString(b []byte, s string) {
	n := copy(b[:len(b)-1], s)
	for i := n; i < len(b); i++ {
		b[i] = 0
	}
}
