package bridge

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/overlay"
)

type number interface {
	~int16 | ~int32 | ~uint32 | ~float32
}

// toNumber converts a Lua number to N, truncating toward zero for integer
// fields.
func toNumber[N number](x float64) N {
	var zero N
	if _, ok := any(zero).(float32); ok {
		return N(x)
	}
	return N(int64(x))
}

func checkNumber(L *lua.LState, v lua.LValue) float64 {
	n, ok := v.(lua.LNumber)
	if !ok {
		L.RaiseError("number expected, got %s", typeName(v))
	}
	return float64(n)
}

func num[T any, N number](f func(r *T) *N) Prop[T] {
	return Prop[T]{
		Get: func(_ *Env, r *T) lua.LValue { return lua.LNumber(*f(r)) },
		Set: func(_ *Env, L *lua.LState, r *T, v lua.LValue) { *f(r) = toNumber[N](checkNumber(L, v)) },
	}
}

// flag exposes a C int as a boolean.
func flag[T any, N ~int32 | ~uint32](f func(r *T) *N) Prop[T] {
	return Prop[T]{
		Get: func(_ *Env, r *T) lua.LValue { return lua.LBool(*f(r) != 0) },
		Set: func(_ *Env, _ *lua.LState, r *T, v lua.LValue) {
			if lua.LVAsBool(v) {
				*f(r) = 1
			} else {
				*f(r) = 0
			}
		},
	}
}

func ro[T any](p Prop[T]) Prop[T] {
	p.Set = nil
	return p
}

// str exposes a fixed char buffer. Writes are truncated to fit.
func str[T any](f func(r *T) []byte) Prop[T] {
	return Prop[T]{
		Get: func(_ *Env, r *T) lua.LValue { return lua.LString(overlay.CString(f(r))) },
		Set: func(_ *Env, L *lua.LState, r *T, v lua.LValue) {
			s, ok := v.(lua.LString)
			if !ok {
				L.RaiseError("string expected, got %s", typeName(v))
			}
			overlay.SetCString(f(r), string(s))
		},
	}
}

// vec exposes an embedded vector. Reads return a live view; writes copy.
func vec[T any](f func(r *T) *overlay.Vector) Prop[T] {
	return Prop[T]{
		Get: func(e *Env, r *T) lua.LValue { return push(e, f(r)) },
		Set: func(e *Env, L *lua.LState, r *T, v lua.LValue) {
			*f(r) = *classOf[overlay.Vector](e).From(L, v)
		},
	}
}

func rot[T any](f func(r *T) *overlay.RotMatrix) Prop[T] {
	return Prop[T]{
		Get: func(e *Env, r *T) lua.LValue { return push(e, f(r)) },
		Set: func(e *Env, L *lua.LState, r *T, v lua.LValue) {
			*f(r) = *classOf[overlay.RotMatrix](e).From(L, v)
		},
	}
}

// link exposes a stored slot index of a U as the object itself, nil for
// no relation.
func link[T, U any](f func(r *T) *int32) Prop[T] {
	return Prop[T]{
		Get: func(e *Env, r *T) lua.LValue {
			c := classOf[U](e)
			return c.Push(c.table().Link(*f(r)))
		},
		Set: func(e *Env, L *lua.LState, r *T, v lua.LValue) {
			*f(r) = classOf[U](e).linkID(L, v)
		},
	}
}

// getter builds a read-only computed property.
func getter[T any](get func(e *Env, r *T) lua.LValue) Prop[T] {
	return Prop[T]{Get: get}
}

// at builds a getX(i) method over an embedded array of U.
func at[T, U any](name string, f func(r *T) []U) Method[T] {
	return func(e *Env, L *lua.LState, r *T) int {
		L.Push(push(e, overlay.MustAt(f(r), name, L.CheckInt(2))))
		return 1
	}
}

// event builds a method that forwards the record's index to a host event.
func event[T any](send func(e *Env, index int32)) Method[T] {
	return func(e *Env, L *lua.LState, r *T) int {
		send(e, int32(classOf[T](e).table().Index(r)))
		return 0
	}
}

func indexOf[T any](e *Env, r *T) int32 {
	return int32(classOf[T](e).table().Index(r))
}
