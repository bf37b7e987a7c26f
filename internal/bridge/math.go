package bridge

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/overlay"
)

// Integer is a mutable number handed to hooks so scripts can change an
// argument before the host sees it.
type Integer struct {
	Value int32
}

func vectorClass() *Class[overlay.Vector] {
	type V = overlay.Vector
	newVec := func(e *Env, L *lua.LState, v V) int {
		L.Push(push(e, &v))
		return 1
	}
	other := func(e *Env, L *lua.LState, n int) *V { return classOf[V](e).Check(L, n) }
	return &Class[V]{
		Name: "Vector",
		Props: map[string]Prop[V]{
			"x": num(func(v *V) *float32 { return &v.X }),
			"y": num(func(v *V) *float32 { return &v.Y }),
			"z": num(func(v *V) *float32 { return &v.Z }),
		},
		Methods: map[string]Method[V]{
			"add": func(e *Env, L *lua.LState, v *V) int {
				*v = v.Add(*other(e, L, 2))
				return 0
			},
			"mult": func(e *Env, L *lua.LState, v *V) int {
				*v = v.Scale(float32(L.CheckNumber(2)))
				return 0
			},
			"set": func(e *Env, L *lua.LState, v *V) int {
				*v = *other(e, L, 2)
				return 0
			},
			"cross": func(e *Env, L *lua.LState, v *V) int {
				*v = v.Cross(*other(e, L, 2))
				return 0
			},
			"clone": func(e *Env, L *lua.LState, v *V) int { return newVec(e, L, *v) },
			"dist": func(e *Env, L *lua.LState, v *V) int {
				L.Push(lua.LNumber(v.Dist(*other(e, L, 2))))
				return 1
			},
			"distSquare": func(e *Env, L *lua.LState, v *V) int {
				L.Push(lua.LNumber(v.DistSquare(*other(e, L, 2))))
				return 1
			},
			"length": func(e *Env, L *lua.LState, v *V) int {
				L.Push(lua.LNumber(v.Length()))
				return 1
			},
			"lengthSquare": func(e *Env, L *lua.LState, v *V) int {
				L.Push(lua.LNumber(v.LengthSquare()))
				return 1
			},
			"dot": func(e *Env, L *lua.LState, v *V) int {
				L.Push(lua.LNumber(v.Dot(*other(e, L, 2))))
				return 1
			},
			"normalize": func(e *Env, L *lua.LState, v *V) int {
				v.Normalize()
				L.Push(L.Get(1))
				return 1
			},
			"getBlockPos": func(e *Env, L *lua.LState, v *V) int {
				x, y, z := v.BlockPos()
				L.Push(lua.LNumber(x))
				L.Push(lua.LNumber(y))
				L.Push(lua.LNumber(z))
				return 3
			},
		},
	}
}

// vectorMeta needs the registered class, so it is attached after define.
func (e *Env) vectorMeta() map[string]lua.LGFunction {
	type V = overlay.Vector
	c := classOf[V](e)
	ret := func(L *lua.LState, v V) int {
		L.Push(c.Push(&v))
		return 1
	}
	return map[string]lua.LGFunction{
		"__tostring": func(L *lua.LState) int {
			L.Push(lua.LString(c.Check(L, 1).String()))
			return 1
		},
		"__add": func(L *lua.LState) int { return ret(L, c.Check(L, 1).Add(*c.Check(L, 2))) },
		"__sub": func(L *lua.LState) int { return ret(L, c.Check(L, 1).Sub(*c.Check(L, 2))) },
		"__unm": func(L *lua.LState) int { return ret(L, c.Check(L, 1).Neg()) },
		"__div": func(L *lua.LState) int { return ret(L, c.Check(L, 1).Scale(1/float32(L.CheckNumber(2)))) },
		"__eq": func(L *lua.LState) int {
			a, _ := c.Opt(L, 1)
			b, _ := c.Opt(L, 2)
			L.Push(lua.LBool(a != nil && b != nil && *a == *b))
			return 1
		},
		"__mul": func(L *lua.LState) int {
			if n, ok := L.Get(1).(lua.LNumber); ok {
				return ret(L, c.Check(L, 2).Scale(float32(n)))
			}
			v := c.Check(L, 1)
			if r, ok := classOf[overlay.RotMatrix](e).Opt(L, 2); ok {
				return ret(L, v.Rotate(*r))
			}
			return ret(L, v.Scale(float32(L.CheckNumber(2))))
		},
	}
}

func rotMatrixClass() *Class[overlay.RotMatrix] {
	type R = overlay.RotMatrix
	vecOf := func(e *Env, L *lua.LState, v overlay.Vector) int {
		L.Push(push(e, &v))
		return 1
	}
	return &Class[R]{
		Name: "RotMatrix",
		Props: map[string]Prop[R]{
			"x1": num(func(r *R) *float32 { return &r.X1 }),
			"y1": num(func(r *R) *float32 { return &r.Y1 }),
			"z1": num(func(r *R) *float32 { return &r.Z1 }),
			"x2": num(func(r *R) *float32 { return &r.X2 }),
			"y2": num(func(r *R) *float32 { return &r.Y2 }),
			"z2": num(func(r *R) *float32 { return &r.Z2 }),
			"x3": num(func(r *R) *float32 { return &r.X3 }),
			"y3": num(func(r *R) *float32 { return &r.Y3 }),
			"z3": num(func(r *R) *float32 { return &r.Z3 }),
		},
		Methods: map[string]Method[R]{
			"set": func(e *Env, L *lua.LState, r *R) int {
				*r = *classOf[R](e).Check(L, 2)
				return 0
			},
			"clone": func(e *Env, L *lua.LState, r *R) int {
				c := *r
				L.Push(push(e, &c))
				return 1
			},
			"getForward": func(e *Env, L *lua.LState, r *R) int { return vecOf(e, L, r.Forward()) },
			"getUp":      func(e *Env, L *lua.LState, r *R) int { return vecOf(e, L, r.Up()) },
			"getRight":   func(e *Env, L *lua.LState, r *R) int { return vecOf(e, L, r.Right()) },
		},
	}
}

func (e *Env) rotMatrixMeta() map[string]lua.LGFunction {
	c := classOf[overlay.RotMatrix](e)
	return map[string]lua.LGFunction{
		"__tostring": func(L *lua.LState) int {
			L.Push(lua.LString(c.Check(L, 1).String()))
			return 1
		},
		"__mul": func(L *lua.LState) int {
			m := c.Check(L, 1).Mul(*c.Check(L, 2))
			L.Push(c.Push(&m))
			return 1
		},
		"__eq": func(L *lua.LState) int {
			a, _ := c.Opt(L, 1)
			b, _ := c.Opt(L, 2)
			L.Push(lua.LBool(a != nil && b != nil && *a == *b))
			return 1
		},
	}
}

func integerClass() *Class[Integer] {
	return &Class[Integer]{
		Name: "Integer",
		Props: map[string]Prop[Integer]{
			"value": num(func(i *Integer) *int32 { return &i.Value }),
		},
		Meta: map[string]lua.LGFunction{
			"__tostring": func(L *lua.LState) int {
				i := L.CheckUserData(1).Value.(*Integer)
				L.Push(lua.LString(fmt.Sprintf("Integer(%d)", i.Value)))
				return 1
			},
		},
	}
}

// openMath registers the value classes and their constructors.
func (e *Env) openMath() {
	L := e.L
	vc, rc := vectorClass(), rotMatrixClass()
	e.define(vc, rc, integerClass())
	for name, f := range e.vectorMeta() {
		L.SetField(vc.mt, name, e.fn(f))
	}
	for name, f := range e.rotMatrixMeta() {
		L.SetField(rc.mt, name, e.fn(f))
	}

	L.SetGlobal("Vector", e.fn(func(L *lua.LState) int {
		var v overlay.Vector
		if L.GetTop() > 0 {
			v = overlay.Vector{
				X: float32(L.CheckNumber(1)),
				Y: float32(L.CheckNumber(2)),
				Z: float32(L.CheckNumber(3)),
			}
		}
		L.Push(vc.Push(&v))
		return 1
	}))
	L.SetGlobal("RotMatrix", e.fn(func(L *lua.LState) int {
		var f [9]float32
		for i := range f {
			f[i] = float32(L.CheckNumber(i + 1))
		}
		r := overlay.RotMatrix{
			X1: f[0], Y1: f[1], Z1: f[2],
			X2: f[3], Y2: f[4], Z2: f[5],
			X3: f[6], Y3: f[7], Z3: f[8],
		}
		L.Push(rc.Push(&r))
		return 1
	}))
	L.SetGlobal("Integer", e.fn(func(L *lua.LState) int {
		L.Push(push(e, &Integer{Value: int32(L.OptInt(1, 0))}))
		return 1
	}))
}
