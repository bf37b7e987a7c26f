package bridge

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/overlay"
)

// Prop is one scripted field. A nil Set makes it read-only.
type Prop[T any] struct {
	Get func(e *Env, r *T) lua.LValue
	Set func(e *Env, L *lua.LState, r *T, v lua.LValue)
}

// Method is called as obj:name(...); its own arguments start at 2.
type Method[T any] func(e *Env, L *lua.LState, r *T) int

// Class exposes *T to scripts as userdata. Objects are views: they hold a
// pointer into the record and never copy it.
type Class[T any] struct {
	Name    string
	Props   map[string]Prop[T]
	Methods map[string]Method[T]
	// Meta adds or replaces metamethods.
	Meta map[string]lua.LGFunction
	// Table, when set, gives objects an index and a "Name(index)" string.
	Table func(w *overlay.World) *overlay.Table[T]
	// Data names the side table behind the data field.
	Data string

	env     *Env
	mt      *lua.LTable
	methods map[string]*lua.LFunction
}

type classDef interface {
	register(e *Env)
}

func (c *Class[T]) register(e *Env) {
	L := e.L
	c.env = e
	c.mt = L.NewTypeMetatable(c.Name)
	c.methods = make(map[string]*lua.LFunction, len(c.Methods))
	for name, m := range c.Methods {
		c.methods[name] = L.NewFunction(guard(func(L *lua.LState) int {
			return m(e, L, c.Check(L, 1))
		}))
	}
	L.SetField(c.mt, "__name", lua.LString(c.Name))
	L.SetField(c.mt, "__index", L.NewFunction(guard(c.index)))
	L.SetField(c.mt, "__newindex", L.NewFunction(guard(c.newIndex)))
	L.SetField(c.mt, "__eq", L.NewFunction(guard(c.eq)))
	if c.Table != nil {
		L.SetField(c.mt, "__tostring", L.NewFunction(guard(c.tostring)))
	}
	for name, fn := range c.Meta {
		L.SetField(c.mt, name, L.NewFunction(guard(fn)))
	}
	e.classes[reflect.TypeFor[T]()] = c
}

func (c *Class[T]) table() *overlay.Table[T] { return c.Table(c.env.world) }

// Push wraps r, or pushes nil for a nil record.
func (c *Class[T]) Push(r *T) lua.LValue {
	if r == nil {
		return lua.LNil
	}
	ud := c.env.L.NewUserData()
	ud.Value = r
	ud.Metatable = c.mt
	return ud
}

// From unwraps v or raises a script error.
func (c *Class[T]) From(L *lua.LState, v lua.LValue) *T {
	if ud, ok := v.(*lua.LUserData); ok {
		if r, ok := ud.Value.(*T); ok {
			return r
		}
	}
	L.RaiseError("%s expected, got %s", c.Name, typeName(v))
	return nil
}

// Check unwraps argument n.
func (c *Class[T]) Check(L *lua.LState, n int) *T {
	if ud, ok := L.Get(n).(*lua.LUserData); ok {
		if r, ok := ud.Value.(*T); ok {
			return r
		}
	}
	L.ArgError(n, c.Name+" expected, got "+typeName(L.Get(n)))
	return nil
}

// Opt unwraps argument n if it holds a T.
func (c *Class[T]) Opt(L *lua.LState, n int) (*T, bool) {
	ud, ok := L.Get(n).(*lua.LUserData)
	if !ok {
		return nil, false
	}
	r, ok := ud.Value.(*T)
	return r, ok
}

func (c *Class[T]) index(L *lua.LState) int {
	r := c.Check(L, 1)
	key := L.CheckString(2)
	if p, ok := c.Props[key]; ok {
		L.Push(p.Get(c.env, r))
		return 1
	}
	if m, ok := c.methods[key]; ok {
		L.Push(m)
		return 1
	}
	switch {
	case key == "class":
		L.Push(lua.LString(c.Name))
	case key == "index" && c.Table != nil:
		L.Push(lua.LNumber(c.table().Index(r)))
	case key == "data" && c.Data != "":
		L.Push(c.env.data.Get(L, c.Data, c.table().Index(r)))
	default:
		L.Push(lua.LNil)
	}
	return 1
}

func (c *Class[T]) newIndex(L *lua.LState) int {
	r := c.Check(L, 1)
	key := L.CheckString(2)
	p, ok := c.Props[key]
	switch {
	case !ok:
		L.RaiseError("%s has no field %q", c.Name, key)
	case p.Set == nil:
		L.RaiseError("%s.%s is read-only", c.Name, key)
	default:
		p.Set(c.env, L, r, L.Get(3))
	}
	return 0
}

func (c *Class[T]) eq(L *lua.LState) int {
	a, _ := c.Opt(L, 1)
	b, _ := c.Opt(L, 2)
	L.Push(lua.LBool(a != nil && a == b))
	return 1
}

func (c *Class[T]) tostring(L *lua.LState) int {
	r := c.Check(L, 1)
	L.Push(lua.LString(fmt.Sprintf("%s(%d)", c.Name, c.table().Index(r))))
	return 1
}

// linkID converts nil or an object of this class to a stored slot index.
func (c *Class[T]) linkID(L *lua.LState, v lua.LValue) int32 {
	if v == lua.LNil {
		return -1
	}
	return int32(c.table().Index(c.From(L, v)))
}

func classOf[T any](e *Env) *Class[T] {
	c, ok := e.classes[reflect.TypeFor[T]()].(*Class[T])
	if !ok {
		panic(fmt.Sprintf("bridge: no class registered for %v", reflect.TypeFor[T]()))
	}
	return c
}

// push wraps r with the class registered for T.
func push[T any](e *Env, r *T) lua.LValue { return classOf[T](e).Push(r) }

func typeName(v lua.LValue) string {
	if ud, ok := v.(*lua.LUserData); ok {
		if mt, ok := ud.Metatable.(*lua.LTable); ok {
			if n, ok := mt.RawGetString("__name").(lua.LString); ok {
				return string(n)
			}
		}
	}
	return v.Type().String()
}
