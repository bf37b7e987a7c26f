package bridge

import (
	"maps"

	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/overlay"
)

// list builds a 1-based array of objects.
func list[T any](e *Env, rs []*T) *lua.LTable {
	c := classOf[T](e)
	t := e.L.CreateTable(len(rs), 0)
	for _, r := range rs {
		t.Append(c.Push(r))
	}
	return t
}

// openCollection registers the global table name for the records of T.
// Indexed collections also answer #name, which is name.getCount(), and
// name[i], where i is the 0-based slot number.
func openCollection[T any](e *Env, name string, indexed bool, extra map[string]lua.LGFunction) {
	L := e.L
	c := classOf[T](e)
	fns := map[string]lua.LGFunction{
		"getCount": func(L *lua.LState) int {
			L.Push(lua.LNumber(c.table().Active()))
			return 1
		},
		"getAll": func(L *lua.LState) int {
			L.Push(list(e, c.table().All()))
			return 1
		},
		"getByIndex": func(L *lua.LState) int {
			L.Push(c.Push(c.table().MustGet(L.CheckInt(1))))
			return 1
		},
	}
	maps.Copy(fns, extra)

	t := L.NewTable()
	for k, f := range fns {
		L.SetField(t, k, e.fn(f))
	}
	if indexed {
		mt := L.NewTable()
		L.SetField(mt, "__len", e.fn(fns["getCount"]))
		L.SetField(mt, "__index", e.fn(func(L *lua.LState) int {
			L.Push(c.Push(c.table().MustGet(L.CheckInt(2))))
			return 1
		}))
		L.SetMetatable(t, mt)
	}
	L.SetGlobal(name, t)
}

// accountSlots counts the leading accounts in use. Accounts have no active
// flag; the host fills them contiguously and a used slot has a token.
func accountSlots(w *overlay.World) int {
	n := 0
	for n < w.Accounts.Max() && w.Accounts.MustGet(n).Token != 0 {
		n++
	}
	return n
}

// typeArg accepts a type object of class c or its slot number.
func typeArg[T any](e *Env, L *lua.LState, n int) int32 {
	c := classOf[T](e)
	if r, ok := c.Opt(L, n); ok {
		return int32(c.table().Index(r))
	}
	return int32(L.CheckInt(n))
}

func (e *Env) openCollections() {
	w := e.world
	vc := classOf[overlay.Vector](e)
	rc := classOf[overlay.RotMatrix](e)

	openCollection[overlay.Connection](e, "connections", true, nil)
	openCollection[overlay.Account](e, "accounts", true, map[string]lua.LGFunction{
		"getCount": func(L *lua.LState) int {
			L.Push(lua.LNumber(accountSlots(w)))
			return 1
		},
		"getAll": func(L *lua.LState) int {
			n := accountSlots(w)
			out := make([]*overlay.Account, n)
			for i := range out {
				out[i] = w.Accounts.MustGet(i)
			}
			L.Push(list(e, out))
			return 1
		},
		"save": func(L *lua.LState) int {
			e.fns.SaveAccountsServer()
			return 0
		},
	})
	openCollection[overlay.Player](e, "players", true, map[string]lua.LGFunction{
		"getNonBots": func(L *lua.LState) int {
			var out []*overlay.Player
			for _, p := range w.Players.All() {
				if p.IsBot == 0 {
					out = append(out, p)
				}
			}
			L.Push(list(e, out))
			return 1
		},
		"createBot": func(L *lua.LState) int {
			p := w.Players.Link(e.fns.CreatePlayer())
			if p != nil {
				p.IsBot = 1
				overlay.SetCString(p.Name[:], "Bot")
			}
			L.Push(push(e, p))
			return 1
		},
	})
	openCollection[overlay.Human](e, "humans", true, map[string]lua.LGFunction{
		"create": func(L *lua.LState) int {
			pos, r := vc.Check(L, 1), rc.Check(L, 2)
			player := classOf[overlay.Player](e).linkID(L, L.Get(3))
			L.Push(push(e, w.Humans.Link(e.fns.CreateHuman(pos, r, player))))
			return 1
		},
	})
	openCollection[overlay.ItemType](e, "itemTypes", true, nil)
	openCollection[overlay.Item](e, "items", true, map[string]lua.LGFunction{
		// create(type, pos, [vel], rot)
		"create": func(L *lua.LState) int {
			typ := typeArg[overlay.ItemType](e, L, 1)
			pos := vc.Check(L, 2)
			vel, n := &overlay.Vector{}, 3
			if v, ok := vc.Opt(L, 3); ok {
				vel, n = v, 4
			}
			L.Push(push(e, w.Items.Link(e.fns.CreateItem(typ, pos, vel, rc.Check(L, n)))))
			return 1
		},
	})
	openCollection[overlay.VehicleType](e, "vehicleTypes", true, map[string]lua.LGFunction{
		"getByName": func(L *lua.LState) int {
			L.Push(push(e, w.VehicleTypeByName(L.CheckString(1))))
			return 1
		},
	})
	openCollection[overlay.Vehicle](e, "vehicles", true, map[string]lua.LGFunction{
		// create(type, pos, [vel], rot, color)
		"create": func(L *lua.LState) int {
			typ := typeArg[overlay.VehicleType](e, L, 1)
			pos := vc.Check(L, 2)
			vel, n := &overlay.Vector{}, 3
			if v, ok := vc.Opt(L, 3); ok {
				vel, n = v, 4
			}
			r := rc.Check(L, n)
			color := int32(L.CheckInt(n + 1))
			L.Push(push(e, w.Vehicles.Link(e.fns.CreateVehicle(typ, pos, vel, r, color))))
			return 1
		},
	})
	openCollection[overlay.Bullet](e, "bullets", false, map[string]lua.LGFunction{
		"create": func(L *lua.LState) int {
			typ := int32(L.CheckInt(1))
			pos, vel := vc.Check(L, 2), vc.Check(L, 3)
			player := classOf[overlay.Player](e).linkID(L, L.Get(4))
			L.Push(push(e, w.Bullets.Link(e.fns.CreateBullet(typ, pos, vel, player))))
			return 1
		},
	})
	openCollection[overlay.Particle](e, "particles", true, nil)
	openCollection[overlay.Bond](e, "bonds", true, nil)
	openCollection[overlay.Building](e, "buildings", true, nil)
	openCollection[overlay.Street](e, "streets", true, nil)
	openCollection[overlay.StreetIntersection](e, "intersections", true, nil)
}
