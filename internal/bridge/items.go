package bridge

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

func itemTypeClass() *Class[overlay.ItemType] {
	type T = overlay.ItemType
	return &Class[T]{
		Name:  "ItemType",
		Table: func(w *overlay.World) *overlay.Table[T] { return w.ItemTypes },
		Props: map[string]Prop[T]{
			"price":          num(func(t *T) *int32 { return &t.Price }),
			"mass":           num(func(t *T) *float32 { return &t.Mass }),
			"fireRate":       num(func(t *T) *int32 { return &t.FireRate }),
			"bulletType":     num(func(t *T) *int32 { return &t.BulletType }),
			"bulletVelocity": num(func(t *T) *float32 { return &t.BulletVelocity }),
			"bulletSpread":   num(func(t *T) *float32 { return &t.BulletSpread }),
			"name":           str(func(t *T) []byte { return t.Name[:] }),
			"isGun":          flag(func(t *T) *int32 { return &t.IsGun }),
			"pistolAim":      flag(func(t *T) *int32 { return &t.PistolAim }),
		},
	}
}

func itemClass() *Class[overlay.Item] {
	type I = overlay.Item
	return &Class[I]{
		Name:  "Item",
		Table: func(w *overlay.World) *overlay.Table[I] { return w.Items },
		Data:  "items",
		Props: map[string]Prop[I]{
			"isActive":           flag(func(it *I) *int32 { return &it.Active }),
			"hasPhysics":         flag(func(it *I) *int32 { return &it.PhysicsSim }),
			"physicsSettled":     flag(func(it *I) *int32 { return &it.PhysicsSettled }),
			"type":               link[I, overlay.ItemType](func(it *I) *int32 { return &it.Type }),
			"mass":               num(func(it *I) *float32 { return &it.Mass }),
			"despawnTime":        num(func(it *I) *int32 { return &it.DespawnTime }),
			"parentHuman":        link[I, overlay.Human](func(it *I) *int32 { return &it.ParentHumanID }),
			"parentItem":         link[I, overlay.Item](func(it *I) *int32 { return &it.ParentItemID }),
			"parentSlot":         num(func(it *I) *int32 { return &it.ParentSlot }),
			"numChildItems":      num(func(it *I) *int32 { return &it.NumChildItems }),
			"pos":                vec(func(it *I) *overlay.Vector { return &it.Pos }),
			"pos2":               vec(func(it *I) *overlay.Vector { return &it.Pos2 }),
			"vel":                vec(func(it *I) *overlay.Vector { return &it.Vel }),
			"vel2":               vec(func(it *I) *overlay.Vector { return &it.Vel2 }),
			"vel3":               vec(func(it *I) *overlay.Vector { return &it.Vel3 }),
			"rot":                rot(func(it *I) *overlay.RotMatrix { return &it.Rot }),
			"rotVel":             rot(func(it *I) *overlay.RotMatrix { return &it.RotVel }),
			"cooldown":           num(func(it *I) *int32 { return &it.Cooldown }),
			"cashSpread":         num(func(it *I) *int32 { return &it.CashSpread }),
			"cashAmount":         num(func(it *I) *int32 { return &it.CashBillAmount }),
			"cashPureValue":      num(func(it *I) *int32 { return &it.CashPureValue }),
			"bullets":            num(func(it *I) *int32 { return &it.Bullets }),
			"triggerTicks":       num(func(it *I) *int32 { return &it.TriggerTicks }),
			"inputFlags":         num(func(it *I) *int32 { return &it.InputFlags }),
			"lastInputFlags":     num(func(it *I) *int32 { return &it.LastInputFlags }),
			"connectedPhone":     link[I, overlay.Item](func(it *I) *int32 { return &it.ConnectedPhoneID }),
			"phoneNumber":        num(func(it *I) *int32 { return &it.PhoneNumber }),
			"callerRingTimer":    num(func(it *I) *int32 { return &it.CallerRingTimer }),
			"displayPhoneNumber": num(func(it *I) *int32 { return &it.DisplayPhoneNumber }),
			"enteredPhoneNumber": num(func(it *I) *int32 { return &it.EnteredPhoneNumber }),
			"phoneTexture":       num(func(it *I) *int32 { return &it.PhoneTexture }),
			"phoneStatus":        num(func(it *I) *int32 { return &it.PhoneStatus }),
			"vehicle":            link[I, overlay.Vehicle](func(it *I) *int32 { return &it.VehicleID }),
		},
		Methods: map[string]Method[I]{
			"getChildItem": func(e *Env, L *lua.LState, it *I) int {
				child, err := e.world.ItemChild(it, L.CheckInt(2))
				if err != nil {
					panic(err)
				}
				L.Push(push(e, child))
				return 1
			},
			"update":     event[I](func(e *Env, i int32) { e.fns.CreateEventUpdateItem(i) }),
			"updateInfo": event[I](func(e *Env, i int32) { e.fns.CreateEventUpdateItemInfo(i) }),
			"remove":     event[I](func(e *Env, i int32) { e.fns.DeleteItem(i) }),
			"mountItem": func(e *Env, L *lua.LState, it *I) int {
				child := classOf[I](e).Check(L, 2)
				L.Push(lua.LBool(e.fns.LinkItem(indexOf(e, it), indexOf(e, child), -1, int32(L.CheckInt(3)))))
				return 1
			},
			"unmount": func(e *Env, L *lua.LState, it *I) int {
				L.Push(lua.LBool(e.fns.LinkItem(indexOf(e, it), -1, -1, 0)))
				return 1
			},
			"speak": func(e *Env, L *lua.LState, it *I) int {
				e.fns.CreateEventMessage(game.MessageItem, L.CheckString(2), indexOf(e, it), int32(L.CheckInt(3)))
				return 0
			},
			"cashAddBill": func(e *Env, L *lua.LState, it *I) int {
				e.fns.ItemCashAddBill(indexOf(e, it), int32(L.CheckInt(2)), int32(L.CheckInt(3)))
				return 0
			},
			"cashRemoveBill": func(e *Env, L *lua.LState, it *I) int {
				e.fns.ItemCashRemoveBill(indexOf(e, it), int32(L.CheckInt(2)))
				return 0
			},
			"cashGetBillValue": func(e *Env, L *lua.LState, it *I) int {
				L.Push(lua.LNumber(e.fns.ItemCashGetBillValue(indexOf(e, it))))
				return 1
			},
		},
	}
}
