package bridge

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

func boneClass() *Class[overlay.Bone] {
	type B = overlay.Bone
	return &Class[B]{
		Name: "Bone",
		Props: map[string]Prop[B]{
			"pos":    vec(func(b *B) *overlay.Vector { return &b.Pos }),
			"pos2":   vec(func(b *B) *overlay.Vector { return &b.Pos2 }),
			"vel":    vec(func(b *B) *overlay.Vector { return &b.Vel }),
			"rot":    rot(func(b *B) *overlay.RotMatrix { return &b.Rot }),
			"rotVel": rot(func(b *B) *overlay.RotMatrix { return &b.RotVel }),
			"mass":   num(func(b *B) *float32 { return &b.Mass }),
			"size":   vec(func(b *B) *overlay.Vector { return &b.Size }),
			"size2":  vec(func(b *B) *overlay.Vector { return &b.Size2 }),
			"bondID": num(func(b *B) *int32 { return &b.BondID }),
		},
	}
}

func inventorySlotClass() *Class[overlay.InventorySlot] {
	type S = overlay.InventorySlot
	return &Class[S]{
		Name: "InventorySlot",
		Props: map[string]Prop[S]{
			"count":         num(func(s *S) *int32 { return &s.Count }),
			"primaryItem":   ro(link[S, overlay.Item](func(s *S) *int32 { return &s.PrimaryItemID })),
			"secondaryItem": ro(link[S, overlay.Item](func(s *S) *int32 { return &s.SecondaryItemID })),
		},
	}
}

func humanClass() *Class[overlay.Human] {
	type H = overlay.Human
	return &Class[H]{
		Name:  "Human",
		Table: func(w *overlay.World) *overlay.Table[H] { return w.Humans },
		Data:  "humans",
		Props: map[string]Prop[H]{
			"isActive":            flag(func(h *H) *int32 { return &h.Active }),
			"hasPhysics":          num(func(h *H) *int32 { return &h.PhysicsSim }),
			"player":              link[H, overlay.Player](func(h *H) *int32 { return &h.PlayerID }),
			"account":             link[H, overlay.Account](func(h *H) *int32 { return &h.AccountID }),
			"vehicle":             link[H, overlay.Vehicle](func(h *H) *int32 { return &h.VehicleID }),
			"vehicleSeat":         num(func(h *H) *int32 { return &h.VehicleSeat }),
			"lastVehicleID":       num(func(h *H) *int32 { return &h.LastVehicleID }),
			"lastVehicleCooldown": num(func(h *H) *int32 { return &h.LastVehicleCooldown }),
			"despawnTime":         num(func(h *H) *uint32 { return &h.DespawnTime }),
			"health":              num(func(h *H) *int32 { return &h.Health }),
			"vehicleExitTimer":    num(func(h *H) *int32 { return &h.VehicleExitTimer }),
			"spawnProtection":     num(func(h *H) *uint32 { return &h.SpawnProtection }),
			"zoomLevel":           num(func(h *H) *int32 { return &h.ZoomLevel }),
			"viewYaw2":            num(func(h *H) *float32 { return &h.ViewYaw2 }),
			"viewPitch2":          num(func(h *H) *float32 { return &h.ViewPitch2 }),
			"gearX":               num(func(h *H) *float32 { return &h.GearX }),
			"strafeInput":         num(func(h *H) *float32 { return &h.StrafeInput }),
			"gearY":               num(func(h *H) *float32 { return &h.GearY }),
			"walkInput":           num(func(h *H) *float32 { return &h.WalkInput }),
			"viewYaw":             num(func(h *H) *float32 { return &h.ViewYaw }),
			"viewPitch":           num(func(h *H) *float32 { return &h.ViewPitch }),
			"freeLookYaw":         num(func(h *H) *float32 { return &h.FreeLookYaw }),
			"freeLookPitch":       num(func(h *H) *float32 { return &h.FreeLookPitch }),
			"inputFlags":          num(func(h *H) *uint32 { return &h.InputFlags }),
			"lastInputFlags":      num(func(h *H) *uint32 { return &h.LastInputFlags }),
			"pos":                 vec(func(h *H) *overlay.Vector { return &h.Pos }),
			"isBleeding":          flag(func(h *H) *int32 { return &h.IsBleeding }),
		},
		Methods: map[string]Method[H]{
			"getBone":          at("Human.bones", func(h *H) []overlay.Bone { return h.Bones[:] }),
			"getInventorySlot": at("Human.inventorySlots", func(h *H) []overlay.InventorySlot { return h.InventorySlots[:] }),
			"remove":           event[H](func(e *Env, i int32) { e.fns.DeleteHuman(i) }),
			"update":           event[H](func(e *Env, i int32) { e.fns.CreateEventUpdateHuman(i) }),
			"teleport": func(e *Env, L *lua.LState, h *H) int {
				off := classOf[overlay.Vector](e).Check(L, 2).Sub(h.Pos)
				h.Pos = h.Pos.Add(off)
				for i := range h.Bones {
					b := &h.Bones[i]
					b.Pos = b.Pos.Add(off)
					b.Pos2 = b.Pos2.Add(off)
				}
				return 0
			},
			"speak": func(e *Env, L *lua.LState, h *H) int {
				e.fns.CreateEventMessage(game.MessageHuman, L.CheckString(2), indexOf(e, h), int32(L.CheckInt(3)))
				return 0
			},
			"arm": func(e *Env, L *lua.LState, h *H) int {
				e.fns.ScenarioArmHuman(indexOf(e, h), int32(L.CheckInt(2)), int32(L.CheckInt(3)))
				return 0
			},
			"setVelocity": func(e *Env, L *lua.LState, h *H) int {
				v := *classOf[overlay.Vector](e).Check(L, 2)
				for i := range h.Bones {
					h.Bones[i].Vel = v
				}
				return 0
			},
			"addVelocity": func(e *Env, L *lua.LState, h *H) int {
				v := *classOf[overlay.Vector](e).Check(L, 2)
				for i := range h.Bones {
					h.Bones[i].Vel = h.Bones[i].Vel.Add(v)
				}
				return 0
			},
			"mountItem": func(e *Env, L *lua.LState, h *H) int {
				it := classOf[overlay.Item](e).Check(L, 2)
				ok := e.fns.LinkItem(indexOf(e, it), -1, indexOf(e, h), int32(L.CheckInt(3)))
				L.Push(lua.LBool(ok))
				return 1
			},
			"applyDamage": func(e *Env, L *lua.LState, h *H) int {
				e.fns.HumanApplyDamage(indexOf(e, h), int32(L.CheckInt(2)), 0, int32(L.CheckInt(3)))
				return 0
			},
		},
	}
}
