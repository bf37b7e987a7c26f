package bridge

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/overlay"
)

func vehicleTypeClass() *Class[overlay.VehicleType] {
	type T = overlay.VehicleType
	return &Class[T]{
		Name:  "VehicleType",
		Table: func(w *overlay.World) *overlay.Table[T] { return w.VehicleTypes },
		Props: map[string]Prop[T]{
			"controllableState": num(func(t *T) *int32 { return &t.ControllableState }),
			"price":             num(func(t *T) *int32 { return &t.Price }),
			"mass":              num(func(t *T) *float32 { return &t.Mass }),
			"numWheels":         num(func(t *T) *int32 { return &t.NumWheels }),
			"acceleration":      num(func(t *T) *float32 { return &t.Acceleration }),
			"name":              str(func(t *T) []byte { return t.Name[:] }),
		},
	}
}

func wheelClass() *Class[overlay.Wheel] {
	type W = overlay.Wheel
	return &Class[W]{
		Name: "Wheel",
		Props: map[string]Prop[W]{
			"isPopped":    num(func(w *W) *int32 { return &w.IsPopped }),
			"isDestroyed": num(func(w *W) *int32 { return &w.IsDestroyed }),
			"health":      num(func(w *W) *int32 { return &w.Health }),
			"mass":        num(func(w *W) *float32 { return &w.Mass }),
			"size":        num(func(w *W) *float32 { return &w.Size }),
		},
	}
}

func vehicleClass() *Class[overlay.Vehicle] {
	type V = overlay.Vehicle
	return &Class[V]{
		Name:  "Vehicle",
		Table: func(w *overlay.World) *overlay.Table[V] { return w.Vehicles },
		Data:  "vehicles",
		Props: map[string]Prop[V]{
			"isActive": flag(func(v *V) *int32 { return &v.Active }),
			"type": {
				Get: func(e *Env, v *V) lua.LValue { return push(e, e.world.VehicleType(v)) },
				Set: func(e *Env, L *lua.LState, v *V, val lua.LValue) {
					v.Type = uint32(classOf[overlay.VehicleType](e).linkID(L, val))
				},
			},
			"controllableState": num(func(v *V) *int32 { return &v.ControllableState }),
			"health":            num(func(v *V) *int32 { return &v.Health }),
			"lastDriver":        ro(link[V, overlay.Player](func(v *V) *int32 { return &v.LastDriverPlayerID })),
			"color":             num(func(v *V) *uint32 { return &v.Color }),
			"despawnTime":       num(func(v *V) *int16 { return &v.DespawnTime }),
			"isLocked":          num(func(v *V) *int32 { return &v.IsLocked }),
			"pos":               vec(func(v *V) *overlay.Vector { return &v.Pos }),
			"pos2":              vec(func(v *V) *overlay.Vector { return &v.Pos2 }),
			"rot":               rot(func(v *V) *overlay.RotMatrix { return &v.Rot }),
			"vel":               vec(func(v *V) *overlay.Vector { return &v.Vel }),
			"vel2":              vec(func(v *V) *overlay.Vector { return &v.Vel2 }),
			"vel3":              vec(func(v *V) *overlay.Vector { return &v.Vel3 }),
			"numParticles":      num(func(v *V) *int32 { return &v.NumParticles }),
			"gearX":             num(func(v *V) *float32 { return &v.GearX }),
			"steerControl":      num(func(v *V) *float32 { return &v.SteerControl }),
			"gearY":             num(func(v *V) *float32 { return &v.GearY }),
			"gasControl":        num(func(v *V) *float32 { return &v.GasControl }),
			"inputFlags":        num(func(v *V) *int32 { return &v.InputFlags }),
			"acceleration":      num(func(v *V) *float32 { return &v.Acceleration }),
			"engineRPM":         num(func(v *V) *int32 { return &v.EngineRPM }),
		},
		Methods: map[string]Method[V]{
			"getWheel": at("Vehicle.wheels", func(v *V) []overlay.Wheel { return v.Wheels[:] }),
			"getParticle": func(e *Env, L *lua.LState, v *V) int {
				p, err := e.world.VehicleParticle(v, L.CheckInt(2))
				if err != nil {
					panic(err)
				}
				L.Push(push(e, p))
				return 1
			},
			"updateType": event[V](func(e *Env, i int32) { e.fns.CreateEventCreateVehicle(i) }),
			"remove":     event[V](func(e *Env, i int32) { e.fns.DeleteVehicle(i) }),
			"updateDestruction": func(e *Env, L *lua.LState, v *V) int {
				vc := classOf[overlay.Vector](e)
				e.fns.CreateEventUpdateVehicle(indexOf(e, v), int32(L.CheckInt(2)), int32(L.CheckInt(3)), vc.Check(L, 4), vc.Check(L, 5))
				return 0
			},
			"applyDamage": func(e *Env, L *lua.LState, v *V) int {
				e.fns.VehicleApplyDamage(indexOf(e, v), int32(L.CheckInt(2)))
				return 0
			},
		},
	}
}
