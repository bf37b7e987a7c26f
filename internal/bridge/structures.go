package bridge

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/overlay"
)

func bulletClass() *Class[overlay.Bullet] {
	type B = overlay.Bullet
	return &Class[B]{
		Name:  "Bullet",
		Table: func(w *overlay.World) *overlay.Table[B] { return w.Bullets },
		Props: map[string]Prop[B]{
			"type":    num(func(b *B) *uint32 { return &b.Type }),
			"time":    num(func(b *B) *int32 { return &b.Time }),
			"lastPos": vec(func(b *B) *overlay.Vector { return &b.LastPos }),
			"pos":     vec(func(b *B) *overlay.Vector { return &b.Pos }),
			"vel":     vec(func(b *B) *overlay.Vector { return &b.Vel }),
			"player":  ro(link[B, overlay.Player](func(b *B) *int32 { return &b.PlayerID })),
		},
	}
}

func particleClass() *Class[overlay.Particle] {
	type P = overlay.Particle
	return &Class[P]{
		Name:  "Particle",
		Table: func(w *overlay.World) *overlay.Table[P] { return w.Particles },
		Data:  "particles",
		Props: map[string]Prop[P]{
			"type":        num(func(p *P) *int32 { return &p.Type }),
			"despawnTime": num(func(p *P) *int32 { return &p.DespawnTime }),
			"gravity":     num(func(p *P) *float32 { return &p.Gravity }),
			"pos":         vec(func(p *P) *overlay.Vector { return &p.Pos }),
			"pos2":        vec(func(p *P) *overlay.Vector { return &p.Pos2 }),
			"vel":         vec(func(p *P) *overlay.Vector { return &p.Vel }),
			"vel2":        vec(func(p *P) *overlay.Vector { return &p.Vel2 }),
			"numVehicles": num(func(p *P) *int32 { return &p.NumVehicles }),
		},
		Methods: map[string]Method[P]{
			"getVehicle": func(e *Env, L *lua.LState, p *P) int {
				v, err := e.world.ParticleVehicle(p, L.CheckInt(2))
				if err != nil {
					panic(err)
				}
				L.Push(push(e, v))
				return 1
			},
		},
	}
}

func bondClass() *Class[overlay.Bond] {
	type B = overlay.Bond
	return &Class[B]{
		Name:  "Bond",
		Table: func(w *overlay.World) *overlay.Table[B] { return w.Bonds },
		Props: map[string]Prop[B]{
			"type":          num(func(b *B) *int32 { return &b.Type }),
			"despawnTime":   num(func(b *B) *int32 { return &b.DespawnTime }),
			"globalPos":     vec(func(b *B) *overlay.Vector { return &b.GlobalPos }),
			"localPos":      vec(func(b *B) *overlay.Vector { return &b.LocalPos }),
			"otherLocalPos": vec(func(b *B) *overlay.Vector { return &b.OtherLocalPos }),
			"human":         ro(link[B, overlay.Human](func(b *B) *int32 { return &b.HumanID })),
			// rigid bodies are not mapped; their slot numbers are exposed as is
			"body":      ro(num(func(b *B) *int32 { return &b.BodyID })),
			"otherBody": ro(num(func(b *B) *int32 { return &b.OtherBodyID })),
		},
	}
}

func shopCarClass() *Class[overlay.ShopCar] {
	type S = overlay.ShopCar
	return &Class[S]{
		Name: "ShopCar",
		Props: map[string]Prop[S]{
			"price": num(func(s *S) *int32 { return &s.Price }),
			"color": num(func(s *S) *int32 { return &s.Color }),
			"type":  link[S, overlay.VehicleType](func(s *S) *int32 { return &s.Type }),
		},
	}
}

func buildingClass() *Class[overlay.Building] {
	type B = overlay.Building
	return &Class[B]{
		Name:  "Building",
		Table: func(w *overlay.World) *overlay.Table[B] { return w.Buildings },
		Props: map[string]Prop[B]{
			"type":            num(func(b *B) *int32 { return &b.Type }),
			"pos":             vec(func(b *B) *overlay.Vector { return &b.Pos }),
			"interiorCuboidA": vec(func(b *B) *overlay.Vector { return &b.InteriorCuboidA }),
			"interiorCuboidB": vec(func(b *B) *overlay.Vector { return &b.InteriorCuboidB }),
			"numShopCars":     num(func(b *B) *int32 { return &b.NumShopCars }),
			"shopCarSales":    num(func(b *B) *int32 { return &b.ShopCarSales }),
		},
		Methods: map[string]Method[B]{
			"getShopCar": at("Building.shopCars", func(b *B) []overlay.ShopCar { return b.ShopCars[:] }),
		},
	}
}

func streetLaneClass() *Class[overlay.StreetLane] {
	type S = overlay.StreetLane
	return &Class[S]{
		Name: "StreetLane",
		Props: map[string]Prop[S]{
			"direction": num(func(s *S) *int32 { return &s.Direction }),
			"posA":      vec(func(s *S) *overlay.Vector { return &s.PosA }),
			"posB":      vec(func(s *S) *overlay.Vector { return &s.PosB }),
		},
	}
}

func streetClass() *Class[overlay.Street] {
	type S = overlay.Street
	type X = overlay.StreetIntersection
	return &Class[S]{
		Name:  "Street",
		Table: func(w *overlay.World) *overlay.Table[S] { return w.Streets },
		Props: map[string]Prop[S]{
			"trafficCuboidA": vec(func(s *S) *overlay.Vector { return &s.TrafficCuboidA }),
			"trafficCuboidB": vec(func(s *S) *overlay.Vector { return &s.TrafficCuboidB }),
			"numTraffic":     num(func(s *S) *int32 { return &s.NumTraffic }),
			"name":           ro(str(func(s *S) []byte { return s.Name[:] })),
			"intersectionA":  ro(link[S, X](func(s *S) *int32 { return &s.IntersectionA })),
			"intersectionB":  ro(link[S, X](func(s *S) *int32 { return &s.IntersectionB })),
			"numLanes":       ro(num(func(s *S) *int32 { return &s.NumLanes })),
		},
		Methods: map[string]Method[S]{
			// only the lanes the street uses are addressable
			"getLane": at("Street.lanes", func(s *S) []overlay.StreetLane {
				return s.Lanes[:max(0, min(int(s.NumLanes), len(s.Lanes)))]
			}),
		},
	}
}

func intersectionClass() *Class[overlay.StreetIntersection] {
	type X = overlay.StreetIntersection
	street := func(f func(x *X) *int32) Prop[X] { return ro(link[X, overlay.Street](f)) }
	return &Class[X]{
		Name:  "StreetIntersection",
		Table: func(w *overlay.World) *overlay.Table[X] { return w.Intersections },
		Props: map[string]Prop[X]{
			"blockPos": getter(func(e *Env, x *X) lua.LValue {
				return push(e, &overlay.Vector{X: float32(x.BlockX), Y: float32(x.BlockY), Z: float32(x.BlockZ)})
			}),
			"pos":            vec(func(x *X) *overlay.Vector { return &x.Pos }),
			"lightsState":    num(func(x *X) *int32 { return &x.LightsState }),
			"lightsTimer":    num(func(x *X) *int32 { return &x.LightsTimer }),
			"lightsTimerMax": num(func(x *X) *int32 { return &x.LightsTimerMax }),
			"lightEast":      num(func(x *X) *int32 { return &x.LightEast }),
			"lightSouth":     num(func(x *X) *int32 { return &x.LightSouth }),
			"lightWest":      num(func(x *X) *int32 { return &x.LightWest }),
			"lightNorth":     num(func(x *X) *int32 { return &x.LightNorth }),
			"streetEast":     street(func(x *X) *int32 { return &x.StreetEast }),
			"streetSouth":    street(func(x *X) *int32 { return &x.StreetSouth }),
			"streetWest":     street(func(x *X) *int32 { return &x.StreetWest }),
			"streetNorth":    street(func(x *X) *int32 { return &x.StreetNorth }),
		},
	}
}
