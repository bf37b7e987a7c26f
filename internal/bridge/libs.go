package bridge

import (
	"reflect"
	"unsafe"

	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

func (e *Env) setFuncs(name string, fns map[string]lua.LGFunction) *lua.LTable {
	t := e.L.NewTable()
	for k, f := range fns {
		e.L.SetField(t, k, e.fn(f))
	}
	e.L.SetGlobal(name, t)
	return t
}

func (e *Env) openChat() {
	e.setFuncs("chat", map[string]lua.LGFunction{
		"announce": func(L *lua.LState) int {
			e.fns.CreateEventMessage(game.MessageAnnounce, L.CheckString(1), -1, 0)
			return 0
		},
		"tellAdmins": func(L *lua.LState) int {
			e.fns.CreateEventMessage(game.MessageAdmin, L.CheckString(1), -1, 0)
			return 0
		},
		// addRaw(speakerType, message, speaker, distance)
		"addRaw": func(L *lua.LState) int {
			e.fns.CreateEventMessage(int32(L.CheckInt(1)), L.CheckString(2), int32(L.CheckInt(3)), int32(L.CheckInt(4)))
			return 0
		},
	})
}

func (e *Env) openEvent() {
	vc := classOf[overlay.Vector](e)
	e.setFuncs("event", map[string]lua.LGFunction{
		"sound": func(L *lua.LState) int {
			volume := float32(L.OptNumber(3, 1))
			pitch := float32(L.OptNumber(4, 1))
			e.fns.CreateEventSound(int32(L.CheckInt(1)), vc.Check(L, 2), volume, pitch)
			return 0
		},
		"bulletHit": func(L *lua.LState) int {
			e.fns.CreateEventBulletHit(0, int32(L.CheckInt(1)), vc.Check(L, 2), vc.Check(L, 3))
			return 0
		},
		"createBullet": func(L *lua.LState) int {
			item := classOf[overlay.Item](e).linkID(L, L.Get(4))
			e.fns.CreateEventBullet(int32(L.CheckInt(1)), vc.Check(L, 2), vc.Check(L, 3), item)
			return 0
		},
	})
}

// rayResult copies the host's last intersection into a table.
func (e *Env) rayResult(hit bool, fill func(t *lua.LTable, r *overlay.RayCastResult)) *lua.LTable {
	t := e.L.NewTable()
	t.RawSetString("hit", lua.LBool(hit))
	if !hit {
		return t
	}
	r := *e.world.LineIntersectResult
	pos, normal := r.Pos, r.Normal
	t.RawSetString("pos", e.Vector(&pos))
	t.RawSetString("normal", e.Vector(&normal))
	t.RawSetString("fraction", lua.LNumber(r.Fraction))
	if fill != nil {
		fill(t, &r)
	}
	return t
}

func (e *Env) openPhysics() {
	vc := classOf[overlay.Vector](e)
	e.setFuncs("physics", map[string]lua.LGFunction{
		"lineIntersectLevel": func(L *lua.LState) int {
			hit := e.fns.LineIntersectLevel(vc.Check(L, 1), vc.Check(L, 2))
			L.Push(e.rayResult(hit, func(t *lua.LTable, r *overlay.RayCastResult) {
				t.RawSetString("blockX", lua.LNumber(r.BlockX))
				t.RawSetString("blockY", lua.LNumber(r.BlockY))
				t.RawSetString("blockZ", lua.LNumber(r.BlockZ))
				t.RawSetString("material", lua.LNumber(r.Material))
			}))
			return 1
		},
		"lineIntersectHuman": func(L *lua.LState) int {
			h := indexOf(e, classOf[overlay.Human](e).Check(L, 1))
			hit := e.fns.LineIntersectHuman(h, vc.Check(L, 2), vc.Check(L, 3))
			L.Push(e.rayResult(hit, func(t *lua.LTable, r *overlay.RayCastResult) {
				t.RawSetString("bone", lua.LNumber(r.HumanBone))
			}))
			return 1
		},
		"lineIntersectVehicle": func(L *lua.LState) int {
			v := indexOf(e, classOf[overlay.Vehicle](e).Check(L, 1))
			hit := e.fns.LineIntersectVehicle(v, vc.Check(L, 2), vc.Check(L, 3))
			L.Push(e.rayResult(hit, func(t *lua.LTable, r *overlay.RayCastResult) {
				t.RawSetString("face", lua.LNumber(r.VehicleFace))
				t.RawSetString("material", lua.LNumber(r.Material))
			}))
			return 1
		},
		// lineIntersectTriangle(a, b, triA, triB, triC) reports through out
		// parameters rather than the shared result.
		"lineIntersectTriangle": func(L *lua.LState) int {
			var pos, normal overlay.Vector
			var frac float32
			hit := e.fns.LineIntersectTriangle(&pos, &normal, &frac,
				vc.Check(L, 1), vc.Check(L, 2), vc.Check(L, 3), vc.Check(L, 4), vc.Check(L, 5))
			t := L.NewTable()
			t.RawSetString("hit", lua.LBool(hit))
			if hit {
				t.RawSetString("pos", e.Vector(&pos))
				t.RawSetString("normal", e.Vector(&normal))
				t.RawSetString("fraction", lua.LNumber(frac))
			}
			L.Push(t)
			return 1
		},
		"garbageCollectBullets": func(L *lua.LState) int {
			e.fns.BulletTimeToLive()
			return 0
		},
	})
}

type memNumber interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

func checkAddr(L *lua.LState, n int) unsafe.Pointer {
	addr := uintptr(L.CheckNumber(n))
	if addr == 0 {
		L.ArgError(n, "null address")
	}
	return unsafe.Pointer(addr)
}

func peek[N memNumber](L *lua.LState) int {
	L.Push(lua.LNumber(*(*N)(checkAddr(L, 1))))
	return 1
}

func poke[N memNumber](L *lua.LState) int {
	*(*N)(checkAddr(L, 1)) = N(L.CheckNumber(2))
	return 0
}

// openMemory gives scripts raw access to the process. Nothing is checked
// beyond a null address.
func (e *Env) openMemory() {
	fns := map[string]lua.LGFunction{
		"getBaseAddress": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.base))
			return 1
		},
		"getAddress": func(L *lua.LState) int {
			ud := L.CheckUserData(1)
			rv := reflect.ValueOf(ud.Value)
			if rv.Kind() != reflect.Pointer {
				L.ArgError(1, "object expected, got "+typeName(ud))
			}
			L.Push(lua.LNumber(rv.Pointer()))
			return 1
		},
		"readBytes": func(L *lua.LState) int {
			p := checkAddr(L, 1)
			L.Push(lua.LString(unsafe.Slice((*byte)(p), L.CheckInt(2))))
			return 1
		},
		"writeBytes": func(L *lua.LState) int {
			p := checkAddr(L, 1)
			s := L.CheckString(2)
			copy(unsafe.Slice((*byte)(p), len(s)), s)
			return 0
		},
	}
	type rw struct {
		name        string
		read, write lua.LGFunction
	}
	for _, f := range []rw{
		{"Byte", peek[int8], poke[int8]},
		{"UByte", peek[uint8], poke[uint8]},
		{"Short", peek[int16], poke[int16]},
		{"UShort", peek[uint16], poke[uint16]},
		{"Int", peek[int32], poke[int32]},
		{"UInt", peek[uint32], poke[uint32]},
		{"Long", peek[int64], poke[int64]},
		{"ULong", peek[uint64], poke[uint64]},
		{"Float", peek[float32], poke[float32]},
		{"Double", peek[float64], poke[float64]},
	} {
		fns["read"+f.name] = f.read
		fns["write"+f.name] = f.write
	}
	e.setFuncs("memory", fns)
}

// openHook creates the hook table scripts fill in with hook.run.
func (e *Env) openHook(mode string) {
	t := e.L.NewTable()
	t.RawSetString("persistentMode", lua.LString(mode))
	e.L.SetGlobal("hook", t)
	e.L.SetGlobal("flagStateForReset", e.fn(func(L *lua.LState) int {
		if e.host == nil {
			L.RaiseError("flagStateForReset is unavailable here")
		}
		e.host.FlagStateForReset(L.CheckString(1))
		return 0
	}))
}

func (e *Env) openConstants() {
	for name, v := range map[string]int{
		"RESET_REASON_BOOT":       int(game.ResetReasonBoot),
		"RESET_REASON_ENGINECALL": int(game.ResetReasonEngineCall),
		"RESET_REASON_LUARESET":   int(game.ResetReasonLuaReset),
		"RESET_REASON_LUACALL":    int(game.ResetReasonLuaCall),

		"STATE_PREGAME":    game.StatePregame,
		"STATE_GAME":       game.StateGame,
		"STATE_RESTARTING": game.StateRestarting,

		"TYPE_DRIVING":    game.TypeDriving,
		"TYPE_RACE":       game.TypeRace,
		"TYPE_ROUND":      game.TypeRound,
		"TYPE_WORLD":      game.TypeWorld,
		"TYPE_TERMINATOR": game.TypeTerminator,
		"TYPE_COOP":       game.TypeCoop,
		"TYPE_VERSUS":     game.TypeVersus,
	} {
		e.L.SetGlobal(name, lua.LNumber(v))
	}
}

// openGame registers the host's records, routines and globals.
func (e *Env) openGame(mode string) {
	e.define(
		earShotClass(), connectionClass(), accountClass(), actionClass(), menuButtonClass(), playerClass(),
		boneClass(), inventorySlotClass(), humanClass(),
		itemTypeClass(), itemClass(),
		vehicleTypeClass(), wheelClass(), vehicleClass(),
		bulletClass(), particleClass(), bondClass(),
		shopCarClass(), buildingClass(),
		streetLaneClass(), streetClass(), intersectionClass(),
		serverClass(),
	)
	e.L.SetGlobal("server", push(e, &server{}))
	e.openCollections()
	e.openChat()
	e.openEvent()
	e.openPhysics()
	e.openMemory()
	e.openHook(mode)
	e.openConstants()
}
