package game

import (
	"unsafe"

	"github.com/rosa-go/rosaserver/internal/overlay"
)

// Kind is the native type of a hooked function parameter.
type Kind uint8

const (
	Int Kind = iota
	Uint
	VectorPtr
	RotMatrixPtr
	CString
)

// Value is one native argument of a hooked call.
type Value struct {
	Kind Kind
	Int  int32
	Ptr  unsafe.Pointer
}

func IntValue(i int32) Value                  { return Value{Kind: Int, Int: i} }
func UintValue(u uint32) Value                { return Value{Kind: Uint, Int: int32(u)} }
func PtrValue(k Kind, p unsafe.Pointer) Value { return Value{Kind: k, Ptr: p} }

func (v Value) Vector() *overlay.Vector       { return (*overlay.Vector)(v.Ptr) }
func (v Value) RotMatrix() *overlay.RotMatrix { return (*overlay.RotMatrix)(v.Ptr) }

// maxCString bounds reads of host strings that lack a terminator.
const maxCString = 4096

// Text reads a NUL-terminated host string.
func (v Value) Text() string {
	if v.Ptr == nil {
		return ""
	}
	b := unsafe.Slice((*byte)(v.Ptr), maxCString)
	return overlay.CString(b)
}

// HookDef declares one hooked host function.
type HookDef struct {
	ID     int
	Symbol string
	// Event is the name scripts see in hook.run; the post hook is "Post"+Event.
	Event   string
	Params  []Kind
	// Objects, when set, parallels Params: a non-empty entry names the
	// table an Int argument indexes, and scripts receive that object.
	Objects []string
	Returns bool
	// Default is returned to the host when a script overrides the call.
	Default int32
	// Result names the table a returned slot index refers to.
	Result string
}

// Original runs the unhooked host function.
type Original func(args []Value) int32

// Dispatcher decides what happens when a hooked function is called.
type Dispatcher interface {
	Dispatch(def *HookDef, args []Value, original Original) int32
}

var (
	none  []Kind
	i1    = []Kind{Int}
	i2    = []Kind{Int, Int}
	i4    = []Kind{Int, Int, Int, Int}
	vecs2 = []Kind{Int, VectorPtr, VectorPtr}
)

// Hooks is the installed set, in detour order.
var Hooks = []*HookDef{
	{Symbol: "resetGame", Event: "ResetGame", Params: none},
	{Symbol: "logicSimulation", Event: "Logic", Params: none},
	{Symbol: "logicSimulationRace", Event: "LogicRace", Params: none},
	{Symbol: "logicSimulationRound", Event: "LogicRound", Params: none},
	{Symbol: "logicSimulationWorld", Event: "LogicWorld", Params: none},
	{Symbol: "logicPlayerActions", Event: "PlayerActions", Params: i1, Objects: []string{"players"}},
	{Symbol: "itemWeaponSimulation", Event: "ItemWeaponSimulation", Params: i1, Objects: []string{"items"}},
	{Symbol: "trainSimulation", Event: "TrainSimulation", Params: i1},
	{Symbol: "humanCalculateArmAngles", Event: "HumanArmAngles", Params: i1, Objects: []string{"humans"}},
	{Symbol: "humanCollideHuman", Event: "HumanCollideHuman", Params: i1, Objects: []string{"humans"}},
	{Symbol: "physicsSimulation", Event: "Physics", Params: none},
	{Symbol: "bulletSimulation", Event: "PhysicsBullets", Params: none},
	{Symbol: "bondSimulation", Event: "PhysicsBonds", Params: none},
	{Symbol: "vehicleSimulation", Event: "PhysicsVehicles", Params: none},
	{Symbol: "economyCarMarket", Event: "EconomyCarMarket", Params: none},
	{Symbol: "serverReceive", Event: "InPacket", Params: none, Returns: true},
	{Symbol: "serverSend", Event: "ServerSend", Params: none},
	{Symbol: "writePacket", Event: "PacketBuilding", Params: i2},
	{Symbol: "sendPacket", Event: "SendPacket", Params: []Kind{Uint, Uint}},
	{Symbol: "saveAccountsServer", Event: "AccountsSave", Params: none},
	{Symbol: "linkItem", Event: "ItemLink", Params: i4, Objects: []string{"items", "items", "humans", ""}, Returns: true},
	{Symbol: "humanApplyDamage", Event: "HumanDamage", Params: i4, Objects: []string{"humans", "", "", ""}},
	{Symbol: "vehicleApplyDamage", Event: "VehicleDamage", Params: i2, Objects: []string{"vehicles", ""}},
	{Symbol: "serverPlayerMessage", Event: "PlayerChat", Params: []Kind{Int, CString}, Objects: []string{"players", ""}, Returns: true},
	{Symbol: "playerAI", Event: "PlayerAI", Params: i1, Objects: []string{"players"}},
	{Symbol: "playerDeathTax", Event: "PlayerDeathTax", Params: i1, Objects: []string{"players"}},
	{Symbol: "createPlayer", Event: "PlayerCreate", Params: none, Returns: true, Default: -1, Result: "players"},
	{Symbol: "deletePlayer", Event: "PlayerDelete", Params: i1, Objects: []string{"players"}},
	{Symbol: "createHuman", Event: "HumanCreate", Params: []Kind{VectorPtr, RotMatrixPtr, Int}, Objects: []string{"", "", "players"}, Returns: true, Default: -1, Result: "humans"},
	{Symbol: "deleteHuman", Event: "HumanDelete", Params: i1, Objects: []string{"humans"}},
	{Symbol: "createItem", Event: "ItemCreate", Params: []Kind{Int, VectorPtr, VectorPtr, RotMatrixPtr}, Objects: []string{"itemTypes", "", "", ""}, Returns: true, Default: -1, Result: "items"},
	{Symbol: "deleteItem", Event: "ItemDelete", Params: i1, Objects: []string{"items"}},
	{Symbol: "createBullet", Event: "BulletCreate", Params: []Kind{Int, VectorPtr, VectorPtr, Int}, Objects: []string{"", "", "", "players"}, Returns: true, Default: -1, Result: "bullets"},
	{Symbol: "createVehicle", Event: "VehicleCreate", Params: []Kind{Int, VectorPtr, VectorPtr, RotMatrixPtr, Int}, Objects: []string{"vehicleTypes", "", "", "", ""}, Returns: true, Default: -1, Result: "vehicles"},
	{Symbol: "deleteVehicle", Event: "VehicleDelete", Params: i1, Objects: []string{"vehicles"}},
	{Symbol: "createTraffic", Event: "CreateTraffic", Params: i1},
	{Symbol: "createEventMessage", Event: "EventMessage", Params: []Kind{Int, CString, Int, Int}},
	{Symbol: "createEventUpdatePlayer", Event: "EventUpdatePlayer", Params: i1, Objects: []string{"players"}},
	{Symbol: "createEventUpdateHuman", Event: "EventUpdateHuman", Params: i1, Objects: []string{"humans"}},
	{Symbol: "createEventUpdateItem", Event: "EventUpdateItem", Params: i1, Objects: []string{"items"}},
	{Symbol: "createEventUpdateItemInfo", Event: "EventUpdateItemInfo", Params: i1, Objects: []string{"items"}},
	{Symbol: "createEventCreateVehicle", Event: "EventCreateVehicle", Params: i1, Objects: []string{"vehicles"}},
	{Symbol: "createEventUpdateVehicle", Event: "EventUpdateVehicle", Params: []Kind{Int, Int, Int, VectorPtr, VectorPtr}, Objects: []string{"vehicles", "", "", "", ""}},
	{Symbol: "createEventBulletHit", Event: "EventBulletHit", Params: []Kind{Int, Int, VectorPtr, VectorPtr}},
	{Symbol: "createEventBullet", Event: "EventBullet", Params: []Kind{Int, VectorPtr, VectorPtr, Int}, Objects: []string{"", "", "", "items"}},
	{Symbol: "lineIntersectHuman", Event: "LineIntersectHuman", Params: vecs2, Objects: []string{"humans", "", ""}, Returns: true},
}

func init() {
	for i, h := range Hooks {
		h.ID = i
	}
}

// HookBySymbol finds a hook by its host function name.
func HookBySymbol(name string) *HookDef {
	for _, h := range Hooks {
		if h.Symbol == name {
			return h
		}
	}
	return nil
}

// HookSymbols lists the hooked host functions in detour order.
func HookSymbols() []string {
	out := make([]string, len(Hooks))
	for i, h := range Hooks {
		out[i] = h.Symbol
	}
	return out
}
