//go:build linux && amd64

package engine

import (
	"runtime"
	"unsafe"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

var _ game.Functions = (*Natives)(nil)

// Natives implements game.Functions by calling into the host. Pointers to Go
// memory are pinned for the duration of each call.
type Natives struct {
	fns map[string]uintptr
	c   caller
}

func newNatives(fns map[string]uintptr, c caller) *Natives {
	return &Natives{fns: fns, c: c}
}

func (n *Natives) fn(name string) uintptr {
	addr, ok := n.fns[name]
	if !ok {
		panic("engine: no address for " + name)
	}
	return addr
}

func (n *Natives) call(name string, args ...uint64) int32 {
	return n.c.call(n.fn(name), args...)
}

func i32(v int32) uint64 { return uint64(uint32(v)) }

func ref[T any](pin *runtime.Pinner, p *T) uint64 {
	if p == nil {
		return 0
	}
	pin.Pin(p)
	return uint64(uintptr(unsafe.Pointer(p)))
}

func (n *Natives) ResetGame()                 { n.call("resetGame") }
func (n *Natives) CreateTraffic(amount int32) { n.call("createTraffic", i32(amount)) }
func (n *Natives) SaveAccountsServer()        { n.call("saveAccountsServer") }
func (n *Natives) BulletTimeToLive()          { n.call("bulletTimeToLive") }

func (n *Natives) ScenarioArmHuman(human, weapon, magCount int32) {
	n.call("scenarioArmHuman", i32(human), i32(weapon), i32(magCount))
}

func (n *Natives) LinkItem(item, childItem, parentHuman, slot int32) bool {
	return n.call("linkItem", i32(item), i32(childItem), i32(parentHuman), i32(slot)) != 0
}

func (n *Natives) ItemCashAddBill(item, zero, value int32) {
	n.call("itemCashAddBill", i32(item), i32(zero), i32(value))
}

func (n *Natives) ItemCashRemoveBill(item, value int32) {
	n.call("itemCashRemoveBill", i32(item), i32(value))
}

func (n *Natives) ItemCashGetBillValue(item int32) int32 {
	return n.call("itemCashGetBillValue", i32(item))
}

func (n *Natives) HumanApplyDamage(human, bone, unk, damage int32) {
	n.call("humanApplyDamage", i32(human), i32(bone), i32(unk), i32(damage))
}

func (n *Natives) VehicleApplyDamage(vehicle, damage int32) {
	n.call("vehicleApplyDamage", i32(vehicle), i32(damage))
}

func (n *Natives) CreatePlayer() int32         { return n.call("createPlayer") }
func (n *Natives) DeletePlayer(player int32)   { n.call("deletePlayer", i32(player)) }
func (n *Natives) DeleteHuman(human int32)     { n.call("deleteHuman", i32(human)) }
func (n *Natives) DeleteItem(item int32)       { n.call("deleteItem", i32(item)) }
func (n *Natives) DeleteVehicle(vehicle int32) { n.call("deleteVehicle", i32(vehicle)) }

func (n *Natives) CreateHuman(pos *overlay.Vector, rot *overlay.RotMatrix, player int32) int32 {
	var pin runtime.Pinner
	defer pin.Unpin()
	return n.call("createHuman", ref(&pin, pos), ref(&pin, rot), i32(player))
}

func (n *Natives) CreateItem(typ int32, pos, vel *overlay.Vector, rot *overlay.RotMatrix) int32 {
	var pin runtime.Pinner
	defer pin.Unpin()
	return n.call("createItem", i32(typ), ref(&pin, pos), ref(&pin, vel), ref(&pin, rot))
}

func (n *Natives) CreateBullet(typ int32, pos, vel *overlay.Vector, player int32) int32 {
	var pin runtime.Pinner
	defer pin.Unpin()
	return n.call("createBullet", i32(typ), ref(&pin, pos), ref(&pin, vel), i32(player))
}

func (n *Natives) CreateVehicle(typ int32, pos, vel *overlay.Vector, rot *overlay.RotMatrix, color int32) int32 {
	var pin runtime.Pinner
	defer pin.Unpin()
	return n.call("createVehicle", i32(typ), ref(&pin, pos), ref(&pin, vel), ref(&pin, rot), i32(color))
}

func (n *Natives) CreateEventMessage(speakerType int32, message string, speaker, distance int32) {
	var pin runtime.Pinner
	defer pin.Unpin()
	msg := append([]byte(message), 0)
	n.call("createEventMessage", i32(speakerType), ref(&pin, &msg[0]), i32(speaker), i32(distance))
}

func (n *Natives) CreateEventUpdatePlayer(player int32) {
	n.call("createEventUpdatePlayer", i32(player))
}

func (n *Natives) CreateEventUpdatePlayerFinance(player int32) {
	n.call("createEventUpdatePlayerFinance", i32(player))
}

func (n *Natives) CreateEventUpdateHuman(human int32) { n.call("createEventUpdateHuman", i32(human)) }
func (n *Natives) CreateEventUpdateItem(item int32)   { n.call("createEventUpdateItem", i32(item)) }

func (n *Natives) CreateEventUpdateItemInfo(item int32) {
	n.call("createEventUpdateItemInfo", i32(item))
}

func (n *Natives) CreateEventCreateVehicle(vehicle int32) {
	n.call("createEventCreateVehicle", i32(vehicle))
}

func (n *Natives) CreateEventUpdateVehicle(vehicle, updateType, part int32, pos, normal *overlay.Vector) {
	var pin runtime.Pinner
	defer pin.Unpin()
	n.call("createEventUpdateVehicle", i32(vehicle), i32(updateType), i32(part), ref(&pin, pos), ref(&pin, normal))
}

func (n *Natives) CreateEventSound(sound int32, pos *overlay.Vector, volume, pitch float32) {
	n.c.callSound(n.fn("createEventSound"), sound, unsafe.Pointer(pos), volume, pitch)
}

func (n *Natives) CreateEventBullet(typ int32, pos, vel *overlay.Vector, item int32) {
	var pin runtime.Pinner
	defer pin.Unpin()
	n.call("createEventBullet", i32(typ), ref(&pin, pos), ref(&pin, vel), i32(item))
}

func (n *Natives) CreateEventBulletHit(unk, hitType int32, pos, normal *overlay.Vector) {
	var pin runtime.Pinner
	defer pin.Unpin()
	n.call("createEventBulletHit", i32(unk), i32(hitType), ref(&pin, pos), ref(&pin, normal))
}

func (n *Natives) LineIntersectLevel(a, b *overlay.Vector) bool {
	var pin runtime.Pinner
	defer pin.Unpin()
	return n.call("lineIntersectLevel", ref(&pin, a), ref(&pin, b)) != 0
}

func (n *Natives) LineIntersectHuman(human int32, a, b *overlay.Vector) bool {
	var pin runtime.Pinner
	defer pin.Unpin()
	return n.call("lineIntersectHuman", i32(human), ref(&pin, a), ref(&pin, b)) != 0
}

func (n *Natives) LineIntersectVehicle(vehicle int32, a, b *overlay.Vector) bool {
	var pin runtime.Pinner
	defer pin.Unpin()
	return n.call("lineIntersectVehicle", i32(vehicle), ref(&pin, a), ref(&pin, b)) != 0
}

func (n *Natives) LineIntersectTriangle(out, normal *overlay.Vector, frac *float32, a, b, triA, triB, triC *overlay.Vector) bool {
	return n.c.callTriangle(n.fn("lineIntersectTriangle"),
		unsafe.Pointer(out), unsafe.Pointer(normal), unsafe.Pointer(frac),
		unsafe.Pointer(a), unsafe.Pointer(b),
		unsafe.Pointer(triA), unsafe.Pointer(triB), unsafe.Pointer(triC)) != 0
}
