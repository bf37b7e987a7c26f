// Package gametest provides a host engine stand-in that records calls and
// performs the bookkeeping the real routines do on an overlay world.
package gametest

import (
	"fmt"
	"sync"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

var _ game.Functions = (*Functions)(nil)

// Functions implements game.Functions against a World. Creation routines
// claim the first inactive slot; deletions clear the active flag.
type Functions struct {
	World *overlay.World

	mu    sync.Mutex
	calls []string

	// LineHit is returned by the line intersection routines.
	LineHit bool
	// BillValue is returned by ItemCashGetBillValue.
	BillValue int32
}

func New(w *overlay.World) *Functions { return &Functions{World: w} }

func (f *Functions) record(format string, args ...any) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	f.mu.Unlock()
}

// Calls returns the recorded calls in order and clears the log.
func (f *Functions) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.calls
	f.calls = nil
	return c
}

func claim[T any](t *overlay.Table[T], active func(*T) *int32) (*T, int32) {
	for i := 0; i < t.Max(); i++ {
		r := t.MustGet(i)
		if *active(r) == 0 {
			*active(r) = 1
			return r, int32(i)
		}
	}
	return nil, -1
}

func (f *Functions) ResetGame()                 { f.record("resetGame()") }
func (f *Functions) CreateTraffic(amount int32) { f.record("createTraffic(%d)", amount) }
func (f *Functions) SaveAccountsServer()        { f.record("saveAccountsServer()") }
func (f *Functions) BulletTimeToLive()          { f.record("bulletTimeToLive()") }

func (f *Functions) ScenarioArmHuman(human, weapon, magCount int32) {
	f.record("scenarioArmHuman(%d, %d, %d)", human, weapon, magCount)
}

func (f *Functions) LinkItem(item, childItem, parentHuman, slot int32) bool {
	f.record("linkItem(%d, %d, %d, %d)", item, childItem, parentHuman, slot)
	return true
}

func (f *Functions) ItemCashAddBill(item, zero, value int32) {
	f.record("itemCashAddBill(%d, %d, %d)", item, zero, value)
}

func (f *Functions) ItemCashRemoveBill(item, value int32) {
	f.record("itemCashRemoveBill(%d, %d)", item, value)
}

func (f *Functions) ItemCashGetBillValue(item int32) int32 {
	f.record("itemCashGetBillValue(%d)", item)
	return f.BillValue
}

func (f *Functions) HumanApplyDamage(human, bone, unk, damage int32) {
	f.record("humanApplyDamage(%d, %d, %d, %d)", human, bone, unk, damage)
}

func (f *Functions) VehicleApplyDamage(vehicle, damage int32) {
	f.record("vehicleApplyDamage(%d, %d)", vehicle, damage)
}

func (f *Functions) CreatePlayer() int32 {
	_, id := claim(f.World.Players, func(p *overlay.Player) *int32 { return &p.Active })
	f.record("createPlayer() = %d", id)
	return id
}

func (f *Functions) DeletePlayer(player int32) {
	f.record("deletePlayer(%d)", player)
	if p, err := f.World.Players.Get(int(player)); err == nil {
		p.Active = 0
	}
}

func (f *Functions) CreateHuman(pos *overlay.Vector, rot *overlay.RotMatrix, player int32) int32 {
	h, id := claim(f.World.Humans, func(h *overlay.Human) *int32 { return &h.Active })
	if h != nil {
		h.Pos = *pos
		h.PlayerID = player
		h.VehicleID = -1
	}
	f.record("createHuman(%v, %d) = %d", *pos, player, id)
	return id
}

func (f *Functions) DeleteHuman(human int32) {
	f.record("deleteHuman(%d)", human)
	if h, err := f.World.Humans.Get(int(human)); err == nil {
		h.Active = 0
	}
}

func (f *Functions) CreateItem(typ int32, pos, vel *overlay.Vector, rot *overlay.RotMatrix) int32 {
	it, id := claim(f.World.Items, func(it *overlay.Item) *int32 { return &it.Active })
	if it != nil {
		it.Type = typ
		it.Pos = *pos
		if vel != nil {
			it.Vel = *vel
		}
		it.Rot = *rot
		it.ParentHumanID, it.ParentItemID = -1, -1
	}
	f.record("createItem(%d, %v) = %d", typ, *pos, id)
	return id
}

func (f *Functions) DeleteItem(item int32) {
	f.record("deleteItem(%d)", item)
	if it, err := f.World.Items.Get(int(item)); err == nil {
		it.Active = 0
	}
}

func (f *Functions) CreateBullet(typ int32, pos, vel *overlay.Vector, player int32) int32 {
	n := f.World.Bullets.Count()
	if n >= f.World.Bullets.Max() {
		return -1
	}
	b := f.World.Bullets.MustGet(n)
	b.Type = uint32(typ)
	b.Pos, b.Vel, b.PlayerID = *pos, *vel, player
	f.World.Bullets.SetCount(n + 1)
	f.record("createBullet(%d, %v, %d) = %d", typ, *pos, player, n)
	return int32(n)
}

func (f *Functions) CreateVehicle(typ int32, pos, vel *overlay.Vector, rot *overlay.RotMatrix, color int32) int32 {
	v, id := claim(f.World.Vehicles, func(v *overlay.Vehicle) *int32 { return &v.Active })
	if v != nil {
		v.Type = uint32(typ)
		v.Pos, v.Vel, v.Rot = *pos, *vel, *rot
		v.Color = uint32(color)
		v.LastDriverPlayerID = -1
	}
	f.record("createVehicle(%d, %v, %d) = %d", typ, *pos, color, id)
	return id
}

func (f *Functions) DeleteVehicle(vehicle int32) {
	f.record("deleteVehicle(%d)", vehicle)
	if v, err := f.World.Vehicles.Get(int(vehicle)); err == nil {
		v.Active = 0
	}
}

func (f *Functions) CreateEventMessage(speakerType int32, message string, speaker, distance int32) {
	f.record("createEventMessage(%d, %q, %d, %d)", speakerType, message, speaker, distance)
}

func (f *Functions) CreateEventUpdatePlayer(player int32) {
	f.record("createEventUpdatePlayer(%d)", player)
}

func (f *Functions) CreateEventUpdatePlayerFinance(player int32) {
	f.record("createEventUpdatePlayerFinance(%d)", player)
}

func (f *Functions) CreateEventUpdateHuman(human int32) {
	f.record("createEventUpdateHuman(%d)", human)
}

func (f *Functions) CreateEventUpdateItem(item int32) {
	f.record("createEventUpdateItem(%d)", item)
}

func (f *Functions) CreateEventUpdateItemInfo(item int32) {
	f.record("createEventUpdateItemInfo(%d)", item)
}

func (f *Functions) CreateEventCreateVehicle(vehicle int32) {
	f.record("createEventCreateVehicle(%d)", vehicle)
}

func (f *Functions) CreateEventUpdateVehicle(vehicle, updateType, part int32, pos, normal *overlay.Vector) {
	f.record("createEventUpdateVehicle(%d, %d, %d, %v, %v)", vehicle, updateType, part, *pos, *normal)
}

func (f *Functions) CreateEventSound(sound int32, pos *overlay.Vector, volume, pitch float32) {
	f.record("createEventSound(%d, %v, %g, %g)", sound, *pos, volume, pitch)
}

func (f *Functions) CreateEventBullet(typ int32, pos, vel *overlay.Vector, item int32) {
	f.record("createEventBullet(%d, %v, %v, %d)", typ, *pos, *vel, item)
}

func (f *Functions) CreateEventBulletHit(unk, hitType int32, pos, normal *overlay.Vector) {
	f.record("createEventBulletHit(%d, %d, %v, %v)", unk, hitType, *pos, *normal)
}

func (f *Functions) LineIntersectLevel(a, b *overlay.Vector) bool {
	f.record("lineIntersectLevel(%v, %v)", *a, *b)
	f.fillResult(a, b)
	return f.LineHit
}

func (f *Functions) LineIntersectHuman(human int32, a, b *overlay.Vector) bool {
	f.record("lineIntersectHuman(%d, %v, %v)", human, *a, *b)
	f.fillResult(a, b)
	return f.LineHit
}

func (f *Functions) LineIntersectVehicle(vehicle int32, a, b *overlay.Vector) bool {
	f.record("lineIntersectVehicle(%d, %v, %v)", vehicle, *a, *b)
	f.fillResult(a, b)
	return f.LineHit
}

func (f *Functions) LineIntersectTriangle(out, normal *overlay.Vector, frac *float32, a, b, triA, triB, triC *overlay.Vector) bool {
	f.record("lineIntersectTriangle(%v, %v)", *a, *b)
	if f.LineHit {
		*out = a.Add(*b).Scale(0.5)
		*normal = overlay.Vector{Y: 1}
		*frac = 0.5
	}
	return f.LineHit
}

// fillResult stores the segment midpoint as the hit, as the host would
// fill lineIntersectResult.
func (f *Functions) fillResult(a, b *overlay.Vector) {
	if !f.LineHit || f.World.LineIntersectResult == nil {
		return
	}
	r := f.World.LineIntersectResult
	r.Pos = a.Add(*b).Scale(0.5)
	r.Normal = overlay.Vector{Y: 1}
	r.Fraction = 0.5
}
