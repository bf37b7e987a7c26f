package game

import "github.com/rosa-go/rosaserver/internal/overlay"

// Functions are the host engine routines available to scripts. Hooked
// routines are reached through their trampolines, so calling one does not
// re-enter the script hooks.
type Functions interface {
	ResetGame()
	CreateTraffic(amount int32)
	ScenarioArmHuman(human, weapon, magCount int32)
	SaveAccountsServer()
	BulletTimeToLive()

	LinkItem(item, childItem, parentHuman, slot int32) bool
	ItemCashAddBill(item, zero, value int32)
	ItemCashRemoveBill(item, value int32)
	ItemCashGetBillValue(item int32) int32

	HumanApplyDamage(human, bone, unk, damage int32)
	VehicleApplyDamage(vehicle, damage int32)

	CreatePlayer() int32
	DeletePlayer(player int32)
	CreateHuman(pos *overlay.Vector, rot *overlay.RotMatrix, player int32) int32
	DeleteHuman(human int32)
	CreateItem(typ int32, pos, vel *overlay.Vector, rot *overlay.RotMatrix) int32
	DeleteItem(item int32)
	CreateBullet(typ int32, pos, vel *overlay.Vector, player int32) int32
	CreateVehicle(typ int32, pos, vel *overlay.Vector, rot *overlay.RotMatrix, color int32) int32
	DeleteVehicle(vehicle int32)

	CreateEventMessage(speakerType int32, message string, speaker, distance int32)
	CreateEventUpdatePlayer(player int32)
	CreateEventUpdatePlayerFinance(player int32)
	CreateEventUpdateHuman(human int32)
	CreateEventUpdateItem(item int32)
	CreateEventUpdateItemInfo(item int32)
	CreateEventCreateVehicle(vehicle int32)
	CreateEventUpdateVehicle(vehicle, updateType, part int32, pos, normal *overlay.Vector)
	CreateEventSound(sound int32, pos *overlay.Vector, volume, pitch float32)
	CreateEventBullet(typ int32, pos, vel *overlay.Vector, item int32)
	CreateEventBulletHit(unk, hitType int32, pos, normal *overlay.Vector)

	LineIntersectLevel(a, b *overlay.Vector) bool
	LineIntersectHuman(human int32, a, b *overlay.Vector) bool
	LineIntersectVehicle(vehicle int32, a, b *overlay.Vector) bool
	LineIntersectTriangle(out, normal *overlay.Vector, frac *float32, a, b, triA, triB, triC *overlay.Vector) bool
}

// CallSymbols are the routines Functions reaches directly; every hook symbol
// is callable as well.
var CallSymbols = []string{
	"scenarioArmHuman",
	"bulletTimeToLive",
	"itemCashAddBill",
	"itemCashRemoveBill",
	"itemCashGetBillValue",
	"createEventUpdatePlayerFinance",
	"createEventSound",
	"lineIntersectLevel",
	"lineIntersectVehicle",
	"lineIntersectTriangle",
}
