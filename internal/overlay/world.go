package overlay

import (
	"fmt"
	"unsafe"
)

// Addresser hands out absolute addresses of named data symbols. size is the
// number of bytes the caller will access there.
type Addresser interface {
	Data(name string, size uintptr) (uintptr, error)
}

// Globals are the scalar server variables.
type Globals struct {
	Version           *uint32
	ServerName        *[32]byte
	Port              *uint32
	MaxBytesPerSecond *uint32
	NumEvents         *uint32
	AdminPassword     *[32]byte
	MaxPlayers        *int32
	DoVoiceChat       *int32
	Gravity           *float32
	GameType          *int32
	GameState         *int32
	GameTimer         *int32
	TicksSinceReset   *int32
	SunTime           *uint32

	LineIntersectResult *RayCastResult

	// DefaultGravity is the gravity read at bind time.
	DefaultGravity float32
}

// World is the whole overlay over one server process.
type World struct {
	Globals

	Connections   *Table[Connection]
	Accounts      *Table[Account]
	Players       *Table[Player]
	Humans        *Table[Human]
	ItemTypes     *Table[ItemType]
	Items         *Table[Item]
	VehicleTypes  *Table[VehicleType]
	Vehicles      *Table[Vehicle]
	Bullets       *Table[Bullet]
	Particles     *Table[Particle]
	Bonds         *Table[Bond]
	Buildings     *Table[Building]
	Streets       *Table[Street]
	Intersections *Table[StreetIntersection]
}

type binder struct {
	a   Addresser
	err error
}

func (b *binder) ptr(name string, size uintptr) unsafe.Pointer {
	if b.err != nil {
		return nil
	}
	addr, err := b.a.Data(name, size)
	if err != nil {
		b.err = fmt.Errorf("bind %s: %w", name, err)
		return nil
	}
	return unsafe.Pointer(addr)
}

func bindTable[T any](b *binder, name, counter string, max int) *Table[T] {
	var zero T
	base := b.ptr(name, unsafe.Sizeof(zero)*uintptr(max))
	var n *uint32
	if counter != "" {
		n = (*uint32)(b.ptr(counter, 4))
	}
	return NewTable[T](name, base, max, n)
}

// Bind builds the world from resolved addresses. The first missing symbol
// aborts binding.
func Bind(a Addresser) (*World, error) {
	b := &binder{a: a}
	w := &World{}
	w.Version = (*uint32)(b.ptr("version", 4))
	w.ServerName = (*[32]byte)(b.ptr("serverName", 32))
	w.Port = (*uint32)(b.ptr("serverPort", 4))
	w.MaxBytesPerSecond = (*uint32)(b.ptr("serverMaxBytesPerSecond", 4))
	w.NumEvents = (*uint32)(b.ptr("numEvents", 4))
	w.AdminPassword = (*[32]byte)(b.ptr("adminPassword", 32))
	w.MaxPlayers = (*int32)(b.ptr("maxPlayers", 4))
	w.DoVoiceChat = (*int32)(b.ptr("doVoiceChat", 4))
	w.Gravity = (*float32)(b.ptr("gravity", 4))
	w.GameType = (*int32)(b.ptr("gameType", 4))
	w.GameState = (*int32)(b.ptr("gameState", 4))
	w.GameTimer = (*int32)(b.ptr("gameTimer", 4))
	w.TicksSinceReset = (*int32)(b.ptr("gameTicksSinceReset", 4))
	w.SunTime = (*uint32)(b.ptr("sunTime", 4))
	w.LineIntersectResult = (*RayCastResult)(b.ptr("lineIntersectResult", unsafe.Sizeof(RayCastResult{})))

	w.Connections = bindTable[Connection](b, "connections", "numConnections", MaxConnections)
	w.Accounts = bindTable[Account](b, "accounts", "", MaxAccounts)
	w.Players = bindTable[Player](b, "players", "", MaxPlayers)
	w.Humans = bindTable[Human](b, "humans", "", MaxHumans)
	w.ItemTypes = bindTable[ItemType](b, "itemTypes", "", MaxItemTypes)
	w.Items = bindTable[Item](b, "items", "", MaxItems)
	w.VehicleTypes = bindTable[VehicleType](b, "vehicleTypes", "", MaxVehicleTypes)
	w.Vehicles = bindTable[Vehicle](b, "vehicles", "", MaxVehicles)
	w.Bullets = bindTable[Bullet](b, "bullets", "numBullets", MaxBullets)
	w.Particles = bindTable[Particle](b, "particles", "numParticles", MaxParticles)
	w.Bonds = bindTable[Bond](b, "bonds", "numBonds", MaxBonds)
	w.Buildings = bindTable[Building](b, "buildings", "numBuildings", MaxBuildings)
	w.Streets = bindTable[Street](b, "streets", "numStreets", MaxStreets)
	w.Intersections = bindTable[StreetIntersection](b, "streetIntersections", "numStreetIntersections", MaxStreetIntersections)
	if b.err != nil {
		return nil, b.err
	}
	w.DefaultGravity = *w.Gravity
	return w, nil
}

// Relationship accessors. Each returns nil for "no relation".

func (w *World) HumanPlayer(h *Human) *Player              { return w.Players.Link(h.PlayerID) }
func (w *World) HumanVehicle(h *Human) *Vehicle            { return w.Vehicles.Link(h.VehicleID) }
func (w *World) HumanAccount(h *Human) *Account            { return w.Accounts.Link(h.AccountID) }
func (w *World) PlayerHuman(p *Player) *Human              { return w.Humans.Link(p.HumanID) }
func (w *World) PlayerAccount(p *Player) *Account          { return w.Accounts.Link(int32(p.AccountID)) }
func (w *World) ItemType(it *Item) *ItemType               { return w.ItemTypes.Link(it.Type) }
func (w *World) ItemParentHuman(it *Item) *Human           { return w.Humans.Link(it.ParentHumanID) }
func (w *World) ItemParentItem(it *Item) *Item             { return w.Items.Link(it.ParentItemID) }
func (w *World) ItemVehicle(it *Item) *Vehicle             { return w.Vehicles.Link(it.VehicleID) }
func (w *World) ItemConnectedPhone(it *Item) *Item         { return w.Items.Link(it.ConnectedPhoneID) }
func (w *World) VehicleType(v *Vehicle) *VehicleType       { return w.VehicleTypes.Link(int32(v.Type)) }
func (w *World) VehicleLastDriver(v *Vehicle) *Player      { return w.Players.Link(v.LastDriverPlayerID) }
func (w *World) BulletPlayer(b *Bullet) *Player            { return w.Players.Link(b.PlayerID) }
func (w *World) BondHuman(b *Bond) *Human                  { return w.Humans.Link(b.HumanID) }
func (w *World) ShopCarType(s *ShopCar) *VehicleType       { return w.VehicleTypes.Link(s.Type) }
func (w *World) InventoryPrimary(s *InventorySlot) *Item   { return w.Items.Link(s.PrimaryItemID) }
func (w *World) InventorySecondary(s *InventorySlot) *Item { return w.Items.Link(s.SecondaryItemID) }
func (w *World) ConnectionPlayer(c *Connection) *Player    { return w.Players.Link(c.PlayerID) }
func (w *World) ConnectionSpectating(c *Connection) *Human { return w.Humans.Link(c.SpectatingHumanID) }
func (w *World) EarShotPlayer(e *EarShot) *Player          { return w.Players.Link(e.PlayerID) }
func (w *World) EarShotHuman(e *EarShot) *Human            { return w.Humans.Link(e.HumanID) }
func (w *World) EarShotReceiving(e *EarShot) *Item         { return w.Items.Link(e.ReceivingItemID) }
func (w *World) EarShotTransmitting(e *EarShot) *Item      { return w.Items.Link(e.TransmittingItemID) }
func (w *World) StreetA(s *Street) *StreetIntersection     { return w.Intersections.Link(s.IntersectionA) }
func (w *World) StreetB(s *Street) *StreetIntersection     { return w.Intersections.Link(s.IntersectionB) }

// ItemChild resolves child slot i of an item, bounds-checked against the
// child array.
func (w *World) ItemChild(it *Item, i int) (*Item, error) {
	id, err := At(it.ChildItemIDs[:], "Item.childItems", i)
	if err != nil {
		return nil, err
	}
	return w.Items.Link(*id), nil
}

// VehicleParticle resolves particle i of a vehicle.
func (w *World) VehicleParticle(v *Vehicle, i int) (*Particle, error) {
	id, err := At(v.Particles[:], "Vehicle.particles", i)
	if err != nil {
		return nil, err
	}
	return w.Particles.Link(*id), nil
}

// ParticleVehicle resolves vehicle i of a particle.
func (w *World) ParticleVehicle(p *Particle, i int) (*Vehicle, error) {
	id, err := At(p.Vehicles[:], "Particle.vehicles", i)
	if err != nil {
		return nil, err
	}
	return w.Vehicles.Link(*id), nil
}

// PlayerConnection finds the connection currently bound to p, scanning the
// live connections.
func (w *World) PlayerConnection(p *Player) *Connection {
	id := int32(w.Players.Index(p))
	n := w.Connections.Count()
	for i := 0; i < n; i++ {
		c := w.Connections.MustGet(i)
		if c.PlayerID == id {
			return c
		}
	}
	return nil
}

// VehicleTypeByName returns the first vehicle type with the given name.
func (w *World) VehicleTypeByName(name string) *VehicleType {
	for i := 0; i < w.VehicleTypes.Max(); i++ {
		t := w.VehicleTypes.MustGet(i)
		if CString(t.Name[:]) == name {
			return t
		}
	}
	return nil
}
