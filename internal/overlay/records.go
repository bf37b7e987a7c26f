package overlay

// Record layouts of the 24c server binary. Every struct mirrors the host's
// memory byte for byte; regions whose meaning is unknown are kept as named
// Reserved arrays so the layout stays auditable. Sizes and offsets are pinned
// in records_test.go.

const (
	MaxConnections         = 256
	MaxAccounts            = 32768
	MaxPlayers             = 256
	MaxHumans              = 256
	MaxItemTypes           = 27
	MaxItems               = 1024
	MaxVehicleTypes        = 14
	MaxVehicles            = 1024
	MaxBullets             = 512
	MaxParticles           = 16384
	MaxBonds               = 16384
	MaxBuildings           = 128
	MaxStreets             = 512
	MaxStreetIntersections = 512
)

type Vector struct {
	X, Y, Z float32
}

type RotMatrix struct {
	X1, Y1, Z1 float32
	X2, Y2, Z2 float32
	X3, Y3, Z3 float32
}

// EarShot is one voice channel of a connection. 32 bytes.
type EarShot struct {
	Active             int32
	PlayerID           int32 // 04
	HumanID            int32 // 08
	ReceivingItemID    int32 // 0c
	TransmittingItemID int32 // 10
	Reserved0          [4]byte
	Distance           float32 // 18
	Volume             float32 // 1c
}

// 61808 bytes
type Connection struct {
	Address           uint32
	Port              uint32 // 04
	RoundNumber       int32  // 08
	AdminVisible      int32  // 0c
	PlayerID          int32  // 10
	Reserved0         [8]byte
	TimeoutTime       int32 // 1c
	Reserved1         [36]byte
	NumReceivedEvents int32 // 44
	Reserved2         [12]byte
	EarShots          [8]EarShot // 54
	SpectatingHumanID int32      // 154
	Reserved3         [61440]byte
	HeadPos           Vector // f158
	CameraPos         Vector // f164
}

// 76 bytes
type Account struct {
	Reserved0 [8]byte
	Token     int32    // 08
	Token2    int32    // 0c
	Name      [32]byte // 10
	Reserved1 [4]byte
	Money     int32 // 34
	PlayTime  int32 // 38
	EyeColor  int32 // 3c
	SkinColor int32 // 40
	HairColor int32 // 44
	Reserved2 [4]byte
}

// RayCastResult is written by the lineIntersect* engine functions.
type RayCastResult struct {
	Pos         Vector
	Normal      Vector  // 0c
	Fraction    float32 // 18
	Reserved0   [4]byte
	Reserved1   [16]byte
	VehicleFace int32 // 30
	HumanBone   int32 // 34
	Reserved2   [32]byte
	BlockX      int32 // 58
	BlockY      int32 // 5c
	BlockZ      int32 // 60
	Reserved3   [8]byte
	Material    int32 // 6c
	Reserved4   [20]byte
}

// 84 bytes
type Action struct {
	Type int32
	A    int32
	B    int32
	C    int32
	D    int32
	Text [64]byte
}

// 72 bytes
type MenuButton struct {
	ID        int32
	Text      [64]byte
	Reserved0 [4]byte
}

// 9224 bytes
type Player struct {
	Active            int32
	Name              [32]byte // 04
	Token             int32    // 24
	Token2            int32    // 28
	IsAdmin           uint32   // 2c
	AdminAttempts     uint32   // 30
	AccountID         uint32   // 34
	Reserved0         [4]byte
	IsReady           int32 // 3c
	Money             int32 // 40
	Reserved1         [8]byte
	ItemsBought       int32 // 4c
	VehiclesBought    int32 // 50
	WithdrawnBills    int32 // 54
	Reserved2         [12]byte
	Team              uint32 // 64
	TeamSwitchTimer   uint32 // 68
	Stocks            int32  // 6c
	Reserved3         [8]byte
	HumanID           int32   // 78
	GearX             float32 // 7c
	LeftRightInput    float32 // 80
	GearY             float32 // 84
	ForwardBackInput  float32 // 88
	ViewYaw           float32 // 8c
	ViewPitch         float32 // 90
	FreeLookYaw       float32 // 94
	FreeLookPitch     float32 // 98
	InputFlags        int32   // 9c
	LastInputFlags    int32   // a0
	Reserved4         [8]byte
	ZoomLevel         int32 // ac
	Reserved5         [20]byte
	IsCrouching       int32 // c4
	InputType         int32 // c8
	Reserved6         [8]byte
	MenuTab           int32 // d4, 0 none, 1-19 shop
	MenuTabBuildingID int32 // d8
	Reserved7         [8]byte
	NumActions        int32      // e4
	LastNumActions    int32      // e8
	Actions           [64]Action // ec
	Health            int32      // 15ec
	Reserved8         [1096]byte
	IsBot             int32 // 1a38
	BotDriving        int32 // 1a3c
	Reserved9         [2432]byte
	SuitColor         int32 // 23c0
	Sunglasses        int32 // 23c4
	Reserved10        [64]byte
}

// 224 bytes
type Bone struct {
	Pos       Vector
	Pos2      Vector // 0c
	Vel       Vector // 18
	Reserved0 [12]byte
	Rot       RotMatrix // 30
	RotVel    RotMatrix // 54
	Reserved1 [20]byte
	Mass      float32 // 8c
	Size      Vector  // 90
	Size2     Vector  // 9c
	Reserved2 [52]byte
	BondID    int32 // dc
}

// 36 bytes
type InventorySlot struct {
	Count           int32
	PrimaryItemID   int32
	SecondaryItemID int32
	Reserved0       [24]byte
}

// 11108 bytes
type Human struct {
	Active              int32
	PhysicsSim          int32 // 04
	PlayerID            int32 // 08
	AccountID           int32 // 0c
	Reserved0           [4]byte
	VehicleID           int32  // 14
	VehicleSeat         int32  // 18
	LastVehicleID       int32  // 1c
	LastVehicleCooldown int32  // 20
	DespawnTime         uint32 // 24, counts down after death
	Health              int32  // 28
	Reserved1           [4]byte
	VehicleExitTimer    int32  // 30
	SpawnProtection     uint32 // 34
	Reserved2           [4]byte
	ZoomLevel           int32 // 3c
	Reserved3           [8]byte
	Pos                 Vector // 48
	Reserved4           [12]byte
	ViewYaw2            float32 // 60
	ViewPitch2          float32 // 64
	Reserved5           [52]byte
	GearX               float32 // 9c
	StrafeInput         float32 // a0
	GearY               float32 // a4
	WalkInput           float32 // a8
	ViewYaw             float32 // ac
	ViewPitch           float32 // b0
	FreeLookYaw         float32 // b4
	FreeLookPitch       float32 // b8
	InputFlags          uint32  // bc
	LastInputFlags      uint32  // c0
	Reserved6           [4]byte
	Bones               [15]Bone // c8
	Reserved7           [6964]byte
	InventorySlots      [6]InventorySlot // 291c
	Reserved8           [296]byte
	IsBleeding          int32 // 2b1c
	Reserved9           [68]byte
}

// 408 bytes
type ItemType struct {
	Price          int32
	Mass           float32 // 04
	IsGun          int32   // 08
	PistolAim      int32   // 0c
	FireRate       int32   // 10, ticks per bullet
	BulletType     int32   // 14
	Reserved0      [8]byte
	BulletVelocity float32  // 20
	BulletSpread   float32  // 24
	Name           [32]byte // 28
	Reserved1      [336]byte
}

// 428 bytes
type Item struct {
	Active             int32
	PhysicsSim         int32   // 04
	PhysicsSettled     int32   // 08
	Type               int32   // 0c
	Mass               float32 // 10
	DespawnTime        int32   // 14
	ParentHumanID      int32   // 18
	ParentItemID       int32   // 1c
	ParentSlot         int32   // 20
	NumChildItems      int32   // 24
	ChildItemIDs       [4]int32
	Reserved0          [16]byte
	Pos                Vector    // 48
	Pos2               Vector    // 54
	Vel2               Vector    // 60
	Vel                Vector    // 6c
	Vel3               Vector    // 78
	Rot                RotMatrix // 84
	RotVel             RotMatrix // a8
	Reserved1          [12]byte
	Cooldown           int32 // d8
	Reserved2          [4]byte
	Bullets            int32 // e0
	Reserved3          [4]byte
	TriggerTicks       int32 // e8
	InputFlags         int32 // ec
	LastInputFlags     int32 // f0
	Reserved4          [4]byte
	ConnectedPhoneID   int32 // f8
	PhoneNumber        int32 // fc
	CallerRingTimer    int32 // 100
	DisplayPhoneNumber int32 // 104
	EnteredPhoneNumber int32 // 108
	PhoneTexture       int32 // 10c
	PhoneStatus        int32 // 110
	VehicleID          int32 // 114
	Reserved5          [28]byte
	CashSpread         int32 // 134
	CashBillAmount     int32 // 138
	CashPureValue      int32 // 13c
	Reserved6          [108]byte
}

// 152 bytes
type Wheel struct {
	IsPopped    int32
	IsDestroyed int32 // 04
	Health      int32 // 08
	Reserved0   [16]byte
	Mass        float32 // 1c
	Size        float32 // 20
	Reserved1   [116]byte
}

// 33420 bytes
type VehicleType struct {
	ControllableState int32
	Reserved0         [8]byte
	Name              [32]byte // 0c
	Price             int32    // 2c
	Mass              float32  // 30
	Reserved1         [30500]byte
	Acceleration      float32 // 7758
	NumWheels         int32   // 775c
	Reserved2         [2860]byte
}

// 33328 bytes
type Vehicle struct {
	Active             int32
	Type               uint32 // 04
	ControllableState  int32  // 08
	Health             int32  // 0c, default 100
	Reserved0          [4]byte
	LastDriverPlayerID int32  // 14
	Color              uint32 // 18
	DespawnTime        int16  // 1c, -1 never despawns
	Reserved1          [2]byte
	IsLocked           int32     // 20
	Pos                Vector    // 24
	Pos2               Vector    // 30
	Rot                RotMatrix // 3c
	Vel                Vector    // 60
	Vel2               Vector    // 6c
	Vel3               Vector    // 78
	BoundingBoxA       Vector    // 84
	BoundingBoxB       Vector    // 90
	Reserved2          [12]byte
	NumParticles       int32    // a8
	Particles          [8]int32 // ac
	Reserved3          [23280]byte
	GearX              float32 // 5bbc
	SteerControl       float32 // 5bc0
	GearY              float32 // 5bc4
	GasControl         float32 // 5bc8
	Reserved4          [16]byte
	InputFlags         int32 // 5bdc
	Reserved5          [632]byte
	Acceleration       float32 // 5e58
	Reserved6          [132]byte
	EngineRPM          int32 // 5ee0
	Reserved7          [4]byte
	NumWheels          int32    // 5ee8
	Wheels             [6]Wheel // 5eec
	Reserved8          [8116]byte
}

// 92 bytes
type Bullet struct {
	Type      uint32
	Time      int32 // 04
	PlayerID  int32 // 08
	Reserved0 [8]byte
	LastPos   Vector // 14
	Pos       Vector // 20
	Vel       Vector // 2c
	Reserved1 [36]byte
}

// 240 bytes. In 24c only vehicles own particles.
type Particle struct {
	Type        int32
	DespawnTime int32 // 04
	Reserved0   [4]byte
	Gravity     float32 // 0c
	Reserved1   [4]byte
	Pos         Vector // 14
	Pos2        Vector // 20
	Vel         Vector // 2c
	Vel2        Vector // 38
	Reserved2   [144]byte
	NumVehicles int32    // d4
	Vehicles    [6]int32 // d8
}

// 236 bytes. Type 4 is rigidbody-level, 7 rigidbody-rigidbody,
// 8 rigidbody-rot-rigidbody.
type Bond struct {
	Type          int32
	Reserved0     [4]byte
	DespawnTime   int32 // 08
	LocalIndex    int32 // 0c
	Reserved1     [8]byte
	LocalPos      Vector // 18, level bonds
	Reserved2     [4]byte
	OtherLocalPos Vector // 28
	GlobalPos     Vector // 34
	Reserved3     [80]byte
	HumanID       int32 // 90, only meaningful for some types
	BodyID        int32 // 94
	OtherBodyID   int32 // 98
	Reserved4     [80]byte
}

// 12 bytes
type ShopCar struct {
	Type  int32
	Price int32
	Color int32
}

// 2524 bytes
type Building struct {
	Type            int32
	Reserved0       [12]byte
	Pos             Vector // 10
	InteriorCuboidA Vector // 1c
	InteriorCuboidB Vector // 28
	Reserved1       [2196]byte
	NumShopCars     int32       // 8c8
	ShopCars        [16]ShopCar // 8cc
	ShopCarSales    int32       // 98c
	Reserved2       [76]byte
}

// 28 bytes
type StreetLane struct {
	Direction int32
	PosA      Vector
	PosB      Vector
}

// 1580 bytes
type Street struct {
	Name           [32]byte
	IntersectionA  int32 // 20
	IntersectionB  int32 // 24
	Reserved0      [12]byte
	NumLanes       int32          // 34
	Lanes          [16]StreetLane // 38
	Reserved1      [24]byte
	TrafficCuboidA Vector // 210
	TrafficCuboidB Vector // 21c
	NumTraffic     int32  // 228
	Reserved2      [1024]byte
}

// 104 bytes
type StreetIntersection struct {
	// The host stores the block position as a tuple, last element first.
	BlockZ         int32
	BlockY         int32  // 04
	BlockX         int32  // 08
	Pos            Vector // 0c
	StreetEast     int32  // 18
	StreetSouth    int32  // 1c
	StreetWest     int32  // 20
	StreetNorth    int32  // 24
	Reserved0      [28]byte
	LightsState    int32 // 44
	LightsTimer    int32 // 48
	LightsTimerMax int32 // 4c
	LightEast      int32 // 50
	LightSouth     int32 // 54
	LightWest      int32 // 58
	LightNorth     int32 // 5c
	Reserved1      [8]byte
}
