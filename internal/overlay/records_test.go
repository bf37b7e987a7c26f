package overlay

import (
	"testing"
	"unsafe"
)

func TestRecordSizes(t *testing.T) {
	for _, tc := range []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Vector", unsafe.Sizeof(Vector{}), 12},
		{"RotMatrix", unsafe.Sizeof(RotMatrix{}), 36},
		{"EarShot", unsafe.Sizeof(EarShot{}), 32},
		{"Connection", unsafe.Sizeof(Connection{}), 61808},
		{"Account", unsafe.Sizeof(Account{}), 76},
		{"RayCastResult", unsafe.Sizeof(RayCastResult{}), 132},
		{"Action", unsafe.Sizeof(Action{}), 84},
		{"MenuButton", unsafe.Sizeof(MenuButton{}), 72},
		{"Player", unsafe.Sizeof(Player{}), 9224},
		{"Bone", unsafe.Sizeof(Bone{}), 224},
		{"InventorySlot", unsafe.Sizeof(InventorySlot{}), 36},
		{"Human", unsafe.Sizeof(Human{}), 11108},
		{"ItemType", unsafe.Sizeof(ItemType{}), 408},
		{"Item", unsafe.Sizeof(Item{}), 428},
		{"Wheel", unsafe.Sizeof(Wheel{}), 152},
		{"VehicleType", unsafe.Sizeof(VehicleType{}), 33420},
		{"Vehicle", unsafe.Sizeof(Vehicle{}), 33328},
		{"Bullet", unsafe.Sizeof(Bullet{}), 92},
		{"Particle", unsafe.Sizeof(Particle{}), 240},
		{"Bond", unsafe.Sizeof(Bond{}), 236},
		{"ShopCar", unsafe.Sizeof(ShopCar{}), 12},
		{"Building", unsafe.Sizeof(Building{}), 2524},
		{"StreetLane", unsafe.Sizeof(StreetLane{}), 28},
		{"Street", unsafe.Sizeof(Street{}), 1580},
		{"StreetIntersection", unsafe.Sizeof(StreetIntersection{}), 104},
	} {
		if tc.got != tc.want {
			t.Errorf("sizeof(%s) = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

// Offsets of every named field, as found in the server binary.
func TestFieldOffsets(t *testing.T) {
	var (
		earShot            EarShot
		connection         Connection
		account            Account
		rayCastResult      RayCastResult
		action             Action
		menuButton         MenuButton
		player             Player
		bone               Bone
		inventorySlot      InventorySlot
		human              Human
		itemType           ItemType
		item               Item
		wheel              Wheel
		vehicleType        VehicleType
		vehicle            Vehicle
		bullet             Bullet
		particle           Particle
		bond               Bond
		shopCar            ShopCar
		building           Building
		streetLane         StreetLane
		street             Street
		streetIntersection StreetIntersection
	)
	for _, tc := range []struct {
		field string
		got   uintptr
		want  uintptr
	}{
		{"EarShot.PlayerID", unsafe.Offsetof(earShot.PlayerID), 0x4},
		{"EarShot.HumanID", unsafe.Offsetof(earShot.HumanID), 0x8},
		{"EarShot.ReceivingItemID", unsafe.Offsetof(earShot.ReceivingItemID), 0xc},
		{"EarShot.TransmittingItemID", unsafe.Offsetof(earShot.TransmittingItemID), 0x10},
		{"EarShot.Distance", unsafe.Offsetof(earShot.Distance), 0x18},
		{"EarShot.Volume", unsafe.Offsetof(earShot.Volume), 0x1c},
		{"Connection.Port", unsafe.Offsetof(connection.Port), 0x4},
		{"Connection.RoundNumber", unsafe.Offsetof(connection.RoundNumber), 0x8},
		{"Connection.AdminVisible", unsafe.Offsetof(connection.AdminVisible), 0xc},
		{"Connection.PlayerID", unsafe.Offsetof(connection.PlayerID), 0x10},
		{"Connection.TimeoutTime", unsafe.Offsetof(connection.TimeoutTime), 0x1c},
		{"Connection.NumReceivedEvents", unsafe.Offsetof(connection.NumReceivedEvents), 0x44},
		{"Connection.EarShots", unsafe.Offsetof(connection.EarShots), 0x54},
		{"Connection.SpectatingHumanID", unsafe.Offsetof(connection.SpectatingHumanID), 0x154},
		{"Connection.HeadPos", unsafe.Offsetof(connection.HeadPos), 0xf158},
		{"Connection.CameraPos", unsafe.Offsetof(connection.CameraPos), 0xf164},
		{"Account.Token", unsafe.Offsetof(account.Token), 0x8},
		{"Account.Token2", unsafe.Offsetof(account.Token2), 0xc},
		{"Account.Name", unsafe.Offsetof(account.Name), 0x10},
		{"Account.Money", unsafe.Offsetof(account.Money), 0x34},
		{"Account.PlayTime", unsafe.Offsetof(account.PlayTime), 0x38},
		{"Account.EyeColor", unsafe.Offsetof(account.EyeColor), 0x3c},
		{"Account.SkinColor", unsafe.Offsetof(account.SkinColor), 0x40},
		{"Account.HairColor", unsafe.Offsetof(account.HairColor), 0x44},
		{"RayCastResult.Normal", unsafe.Offsetof(rayCastResult.Normal), 0xc},
		{"RayCastResult.Fraction", unsafe.Offsetof(rayCastResult.Fraction), 0x18},
		{"RayCastResult.VehicleFace", unsafe.Offsetof(rayCastResult.VehicleFace), 0x30},
		{"RayCastResult.HumanBone", unsafe.Offsetof(rayCastResult.HumanBone), 0x34},
		{"RayCastResult.BlockX", unsafe.Offsetof(rayCastResult.BlockX), 0x58},
		{"RayCastResult.BlockY", unsafe.Offsetof(rayCastResult.BlockY), 0x5c},
		{"RayCastResult.BlockZ", unsafe.Offsetof(rayCastResult.BlockZ), 0x60},
		{"RayCastResult.Material", unsafe.Offsetof(rayCastResult.Material), 0x6c},
		{"Action.A", unsafe.Offsetof(action.A), 0x4},
		{"Action.B", unsafe.Offsetof(action.B), 0x8},
		{"Action.C", unsafe.Offsetof(action.C), 0xc},
		{"Action.D", unsafe.Offsetof(action.D), 0x10},
		{"Action.Text", unsafe.Offsetof(action.Text), 0x14},
		{"MenuButton.Text", unsafe.Offsetof(menuButton.Text), 0x4},
		{"Player.Name", unsafe.Offsetof(player.Name), 0x4},
		{"Player.Token", unsafe.Offsetof(player.Token), 0x24},
		{"Player.Token2", unsafe.Offsetof(player.Token2), 0x28},
		{"Player.IsAdmin", unsafe.Offsetof(player.IsAdmin), 0x2c},
		{"Player.AdminAttempts", unsafe.Offsetof(player.AdminAttempts), 0x30},
		{"Player.AccountID", unsafe.Offsetof(player.AccountID), 0x34},
		{"Player.IsReady", unsafe.Offsetof(player.IsReady), 0x3c},
		{"Player.Money", unsafe.Offsetof(player.Money), 0x40},
		{"Player.ItemsBought", unsafe.Offsetof(player.ItemsBought), 0x4c},
		{"Player.VehiclesBought", unsafe.Offsetof(player.VehiclesBought), 0x50},
		{"Player.WithdrawnBills", unsafe.Offsetof(player.WithdrawnBills), 0x54},
		{"Player.Team", unsafe.Offsetof(player.Team), 0x64},
		{"Player.TeamSwitchTimer", unsafe.Offsetof(player.TeamSwitchTimer), 0x68},
		{"Player.Stocks", unsafe.Offsetof(player.Stocks), 0x6c},
		{"Player.HumanID", unsafe.Offsetof(player.HumanID), 0x78},
		{"Player.GearX", unsafe.Offsetof(player.GearX), 0x7c},
		{"Player.LeftRightInput", unsafe.Offsetof(player.LeftRightInput), 0x80},
		{"Player.GearY", unsafe.Offsetof(player.GearY), 0x84},
		{"Player.ForwardBackInput", unsafe.Offsetof(player.ForwardBackInput), 0x88},
		{"Player.ViewYaw", unsafe.Offsetof(player.ViewYaw), 0x8c},
		{"Player.ViewPitch", unsafe.Offsetof(player.ViewPitch), 0x90},
		{"Player.FreeLookYaw", unsafe.Offsetof(player.FreeLookYaw), 0x94},
		{"Player.FreeLookPitch", unsafe.Offsetof(player.FreeLookPitch), 0x98},
		{"Player.InputFlags", unsafe.Offsetof(player.InputFlags), 0x9c},
		{"Player.LastInputFlags", unsafe.Offsetof(player.LastInputFlags), 0xa0},
		{"Player.ZoomLevel", unsafe.Offsetof(player.ZoomLevel), 0xac},
		{"Player.IsCrouching", unsafe.Offsetof(player.IsCrouching), 0xc4},
		{"Player.InputType", unsafe.Offsetof(player.InputType), 0xc8},
		{"Player.MenuTab", unsafe.Offsetof(player.MenuTab), 0xd4},
		{"Player.MenuTabBuildingID", unsafe.Offsetof(player.MenuTabBuildingID), 0xd8},
		{"Player.NumActions", unsafe.Offsetof(player.NumActions), 0xe4},
		{"Player.LastNumActions", unsafe.Offsetof(player.LastNumActions), 0xe8},
		{"Player.Actions", unsafe.Offsetof(player.Actions), 0xec},
		{"Player.Health", unsafe.Offsetof(player.Health), 0x15ec},
		{"Player.IsBot", unsafe.Offsetof(player.IsBot), 0x1a38},
		{"Player.BotDriving", unsafe.Offsetof(player.BotDriving), 0x1a3c},
		{"Player.SuitColor", unsafe.Offsetof(player.SuitColor), 0x23c0},
		{"Player.Sunglasses", unsafe.Offsetof(player.Sunglasses), 0x23c4},
		{"Bone.Pos2", unsafe.Offsetof(bone.Pos2), 0xc},
		{"Bone.Vel", unsafe.Offsetof(bone.Vel), 0x18},
		{"Bone.Rot", unsafe.Offsetof(bone.Rot), 0x30},
		{"Bone.RotVel", unsafe.Offsetof(bone.RotVel), 0x54},
		{"Bone.Mass", unsafe.Offsetof(bone.Mass), 0x8c},
		{"Bone.Size", unsafe.Offsetof(bone.Size), 0x90},
		{"Bone.Size2", unsafe.Offsetof(bone.Size2), 0x9c},
		{"Bone.BondID", unsafe.Offsetof(bone.BondID), 0xdc},
		{"InventorySlot.PrimaryItemID", unsafe.Offsetof(inventorySlot.PrimaryItemID), 0x4},
		{"InventorySlot.SecondaryItemID", unsafe.Offsetof(inventorySlot.SecondaryItemID), 0x8},
		{"Human.PhysicsSim", unsafe.Offsetof(human.PhysicsSim), 0x4},
		{"Human.PlayerID", unsafe.Offsetof(human.PlayerID), 0x8},
		{"Human.AccountID", unsafe.Offsetof(human.AccountID), 0xc},
		{"Human.VehicleID", unsafe.Offsetof(human.VehicleID), 0x14},
		{"Human.VehicleSeat", unsafe.Offsetof(human.VehicleSeat), 0x18},
		{"Human.LastVehicleID", unsafe.Offsetof(human.LastVehicleID), 0x1c},
		{"Human.LastVehicleCooldown", unsafe.Offsetof(human.LastVehicleCooldown), 0x20},
		{"Human.DespawnTime", unsafe.Offsetof(human.DespawnTime), 0x24},
		{"Human.Health", unsafe.Offsetof(human.Health), 0x28},
		{"Human.VehicleExitTimer", unsafe.Offsetof(human.VehicleExitTimer), 0x30},
		{"Human.SpawnProtection", unsafe.Offsetof(human.SpawnProtection), 0x34},
		{"Human.ZoomLevel", unsafe.Offsetof(human.ZoomLevel), 0x3c},
		{"Human.Pos", unsafe.Offsetof(human.Pos), 0x48},
		{"Human.ViewYaw2", unsafe.Offsetof(human.ViewYaw2), 0x60},
		{"Human.ViewPitch2", unsafe.Offsetof(human.ViewPitch2), 0x64},
		{"Human.GearX", unsafe.Offsetof(human.GearX), 0x9c},
		{"Human.StrafeInput", unsafe.Offsetof(human.StrafeInput), 0xa0},
		{"Human.GearY", unsafe.Offsetof(human.GearY), 0xa4},
		{"Human.WalkInput", unsafe.Offsetof(human.WalkInput), 0xa8},
		{"Human.ViewYaw", unsafe.Offsetof(human.ViewYaw), 0xac},
		{"Human.ViewPitch", unsafe.Offsetof(human.ViewPitch), 0xb0},
		{"Human.FreeLookYaw", unsafe.Offsetof(human.FreeLookYaw), 0xb4},
		{"Human.FreeLookPitch", unsafe.Offsetof(human.FreeLookPitch), 0xb8},
		{"Human.InputFlags", unsafe.Offsetof(human.InputFlags), 0xbc},
		{"Human.LastInputFlags", unsafe.Offsetof(human.LastInputFlags), 0xc0},
		{"Human.Bones", unsafe.Offsetof(human.Bones), 0xc8},
		{"Human.InventorySlots", unsafe.Offsetof(human.InventorySlots), 0x291c},
		{"Human.IsBleeding", unsafe.Offsetof(human.IsBleeding), 0x2b1c},
		{"ItemType.Mass", unsafe.Offsetof(itemType.Mass), 0x4},
		{"ItemType.IsGun", unsafe.Offsetof(itemType.IsGun), 0x8},
		{"ItemType.PistolAim", unsafe.Offsetof(itemType.PistolAim), 0xc},
		{"ItemType.FireRate", unsafe.Offsetof(itemType.FireRate), 0x10},
		{"ItemType.BulletType", unsafe.Offsetof(itemType.BulletType), 0x14},
		{"ItemType.BulletVelocity", unsafe.Offsetof(itemType.BulletVelocity), 0x20},
		{"ItemType.BulletSpread", unsafe.Offsetof(itemType.BulletSpread), 0x24},
		{"ItemType.Name", unsafe.Offsetof(itemType.Name), 0x28},
		{"Item.PhysicsSim", unsafe.Offsetof(item.PhysicsSim), 0x4},
		{"Item.PhysicsSettled", unsafe.Offsetof(item.PhysicsSettled), 0x8},
		{"Item.Type", unsafe.Offsetof(item.Type), 0xc},
		{"Item.Mass", unsafe.Offsetof(item.Mass), 0x10},
		{"Item.DespawnTime", unsafe.Offsetof(item.DespawnTime), 0x14},
		{"Item.ParentHumanID", unsafe.Offsetof(item.ParentHumanID), 0x18},
		{"Item.ParentItemID", unsafe.Offsetof(item.ParentItemID), 0x1c},
		{"Item.ParentSlot", unsafe.Offsetof(item.ParentSlot), 0x20},
		{"Item.NumChildItems", unsafe.Offsetof(item.NumChildItems), 0x24},
		{"Item.ChildItemIDs", unsafe.Offsetof(item.ChildItemIDs), 0x28},
		{"Item.Pos", unsafe.Offsetof(item.Pos), 0x48},
		{"Item.Pos2", unsafe.Offsetof(item.Pos2), 0x54},
		{"Item.Vel2", unsafe.Offsetof(item.Vel2), 0x60},
		{"Item.Vel", unsafe.Offsetof(item.Vel), 0x6c},
		{"Item.Vel3", unsafe.Offsetof(item.Vel3), 0x78},
		{"Item.Rot", unsafe.Offsetof(item.Rot), 0x84},
		{"Item.RotVel", unsafe.Offsetof(item.RotVel), 0xa8},
		{"Item.Cooldown", unsafe.Offsetof(item.Cooldown), 0xd8},
		{"Item.Bullets", unsafe.Offsetof(item.Bullets), 0xe0},
		{"Item.TriggerTicks", unsafe.Offsetof(item.TriggerTicks), 0xe8},
		{"Item.InputFlags", unsafe.Offsetof(item.InputFlags), 0xec},
		{"Item.LastInputFlags", unsafe.Offsetof(item.LastInputFlags), 0xf0},
		{"Item.ConnectedPhoneID", unsafe.Offsetof(item.ConnectedPhoneID), 0xf8},
		{"Item.PhoneNumber", unsafe.Offsetof(item.PhoneNumber), 0xfc},
		{"Item.CallerRingTimer", unsafe.Offsetof(item.CallerRingTimer), 0x100},
		{"Item.DisplayPhoneNumber", unsafe.Offsetof(item.DisplayPhoneNumber), 0x104},
		{"Item.EnteredPhoneNumber", unsafe.Offsetof(item.EnteredPhoneNumber), 0x108},
		{"Item.PhoneTexture", unsafe.Offsetof(item.PhoneTexture), 0x10c},
		{"Item.PhoneStatus", unsafe.Offsetof(item.PhoneStatus), 0x110},
		{"Item.VehicleID", unsafe.Offsetof(item.VehicleID), 0x114},
		{"Item.CashSpread", unsafe.Offsetof(item.CashSpread), 0x134},
		{"Item.CashBillAmount", unsafe.Offsetof(item.CashBillAmount), 0x138},
		{"Item.CashPureValue", unsafe.Offsetof(item.CashPureValue), 0x13c},
		{"Wheel.IsDestroyed", unsafe.Offsetof(wheel.IsDestroyed), 0x4},
		{"Wheel.Health", unsafe.Offsetof(wheel.Health), 0x8},
		{"Wheel.Mass", unsafe.Offsetof(wheel.Mass), 0x1c},
		{"Wheel.Size", unsafe.Offsetof(wheel.Size), 0x20},
		{"VehicleType.Name", unsafe.Offsetof(vehicleType.Name), 0xc},
		{"VehicleType.Price", unsafe.Offsetof(vehicleType.Price), 0x2c},
		{"VehicleType.Mass", unsafe.Offsetof(vehicleType.Mass), 0x30},
		{"VehicleType.Acceleration", unsafe.Offsetof(vehicleType.Acceleration), 0x7758},
		{"VehicleType.NumWheels", unsafe.Offsetof(vehicleType.NumWheels), 0x775c},
		{"Vehicle.Type", unsafe.Offsetof(vehicle.Type), 0x4},
		{"Vehicle.ControllableState", unsafe.Offsetof(vehicle.ControllableState), 0x8},
		{"Vehicle.Health", unsafe.Offsetof(vehicle.Health), 0xc},
		{"Vehicle.LastDriverPlayerID", unsafe.Offsetof(vehicle.LastDriverPlayerID), 0x14},
		{"Vehicle.Color", unsafe.Offsetof(vehicle.Color), 0x18},
		{"Vehicle.DespawnTime", unsafe.Offsetof(vehicle.DespawnTime), 0x1c},
		{"Vehicle.IsLocked", unsafe.Offsetof(vehicle.IsLocked), 0x20},
		{"Vehicle.Pos", unsafe.Offsetof(vehicle.Pos), 0x24},
		{"Vehicle.Pos2", unsafe.Offsetof(vehicle.Pos2), 0x30},
		{"Vehicle.Rot", unsafe.Offsetof(vehicle.Rot), 0x3c},
		{"Vehicle.Vel", unsafe.Offsetof(vehicle.Vel), 0x60},
		{"Vehicle.Vel2", unsafe.Offsetof(vehicle.Vel2), 0x6c},
		{"Vehicle.Vel3", unsafe.Offsetof(vehicle.Vel3), 0x78},
		{"Vehicle.BoundingBoxA", unsafe.Offsetof(vehicle.BoundingBoxA), 0x84},
		{"Vehicle.BoundingBoxB", unsafe.Offsetof(vehicle.BoundingBoxB), 0x90},
		{"Vehicle.NumParticles", unsafe.Offsetof(vehicle.NumParticles), 0xa8},
		{"Vehicle.Particles", unsafe.Offsetof(vehicle.Particles), 0xac},
		{"Vehicle.GearX", unsafe.Offsetof(vehicle.GearX), 0x5bbc},
		{"Vehicle.SteerControl", unsafe.Offsetof(vehicle.SteerControl), 0x5bc0},
		{"Vehicle.GearY", unsafe.Offsetof(vehicle.GearY), 0x5bc4},
		{"Vehicle.GasControl", unsafe.Offsetof(vehicle.GasControl), 0x5bc8},
		{"Vehicle.InputFlags", unsafe.Offsetof(vehicle.InputFlags), 0x5bdc},
		{"Vehicle.Acceleration", unsafe.Offsetof(vehicle.Acceleration), 0x5e58},
		{"Vehicle.EngineRPM", unsafe.Offsetof(vehicle.EngineRPM), 0x5ee0},
		{"Vehicle.NumWheels", unsafe.Offsetof(vehicle.NumWheels), 0x5ee8},
		{"Vehicle.Wheels", unsafe.Offsetof(vehicle.Wheels), 0x5eec},
		{"Bullet.Time", unsafe.Offsetof(bullet.Time), 0x4},
		{"Bullet.PlayerID", unsafe.Offsetof(bullet.PlayerID), 0x8},
		{"Bullet.LastPos", unsafe.Offsetof(bullet.LastPos), 0x14},
		{"Bullet.Pos", unsafe.Offsetof(bullet.Pos), 0x20},
		{"Bullet.Vel", unsafe.Offsetof(bullet.Vel), 0x2c},
		{"Particle.DespawnTime", unsafe.Offsetof(particle.DespawnTime), 0x4},
		{"Particle.Gravity", unsafe.Offsetof(particle.Gravity), 0xc},
		{"Particle.Pos", unsafe.Offsetof(particle.Pos), 0x14},
		{"Particle.Pos2", unsafe.Offsetof(particle.Pos2), 0x20},
		{"Particle.Vel", unsafe.Offsetof(particle.Vel), 0x2c},
		{"Particle.Vel2", unsafe.Offsetof(particle.Vel2), 0x38},
		{"Particle.NumVehicles", unsafe.Offsetof(particle.NumVehicles), 0xd4},
		{"Particle.Vehicles", unsafe.Offsetof(particle.Vehicles), 0xd8},
		{"Bond.DespawnTime", unsafe.Offsetof(bond.DespawnTime), 0x8},
		{"Bond.LocalIndex", unsafe.Offsetof(bond.LocalIndex), 0xc},
		{"Bond.LocalPos", unsafe.Offsetof(bond.LocalPos), 0x18},
		{"Bond.OtherLocalPos", unsafe.Offsetof(bond.OtherLocalPos), 0x28},
		{"Bond.GlobalPos", unsafe.Offsetof(bond.GlobalPos), 0x34},
		{"Bond.HumanID", unsafe.Offsetof(bond.HumanID), 0x90},
		{"Bond.BodyID", unsafe.Offsetof(bond.BodyID), 0x94},
		{"Bond.OtherBodyID", unsafe.Offsetof(bond.OtherBodyID), 0x98},
		{"ShopCar.Price", unsafe.Offsetof(shopCar.Price), 0x4},
		{"ShopCar.Color", unsafe.Offsetof(shopCar.Color), 0x8},
		{"Building.Pos", unsafe.Offsetof(building.Pos), 0x10},
		{"Building.InteriorCuboidA", unsafe.Offsetof(building.InteriorCuboidA), 0x1c},
		{"Building.InteriorCuboidB", unsafe.Offsetof(building.InteriorCuboidB), 0x28},
		{"Building.NumShopCars", unsafe.Offsetof(building.NumShopCars), 0x8c8},
		{"Building.ShopCars", unsafe.Offsetof(building.ShopCars), 0x8cc},
		{"Building.ShopCarSales", unsafe.Offsetof(building.ShopCarSales), 0x98c},
		{"StreetLane.PosA", unsafe.Offsetof(streetLane.PosA), 0x4},
		{"StreetLane.PosB", unsafe.Offsetof(streetLane.PosB), 0x10},
		{"Street.IntersectionA", unsafe.Offsetof(street.IntersectionA), 0x20},
		{"Street.IntersectionB", unsafe.Offsetof(street.IntersectionB), 0x24},
		{"Street.NumLanes", unsafe.Offsetof(street.NumLanes), 0x34},
		{"Street.Lanes", unsafe.Offsetof(street.Lanes), 0x38},
		{"Street.TrafficCuboidA", unsafe.Offsetof(street.TrafficCuboidA), 0x210},
		{"Street.TrafficCuboidB", unsafe.Offsetof(street.TrafficCuboidB), 0x21c},
		{"Street.NumTraffic", unsafe.Offsetof(street.NumTraffic), 0x228},
		{"StreetIntersection.BlockZ", unsafe.Offsetof(streetIntersection.BlockZ), 0x0},
		{"StreetIntersection.BlockY", unsafe.Offsetof(streetIntersection.BlockY), 0x4},
		{"StreetIntersection.BlockX", unsafe.Offsetof(streetIntersection.BlockX), 0x8},
		{"StreetIntersection.Pos", unsafe.Offsetof(streetIntersection.Pos), 0xc},
		{"StreetIntersection.StreetEast", unsafe.Offsetof(streetIntersection.StreetEast), 0x18},
		{"StreetIntersection.StreetSouth", unsafe.Offsetof(streetIntersection.StreetSouth), 0x1c},
		{"StreetIntersection.StreetWest", unsafe.Offsetof(streetIntersection.StreetWest), 0x20},
		{"StreetIntersection.StreetNorth", unsafe.Offsetof(streetIntersection.StreetNorth), 0x24},
		{"StreetIntersection.LightsState", unsafe.Offsetof(streetIntersection.LightsState), 0x44},
		{"StreetIntersection.LightsTimer", unsafe.Offsetof(streetIntersection.LightsTimer), 0x48},
		{"StreetIntersection.LightsTimerMax", unsafe.Offsetof(streetIntersection.LightsTimerMax), 0x4c},
		{"StreetIntersection.LightEast", unsafe.Offsetof(streetIntersection.LightEast), 0x50},
		{"StreetIntersection.LightSouth", unsafe.Offsetof(streetIntersection.LightSouth), 0x54},
		{"StreetIntersection.LightWest", unsafe.Offsetof(streetIntersection.LightWest), 0x58},
		{"StreetIntersection.LightNorth", unsafe.Offsetof(streetIntersection.LightNorth), 0x5c},
	} {
		if tc.got != tc.want {
			t.Errorf("offsetof(%s) = %#x, want %#x", tc.field, tc.got, tc.want)
		}
	}
}
