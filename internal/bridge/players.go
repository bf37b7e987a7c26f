package bridge

import (
	"net/netip"

	lua "github.com/yuin/gopher-lua"

	"github.com/rosa-go/rosaserver/internal/overlay"
)

func earShotClass() *Class[overlay.EarShot] {
	type E = overlay.EarShot
	return &Class[E]{
		Name: "EarShot",
		Props: map[string]Prop[E]{
			"isActive":         flag(func(s *E) *int32 { return &s.Active }),
			"player":           link[E, overlay.Player](func(s *E) *int32 { return &s.PlayerID }),
			"human":            link[E, overlay.Human](func(s *E) *int32 { return &s.HumanID }),
			"receivingItem":    link[E, overlay.Item](func(s *E) *int32 { return &s.ReceivingItemID }),
			"transmittingItem": link[E, overlay.Item](func(s *E) *int32 { return &s.TransmittingItemID }),
			"distance":         num(func(s *E) *float32 { return &s.Distance }),
			"volume":           num(func(s *E) *float32 { return &s.Volume }),
		},
	}
}

func connectionClass() *Class[overlay.Connection] {
	type C = overlay.Connection
	return &Class[C]{
		Name:  "Connection",
		Table: func(w *overlay.World) *overlay.Table[C] { return w.Connections },
		Props: map[string]Prop[C]{
			"address": getter(func(_ *Env, c *C) lua.LValue {
				a := c.Address
				return lua.LString(netip.AddrFrom4([4]byte{byte(a), byte(a >> 8), byte(a >> 16), byte(a >> 24)}).String())
			}),
			"port":              num(func(c *C) *uint32 { return &c.Port }),
			"roundNumber":       num(func(c *C) *int32 { return &c.RoundNumber }),
			"adminVisible":      flag(func(c *C) *int32 { return &c.AdminVisible }),
			"player":            link[C, overlay.Player](func(c *C) *int32 { return &c.PlayerID }),
			"timeoutTime":       num(func(c *C) *int32 { return &c.TimeoutTime }),
			"numReceivedEvents": num(func(c *C) *int32 { return &c.NumReceivedEvents }),
			"spectatingHuman":   ro(link[C, overlay.Human](func(c *C) *int32 { return &c.SpectatingHumanID })),
			"headPos":           ro(vec(func(c *C) *overlay.Vector { return &c.HeadPos })),
			"cameraPos":         ro(vec(func(c *C) *overlay.Vector { return &c.CameraPos })),
		},
		Methods: map[string]Method[C]{
			"getEarShot": at("Connection.earShots", func(c *C) []overlay.EarShot { return c.EarShots[:] }),
		},
	}
}

func accountClass() *Class[overlay.Account] {
	type A = overlay.Account
	return &Class[A]{
		Name:  "Account",
		Table: func(w *overlay.World) *overlay.Table[A] { return w.Accounts },
		Props: map[string]Prop[A]{
			"token":     num(func(a *A) *int32 { return &a.Token }),
			"token2":    num(func(a *A) *int32 { return &a.Token2 }),
			"name":      ro(str(func(a *A) []byte { return a.Name[:] })),
			"money":     num(func(a *A) *int32 { return &a.Money }),
			"playTime":  num(func(a *A) *int32 { return &a.PlayTime }),
			"eyeColor":  num(func(a *A) *int32 { return &a.EyeColor }),
			"skinColor": num(func(a *A) *int32 { return &a.SkinColor }),
			"hairColor": num(func(a *A) *int32 { return &a.HairColor }),
		},
	}
}

func actionClass() *Class[overlay.Action] {
	type A = overlay.Action
	return &Class[A]{
		Name: "Action",
		Props: map[string]Prop[A]{
			"type":    num(func(a *A) *int32 { return &a.Type }),
			"a":       num(func(a *A) *int32 { return &a.A }),
			"b":       num(func(a *A) *int32 { return &a.B }),
			"c":       num(func(a *A) *int32 { return &a.C }),
			"d":       num(func(a *A) *int32 { return &a.D }),
			"message": str(func(a *A) []byte { return a.Text[:] }),
		},
	}
}

func menuButtonClass() *Class[overlay.MenuButton] {
	type M = overlay.MenuButton
	return &Class[M]{
		Name: "MenuButton",
		Props: map[string]Prop[M]{
			"id":   num(func(m *M) *int32 { return &m.ID }),
			"text": str(func(m *M) []byte { return m.Text[:] }),
		},
	}
}

func playerClass() *Class[overlay.Player] {
	type P = overlay.Player
	return &Class[P]{
		Name:  "Player",
		Table: func(w *overlay.World) *overlay.Table[P] { return w.Players },
		Data:  "players",
		Props: map[string]Prop[P]{
			"isActive":      flag(func(p *P) *int32 { return &p.Active }),
			"name":          str(func(p *P) []byte { return p.Name[:] }),
			"token":         num(func(p *P) *int32 { return &p.Token }),
			"token2":        num(func(p *P) *int32 { return &p.Token2 }),
			"isAdmin":       flag(func(p *P) *uint32 { return &p.IsAdmin }),
			"adminAttempts": num(func(p *P) *uint32 { return &p.AdminAttempts }),
			"account": {
				Get: func(e *Env, p *P) lua.LValue { return push(e, e.world.PlayerAccount(p)) },
				Set: func(e *Env, L *lua.LState, p *P, v lua.LValue) {
					p.AccountID = uint32(classOf[overlay.Account](e).linkID(L, v))
				},
			},
			"isReady":           flag(func(p *P) *int32 { return &p.IsReady }),
			"money":             num(func(p *P) *int32 { return &p.Money }),
			"itemsBought":       num(func(p *P) *int32 { return &p.ItemsBought }),
			"vehiclesBought":    num(func(p *P) *int32 { return &p.VehiclesBought }),
			"withdrawnBills":    num(func(p *P) *int32 { return &p.WithdrawnBills }),
			"team":              num(func(p *P) *uint32 { return &p.Team }),
			"teamSwitchTimer":   num(func(p *P) *uint32 { return &p.TeamSwitchTimer }),
			"stocks":            num(func(p *P) *int32 { return &p.Stocks }),
			"human":             link[P, overlay.Human](func(p *P) *int32 { return &p.HumanID }),
			"gearX":             num(func(p *P) *float32 { return &p.GearX }),
			"leftRightInput":    num(func(p *P) *float32 { return &p.LeftRightInput }),
			"gearY":             num(func(p *P) *float32 { return &p.GearY }),
			"forwardBackInput":  num(func(p *P) *float32 { return &p.ForwardBackInput }),
			"viewYaw":           num(func(p *P) *float32 { return &p.ViewYaw }),
			"viewPitch":         num(func(p *P) *float32 { return &p.ViewPitch }),
			"freeLookYaw":       num(func(p *P) *float32 { return &p.FreeLookYaw }),
			"freeLookPitch":     num(func(p *P) *float32 { return &p.FreeLookPitch }),
			"inputFlags":        num(func(p *P) *int32 { return &p.InputFlags }),
			"lastInputFlags":    num(func(p *P) *int32 { return &p.LastInputFlags }),
			"zoomLevel":         num(func(p *P) *int32 { return &p.ZoomLevel }),
			"isCrouching":       num(func(p *P) *int32 { return &p.IsCrouching }),
			"inputType":         num(func(p *P) *int32 { return &p.InputType }),
			"menuTab":           num(func(p *P) *int32 { return &p.MenuTab }),
			"menuTabBuildingID": num(func(p *P) *int32 { return &p.MenuTabBuildingID }),
			"numActions":        num(func(p *P) *int32 { return &p.NumActions }),
			"lastNumActions":    num(func(p *P) *int32 { return &p.LastNumActions }),
			"health":            num(func(p *P) *int32 { return &p.Health }),
			"isBot":             flag(func(p *P) *int32 { return &p.IsBot }),
			"botDriving":        flag(func(p *P) *int32 { return &p.BotDriving }),
			"suitColor":         num(func(p *P) *int32 { return &p.SuitColor }),
			"sunglasses":        num(func(p *P) *int32 { return &p.Sunglasses }),
			"connection": getter(func(e *Env, p *P) lua.LValue {
				return push(e, e.world.PlayerConnection(p))
			}),
		},
		Methods: map[string]Method[P]{
			"getAction":     at("Player.actions", func(p *P) []overlay.Action { return p.Actions[:] }),
			"update":        event[P](func(e *Env, i int32) { e.fns.CreateEventUpdatePlayer(i) }),
			"updateFinance": event[P](func(e *Env, i int32) { e.fns.CreateEventUpdatePlayerFinance(i) }),
			"remove":        event[P](func(e *Env, i int32) { e.fns.DeletePlayer(i) }),
		},
	}
}
