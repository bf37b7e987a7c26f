// Package game describes the host engine: its enumerations, the native
// functions scripts may call and the functions that get hooked.
package game

// ResetReason says why the script environment is being (re)built.
type ResetReason int

const (
	ResetReasonBoot ResetReason = iota
	ResetReasonEngineCall
	ResetReasonLuaReset
	ResetReasonLuaCall
)

func (r ResetReason) String() string {
	switch r {
	case ResetReasonBoot:
		return "boot"
	case ResetReasonEngineCall:
		return "engine call"
	case ResetReasonLuaReset:
		return "lua reset"
	case ResetReasonLuaCall:
		return "lua call"
	}
	return "unknown"
}

// Game states.
const (
	StatePregame    = 1
	StateGame       = 2
	StateRestarting = 3
)

// Game types.
const (
	TypeDriving    = 1
	TypeRace       = 2
	TypeRound      = 3
	TypeWorld      = 4
	TypeTerminator = 5
	TypeCoop       = 6
	TypeVersus     = 7
)

// TPS is the fixed simulation rate.
const TPS = 60

// SunTimeDay is one in-game day in ticks; sun time wraps at it.
const SunTimeDay = 5184000

// Event message speaker types passed to CreateEventMessage.
const (
	MessageHuman    = 0
	MessageItem     = 2
	MessageAnnounce = 6
	MessageAdmin    = 4
)

// Version is the host build the offsets describe.
const Version = "24c"
