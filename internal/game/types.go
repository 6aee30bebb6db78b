package game

import (
	"strconv"
	"time"
	"unicode/utf8"
)

// Stable area ids; base values follow the 2/4/6/8 board layout.
const (
	AreaTwo   = "1"
	AreaFour  = "2"
	AreaSix   = "3"
	AreaEight = "4"
)

type Player struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Initials  string `json:"initials,omitempty"`
	Selected  bool   `json:"selected"`
}

// Name returns the player's display name.
func (p Player) Name() string {
	return p.FirstName + " " + p.LastName
}

// DisplayInitials returns the custom initials if set, otherwise the first
// letter of each name.
func (p Player) DisplayInitials() string {
	if p.Initials != "" {
		return p.Initials
	}
	var out string
	if r, size := utf8.DecodeRuneInString(p.FirstName); size > 0 {
		out += string(r)
	}
	if r, size := utf8.DecodeRuneInString(p.LastName); size > 0 {
		out += string(r)
	}
	return out
}

// HandCondition holds the selection state for one half of a dual-hand area.
type HandCondition struct {
	SelectedPlayers []string `json:"selectedPlayers"`
}

// Area is one scoring zone. SelectedPlayers holds the roster ids of players
// who hit the area this round. When IsDualHandMode is set the single-mode
// selection is replaced by the HighHand/LowHand conditions, each worth half
// the area value.
type Area struct {
	ID              string         `json:"id"`
	BaseValue       float64        `json:"baseValue"`
	Multiplier      int            `json:"multiplier"`
	SelectedPlayers []string       `json:"selectedPlayers"`
	IsDualHandMode  bool           `json:"isDualHandMode,omitempty"`
	HighHand        *HandCondition `json:"highHand,omitempty"`
	LowHand         *HandCondition `json:"lowHand,omitempty"`
}

// Value is the area's face value for the round.
func (a Area) Value() float64 {
	return a.BaseValue * float64(a.Multiplier)
}

// Label is the display label, always derived so it can never go stale.
func (a Area) Label() string {
	return strconv.FormatFloat(a.Value(), 'f', -1, 64)
}

// PlayerPoints maps player id to points.
type PlayerPoints map[string]float64

// RoundState is the snapshot committed when a round is finalized. Points
// already include the sweep bonus when it applied.
type RoundState struct {
	Areas  []Area       `json:"areas"`
	Points PlayerPoints `json:"points"`
}

// Game holds a fixed roster snapshot and the finalized round history. Round
// numbers are dense and 1-based; CurrentRound is the round being edited and
// is not necessarily present in Rounds yet.
type Game struct {
	ID           string             `json:"id"`
	Players      []Player           `json:"players"`
	CreatedAt    time.Time          `json:"createdAt"`
	Rounds       map[int]RoundState `json:"rounds"`
	CurrentRound int                `json:"currentRound"`
}

type Settings struct {
	DefaultMultiplier        int  `json:"defaultMultiplier"`
	WinningAllFourPaysDouble bool `json:"winningAllFourPaysDouble"`
}

// DefaultSettings mirrors the values used when nothing has been persisted.
func DefaultSettings() Settings {
	return Settings{DefaultMultiplier: 1, WinningAllFourPaysDouble: false}
}
