package game

import "errors"

var (
	ErrInvalidMultiplier   = errors.New("multiplier must be a number greater than 0")
	ErrAreaNotFound        = errors.New("area not found")
	ErrDualHandUnsupported = errors.New("dual-hand mode is only available on the highest area")
	ErrUnknownHand         = errors.New("unknown hand")
)

// Hand names for dual-hand selection toggles.
const (
	HandHigh = "high"
	HandLow  = "low"
)

// DefaultAreas builds the 2/4/6/8 board with the default multiplier from
// settings and no selections.
func DefaultAreas(settings Settings) []Area {
	multiplier := settings.DefaultMultiplier
	if multiplier < 1 {
		multiplier = 1
	}
	return []Area{
		{ID: AreaTwo, BaseValue: 2, Multiplier: multiplier, SelectedPlayers: []string{}},
		{ID: AreaFour, BaseValue: 4, Multiplier: multiplier, SelectedPlayers: []string{}},
		{ID: AreaSix, BaseValue: 6, Multiplier: multiplier, SelectedPlayers: []string{}},
		{ID: AreaEight, BaseValue: 8, Multiplier: multiplier, SelectedPlayers: []string{}},
	}
}

// SetMultiplier returns a new area snapshot with the multiplier applied to
// the given area, or to all areas when applyToAll is set. Multipliers below 1
// are rejected, never clamped; the caller keeps the prior value and
// re-prompts.
func SetMultiplier(areas []Area, areaID string, multiplier int, applyToAll bool) ([]Area, error) {
	if multiplier < 1 {
		return nil, ErrInvalidMultiplier
	}
	if !applyToAll && findArea(areas, areaID) < 0 {
		return nil, ErrAreaNotFound
	}

	out := cloneAreas(areas)
	for i := range out {
		if applyToAll || out[i].ID == areaID {
			out[i].Multiplier = multiplier
		}
	}
	return out, nil
}

// TogglePlayer returns a new snapshot with the player's single-mode selection
// flipped on the given area. Dual-mode areas only take hand toggles.
func TogglePlayer(areas []Area, areaID, playerID string) ([]Area, error) {
	i := findArea(areas, areaID)
	if i < 0 {
		return nil, ErrAreaNotFound
	}
	if areas[i].IsDualHandMode {
		return nil, ErrDualHandUnsupported
	}
	out := cloneAreas(areas)
	out[i].SelectedPlayers = toggleID(out[i].SelectedPlayers, playerID)
	return out, nil
}

// ToggleHandPlayer flips the player's selection on one hand of a dual-mode
// area.
func ToggleHandPlayer(areas []Area, areaID, hand, playerID string) ([]Area, error) {
	i := findArea(areas, areaID)
	if i < 0 {
		return nil, ErrAreaNotFound
	}
	if !areas[i].IsDualHandMode {
		return nil, ErrDualHandUnsupported
	}
	out := cloneAreas(areas)
	switch hand {
	case HandHigh:
		out[i].HighHand.SelectedPlayers = toggleID(out[i].HighHand.SelectedPlayers, playerID)
	case HandLow:
		out[i].LowHand.SelectedPlayers = toggleID(out[i].LowHand.SelectedPlayers, playerID)
	default:
		return nil, ErrUnknownHand
	}
	return out, nil
}

// SetDualHandMode switches the highest-value area between single and dual
// scoring. Enabling copies the single-mode selections into the high hand and
// starts the low hand empty; disabling copies the high hand back and discards
// the low hand. The low-hand loss is intentional and round-trips the way the
// board does.
func SetDualHandMode(areas []Area, areaID string, enabled bool) ([]Area, error) {
	i := findArea(areas, areaID)
	if i < 0 {
		return nil, ErrAreaNotFound
	}
	if areas[i].BaseValue != maxBaseValue(areas) {
		return nil, ErrDualHandUnsupported
	}

	out := cloneAreas(areas)
	area := &out[i]
	if enabled == area.IsDualHandMode {
		return out, nil
	}

	if enabled {
		area.HighHand = &HandCondition{SelectedPlayers: append([]string{}, area.SelectedPlayers...)}
		area.LowHand = &HandCondition{SelectedPlayers: []string{}}
		area.SelectedPlayers = []string{}
		area.IsDualHandMode = true
	} else {
		area.SelectedPlayers = append([]string{}, area.HighHand.SelectedPlayers...)
		area.HighHand = nil
		area.LowHand = nil
		area.IsDualHandMode = false
	}
	return out, nil
}

// ClearSelections returns a snapshot with every selection emptied, keeping
// multipliers and dual-hand mode for the next round.
func ClearSelections(areas []Area) []Area {
	out := cloneAreas(areas)
	for i := range out {
		out[i].SelectedPlayers = []string{}
		if out[i].HighHand != nil {
			out[i].HighHand.SelectedPlayers = []string{}
		}
		if out[i].LowHand != nil {
			out[i].LowHand.SelectedPlayers = []string{}
		}
	}
	return out
}

// HasSelections reports whether any area (or hand) has at least one player
// selected.
func HasSelections(areas []Area) bool {
	for _, area := range areas {
		if len(area.SelectedPlayers) > 0 ||
			len(handPlayers(area.HighHand)) > 0 ||
			len(handPlayers(area.LowHand)) > 0 {
			return true
		}
	}
	return false
}

func findArea(areas []Area, areaID string) int {
	for i := range areas {
		if areas[i].ID == areaID {
			return i
		}
	}
	return -1
}

func maxBaseValue(areas []Area) float64 {
	max := 0.0
	for _, a := range areas {
		if a.BaseValue > max {
			max = a.BaseValue
		}
	}
	return max
}

func toggleID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(append([]string{}, ids[:i]...), ids[i+1:]...)
		}
	}
	return append(append([]string{}, ids...), id)
}

func cloneAreas(areas []Area) []Area {
	out := make([]Area, len(areas))
	for i, a := range areas {
		a.SelectedPlayers = append([]string{}, a.SelectedPlayers...)
		if a.HighHand != nil {
			a.HighHand = &HandCondition{SelectedPlayers: append([]string{}, a.HighHand.SelectedPlayers...)}
		}
		if a.LowHand != nil {
			a.LowHand = &HandCondition{SelectedPlayers: append([]string{}, a.LowHand.SelectedPlayers...)}
		}
		out[i] = a
	}
	return out
}
