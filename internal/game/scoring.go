package game

// RoundPoints computes each player's point delta for the current round from
// the area selections. Every roster player appears in the result, defaulting
// to 0. Selections referencing ids outside the roster are ignored; use
// StrayPlayerIDs to detect them.
//
// Per area: if every player hit it the area is a bust and pays nothing; if
// nobody hit it, nothing; otherwise the area value is split equally among the
// players who hit it. Fractional points are kept exact, formatting is the
// caller's problem.
func RoundPoints(areas []Area, players []Player) PlayerPoints {
	points := make(PlayerPoints, len(players))
	for _, p := range players {
		points[p.ID] = 0
	}

	for _, area := range areas {
		if area.IsDualHandMode {
			// Each hand is an independent half-value area. A hand busts only
			// when literally every player in the game is selected for it.
			half := area.BaseValue / 2 * float64(area.Multiplier)
			scoreSelection(points, handPlayers(area.HighHand), half, len(players))
			scoreSelection(points, handPlayers(area.LowHand), half, len(players))
			continue
		}
		scoreSelection(points, area.SelectedPlayers, area.Value(), len(players))
	}

	return points
}

func scoreSelection(points PlayerPoints, selected []string, value float64, totalPlayers int) {
	// Only roster members count; a stray id must not dilute the split or
	// push the selection into a bust. points is keyed by the full roster.
	eligible := selected[:0:0]
	for _, id := range selected {
		if _, ok := points[id]; ok {
			eligible = append(eligible, id)
		}
	}

	count := len(eligible)
	if count == 0 {
		return
	}
	if count == totalPlayers {
		// Bust: full selection cancels the payout entirely.
		return
	}
	share := value / float64(count)
	for _, id := range eligible {
		points[id] += share
	}
}

func handPlayers(h *HandCondition) []string {
	if h == nil {
		return nil
	}
	return h.SelectedPlayers
}

// ApplySweepBonus returns a copy of points with the sweep bonus applied: if
// exactly one player is the sole selection in every area (both hands of a
// dual-hand area), and their round total is positive, that total is doubled.
// A tie between sweepers voids the bonus. The input map is never mutated.
func ApplySweepBonus(points PlayerPoints, areas []Area, players []Player) PlayerPoints {
	out := make(PlayerPoints, len(points))
	for id, pts := range points {
		out[id] = pts
	}

	var sweepers []string
	for _, p := range players {
		if wonAllAreasAlone(areas, p.ID) {
			sweepers = append(sweepers, p.ID)
		}
	}

	if len(sweepers) == 1 {
		winner := sweepers[0]
		if out[winner] > 0 {
			out[winner] *= 2
		}
	}

	return out
}

func wonAllAreasAlone(areas []Area, playerID string) bool {
	if len(areas) == 0 {
		return false
	}
	for _, area := range areas {
		if area.IsDualHandMode {
			if !soloSelection(handPlayers(area.HighHand), playerID) ||
				!soloSelection(handPlayers(area.LowHand), playerID) {
				return false
			}
			continue
		}
		if !soloSelection(area.SelectedPlayers, playerID) {
			return false
		}
	}
	return true
}

func soloSelection(selected []string, playerID string) bool {
	return len(selected) == 1 && selected[0] == playerID
}

// FinalRoundPoints is the round result as it gets committed: raw area points,
// doubled for a lone sweeper when the setting is on.
func FinalRoundPoints(areas []Area, players []Player, settings Settings) PlayerPoints {
	points := RoundPoints(areas, players)
	if settings.WinningAllFourPaysDouble {
		points = ApplySweepBonus(points, areas, players)
	}
	return points
}

// StrayPlayerIDs reports selected ids that are not in the roster. Scoring
// skips them silently; the host should log these as data-integrity warnings
// instead of failing.
func StrayPlayerIDs(areas []Area, players []Player) []string {
	roster := make(map[string]bool, len(players))
	for _, p := range players {
		roster[p.ID] = true
	}

	var strays []string
	seen := make(map[string]bool)
	collect := func(ids []string) {
		for _, id := range ids {
			if !roster[id] && !seen[id] {
				seen[id] = true
				strays = append(strays, id)
			}
		}
	}
	for _, area := range areas {
		collect(area.SelectedPlayers)
		collect(handPlayers(area.HighHand))
		collect(handPlayers(area.LowHand))
	}
	return strays
}
