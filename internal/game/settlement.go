package game

import "math"

// Settlement is one payment from one player to another.
type Settlement struct {
	From   Player  `json:"fromPlayer"`
	To     Player  `json:"toPlayer"`
	Amount float64 `json:"amount"`
}

// SettlementResult carries both views of the cashout: the raw pairwise debts
// and the reduced payment list.
type SettlementResult struct {
	Direct    []Settlement `json:"direct"`
	Optimized []Settlement `json:"optimized"`
}

// GameTotals sums every stored round's points per player. Missing entries
// count as 0. Sweep doubling is already baked into stored rounds, so this is
// a plain sum.
func GameTotals(g Game) PlayerPoints {
	totals := make(PlayerPoints, len(g.Players))
	for _, p := range g.Players {
		totals[p.ID] = 0
	}
	for _, round := range g.Rounds {
		for _, p := range g.Players {
			totals[p.ID] += round.Points[p.ID]
		}
	}
	return totals
}

// ComputeSettlements derives the cashout from final totals.
//
// Direct settlements cover each unordered player pair once, enumerated in
// roster order (i < j), with the lower-total player paying the difference.
// Optimized settlements are built from the direct set: net each player's
// balance across it, split into debtors and creditors, then greedily match
// them in roster order. The greedy pass is not guaranteed minimal, but it is
// the documented behavior and plenty for a 2-3 player game.
//
// Both lists are deterministic for identical inputs. Fewer than two players
// settles nothing.
func ComputeSettlements(players []Player, totals PlayerPoints) SettlementResult {
	result := SettlementResult{Direct: []Settlement{}, Optimized: []Settlement{}}
	if len(players) < 2 {
		return result
	}

	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			a, b := players[i], players[j]
			diff := totals[a.ID] - totals[b.ID]
			switch {
			case diff > 0:
				result.Direct = append(result.Direct, Settlement{From: b, To: a, Amount: diff})
			case diff < 0:
				result.Direct = append(result.Direct, Settlement{From: a, To: b, Amount: math.Abs(diff)})
			}
		}
	}

	// Net balances come from the direct settlement set, not from totals.
	net := make(map[string]float64, len(players))
	for _, p := range players {
		net[p.ID] = 0
	}
	for _, s := range result.Direct {
		net[s.From.ID] -= s.Amount
		net[s.To.ID] += s.Amount
	}

	var debtors, creditors []Player
	for _, p := range players {
		switch {
		case net[p.ID] < 0:
			debtors = append(debtors, p)
		case net[p.ID] > 0:
			creditors = append(creditors, p)
		}
	}

	for _, debtor := range debtors {
		for _, creditor := range creditors {
			owed := math.Abs(net[debtor.ID])
			due := net[creditor.ID]
			if owed <= 0 || due <= 0 {
				continue
			}
			payment := math.Min(owed, due)
			result.Optimized = append(result.Optimized, Settlement{From: debtor, To: creditor, Amount: payment})
			net[debtor.ID] += payment
			net[creditor.ID] -= payment
		}
	}

	return result
}
