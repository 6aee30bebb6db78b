package game

import (
	"math"
	"reflect"
	"testing"
)

func TestGameTotals(t *testing.T) {
	players := threePlayers()
	g := Game{
		Players: players,
		Rounds: map[int]RoundState{
			1: {Points: PlayerPoints{"a": 4, "b": 2, "c": 0}},
			2: {Points: PlayerPoints{"a": -1, "b": 3}}, // c missing: counts as 0
		},
	}

	totals := GameTotals(g)
	want := PlayerPoints{"a": 3, "b": 5, "c": 0}
	if !reflect.DeepEqual(totals, want) {
		t.Fatalf("expected %v, got %v", want, totals)
	}
}

func TestComputeSettlementsDirect(t *testing.T) {
	players := threePlayers()
	totals := PlayerPoints{"a": 10, "b": 4, "c": 1}

	result := ComputeSettlements(players, totals)

	want := []Settlement{
		{From: players[1], To: players[0], Amount: 6}, // b pays a
		{From: players[2], To: players[0], Amount: 9}, // c pays a
		{From: players[2], To: players[1], Amount: 3}, // c pays b
	}
	if !reflect.DeepEqual(result.Direct, want) {
		t.Fatalf("expected %v, got %v", want, result.Direct)
	}
}

func TestComputeSettlementsEqualTotalsProduceNothing(t *testing.T) {
	players := threePlayers()
	totals := PlayerPoints{"a": 5, "b": 5, "c": 5}

	result := ComputeSettlements(players, totals)
	if len(result.Direct) != 0 {
		t.Fatalf("expected no direct settlements, got %v", result.Direct)
	}
	if len(result.Optimized) != 0 {
		t.Fatalf("expected no optimized settlements, got %v", result.Optimized)
	}
}

func TestComputeSettlementsOptimizedZeroSum(t *testing.T) {
	players := threePlayers()
	totals := PlayerPoints{"a": 12, "b": -4, "c": -8}

	result := ComputeSettlements(players, totals)

	// Replay the optimized payments over the net balances derived from the
	// direct set: everyone must land on exactly zero.
	net := map[string]float64{"a": 0, "b": 0, "c": 0}
	for _, s := range result.Direct {
		net[s.From.ID] -= s.Amount
		net[s.To.ID] += s.Amount
	}
	paid, received := 0.0, 0.0
	for _, s := range result.Optimized {
		if s.Amount <= 0 {
			t.Fatalf("zero or negative settlement emitted: %+v", s)
		}
		net[s.From.ID] += s.Amount
		net[s.To.ID] -= s.Amount
		paid += s.Amount
		received += s.Amount
	}
	for id, balance := range net {
		if math.Abs(balance) > 1e-9 {
			t.Fatalf("player %s not settled, balance %v", id, balance)
		}
	}
	if paid != received {
		t.Fatalf("paid %v != received %v", paid, received)
	}
}

func TestComputeSettlementsOptimizedFewerPayments(t *testing.T) {
	players := threePlayers()
	totals := PlayerPoints{"a": 10, "b": 4, "c": 1}

	result := ComputeSettlements(players, totals)
	if len(result.Direct) != 3 {
		t.Fatalf("expected 3 direct settlements, got %d", len(result.Direct))
	}
	if len(result.Optimized) != 2 {
		t.Fatalf("expected 2 optimized settlements, got %d", len(result.Optimized))
	}
	// Both debtors pay the single creditor.
	for _, s := range result.Optimized {
		if s.To.ID != "a" {
			t.Fatalf("expected all payments to flow to a, got %+v", s)
		}
	}
}

func TestComputeSettlementsDeterministic(t *testing.T) {
	players := threePlayers()
	totals := PlayerPoints{"a": 7.5, "b": -2.5, "c": -5}

	first := ComputeSettlements(players, totals)
	second := ComputeSettlements(players, totals)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %v then %v", first, second)
	}
}

func TestComputeSettlementsSmallRosters(t *testing.T) {
	result := ComputeSettlements(nil, nil)
	if len(result.Direct) != 0 || len(result.Optimized) != 0 {
		t.Fatalf("expected empty settlement lists, got %v", result)
	}

	one := []Player{{ID: "a"}}
	result = ComputeSettlements(one, PlayerPoints{"a": 99})
	if len(result.Direct) != 0 || len(result.Optimized) != 0 {
		t.Fatalf("expected empty settlement lists for one player, got %v", result)
	}
}

func TestComputeSettlementsTwoPlayers(t *testing.T) {
	players := threePlayers()[:2]
	totals := PlayerPoints{"a": 2, "b": 8}

	result := ComputeSettlements(players, totals)
	want := []Settlement{{From: players[0], To: players[1], Amount: 6}}
	if !reflect.DeepEqual(result.Direct, want) {
		t.Fatalf("expected %v, got %v", want, result.Direct)
	}
	if !reflect.DeepEqual(result.Optimized, want) {
		t.Fatalf("expected %v, got %v", want, result.Optimized)
	}
}

func TestComputeSettlementsFractionalAmounts(t *testing.T) {
	players := threePlayers()
	// A shared area leaves thirds in the totals.
	totals := PlayerPoints{"a": 8.0 / 3, "b": 8.0 / 3, "c": 8.0 / 3 * 2}

	result := ComputeSettlements(players, totals)
	if len(result.Direct) != 2 {
		t.Fatalf("expected 2 direct settlements, got %v", result.Direct)
	}
	for _, s := range result.Direct {
		if s.To.ID != "c" || s.Amount != 8.0/3 {
			t.Fatalf("expected 8/3 paid to c, got %+v", s)
		}
	}
}
