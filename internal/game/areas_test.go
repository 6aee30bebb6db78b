package game

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultAreas(t *testing.T) {
	areas := DefaultAreas(Settings{DefaultMultiplier: 3})

	if len(areas) != 4 {
		t.Fatalf("expected 4 areas, got %d", len(areas))
	}
	wantBase := []float64{2, 4, 6, 8}
	for i, area := range areas {
		if area.BaseValue != wantBase[i] {
			t.Fatalf("area %d: expected base value %v, got %v", i, wantBase[i], area.BaseValue)
		}
		if area.Multiplier != 3 {
			t.Fatalf("area %d: expected multiplier 3, got %d", i, area.Multiplier)
		}
		if len(area.SelectedPlayers) != 0 {
			t.Fatalf("area %d: expected no selections", i)
		}
	}
}

func TestAreaLabelDerived(t *testing.T) {
	area := Area{ID: AreaEight, BaseValue: 8, Multiplier: 5}
	if area.Label() != "40" {
		t.Fatalf("expected label 40, got %s", area.Label())
	}
	area.Multiplier = 1
	if area.Label() != "8" {
		t.Fatalf("label must track the multiplier, got %s", area.Label())
	}
}

func TestSetMultiplier(t *testing.T) {
	areas := DefaultAreas(DefaultSettings())

	updated, err := SetMultiplier(areas, AreaFour, 5, false)
	if err != nil {
		t.Fatalf("set multiplier: %v", err)
	}
	if updated[1].Multiplier != 5 {
		t.Fatalf("expected multiplier 5 on area %s, got %d", AreaFour, updated[1].Multiplier)
	}
	if updated[0].Multiplier != 1 {
		t.Fatal("other areas must keep their multiplier")
	}
	// Snapshot semantics: the input is untouched.
	if areas[1].Multiplier != 1 {
		t.Fatal("input snapshot was mutated")
	}
}

func TestSetMultiplierApplyToAll(t *testing.T) {
	areas := DefaultAreas(DefaultSettings())
	updated, err := SetMultiplier(areas, AreaTwo, 4, true)
	if err != nil {
		t.Fatalf("set multiplier: %v", err)
	}
	for i, area := range updated {
		if area.Multiplier != 4 {
			t.Fatalf("area %d: expected multiplier 4, got %d", i, area.Multiplier)
		}
	}
}

func TestSetMultiplierRejected(t *testing.T) {
	areas := DefaultAreas(DefaultSettings())
	for _, bad := range []int{0, -1, -7} {
		if _, err := SetMultiplier(areas, AreaTwo, bad, false); !errors.Is(err, ErrInvalidMultiplier) {
			t.Fatalf("multiplier %d: expected ErrInvalidMultiplier, got %v", bad, err)
		}
	}
	// Never clamped: the snapshot is unchanged after a rejection.
	if areas[0].Multiplier != 1 {
		t.Fatalf("expected multiplier to stay 1, got %d", areas[0].Multiplier)
	}
}

func TestTogglePlayer(t *testing.T) {
	areas := DefaultAreas(DefaultSettings())

	on, err := TogglePlayer(areas, AreaSix, "a")
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !reflect.DeepEqual(on[2].SelectedPlayers, []string{"a"}) {
		t.Fatalf("expected [a], got %v", on[2].SelectedPlayers)
	}

	off, err := TogglePlayer(on, AreaSix, "a")
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if len(off[2].SelectedPlayers) != 0 {
		t.Fatalf("expected empty selection, got %v", off[2].SelectedPlayers)
	}

	if _, err := TogglePlayer(areas, "nope", "a"); !errors.Is(err, ErrAreaNotFound) {
		t.Fatalf("expected ErrAreaNotFound, got %v", err)
	}
}

func TestDualHandModeTransfer(t *testing.T) {
	areas := DefaultAreas(DefaultSettings())
	var err error
	areas, err = TogglePlayer(areas, AreaEight, "a")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	areas, err = TogglePlayer(areas, AreaEight, "b")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	dual, err := SetDualHandMode(areas, AreaEight, true)
	if err != nil {
		t.Fatalf("enable dual hand: %v", err)
	}
	eight := dual[3]
	if !eight.IsDualHandMode {
		t.Fatal("expected dual-hand mode on")
	}
	if !reflect.DeepEqual(eight.HighHand.SelectedPlayers, []string{"a", "b"}) {
		t.Fatalf("high hand must inherit selections, got %v", eight.HighHand.SelectedPlayers)
	}
	if len(eight.LowHand.SelectedPlayers) != 0 {
		t.Fatalf("low hand must start empty, got %v", eight.LowHand.SelectedPlayers)
	}
	if len(eight.SelectedPlayers) != 0 {
		t.Fatalf("single-mode selection must be cleared, got %v", eight.SelectedPlayers)
	}

	// Select someone on the low hand, then switch back: the low hand is
	// discarded, the high hand survives.
	dual, err = ToggleHandPlayer(dual, AreaEight, HandLow, "c")
	if err != nil {
		t.Fatalf("toggle hand: %v", err)
	}
	single, err := SetDualHandMode(dual, AreaEight, false)
	if err != nil {
		t.Fatalf("disable dual hand: %v", err)
	}
	eight = single[3]
	if eight.IsDualHandMode || eight.HighHand != nil || eight.LowHand != nil {
		t.Fatal("expected dual-hand state cleared")
	}
	if !reflect.DeepEqual(eight.SelectedPlayers, []string{"a", "b"}) {
		t.Fatalf("expected high hand selections restored, got %v", eight.SelectedPlayers)
	}
}

func TestDualHandModeOnlyHighestArea(t *testing.T) {
	areas := DefaultAreas(DefaultSettings())
	for _, id := range []string{AreaTwo, AreaFour, AreaSix} {
		if _, err := SetDualHandMode(areas, id, true); !errors.Is(err, ErrDualHandUnsupported) {
			t.Fatalf("area %s: expected ErrDualHandUnsupported, got %v", id, err)
		}
	}
}

func TestTogglePlayerRejectsDualMode(t *testing.T) {
	areas, err := SetDualHandMode(DefaultAreas(DefaultSettings()), AreaEight, true)
	if err != nil {
		t.Fatalf("enable dual hand: %v", err)
	}

	if _, err := TogglePlayer(areas, AreaEight, "a"); !errors.Is(err, ErrDualHandUnsupported) {
		t.Fatalf("expected ErrDualHandUnsupported on a dual-mode area, got %v", err)
	}
	// The dormant single-mode selection stays empty, so nothing can mistake
	// the board for having selections.
	if HasSelections(areas) {
		t.Fatal("expected no selections")
	}
}

func TestToggleHandPlayerValidation(t *testing.T) {
	areas := DefaultAreas(DefaultSettings())

	if _, err := ToggleHandPlayer(areas, AreaEight, HandHigh, "a"); !errors.Is(err, ErrDualHandUnsupported) {
		t.Fatalf("expected ErrDualHandUnsupported outside dual mode, got %v", err)
	}

	dual, err := SetDualHandMode(areas, AreaEight, true)
	if err != nil {
		t.Fatalf("enable dual hand: %v", err)
	}
	if _, err := ToggleHandPlayer(dual, AreaEight, "middle", "a"); !errors.Is(err, ErrUnknownHand) {
		t.Fatalf("expected ErrUnknownHand, got %v", err)
	}
}

func TestClearSelections(t *testing.T) {
	areas := DefaultAreas(DefaultSettings())
	areas, _ = TogglePlayer(areas, AreaTwo, "a")
	areas, _ = SetDualHandMode(areas, AreaEight, true)
	areas, _ = ToggleHandPlayer(areas, AreaEight, HandHigh, "b")

	if !HasSelections(areas) {
		t.Fatal("expected selections before clearing")
	}
	cleared := ClearSelections(areas)
	if HasSelections(cleared) {
		t.Fatal("expected no selections after clearing")
	}
	// Mode and multipliers survive the reset.
	if !cleared[3].IsDualHandMode {
		t.Fatal("dual-hand mode must survive clearing")
	}
}
