package game

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrRosterTooSmall = errors.New("a game needs at least 2 players")
	ErrRoundNotFound  = errors.New("round not found")
)

// Store is the persistence collaborator: three JSON records behind logical
// keys. Load calls return defaults when nothing is stored yet.
type Store interface {
	LoadPlayers(ctx context.Context) ([]Player, error)
	SavePlayers(ctx context.Context, players []Player) error
	LoadGames(ctx context.Context) ([]Game, error)
	SaveGames(ctx context.Context, games []Game) error
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
}

// CurrentState is the live view of the round being edited: the working area
// snapshot plus the points it would score right now. Points include the sweep
// bonus preview when the setting is on.
type CurrentState struct {
	Game   Game         `json:"game"`
	Areas  []Area       `json:"areas"`
	Points PlayerPoints `json:"points"`
	Totals PlayerPoints `json:"totals"`
}

// Manager owns the roster, game list, and the per-game working round state.
// All mutations autosave; persistence failures are logged and swallowed so a
// flaky disk never breaks scoring.
type Manager struct {
	mu    sync.Mutex
	store Store
	log   zerolog.Logger

	// working area snapshots per game id, for the round being edited.
	// Rebuilt from the saved round (or a fresh board) when absent.
	working map[string][]Area
}

func NewManager(store Store, log zerolog.Logger) *Manager {
	return &Manager{
		store:   store,
		log:     log,
		working: make(map[string][]Area),
	}
}

// Players returns the persisted roster pool.
func (m *Manager) Players(ctx context.Context) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.LoadPlayers(ctx)
}

// AddPlayer creates a roster pool entry. The id is assigned here.
func (m *Manager) AddPlayer(ctx context.Context, p Player) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	players, err := m.store.LoadPlayers(ctx)
	if err != nil {
		return Player{}, err
	}
	p.ID = uuid.NewString()
	players = append(players, p)
	if err := m.store.SavePlayers(ctx, players); err != nil {
		return Player{}, err
	}
	return p, nil
}

// UpdatePlayer edits a pool entry. Game snapshots are never touched.
func (m *Manager) UpdatePlayer(ctx context.Context, p Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	players, err := m.store.LoadPlayers(ctx)
	if err != nil {
		return err
	}
	for i := range players {
		if players[i].ID == p.ID {
			players[i] = p
			return m.store.SavePlayers(ctx, players)
		}
	}
	return ErrPlayerNotFound
}

// DeletePlayer removes a pool entry. Historical games keep their snapshot of
// the player.
func (m *Manager) DeletePlayer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	players, err := m.store.LoadPlayers(ctx)
	if err != nil {
		return err
	}
	kept := players[:0]
	found := false
	for _, p := range players {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrPlayerNotFound
	}
	return m.store.SavePlayers(ctx, kept)
}

// CreateGame snapshots the chosen roster into a new game on round 1, with a
// fresh board built from the persisted default multiplier.
func (m *Manager) CreateGame(ctx context.Context, playerIDs []string) (CurrentState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(playerIDs) < 2 {
		return CurrentState{}, ErrRosterTooSmall
	}

	pool, err := m.store.LoadPlayers(ctx)
	if err != nil {
		return CurrentState{}, err
	}
	byID := make(map[string]Player, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}
	roster := make([]Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := byID[id]
		if !ok {
			return CurrentState{}, ErrPlayerNotFound
		}
		roster = append(roster, p)
	}

	settings := m.settings(ctx)
	g := Game{
		ID:           uuid.NewString(),
		Players:      roster,
		CreatedAt:    time.Now().UTC(),
		Rounds:       make(map[int]RoundState),
		CurrentRound: 1,
	}
	m.working[g.ID] = DefaultAreas(settings)
	m.autosave(ctx, g)
	return m.state(ctx, g), nil
}

// Games lists all persisted games.
func (m *Manager) Games(ctx context.Context) ([]Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.LoadGames(ctx)
}

// Game returns the live state for one game.
func (m *Manager) Game(ctx context.Context, id string) (CurrentState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, id)
	if err != nil {
		return CurrentState{}, err
	}
	return m.state(ctx, g), nil
}

// DeleteGame removes a game and its working state.
func (m *Manager) DeleteGame(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	games, err := m.store.LoadGames(ctx)
	if err != nil {
		return err
	}
	kept := games[:0]
	found := false
	for _, g := range games {
		if g.ID == id {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	if !found {
		return ErrGameNotFound
	}
	delete(m.working, id)
	return m.store.SaveGames(ctx, kept)
}

// SetAreaMultiplier updates one area's multiplier (or all areas') on the
// working round.
func (m *Manager) SetAreaMultiplier(ctx context.Context, gameID, areaID string, multiplier int, applyToAll bool) (CurrentState, error) {
	return m.editAreas(ctx, gameID, func(areas []Area) ([]Area, error) {
		return SetMultiplier(areas, areaID, multiplier, applyToAll)
	})
}

// ToggleAreaPlayer flips a player's single-mode selection on an area.
func (m *Manager) ToggleAreaPlayer(ctx context.Context, gameID, areaID, playerID string) (CurrentState, error) {
	return m.editAreas(ctx, gameID, func(areas []Area) ([]Area, error) {
		return TogglePlayer(areas, areaID, playerID)
	})
}

// ToggleAreaHandPlayer flips a player's selection on one hand of a dual-mode
// area.
func (m *Manager) ToggleAreaHandPlayer(ctx context.Context, gameID, areaID, hand, playerID string) (CurrentState, error) {
	return m.editAreas(ctx, gameID, func(areas []Area) ([]Area, error) {
		return ToggleHandPlayer(areas, areaID, hand, playerID)
	})
}

// SetAreaDualHand switches the highest area between single and dual scoring.
func (m *Manager) SetAreaDualHand(ctx context.Context, gameID, areaID string, enabled bool) (CurrentState, error) {
	return m.editAreas(ctx, gameID, func(areas []Area) ([]Area, error) {
		return SetDualHandMode(areas, areaID, enabled)
	})
}

// SaveRound commits the working areas and their final points into the
// current round.
func (m *Manager) SaveRound(ctx context.Context, gameID string) (CurrentState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return CurrentState{}, err
	}
	m.commitRound(ctx, &g)
	m.autosave(ctx, g)
	return m.state(ctx, g), nil
}

// NextRound commits the working round and opens a fresh one after the
// highest stored round, with selections cleared.
func (m *Manager) NextRound(ctx context.Context, gameID string) (CurrentState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return CurrentState{}, err
	}
	m.commitRound(ctx, &g)

	highest := 0
	for n := range g.Rounds {
		if n > highest {
			highest = n
		}
	}
	if g.CurrentRound > highest {
		highest = g.CurrentRound
	}
	g.CurrentRound = highest + 1
	m.working[g.ID] = ClearSelections(m.workingAreas(ctx, g))
	m.autosave(ctx, g)
	return m.state(ctx, g), nil
}

// PreviousRound steps back one round, committing the working round first if
// it has any selections.
func (m *Manager) PreviousRound(ctx context.Context, gameID string) (CurrentState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return CurrentState{}, err
	}
	if g.CurrentRound <= 1 {
		return m.state(ctx, g), nil
	}
	if HasSelections(m.workingAreas(ctx, g)) {
		m.commitRound(ctx, &g)
	}

	previous := g.CurrentRound - 1
	if saved, ok := g.Rounds[previous]; ok {
		m.working[g.ID] = cloneAreas(saved.Areas)
	} else {
		m.working[g.ID] = ClearSelections(m.workingAreas(ctx, g))
	}
	g.CurrentRound = previous
	m.autosave(ctx, g)
	return m.state(ctx, g), nil
}

// AdvanceRound steps forward into an already-stored round, committing the
// working round first if it has any selections. It is a no-op when no later
// round exists (use NextRound to open a new one).
func (m *Manager) AdvanceRound(ctx context.Context, gameID string) (CurrentState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return CurrentState{}, err
	}
	next := g.CurrentRound + 1
	saved, ok := g.Rounds[next]
	if !ok {
		return m.state(ctx, g), nil
	}
	if HasSelections(m.workingAreas(ctx, g)) {
		m.commitRound(ctx, &g)
	}
	m.working[g.ID] = cloneAreas(saved.Areas)
	g.CurrentRound = next
	m.autosave(ctx, g)
	return m.state(ctx, g), nil
}

// DeleteRound drops one stored round and renumbers the survivors so the
// sequence stays dense from 1. The current round then moves to what used to
// be the next round, else the previous one, else a cleared round 1.
func (m *Manager) DeleteRound(ctx context.Context, gameID string, roundNumber int) (CurrentState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return CurrentState{}, err
	}
	if _, ok := g.Rounds[roundNumber]; !ok {
		return CurrentState{}, ErrRoundNotFound
	}

	numbers := sortedRoundNumbers(g.Rounds)
	renumbered := make(map[int]RoundState, len(g.Rounds)-1)
	index := 1
	for _, n := range numbers {
		if n == roundNumber {
			continue
		}
		renumbered[index] = g.Rounds[n]
		index++
	}
	g.Rounds = renumbered

	switch {
	case roundNumber <= len(renumbered):
		// The deleted round's slot now holds what used to follow it.
		g.CurrentRound = roundNumber
		m.working[g.ID] = cloneAreas(renumbered[roundNumber].Areas)
	case len(renumbered) > 0:
		g.CurrentRound = len(renumbered)
		m.working[g.ID] = cloneAreas(renumbered[len(renumbered)].Areas)
	default:
		g.CurrentRound = 1
		m.working[g.ID] = ClearSelections(m.workingAreas(ctx, g))
	}

	m.autosave(ctx, g)
	return m.state(ctx, g), nil
}

// Cashout computes final totals and both settlement lists.
func (m *Manager) Cashout(ctx context.Context, gameID string) (PlayerPoints, SettlementResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return nil, SettlementResult{}, err
	}
	totals := GameTotals(g)
	return totals, ComputeSettlements(g.Players, totals), nil
}

// Settings returns the persisted settings, falling back to defaults.
func (m *Manager) Settings(ctx context.Context) Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings(ctx)
}

// SaveSettings persists new settings. Stored rounds are never rewritten.
func (m *Manager) SaveSettings(ctx context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.DefaultMultiplier < 1 {
		return ErrInvalidMultiplier
	}
	return m.store.SaveSettings(ctx, s)
}

func (m *Manager) editAreas(ctx context.Context, gameID string, edit func([]Area) ([]Area, error)) (CurrentState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.loadGame(ctx, gameID)
	if err != nil {
		return CurrentState{}, err
	}
	areas, err := edit(m.workingAreas(ctx, g))
	if err != nil {
		return CurrentState{}, err
	}
	m.working[g.ID] = areas
	m.autosave(ctx, g)
	return m.state(ctx, g), nil
}

// commitRound writes the working areas and their final points into
// rounds[currentRound].
func (m *Manager) commitRound(ctx context.Context, g *Game) {
	areas := m.workingAreas(ctx, *g)
	if strays := StrayPlayerIDs(areas, g.Players); len(strays) > 0 {
		m.log.Warn().Str("game", g.ID).Strs("players", strays).
			Msg("selections reference players outside the roster, ignoring them")
	}
	points := FinalRoundPoints(areas, g.Players, m.settings(ctx))
	if g.Rounds == nil {
		g.Rounds = make(map[int]RoundState)
	}
	g.Rounds[g.CurrentRound] = RoundState{Areas: cloneAreas(areas), Points: points}
}

// workingAreas returns the area snapshot being edited, rebuilding it from
// the saved round or a fresh board when the manager has none in memory.
func (m *Manager) workingAreas(ctx context.Context, g Game) []Area {
	if areas, ok := m.working[g.ID]; ok {
		return areas
	}
	if saved, ok := g.Rounds[g.CurrentRound]; ok {
		areas := cloneAreas(saved.Areas)
		m.working[g.ID] = areas
		return areas
	}
	areas := DefaultAreas(m.settings(ctx))
	m.working[g.ID] = areas
	return areas
}

func (m *Manager) state(ctx context.Context, g Game) CurrentState {
	areas := m.workingAreas(ctx, g)
	return CurrentState{
		Game:   g,
		Areas:  areas,
		Points: FinalRoundPoints(areas, g.Players, m.settings(ctx)),
		Totals: GameTotals(g),
	}
}

func (m *Manager) loadGame(ctx context.Context, id string) (Game, error) {
	games, err := m.store.LoadGames(ctx)
	if err != nil {
		return Game{}, err
	}
	for _, g := range games {
		if g.ID == id {
			return g, nil
		}
	}
	return Game{}, ErrGameNotFound
}

// autosave upserts the game into the persisted list. Failures are logged and
// swallowed: losing one save must never break the scoreboard.
func (m *Manager) autosave(ctx context.Context, g Game) {
	games, err := m.store.LoadGames(ctx)
	if err != nil {
		m.log.Warn().Err(err).Str("game", g.ID).Msg("load games for autosave failed")
		return
	}
	replaced := false
	for i := range games {
		if games[i].ID == g.ID {
			games[i] = g
			replaced = true
			break
		}
	}
	if !replaced {
		games = append(games, g)
	}
	if err := m.store.SaveGames(ctx, games); err != nil {
		m.log.Warn().Err(err).Str("game", g.ID).Msg("autosave failed")
	}
}

func (m *Manager) settings(ctx context.Context) Settings {
	s, err := m.store.LoadSettings(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("load settings failed, using defaults")
		return DefaultSettings()
	}
	return s
}

func sortedRoundNumbers(rounds map[int]RoundState) []int {
	numbers := make([]int, 0, len(rounds))
	for n := range rounds {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}
