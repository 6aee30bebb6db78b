// Package bbolt persists the tracker's three records (player pool, game
// list, settings) as JSON blobs in a BoltDB file, one key per record.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/pointsplit/2468/internal/game"
)

const trackerBucket = "2468_tracker"

const (
	playersKey  = "players"
	gamesKey    = "games"
	settingsKey = "settings"
)

// Store is a BoltDB-backed implementation of game.Store.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the store at the given path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(trackerBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadPlayers returns the persisted player pool, or the seed roster when
// nothing has been stored yet.
func (s *Store) LoadPlayers(ctx context.Context) ([]game.Player, error) {
	var players []game.Player
	ok, err := s.get(ctx, playersKey, &players)
	if err != nil {
		return nil, err
	}
	if !ok {
		return seedPlayers(), nil
	}
	return players, nil
}

// SavePlayers overwrites the player pool.
func (s *Store) SavePlayers(ctx context.Context, players []game.Player) error {
	return s.put(ctx, playersKey, players)
}

// LoadGames returns the persisted game list, empty when nothing is stored.
func (s *Store) LoadGames(ctx context.Context) ([]game.Game, error) {
	var games []game.Game
	if _, err := s.get(ctx, gamesKey, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// SaveGames overwrites the game list.
func (s *Store) SaveGames(ctx context.Context, games []game.Game) error {
	return s.put(ctx, gamesKey, games)
}

// LoadSettings returns the persisted settings, or defaults when nothing is
// stored.
func (s *Store) LoadSettings(ctx context.Context) (game.Settings, error) {
	var settings game.Settings
	ok, err := s.get(ctx, settingsKey, &settings)
	if err != nil {
		return game.Settings{}, err
	}
	if !ok {
		return game.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings overwrites the settings record.
func (s *Store) SaveSettings(ctx context.Context, settings game.Settings) error {
	return s.put(ctx, settingsKey, settings)
}

func (s *Store) put(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(trackerBucket))
		if bucket == nil {
			return fmt.Errorf("tracker bucket is missing")
		}
		return bucket.Put([]byte(key), payload)
	})
}

// get unmarshals the record under key into out, reporting whether the key
// was present.
func (s *Store) get(ctx context.Context, key string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.db == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(trackerBucket))
		if bucket == nil {
			return fmt.Errorf("tracker bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return nil
		}
		found = true
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		return nil
	})
	return found, err
}

// seedPlayers is the roster offered on first launch, so an empty database
// still has someone to pick.
func seedPlayers() []game.Player {
	return []game.Player{
		{ID: "1", FirstName: "John", LastName: "Doe"},
		{ID: "2", FirstName: "Jane", LastName: "Smith"},
		{ID: "3", FirstName: "Mike", LastName: "Johnson"},
	}
}
