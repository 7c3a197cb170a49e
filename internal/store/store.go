// Package store persists game state between actions. Games are stored as one
// JSON blob per game ID so any backend that can hold bytes can serve.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/politicard/politicard/internal/game"
)

// ErrNotFound is returned when no game exists under the requested ID.
var ErrNotFound = errors.New("game not found")

// Store loads and saves complete game states.
type Store interface {
	Load(ctx context.Context, gameID string) (*game.GameState, error)
	Save(ctx context.Context, gs *game.GameState) error
	Delete(ctx context.Context, gameID string) error
	List(ctx context.Context) ([]string, error)
}

// MemoryStore keeps games in process memory. It is the default backend and
// the one tests use.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*game.GameState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: map[string]*game.GameState{}}
}

func (s *MemoryStore) Load(_ context.Context, gameID string) (*game.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gs, ok := s.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return gs, nil
}

func (s *MemoryStore) Save(_ context.Context, gs *game.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[gs.ID] = gs
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, gameID)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids, nil
}
