package store

import (
	"context"
	"sync"
	"time"

	"github.com/tatyana-kutkina/finance-bot/internal/entity"
)

// MemoryStore is the single-process backing. Distinct users may be read and
// written concurrently; the service serializes turns of the same user.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]entity.DialogState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]entity.DialogState),
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (entity.DialogState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return entity.DialogState{}, ErrStateNotFound
	}
	return state, nil
}

func (s *MemoryStore) Put(_ context.Context, state entity.DialogState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.LastActivity = time.Now()
	s.states[state.UserID] = state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
	return nil
}
