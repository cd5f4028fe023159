package progress

import (
	"context"
	"sync"
	"time"
)

// PauseStore records day-scoped "does not count as missed" flags, keyed by
// habit ID and calendar date. A flag expires by key comparison alone: a key
// for any day other than the one being asked about simply never matches, so
// no sweeper or TTL machinery is involved.
type PauseStore interface {
	SetPaused(ctx context.Context, habitID string, day time.Time) error
	IsPaused(ctx context.Context, habitID string, day time.Time) (bool, error)
	ClearPaused(ctx context.Context, habitID string, day time.Time) error
}

// PauseKey builds the composite key for a habit's pause flag on a day.
func PauseKey(habitID string, day time.Time) string {
	return "pause:" + habitID + ":" + day.Format("2006-01-02")
}

// MemoryPauseStore is a PauseStore backed by an in-process map. Used in
// tests and dev mode; production wires the Postgres-backed store.
type MemoryPauseStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func NewMemoryPauseStore() *MemoryPauseStore {
	return &MemoryPauseStore{keys: make(map[string]bool)}
}

func (s *MemoryPauseStore) SetPaused(_ context.Context, habitID string, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[PauseKey(habitID, day)] = true
	return nil
}

func (s *MemoryPauseStore) IsPaused(_ context.Context, habitID string, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[PauseKey(habitID, day)], nil
}

func (s *MemoryPauseStore) ClearPaused(_ context.Context, habitID string, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, PauseKey(habitID, day))
	return nil
}

var _ PauseStore = (*MemoryPauseStore)(nil)
