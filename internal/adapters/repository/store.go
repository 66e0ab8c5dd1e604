// Package repository persists season snapshots so a restarted process
// resumes at the recorded matchday.
//
// The in-memory store backs tests and ephemeral runs; the postgres store
// keeps durable history. Both serialize the snapshot as JSON, which also
// gives the in-memory store copy semantics for free.
package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/okian/calcio/internal/domain/model"
)

// Store provides read/write access to persisted league state.
type Store interface {
	// SaveSnapshot upserts the snapshot under its season index.
	SaveSnapshot(ctx context.Context, snap *model.SeasonSnapshot) error

	// LoadSnapshot returns the snapshot for one season index.
	// Returns ErrNotFound when the season was never saved.
	LoadSnapshot(ctx context.Context, seasonIndex int) (*model.SeasonSnapshot, error)

	// LatestSnapshot returns the snapshot with the highest season index.
	LatestSnapshot(ctx context.Context) (*model.SeasonSnapshot, error)

	// AppendLedger persists settlement-trail events.
	AppendLedger(ctx context.Context, events []model.LedgerEvent) error

	// Close releases underlying resources.
	Close() error
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[int][]byte
	ledger    []model.LedgerEvent
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[int][]byte)}
}

// SaveSnapshot upserts the snapshot under its season index.
func (s *MemoryStore) SaveSnapshot(_ context.Context, snap *model.SeasonSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.State.Index] = data
	return nil
}

// LoadSnapshot returns the snapshot for one season index.
func (s *MemoryStore) LoadSnapshot(_ context.Context, seasonIndex int) (*model.SeasonSnapshot, error) {
	s.mu.RLock()
	data, ok := s.snapshots[seasonIndex]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var snap model.SeasonSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// LatestSnapshot returns the snapshot with the highest season index.
func (s *MemoryStore) LatestSnapshot(ctx context.Context) (*model.SeasonSnapshot, error) {
	s.mu.RLock()
	best := -1
	for idx := range s.snapshots {
		if idx > best {
			best = idx
		}
	}
	s.mu.RUnlock()
	if best < 0 {
		return nil, ErrNotFound
	}
	return s.LoadSnapshot(ctx, best)
}

// AppendLedger persists settlement-trail events.
func (s *MemoryStore) AppendLedger(_ context.Context, events []model.LedgerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, events...)
	return nil
}

// Ledger returns everything appended so far.
func (s *MemoryStore) Ledger() []model.LedgerEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LedgerEvent, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
