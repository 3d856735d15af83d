// Package memory is an in-process audit store for local runs and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"suresavings/internal/audit"
	id "suresavings/pkg/domain"
)

type Store struct {
	mu      sync.RWMutex
	records map[id.UserID][]audit.Record
}

func New() *Store {
	return &Store{records: make(map[id.UserID][]audit.Record)}
}

func (s *Store) Append(_ context.Context, rec audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Steps = slices.Clone(rec.Steps)
	s.records[rec.UserID] = append(s.records[rec.UserID], rec)
	return nil
}

// ListByUser returns the user's records oldest first.
func (s *Store) ListByUser(_ context.Context, userID id.UserID) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records[userID]), nil
}
