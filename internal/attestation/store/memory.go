// Package store holds the attestation request stores.
package store

import (
	"context"
	"sort"
	"sync"

	"suresavings/internal/attestation"
	id "suresavings/pkg/domain"
	"suresavings/pkg/platform/sentinel"
)

// InMemoryStore keeps requests in process memory.
type InMemoryStore struct {
	mu        sync.RWMutex
	requests  map[id.AttestationID]attestation.Request
	bySession map[id.SessionID][]id.AttestationID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		requests:  make(map[id.AttestationID]attestation.Request),
		bySession: make(map[id.SessionID][]id.AttestationID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, req *attestation.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.ID]; !exists {
		s.bySession[req.SessionID] = append(s.bySession[req.SessionID], req.ID)
	}
	s.requests[req.ID] = *req
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, requestID id.AttestationID) (*attestation.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &req, nil
}

func (s *InMemoryStore) ListBySession(_ context.Context, sessionID id.SessionID) ([]*attestation.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.bySession[sessionID]
	out := make([]*attestation.Request, 0, len(ids))
	for _, rid := range ids {
		req := s.requests[rid]
		out = append(out, &req)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].AttesterIndex < out[j].AttesterIndex
	})
	return out, nil
}
