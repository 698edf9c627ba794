package store

import (
	"context"
	"sync"

	"vouch/internal/verification/models"
)

// InMemoryStore keeps records in a mutex-guarded map. It backs tests and
// local development; production deployments use the Redis or Postgres store.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.Record
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]models.Record)}
}

func (s *InMemoryStore) FindAny(_ context.Context, keys ...string) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range keys {
		if rec, ok := s.records[key]; ok {
			return rec, nil
		}
	}
	return models.Record{}, ErrNotFound
}

func (s *InMemoryStore) Save(_ context.Context, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Username] = rec
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[key]
	delete(s.records, key)
	return ok, nil
}
