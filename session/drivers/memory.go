package drivers

import (
	"bytes"
	"context"
	"sync"

	"github.com/creastat/espace-cours/session"
)

// InMemoryStore implements session.Store using an in-memory map.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string][]byte),
	}
}

// Get implements session.Store.
// Returns nil if the key is not found (not an error).
func (s *InMemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, exists := s.records[key]
	if !exists {
		return nil, nil // Not found
	}
	return bytes.Clone(val), nil
}

// Set implements session.Store.
func (s *InMemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records == nil {
		return ErrStoreClosed
	}
	s.records[key] = bytes.Clone(value)
	return nil
}

// Delete implements session.Store.
func (s *InMemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

// Close implements session.Store.
func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

var _ session.Store = (*InMemoryStore)(nil)
