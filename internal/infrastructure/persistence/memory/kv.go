// Package memory provides the in-memory key-value store driver used in
// tests and single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/platewise/v1/internal/ports/outbound"
)

// KVStore is a thread-safe in-memory implementation of the key-value
// collaborator.
type KVStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewKVStore creates an empty store.
func NewKVStore() *KVStore {
	return &KVStore{items: make(map[string][]byte)}
}

// Get retrieves a value, returning ErrKeyNotFound for absent keys.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, outbound.ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put stores a value under a key, overwriting any previous value.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.items[key] = stored
	s.mu.Unlock()
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Close releases nothing for the in-memory driver.
func (s *KVStore) Close() error {
	return nil
}
