package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-process cache backend. Entries live until their
// namespace is flushed.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string]map[string][]byte),
	}
}

// Get loads a key from memory.
func (s *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.namespaces[namespace]
	if !ok {
		observeCacheResult(namespace, "miss")
		return nil, ErrCacheMiss
	}
	value, ok := entries[key]
	if !ok {
		observeCacheResult(namespace, "miss")
		return nil, ErrCacheMiss
	}
	observeCacheResult(namespace, "hit")
	return append([]byte{}, value...), nil
}

// Set stores a key in memory.
func (s *MemoryStore) Set(_ context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.namespaces[namespace]
	if !ok {
		entries = make(map[string][]byte)
		s.namespaces[namespace] = entries
	}
	entries[key] = append([]byte{}, value...)
	return nil
}

// Flush drops every entry in the namespace.
func (s *MemoryStore) Flush(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.namespaces, namespace)
	observeCacheFlush(namespace)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
