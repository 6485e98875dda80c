package memory

import (
	"context"
	"sync"
)

// Store is an in-process key-value store. It backs the history ledger when
// no durable store is configured and doubles as the test fake.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Update runs fn on the current value of key and stores its result, holding
// the write lock throughout. Nothing is written when fn fails.
func (s *Store) Update(_ context.Context, key string, fn func(current []byte, ok bool) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []byte
	v, ok := s.values[key]
	if ok {
		current = make([]byte, len(v))
		copy(current, v)
	}

	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	stored := make([]byte, len(next))
	copy(stored, next)
	s.values[key] = stored
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Name identifies the backend in status output.
func (s *Store) Name() string { return "memory" }
