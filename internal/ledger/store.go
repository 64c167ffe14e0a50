package ledger

import (
	"context"
	"sync"
)

// MemoryStore is a process-lifetime warning store. The single mutex covers
// the read-count-then-append critical section, so concurrent warns for the
// same user serialize and each observes a consistent prior length.
type MemoryStore struct {
	mu       sync.Mutex
	warnings map[string][]Warning
}

// NewMemoryStore creates an empty in-memory warning store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{warnings: make(map[string][]Warning)}
}

// Append adds a warning to the user's list and returns the new count.
func (s *MemoryStore) Append(_ context.Context, userID string, w Warning) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.warnings[userID] = append(s.warnings[userID], w)
	return len(s.warnings[userID]), nil
}

// List returns a copy of the user's warnings in insertion order.
func (s *MemoryStore) List(_ context.Context, userID string) ([]Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	warns := s.warnings[userID]
	out := make([]Warning, len(warns))
	copy(out, warns)
	return out, nil
}

// Clear removes the user's warning list and returns the removed count.
func (s *MemoryStore) Clear(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.warnings[userID])
	delete(s.warnings, userID)
	return count, nil
}
