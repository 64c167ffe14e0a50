// Package history stores per-session conversation turns that feed the
// generation context. Stores append every turn; the prompt layer applies
// its own window on read, so trimming here is purely a storage bound.
package history

import (
	"context"
	"sync"

	"github.com/hanghive/hang-bot/internal/prompt"
)

// MaxStoredTurns bounds how many turns a store keeps per session. Twice the
// prompt window leaves slack for inspection without unbounded growth.
const MaxStoredTurns = 2 * prompt.HistoryWindow

// Store persists conversation turns keyed by session ID.
type Store interface {
	// Append records a turn at the end of the session's history.
	Append(ctx context.Context, sessionID string, turn prompt.Turn) error
	// Turns returns the session's stored turns in chronological order.
	Turns(ctx context.Context, sessionID string) ([]prompt.Turn, error)
	// Clear removes the session's history.
	Clear(ctx context.Context, sessionID string) error
}

// MemoryStore is a process-lifetime history store used by the terminal
// front end and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]prompt.Turn
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]prompt.Turn)}
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, turn prompt.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[sessionID], turn)
	if len(turns) > MaxStoredTurns {
		turns = turns[len(turns)-MaxStoredTurns:]
	}
	s.sessions[sessionID] = turns
	return nil
}

func (s *MemoryStore) Turns(_ context.Context, sessionID string) ([]prompt.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[sessionID]
	out := make([]prompt.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}
