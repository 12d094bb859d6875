// Package memory provides in-memory storage adapters, used as the
// default session backend and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu        sync.RWMutex
	histories map[string][]domain.Message
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		histories: make(map[string][]domain.Message),
	}
}

// Append adds a message to the session's history.
func (s *SessionStore) Append(_ context.Context, sessionID string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[sessionID] = append(s.histories[sessionID], msg)
	return nil
}

// History returns the session's messages in append order. An unknown
// session yields an empty history.
func (s *SessionStore) History(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.histories[sessionID]
	out := make([]domain.Message, len(history))
	copy(out, history)
	return out, nil
}

// Close releases resources.
func (s *SessionStore) Close() error {
	return nil
}
