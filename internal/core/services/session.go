package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driven"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.Sessions = (*SessionService)(nil)

// SessionService manages conversation sessions and their histories.
type SessionService struct {
	store driven.SessionStore
}

// NewSessionService creates a session service over the given store.
func NewSessionService(store driven.SessionStore) *SessionService {
	return &SessionService{store: store}
}

// Start returns a new unique session ID.
func (s *SessionService) Start() string {
	return uuid.NewString()
}

// History returns the conversation history for a session.
func (s *SessionService) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return s.store.History(ctx, sessionID)
}

// Append records a message on a session.
func (s *SessionService) Append(ctx context.Context, sessionID, role, content string) error {
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	return s.store.Append(ctx, sessionID, domain.Message{Role: role, Content: content})
}
