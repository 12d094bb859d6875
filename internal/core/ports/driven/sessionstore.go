package driven

import (
	"context"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// SessionStore persists conversation histories keyed by session ID.
// History order is append order.
type SessionStore interface {
	// Append adds a message to the session's history.
	Append(ctx context.Context, sessionID string, msg domain.Message) error

	// History returns the session's messages in append order. An
	// unknown session yields an empty history, not an error.
	History(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Close releases resources.
	Close() error
}
