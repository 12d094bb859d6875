package driving

import (
	"context"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// Agent orchestrates retrieval and answer generation for one user turn.
type Agent interface {
	// StandaloneQuestion rewrites a follow-up query into a
	// self-contained question using the conversation history. With no
	// history the query is returned unchanged.
	StandaloneQuestion(ctx context.Context, query string, history []domain.Message) (string, error)

	// Respond answers the user's query grounded in retrieved context.
	// standalone is the rewritten self-contained form of query used for
	// retrieval and filter extraction.
	Respond(ctx context.Context, query, standalone string, history []domain.Message) (string, error)
}

// Sessions manages conversation sessions and their histories.
type Sessions interface {
	// Start returns a new unique session ID.
	Start() string

	// History returns the conversation history for a session.
	History(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Append records a message on a session.
	Append(ctx context.Context, sessionID, role, content string) error
}
