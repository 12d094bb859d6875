package driven

import "context"

// LLMService generates text from a prompt. The agent treats it as an
// opaque text-generation function; prompt construction belongs to the
// agent, not the adapter.
type LLMService interface {
	// Generate produces a completion for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the underlying model.
	ModelName() string

	// Close releases resources.
	Close() error
}
