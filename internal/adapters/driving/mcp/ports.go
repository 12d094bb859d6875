package mcp

import (
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever provides search over the financial knowledge base.
	Retriever driving.Retriever
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
