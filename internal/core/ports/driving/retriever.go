package driving

import (
	"context"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// Retriever is the single entry point for hybrid retrieval over the
// indexed corpus.
type Retriever interface {
	// Search returns at most opts.Limit() documents ranked by vector
	// similarity, restricted by any recognised metadata filters.
	// Query-time issues (unknown filter values, empty candidate sets)
	// resolve to well-defined results, never errors.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Document, error)

	// KnownCompanies returns the company names present in the corpus,
	// in first-ingested order. Consumers use it for entity extraction.
	KnownCompanies() []string
}
