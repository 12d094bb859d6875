package mcp

import (
	"context"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	docs      []domain.Document
	companies []string
	err       error

	lastOpts domain.SearchOptions
}

func (m *mockRetriever) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.Document, error) {
	m.lastOpts = opts
	return m.docs, m.err
}

func (m *mockRetriever) KnownCompanies() []string {
	return m.companies
}
