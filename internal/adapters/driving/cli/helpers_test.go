package cli

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

func (m *mockRetriever) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.Document, error) {
	m.lastOpts = opts
	return m.docs, m.err
}

func (m *mockRetriever) KnownCompanies() []string {
	return m.companies
}

// mockAgent is a mock implementation of driving.Agent.
type mockAgent struct {
	standalone string
	answer     string
	err        error
}

func (m *mockAgent) StandaloneQuestion(_ context.Context, query string, _ []domain.Message) (string, error) {
	if m.standalone != "" {
		return m.standalone, m.err
	}
	return query, m.err
}

func (m *mockAgent) Respond(_ context.Context, _, _ string, _ []domain.Message) (string, error) {
	return m.answer, m.err
}

// setupTestServices injects mock services and returns a cleanup func.
func setupTestServices() func() {
	oldRetriever := retrieverService
	oldAgent := agentService

	retrieverService = &mockRetriever{
		docs: []domain.Document{
			{
				ID:      0,
				Content: "## Financials for Tronox (Currency: USD)",
				Metadata: domain.TableMetadata{
					CompanyName: "Tronox",
					TableName:   "financials",
					SourceURL:   "https://www.9fin.com/companies/tronox",
				},
			},
		},
		companies: []string{"Tronox", "Asda"},
	}
	agentService = &mockAgent{answer: "Revenue was $3,074m in FY2024."}

	return func() {
		retrieverService = oldRetriever
		agentService = oldAgent
	}
}
