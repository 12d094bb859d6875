package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"the search query to find financial documents"`
	Company string `json:"company,omitempty" jsonschema:"restrict results to a company name"`
	Table   string `json:"table,omitempty" jsonschema:"restrict results to a table type (financials, cash_flow_and_leverage, cap_table)"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocID     int64  `json:"doc_id"`
	Company   string `json:"company"`
	Table     string `json:"table"`
	SourceURL string `json:"source_url,omitempty"`
	Content   string `json:"content"`
}

// CompaniesInput is the input schema for the companies tool.
type CompaniesInput struct{}

// CompaniesOutput is the output schema for the companies tool.
type CompaniesOutput struct {
	Companies []string `json:"companies"`
	Count     int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the financial knowledge base of company tables",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "companies",
		Description: "List the companies covered by the knowledge base",
	}, s.handleCompanies)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchK
	}

	opts := domain.SearchOptions{
		K:       limit,
		Company: input.Company,
		Table:   input.Table,
	}
	docs, err := s.ports.Retriever.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(docs)),
		Count:   len(docs),
	}

	for i := range docs {
		output.Results[i] = SearchResultOutput{
			DocID:     docs[i].ID,
			Company:   docs[i].Metadata.CompanyName,
			Table:     docs[i].Metadata.TableName,
			SourceURL: docs[i].Metadata.SourceURL,
			Content:   docs[i].Content,
		}
	}

	return nil, output, nil
}

// handleCompanies handles the companies tool invocation.
func (s *Server) handleCompanies(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ CompaniesInput,
) (*mcp.CallToolResult, CompaniesOutput, error) {
	companies := s.ports.Retriever.KnownCompanies()
	return nil, CompaniesOutput{
		Companies: companies,
		Count:     len(companies),
	}, nil
}
