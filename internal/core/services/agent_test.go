package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

func contextDocs() []domain.Document {
	return []domain.Document{
		{
			ID:      0,
			Content: "## Key Financials for Tronox (Currency: USD)",
			Metadata: domain.TableMetadata{
				CompanyName: "Tronox",
				TableName:   domain.TableKeyFinancials,
				SourceURL:   "www.9fin.com/companies/tronox/financials",
			},
		},
	}
}

func TestStandaloneQuestion_NoHistoryPassesThrough(t *testing.T) {
	llm := &mockLLM{answer: "should not be called"}
	agent := NewAgentService(&mockAgentRetriever{}, llm)

	got, err := agent.StandaloneQuestion(context.Background(), "What was Tronox's revenue?", nil)
	require.NoError(t, err)
	assert.Equal(t, "What was Tronox's revenue?", got)
	assert.Empty(t, llm.prompts)
}

func TestStandaloneQuestion_NoLLMPassesThrough(t *testing.T) {
	agent := NewAgentService(&mockAgentRetriever{}, nil)

	history := []domain.Message{{Role: domain.RoleUser, Content: "earlier"}}
	got, err := agent.StandaloneQuestion(context.Background(), "And EBITDA?", history)
	require.NoError(t, err)
	assert.Equal(t, "And EBITDA?", got)
}

func TestStandaloneQuestion_RewritesWithHistory(t *testing.T) {
	llm := &mockLLM{answer: "  What was Tronox's EBITDA in FY2024?\n"}
	agent := NewAgentService(&mockAgentRetriever{}, llm)

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "What was Tronox's revenue?"},
		{Role: domain.RoleAssistant, Content: "Revenue was $3,074m."},
	}

	got, err := agent.StandaloneQuestion(context.Background(), "And its EBITDA?", history)
	require.NoError(t, err)
	assert.Equal(t, "What was Tronox's EBITDA in FY2024?", got)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Follow-up Question")
	assert.Contains(t, llm.prompts[0], "user: What was Tronox's revenue?")
	assert.Contains(t, llm.prompts[0], "And its EBITDA?")
}

func TestRespond_NoLLM(t *testing.T) {
	agent := NewAgentService(&mockAgentRetriever{}, nil)

	_, err := agent.Respond(context.Background(), "q", "q", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestRespond_GroundedAnswer(t *testing.T) {
	retriever := &mockAgentRetriever{
		docs:      contextDocs(),
		companies: []string{"Tronox", "Asda"},
	}
	llm := &mockLLM{answer: "Revenue was $3,074m [cite: www.9fin.com/companies/tronox/financials]"}
	agent := NewAgentService(retriever, llm)

	answer, err := agent.Respond(context.Background(), "What was Tronox's revenue?", "What was Tronox's revenue?", nil)
	require.NoError(t, err)
	assert.Contains(t, answer, "$3,074m")

	// Retrieval runs on the standalone question with the extracted
	// company filter.
	assert.Equal(t, "What was Tronox's revenue?", retriever.lastQuery)
	assert.Equal(t, "Tronox", retriever.lastOpts.Company)
	assert.Equal(t, retrievalK, retriever.lastOpts.K)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Source URL: www.9fin.com/companies/tronox/financials")
	assert.Contains(t, llm.prompts[0], "## Key Financials for Tronox")
	assert.Contains(t, llm.prompts[0], "This is the beginning of the conversation.")
}

func TestRespond_CompanyExtractionIsCaseInsensitive(t *testing.T) {
	retriever := &mockAgentRetriever{companies: []string{"Tronox"}}
	llm := &mockLLM{answer: "ok"}
	agent := NewAgentService(retriever, llm)

	_, err := agent.Respond(context.Background(), "q", "what was TRONOX's revenue?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Tronox", retriever.lastOpts.Company)
}

func TestRespond_NoCompanyMentioned(t *testing.T) {
	retriever := &mockAgentRetriever{companies: []string{"Tronox"}}
	llm := &mockLLM{answer: "ok"}
	agent := NewAgentService(retriever, llm)

	_, err := agent.Respond(context.Background(), "q", "which company has the most debt?", nil)
	require.NoError(t, err)
	assert.Empty(t, retriever.lastOpts.Company)
}

func TestRespond_NoResultsFallbackContext(t *testing.T) {
	retriever := &mockAgentRetriever{companies: []string{"Tronox"}}
	llm := &mockLLM{answer: "I do not have information to answer this question."}
	agent := NewAgentService(retriever, llm)

	history := []domain.Message{{Role: domain.RoleUser, Content: "hi"}}
	_, err := agent.Respond(context.Background(), "what about Hertz?", "what about Hertz?", history)
	require.NoError(t, err)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "No relevant data found in the knowledge base.")
	assert.Contains(t, llm.prompts[0], "user: hi")
}

func TestRespond_RetrieverError(t *testing.T) {
	retriever := &mockAgentRetriever{err: errors.New("index corrupt")}
	llm := &mockLLM{answer: "ok"}
	agent := NewAgentService(retriever, llm)

	_, err := agent.Respond(context.Background(), "q", "q", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieve context")
}
