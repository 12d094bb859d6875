package services

import (
	"context"
	"fmt"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// mockEmbedder returns one-hot document embeddings in batch order and a
// configurable query embedding, keeping distances fully predictable.
type mockEmbedder struct {
	dim      int
	queryVec []float32

	embedCalls int
	batchCalls int
}

func newMockEmbedder(dim int) *mockEmbedder {
	return &mockEmbedder{dim: dim, queryVec: make([]float32, dim)}
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.embedCalls++
	vec := make([]float32, m.dim)
	copy(vec, m.queryVec)
	return vec, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if len(texts) > m.dim {
		return nil, fmt.Errorf("mock embedder supports at most %d texts, got %d", m.dim, len(texts))
	}
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, m.dim)
		vec[i] = 1
		vecs[i] = vec
	}
	return vecs, nil
}

func (m *mockEmbedder) Dimensions() int   { return m.dim }
func (m *mockEmbedder) ModelName() string { return "mock-embedder" }
func (m *mockEmbedder) Close() error      { return nil }

// mockLLM returns a fixed answer and records the prompts it saw.
type mockLLM struct {
	answer  string
	err     error
	prompts []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }

// mockAgentRetriever is a canned driving.Retriever for agent tests.
type mockAgentRetriever struct {
	docs      []domain.Document
	companies []string
	err       error

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockAgentRetriever) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.Document, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.docs, m.err
}

func (m *mockAgentRetriever) KnownCompanies() []string {
	return m.companies
}

// mockSessionStore is an in-memory driven.SessionStore.
type mockSessionStore struct {
	messages  map[string][]domain.Message
	appendErr error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{messages: map[string][]domain.Message{}}
}

func (m *mockSessionStore) Append(_ context.Context, sessionID string, msg domain.Message) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.messages[sessionID] = append(m.messages[sessionID], msg)
	return nil
}

func (m *mockSessionStore) History(_ context.Context, sessionID string) ([]domain.Message, error) {
	return m.messages[sessionID], nil
}

func (m *mockSessionStore) Close() error { return nil }
