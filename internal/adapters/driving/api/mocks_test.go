package api

import (
	"context"
	"fmt"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// mockAgent is a mock implementation of driving.Agent.
type mockAgent struct {
	standalone    string
	standaloneErr error
	answer        string
	answerErr     error
}

func (m *mockAgent) StandaloneQuestion(_ context.Context, query string, _ []domain.Message) (string, error) {
	if m.standaloneErr != nil {
		return "", m.standaloneErr
	}
	if m.standalone != "" {
		return m.standalone, nil
	}
	return query, nil
}

func (m *mockAgent) Respond(_ context.Context, _, _ string, _ []domain.Message) (string, error) {
	return m.answer, m.answerErr
}

// mockSessions is an in-memory mock of driving.Sessions.
type mockSessions struct {
	nextID   int
	messages map[string][]domain.Message

	historyErr error
	appendErr  error
}

func newMockSessions() *mockSessions {
	return &mockSessions{messages: map[string][]domain.Message{}}
}

func (m *mockSessions) Start() string {
	m.nextID++
	return fmt.Sprintf("session-%d", m.nextID)
}

func (m *mockSessions) History(_ context.Context, sessionID string) ([]domain.Message, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.messages[sessionID], nil
}

func (m *mockSessions) Append(_ context.Context, sessionID, role, content string) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.messages[sessionID] = append(m.messages[sessionID], domain.Message{Role: role, Content: content})
	return nil
}

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	docs      []domain.Document
	companies []string
	err       error

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockRetriever) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.Document, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.docs, m.err
}

func (m *mockRetriever) KnownCompanies() []string {
	return m.companies
}
