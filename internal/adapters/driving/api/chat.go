package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driving"
	"github.com/finchat-labs/finchat-cli/internal/logger"
)

// maxChatBody bounds the request body size.
const maxChatBody = 64 << 10

// chatRequest is the POST /chat request body.
type chatRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// chatResponse is the POST /chat response body.
type chatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

type chatHandler struct {
	agent    driving.Agent
	sessions driving.Sessions
}

// send handles one conversational turn. A missing conversation_id
// starts a new session; the rewritten standalone question and the
// answer are appended to the session history.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBody)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}

	ctx := r.Context()

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = h.sessions.Start()
		logger.Debug("started conversation %s", conversationID)
	}

	history, err := h.sessions.History(ctx, conversationID)
	if err != nil {
		logger.Error("loading history for %s: %v", conversationID, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load conversation")
		return
	}

	standalone, err := h.agent.StandaloneQuestion(ctx, query, history)
	if err != nil {
		logger.Error("rewriting question: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to process query")
		return
	}

	answer, err := h.agent.Respond(ctx, query, standalone, history)
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "llm_unavailable", "no LLM is configured")
			return
		}
		logger.Error("generating answer: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to generate answer")
		return
	}

	if err := h.sessions.Append(ctx, conversationID, domain.RoleUser, standalone); err != nil {
		logger.Error("recording user turn: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to record conversation")
		return
	}
	if err := h.sessions.Append(ctx, conversationID, domain.RoleAssistant, answer); err != nil {
		logger.Error("recording assistant turn: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to record conversation")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:       answer,
		ConversationID: conversationID,
	})
}
