package api

import (
	"net/http"
	"strconv"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driving"
	"github.com/finchat-labs/finchat-cli/internal/logger"
)

// searchResult is one entry in the GET /search response.
type searchResult struct {
	DocID     int64  `json:"doc_id"`
	Company   string `json:"company"`
	Table     string `json:"table"`
	SourceURL string `json:"source_url,omitempty"`
	Content   string `json:"content"`
}

// searchResponse is the GET /search response body.
type searchResponse struct {
	Results []searchResult `json:"results"`
	Count   int            `json:"count"`
}

// companiesResponse is the GET /companies response body.
type companiesResponse struct {
	Companies []string `json:"companies"`
	Count     int      `json:"count"`
}

type searchHandler struct {
	retriever driving.Retriever
}

// search handles GET /search?q=...&company=...&table=...&k=N.
func (h *searchHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "q is required")
		return
	}

	opts := domain.SearchOptions{
		K:       domain.DefaultSearchK,
		Company: q.Get("company"),
		Table:   q.Get("table"),
	}
	if raw := q.Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "k must be an integer")
			return
		}
		opts.K = k
	}

	docs, err := h.retriever.Search(r.Context(), query, opts)
	if err != nil {
		logger.Error("search failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "search failed")
		return
	}

	resp := searchResponse{
		Results: make([]searchResult, len(docs)),
		Count:   len(docs),
	}
	for i := range docs {
		resp.Results[i] = searchResult{
			DocID:     docs[i].ID,
			Company:   docs[i].Metadata.CompanyName,
			Table:     docs[i].Metadata.TableName,
			SourceURL: docs[i].Metadata.SourceURL,
			Content:   docs[i].Content,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// companies handles GET /companies.
func (h *searchHandler) companies(w http.ResponseWriter, _ *http.Request) {
	companies := h.retriever.KnownCompanies()
	writeJSON(w, http.StatusOK, companiesResponse{
		Companies: companies,
		Count:     len(companies),
	})
}
