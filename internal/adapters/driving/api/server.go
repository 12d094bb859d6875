// Package api exposes the finchat agent and retriever over a JSON
// HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/finchat-labs/finchat-cli/internal/core/ports/driving"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Agent     driving.Agent     // Required
	Sessions  driving.Sessions  // Required
	Retriever driving.Retriever // Required
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Agent == nil {
		return nil, errors.New("agent is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("sessions are required")
	}
	if cfg.Retriever == nil {
		return nil, errors.New("retriever is required")
	}

	ch := &chatHandler{
		agent:    cfg.Agent,
		sessions: cfg.Sessions,
	}
	sh := &searchHandler{
		retriever: cfg.Retriever,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", ch.send)
	mux.HandleFunc("GET /search", sh.search)
	mux.HandleFunc("GET /companies", sh.companies)

	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	handler = recoveryMiddleware(handler)

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves the API on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
