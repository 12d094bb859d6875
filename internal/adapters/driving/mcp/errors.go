// Package mcp provides an MCP (Model Context Protocol) server adapter for finchat.
// It lets AI assistants query the financial knowledge base directly.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
