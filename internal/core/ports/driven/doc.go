// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding generation, vector search, LLM
// text generation, session persistence and table processing.
package driven
