package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingSourceData indicates the raw source-data file is absent
	// or does not contain the required top-level key. Fatal at startup.
	ErrMissingSourceData = errors.New("missing source data")

	// ErrCheckpointInconsistent indicates exactly one of the two
	// checkpoint artifacts is present. Treated as a fatal consistency
	// error rather than a rebuild trigger, so corruption is never
	// silently masked.
	ErrCheckpointInconsistent = errors.New("checkpoint artifacts inconsistent")

	// ErrCheckpointCorrupt indicates a checkpoint artifact exists but
	// could not be decoded. Fatal at startup.
	ErrCheckpointCorrupt = errors.New("checkpoint corrupt")

	// ErrIndexCorrupt indicates the vector index returned a document ID
	// absent from the document store. This is an internal-consistency
	// fault and must never occur under correct operation.
	ErrIndexCorrupt = errors.New("vector index and document store out of sync")

	// ErrDimensionMismatch indicates a vector of the wrong length was
	// added to or queried against a vector index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval cannot run without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer generation and query rewriting are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
