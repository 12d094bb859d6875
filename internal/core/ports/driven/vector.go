package driven

import "context"

// VectorIndex provides nearest-neighbour search over fixed-dimension
// embedding vectors keyed by explicit document IDs. Stored entries are
// immutable after the initial build; implementations must be safe for
// concurrent Search calls.
type VectorIndex interface {
	// AddBatch inserts vectors under the given IDs. ids and vectors are
	// parallel slices.
	AddBatch(ctx context.Context, ids []int64, vectors [][]float32) error

	// Search finds the k nearest neighbours to the query vector across
	// all stored entries, closest first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// SearchSubset finds the k nearest neighbours restricted to the
	// given candidate IDs, closest first. IDs absent from the index are
	// ignored.
	SearchSubset(ctx context.Context, query []float32, k int, candidates []int64) ([]VectorHit, error)

	// Dimensions returns the vector size the index was created with.
	Dimensions() int

	// Len returns the number of stored vectors.
	Len() int

	// SaveFile serialises the index to a file at path.
	SaveFile(path string) error

	// Close releases resources.
	Close() error
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// DocID is the matched document. Negative values are "no match"
	// sentinels and must be skipped by callers.
	DocID int64

	// Distance is the squared Euclidean distance to the query
	// (smaller is closer).
	Distance float64
}

// VectorIndexProvider creates empty vector indexes and opens persisted
// ones. It lets the retriever own the load-vs-build decision without
// binding to a concrete index implementation.
type VectorIndexProvider interface {
	// New creates an empty index for vectors of the given dimension.
	New(dimensions int) VectorIndex

	// Open deserialises an index previously written with SaveFile.
	Open(path string) (VectorIndex, error)
}
