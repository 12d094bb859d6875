// Package flat provides an exact nearest-neighbour vector index using
// brute-force squared Euclidean distance. The corpus is small enough
// that exact search outperforms approximate structures, and restricting
// search to an explicit candidate subset is trivial.
package flat

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores vectors keyed by explicit document IDs and answers
// k-nearest-neighbour queries, optionally restricted to a candidate ID
// subset. Reads are guarded by an RWMutex so concurrent Search calls
// are safe.
type Index struct {
	mu   sync.RWMutex
	dim  int
	ids  []int64
	vecs [][]float32
	pos  map[int64]int
}

// New creates an empty index for vectors of the given dimension.
func New(dimensions int) *Index {
	return &Index{
		dim: dimensions,
		pos: make(map[int64]int),
	}
}

// AddBatch inserts vectors under the given IDs. ids and vectors must be
// parallel and every vector must match the index dimension.
func (idx *Index) AddBatch(_ context.Context, ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("%w: %d ids for %d vectors", domain.ErrInvalidInput, len(ids), len(vectors))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, vec := range vectors {
		if len(vec) != idx.dim {
			return fmt.Errorf("%w: got %d, index expects %d", domain.ErrDimensionMismatch, len(vec), idx.dim)
		}
		if _, exists := idx.pos[ids[i]]; exists {
			return fmt.Errorf("%w: duplicate id %d", domain.ErrInvalidInput, ids[i])
		}
		idx.pos[ids[i]] = len(idx.ids)
		idx.ids = append(idx.ids, ids[i])
		idx.vecs = append(idx.vecs, vec)
	}
	return nil
}

// Search finds the k nearest neighbours across all stored vectors,
// closest first.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if err := idx.checkQuery(query); err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, 0, len(idx.ids))
	for i, id := range idx.ids {
		hits = append(hits, driven.VectorHit{DocID: id, Distance: squaredL2(query, idx.vecs[i])})
	}
	return topK(hits, k), nil
}

// SearchSubset finds the k nearest neighbours among the candidate IDs,
// closest first. Candidates absent from the index are ignored.
func (idx *Index) SearchSubset(_ context.Context, query []float32, k int, candidates []int64) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if err := idx.checkQuery(query); err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, 0, len(candidates))
	for _, id := range candidates {
		i, ok := idx.pos[id]
		if !ok {
			continue
		}
		hits = append(hits, driven.VectorHit{DocID: id, Distance: squaredL2(query, idx.vecs[i])})
	}
	return topK(hits, k), nil
}

// Dimensions returns the vector size the index was created with.
func (idx *Index) Dimensions() int {
	return idx.dim
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.ids)
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

func (idx *Index) checkQuery(query []float32) error {
	if len(query) != idx.dim {
		return fmt.Errorf("%w: query has %d, index expects %d", domain.ErrDimensionMismatch, len(query), idx.dim)
	}
	return nil
}

// squaredL2 computes the squared Euclidean distance between two vectors
// of equal length.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// topK sorts hits by ascending distance (ties broken by ID for
// determinism) and truncates to k.
func topK(hits []driven.VectorHit, k int) []driven.VectorHit {
	if k <= 0 {
		return []driven.VectorHit{}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].DocID < hits[j].DocID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
