package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driven"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driving"
	"github.com/finchat-labs/finchat-cli/internal/index"
	"github.com/finchat-labs/finchat-cli/internal/logger"
	"github.com/finchat-labs/finchat-cli/internal/processors/captable"
	"github.com/finchat-labs/finchat-cli/internal/processors/financial"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// RetrieverOptions configures retriever construction.
type RetrieverOptions struct {
	// DataPath is the raw source-data JSON file.
	DataPath string

	// MetadataPath is the JSON checkpoint holding documents and both
	// inverted indices.
	MetadataPath string

	// VectorIndexPath is the binary vector index checkpoint.
	VectorIndexPath string

	// Embedder generates document and query embeddings (required).
	Embedder driven.EmbeddingService

	// Vectors creates and opens vector indexes (required).
	Vectors driven.VectorIndexProvider
}

// RetrieverService owns the document store, both inverted indices and
// the vector index, and exposes hybrid search over them. The
// constructor decides load-vs-build; after it returns, all state is
// immutable and concurrent Search calls are safe.
type RetrieverService struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorIndex
	store    *index.Store
}

// tableProcessors is the static dispatch table from table kind to its
// processor.
func tableProcessors() map[string]driven.TableProcessor {
	return map[string]driven.TableProcessor{
		domain.TableKeyFinancials:       financial.New(domain.TableKeyFinancials),
		domain.TableCashFlowAndLeverage: financial.New(domain.TableCashFlowAndLeverage),
		domain.TableCapTable:            captable.New(),
	}
}

// NewRetrieverService constructs the retriever. If both checkpoint
// artifacts exist the in-memory state is reconstructed from them
// without recomputation; if neither exists the index is built from the
// raw source data and persisted. Exactly one artifact present is a
// fatal consistency error, as is any malformed artifact: the service
// never silently rebuilds over a damaged checkpoint.
func NewRetrieverService(ctx context.Context, opts RetrieverOptions) (*RetrieverService, error) {
	if opts.Embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if opts.Vectors == nil {
		return nil, fmt.Errorf("%w: no vector index provider", domain.ErrInvalidInput)
	}

	s := &RetrieverService{embedder: opts.Embedder}

	haveMeta := fileExists(opts.MetadataPath)
	haveVec := fileExists(opts.VectorIndexPath)

	switch {
	case haveMeta && haveVec:
		logger.Info("Loading index from checkpoints")
		if err := s.loadFromCheckpoints(opts); err != nil {
			return nil, err
		}
	case haveMeta != haveVec:
		return nil, fmt.Errorf("%w: metadata present=%t, vector index present=%t",
			domain.ErrCheckpointInconsistent, haveMeta, haveVec)
	default:
		logger.Info("No checkpoints found, building index from source data")
		if err := s.buildFromScratch(ctx, opts); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// buildFromScratch parses the raw source data, generates one embedding
// per document and persists both checkpoint artifacts.
func (s *RetrieverService) buildFromScratch(ctx context.Context, opts RetrieverOptions) error {
	logger.Section("Index Build")

	store, err := parseSourceData(opts.DataPath)
	if err != nil {
		return err
	}
	s.store = store

	docs := store.Documents()
	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}

	logger.Info("Generating embeddings for %d documents", len(contents))
	embeddings, err := s.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("%w: %d embeddings for %d documents", domain.ErrInvalidInput, len(embeddings), len(docs))
	}

	// The vector index is keyed by document ID, not by position, so the
	// ID is the stable join key between store and index.
	vectors := opts.Vectors.New(s.embedder.Dimensions())
	if err := vectors.AddBatch(ctx, store.IDs(), embeddings); err != nil {
		return fmt.Errorf("build vector index: %w", err)
	}
	s.vectors = vectors

	if err := s.saveCheckpoints(opts); err != nil {
		return err
	}
	logger.Info("Index build complete, checkpoints saved")
	return nil
}

// saveCheckpoints writes the metadata artifact and the vector index
// artifact under the configured checkpoint paths.
func (s *RetrieverService) saveCheckpoints(opts RetrieverOptions) error {
	for _, path := range []string{opts.MetadataPath, opts.VectorIndexPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return fmt.Errorf("create checkpoint dir: %w", err)
			}
		}
	}
	if err := s.store.SaveFile(opts.MetadataPath); err != nil {
		return err
	}
	if err := s.vectors.SaveFile(opts.VectorIndexPath); err != nil {
		return err
	}
	return nil
}

// loadFromCheckpoints reconstructs the store, both inverted indices and
// the vector index verbatim from the persisted artifacts.
func (s *RetrieverService) loadFromCheckpoints(opts RetrieverOptions) error {
	vectors, err := opts.Vectors.Open(opts.VectorIndexPath)
	if err != nil {
		return err
	}

	store, err := index.LoadFile(opts.MetadataPath)
	if err != nil {
		return err
	}

	s.vectors = vectors
	s.store = store
	logger.Info("Loaded %d documents and indices from checkpoints", store.Len())
	return nil
}

// parseSourceData reads the raw JSON corpus and processes every present
// table of every company into documents with sequential IDs. Companies
// missing a name or ID are skipped whole, logged with context; no
// partial documents are created for them.
func parseSourceData(path string) (*index.Store, error) {
	logger.Info("Loading source data from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMissingSourceData, err)
	}

	var source domain.SourceData
	if err := json.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrMissingSourceData, path, err)
	}
	if len(source.CompanyFinancials) == 0 {
		return nil, fmt.Errorf("%w: source data has no %q entries", domain.ErrMissingSourceData, "company_financials")
	}

	procs := tableProcessors()
	store := index.NewStore()
	var docID int64

	for _, record := range source.CompanyFinancials {
		if record.Company == "" || record.CompanyID == 0 {
			logger.Warn("Skipping company with missing name or ID: name=%q id=%d", record.Company, record.CompanyID)
			continue
		}

		info := record.Info()
		logger.Debug("Processing company %s (ID %d)", info.Name, info.ID)

		for _, table := range record.Tables() {
			proc := procs[table.Kind]
			content, meta, err := proc.Process(info, table)
			if err != nil {
				return nil, fmt.Errorf("process %s table for %s: %w", table.Kind, info.Name, err)
			}

			store.Add(domain.Document{ID: docID, Content: content, Metadata: meta})
			docID++
		}
	}

	logger.Info("Processed %d documents from %d companies", store.Len(), len(source.CompanyFinancials))
	return store, nil
}

// Search embeds the query, restricts the candidate set via the inverted
// indices and runs nearest-neighbour search, returning documents ranked
// closest first.
//
// Filter semantics: a filter value absent from its index applies no
// restriction; filters that are recognised but intersect to nothing
// yield an empty result, never a fallback to unrestricted search.
func (s *RetrieverService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Document, error) {
	k := opts.Limit()
	if k == 0 {
		return []domain.Document{}, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, filtered := s.candidateIDs(opts)
	if filtered && len(candidates) == 0 {
		logger.Debug("Filters matched no documents, returning empty result")
		return []domain.Document{}, nil
	}

	var hits []driven.VectorHit
	if filtered {
		logger.Debug("Restricted search over %d candidates", len(candidates))
		hits, err = s.vectors.SearchSubset(ctx, embedding, k, candidates)
	} else {
		logger.Debug("Unrestricted search across all documents")
		hits, err = s.vectors.Search(ctx, embedding, k)
	}
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]domain.Document, 0, len(hits))
	for _, hit := range hits {
		if hit.DocID < 0 {
			continue
		}
		doc, ok := s.store.Get(hit.DocID)
		if !ok {
			return nil, fmt.Errorf("%w: id %d has a vector but no document", domain.ErrIndexCorrupt, hit.DocID)
		}
		results = append(results, doc)
	}
	return results, nil
}

// candidateIDs resolves the metadata filters to a candidate document ID
// set. filtered reports whether any supplied filter was recognised; an
// unrecognised filter value contributes no restriction.
func (s *RetrieverService) candidateIDs(opts domain.SearchOptions) (candidates []int64, filtered bool) {
	if opts.Company != "" {
		if ids, ok := s.store.CompanyIDs(opts.Company); ok {
			candidates = ids
			filtered = true
		} else {
			logger.Debug("Unknown company filter %q, ignoring", opts.Company)
		}
	}

	if opts.Table != "" {
		if ids, ok := s.store.TableIDs(opts.Table); ok {
			if filtered {
				candidates = intersect(candidates, ids)
			} else {
				candidates = ids
			}
			filtered = true
		} else {
			logger.Debug("Unknown table filter %q, ignoring", opts.Table)
		}
	}

	return candidates, filtered
}

// intersect keeps the elements of a that also occur in b, preserving
// a's order.
func intersect(a, b []int64) []int64 {
	inB := make(map[int64]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	out := make([]int64, 0, len(a))
	for _, id := range a {
		if _, ok := inB[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// KnownCompanies returns the indexed company names in first-ingested
// order.
func (s *RetrieverService) KnownCompanies() []string {
	return s.store.Companies()
}

// Close releases the vector index.
func (s *RetrieverService) Close() error {
	if s.vectors != nil {
		return s.vectors.Close()
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
