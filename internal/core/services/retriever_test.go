package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchat-labs/finchat-cli/internal/adapters/driven/vector/flat"
	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// Fixture corpus: three documents in build order.
//
//	0: Tronox key_financials
//	1: Tronox cap_table
//	2: Asda key_financials
const fixtureJSON = `{
  "company_financials": [
    {
      "company": "Tronox",
      "company_id": 101,
      "currency": "USD",
      "periods": [{"period": "FY2024", "date": "2024-12-31"}],
      "key_financials": {
        "url": "/companies/tronox/financials",
        "rows": [{"metric": "Sales", "unit": "m", "values": [3074]}]
      },
      "cap_table": {
        "as_of": "2024-12-31",
        "url": "/companies/tronox/cap-table",
        "rows": [{"name": "Term Loan B", "amount_usdm": 900}]
      }
    },
    {
      "company": "Asda",
      "company_id": 202,
      "currency": "GBP",
      "periods": [{"period": "FY2024", "date": "2024-12-31"}],
      "key_financials": {
        "url": "/companies/asda/financials",
        "rows": [{"metric": "Revenue", "unit": "m", "values": [21000]}]
      }
    }
  ]
}`

type retrieverFixture struct {
	opts     RetrieverOptions
	embedder *mockEmbedder
}

func newFixture(t *testing.T) retrieverFixture {
	t.Helper()
	dir := t.TempDir()

	dataPath := filepath.Join(dir, "financial_data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(fixtureJSON), 0o600))

	embedder := newMockEmbedder(3)
	return retrieverFixture{
		opts: RetrieverOptions{
			DataPath:        dataPath,
			MetadataPath:    filepath.Join(dir, "checkpoints", "metadata.json"),
			VectorIndexPath: filepath.Join(dir, "checkpoints", "vectors.idx"),
			Embedder:        embedder,
			Vectors:         flat.NewProvider(),
		},
		embedder: embedder,
	}
}

func docIDs(docs []domain.Document) []int64 {
	ids := make([]int64, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

func TestNewRetrieverService_BuildsAndPersists(t *testing.T) {
	fx := newFixture(t)

	svc, err := NewRetrieverService(context.Background(), fx.opts)
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, 1, fx.embedder.batchCalls)
	assert.FileExists(t, fx.opts.MetadataPath)
	assert.FileExists(t, fx.opts.VectorIndexPath)
	assert.Equal(t, []string{"Tronox", "Asda"}, svc.KnownCompanies())
}

func TestNewRetrieverService_RequiresEmbedder(t *testing.T) {
	fx := newFixture(t)
	fx.opts.Embedder = nil

	_, err := NewRetrieverService(context.Background(), fx.opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestNewRetrieverService_MissingSourceData(t *testing.T) {
	fx := newFixture(t)
	fx.opts.DataPath = filepath.Join(t.TempDir(), "nope.json")

	_, err := NewRetrieverService(context.Background(), fx.opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingSourceData)
}

func TestNewRetrieverService_SkipsIncompleteCompanies(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "financial_data.json")
	content := `{"company_financials": [
		{"company": "", "company_id": 7, "key_financials": {"rows": []}},
		{"company": "NoID", "key_financials": {"rows": []}},
		{"company": "Tronox", "company_id": 101, "currency": "USD",
		 "periods": [], "key_financials": {"url": "/x", "rows": []}}
	]}`
	require.NoError(t, os.WriteFile(dataPath, []byte(content), 0o600))

	embedder := newMockEmbedder(3)
	svc, err := NewRetrieverService(context.Background(), RetrieverOptions{
		DataPath:        dataPath,
		MetadataPath:    filepath.Join(dir, "metadata.json"),
		VectorIndexPath: filepath.Join(dir, "vectors.idx"),
		Embedder:        embedder,
		Vectors:         flat.NewProvider(),
	})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, []string{"Tronox"}, svc.KnownCompanies())
}

func TestNewRetrieverService_PartialCheckpointIsFatal(t *testing.T) {
	fx := newFixture(t)

	svc, err := NewRetrieverService(context.Background(), fx.opts)
	require.NoError(t, err)
	svc.Close()

	require.NoError(t, os.Remove(fx.opts.VectorIndexPath))

	_, err = NewRetrieverService(context.Background(), fx.opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckpointInconsistent)
}

func TestNewRetrieverService_CorruptCheckpointIsFatal(t *testing.T) {
	fx := newFixture(t)

	svc, err := NewRetrieverService(context.Background(), fx.opts)
	require.NoError(t, err)
	svc.Close()

	require.NoError(t, os.WriteFile(fx.opts.MetadataPath, []byte("{broken"), 0o600))

	_, err = NewRetrieverService(context.Background(), fx.opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckpointCorrupt)
}

func TestNewRetrieverService_LoadsWithoutReembedding(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	built, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)

	fx.embedder.queryVec = []float32{0, 1, 0}
	wantDocs, err := built.Search(ctx, "tronox debt", domain.SearchOptions{K: 3})
	require.NoError(t, err)
	built.Close()

	// Second construction must reconstruct from the artifacts alone.
	fx.embedder.batchCalls = 0
	loaded, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)
	defer loaded.Close()

	assert.Equal(t, 0, fx.embedder.batchCalls)
	assert.Equal(t, []string{"Tronox", "Asda"}, loaded.KnownCompanies())

	gotDocs, err := loaded.Search(ctx, "tronox debt", domain.SearchOptions{K: 3})
	require.NoError(t, err)
	assert.Equal(t, wantDocs, gotDocs)
}

func TestSearch_RanksByDistance(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	svc, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)
	defer svc.Close()

	// Query sits on document 2's axis.
	fx.embedder.queryVec = []float32{0, 0, 1}
	docs, err := svc.Search(ctx, "asda revenue", domain.SearchOptions{K: 3})
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, int64(2), docs[0].ID)
	assert.Equal(t, "Asda", docs[0].Metadata.CompanyName)
}

func TestSearch_CompanyFilter(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	svc, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)
	defer svc.Close()

	// Nearest overall is document 2, but the filter excludes Asda.
	fx.embedder.queryVec = []float32{0, 0, 1}
	docs, err := svc.Search(ctx, "revenue", domain.SearchOptions{K: 3, Company: "Tronox"})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 1}, docIDs(docs))
	for _, doc := range docs {
		assert.Equal(t, "Tronox", doc.Metadata.CompanyName)
	}
}

func TestSearch_TableFilter(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	svc, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)
	defer svc.Close()

	fx.embedder.queryVec = []float32{1, 0, 0}
	docs, err := svc.Search(ctx, "sales", domain.SearchOptions{K: 3, Table: domain.TableKeyFinancials})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 2}, docIDs(docs))
}

func TestSearch_CombinedFiltersIntersect(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	svc, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)
	defer svc.Close()

	fx.embedder.queryVec = []float32{0, 1, 0}
	docs, err := svc.Search(ctx, "debt", domain.SearchOptions{
		K:       3,
		Company: "Tronox",
		Table:   domain.TableCapTable,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, docIDs(docs))
}

func TestSearch_RecognisedFiltersEmptyIntersection(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	svc, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)
	defer svc.Close()

	// Asda has no cap table: both filters are recognised, their
	// intersection is empty, and the result stays empty rather than
	// falling back to unrestricted search.
	docs, err := svc.Search(ctx, "debt", domain.SearchOptions{
		K:       3,
		Company: "Asda",
		Table:   domain.TableCapTable,
	})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSearch_UnknownFilterAppliesNoRestriction(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	svc, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)
	defer svc.Close()

	fx.embedder.queryVec = []float32{1, 0, 0}
	docs, err := svc.Search(ctx, "sales", domain.SearchOptions{K: 3, Company: "Unknown Corp"})
	require.NoError(t, err)

	assert.Len(t, docs, 3)
}

func TestSearch_KBounds(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	svc, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)
	defer svc.Close()

	docs, err := svc.Search(ctx, "sales", domain.SearchOptions{K: 0})
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, 0, fx.embedder.embedCalls, "k=0 should not embed the query")

	docs, err = svc.Search(ctx, "sales", domain.SearchOptions{K: 100})
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	docs, err = svc.Search(ctx, "sales", domain.SearchOptions{K: 2})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestSearch_Deterministic(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	svc, err := NewRetrieverService(ctx, fx.opts)
	require.NoError(t, err)
	defer svc.Close()

	fx.embedder.queryVec = []float32{0, 1, 0}
	first, err := svc.Search(ctx, "debt", domain.SearchOptions{K: 3})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := svc.Search(ctx, "debt", domain.SearchOptions{K: 3})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestIntersect_PreservesFirstOrder(t *testing.T) {
	assert.Equal(t, []int64{3, 1}, intersect([]int64{3, 1, 9}, []int64{1, 2, 3}))
	assert.Empty(t, intersect([]int64{1, 2}, []int64{3}))
}
