package flat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

func TestSaveFile_OpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.idx")
	ctx := context.Background()

	idx := seeded(t)
	require.NoError(t, idx.SaveFile(path))

	loaded, err := NewProvider().Open(path)
	require.NoError(t, err)
	assert.Equal(t, idx.Dimensions(), loaded.Dimensions())
	assert.Equal(t, idx.Len(), loaded.Len())

	query := []float32{0.9, 0}
	want, err := idx.Search(ctx, query, 4)
	require.NoError(t, err)
	got, err := loaded.Search(ctx, query, 4)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := NewProvider().Open(filepath.Join(t.TempDir(), "nope.idx"))
	assert.Error(t, err)
}

func TestOpen_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.idx")
	require.NoError(t, os.WriteFile(path, []byte("NOTANIDXFILE"), 0o600))

	_, err := NewProvider().Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckpointCorrupt)
}

func TestOpen_Truncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.idx")
	idx := seeded(t)
	require.NoError(t, idx.SaveFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-5], 0o600))

	_, err = NewProvider().Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckpointCorrupt)
}

func TestProvider_New(t *testing.T) {
	idx := NewProvider().New(7)
	assert.Equal(t, 7, idx.Dimensions())
	assert.Equal(t, 0, idx.Len())
}
