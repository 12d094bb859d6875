package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "config.toml"), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "financial_data.json"), cfg.Paths.Data)
	assert.Equal(t, filepath.Join(dir, "checkpoints"), cfg.Paths.CheckpointDir)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "memory", cfg.Sessions.Backend)
	assert.Equal(t, "127.0.0.1:8390", cfg.API.Addr)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[paths]
data = "/srv/finchat/data.json"

[embedding]
provider = "ollama"
model = "nomic-embed-text"

[llm]
provider = "anthropic"
model = "claude-sonnet-4-20250514"
api_key_env = "ANTHROPIC_API_KEY"

[sessions]
backend = "sqlite"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/finchat/data.json", cfg.Paths.Data)
	assert.Equal(t, filepath.Join(dir, "checkpoints"), cfg.Paths.CheckpointDir)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, "sqlite", cfg.Sessions.Backend)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[paths\ndata ="), 0o600))

	_, err := Load(path, dir)
	assert.Error(t, err)
}

func TestPaths_ArtifactPaths(t *testing.T) {
	p := Paths{CheckpointDir: "/tmp/ckpt"}
	assert.Equal(t, filepath.Join("/tmp/ckpt", "metadata.json"), p.MetadataPath())
	assert.Equal(t, filepath.Join("/tmp/ckpt", "vectors.idx"), p.VectorIndexPath())
}
