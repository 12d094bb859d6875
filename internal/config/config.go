// Package config loads finchat configuration from a TOML file.
// The default location is ~/.finchat/config.toml; a missing file
// yields the defaults so the CLI works out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Checkpoint artifact file names under the checkpoint directory.
const (
	MetadataFile    = "metadata.json"
	VectorIndexFile = "vectors.idx"
)

// Config is the full finchat configuration.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Embedding Embedding `toml:"embedding"`
	LLM       LLM       `toml:"llm"`
	Sessions  Sessions  `toml:"sessions"`
	API       API       `toml:"api"`
}

// Paths locates the raw corpus and the checkpoint artifacts.
type Paths struct {
	// Data is the raw source-data JSON file.
	Data string `toml:"data"`

	// CheckpointDir holds the metadata and vector index artifacts.
	CheckpointDir string `toml:"checkpoint_dir"`
}

// Embedding configures the embedding service.
type Embedding struct {
	// Provider selects the adapter: "openai" or "ollama".
	Provider string `toml:"provider"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `toml:"api_key_env"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `toml:"dimensions"`

	// RequestsPerSecond limits the embedding request rate.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LLM configures the answer-generation service.
type LLM struct {
	// Provider selects the adapter: "openai", "ollama", "anthropic" or
	// "none" to disable generation.
	Provider string `toml:"provider"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the LLM model name.
	Model string `toml:"model"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `toml:"api_key_env"`
}

// Sessions configures conversation history storage.
type Sessions struct {
	// Backend selects the store: "memory" or "sqlite".
	Backend string `toml:"backend"`

	// DataDir holds the SQLite database when the sqlite backend is
	// selected.
	DataDir string `toml:"data_dir"`
}

// API configures the HTTP server.
type API struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`
}

// DefaultDir returns the default finchat directory (~/.finchat).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".finchat"), nil
}

// Default returns the configuration defaults rooted at dir.
func Default(dir string) Config {
	return Config{
		Paths: Paths{
			Data:          filepath.Join(dir, "financial_data.json"),
			CheckpointDir: filepath.Join(dir, "checkpoints"),
		},
		Embedding: Embedding{
			Provider:  "openai",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		LLM: LLM{
			Provider:  "openai",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Sessions: Sessions{
			Backend: "memory",
			DataDir: filepath.Join(dir, "data"),
		},
		API: API{
			Addr: "127.0.0.1:8390",
		},
	}
}

// Load reads the TOML file at path, applying defaults rooted at dir
// for any unset value. A missing file returns the defaults.
func Load(path, dir string) (Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// APIKey resolves the embedding API key from the environment.
func (e Embedding) APIKey() string {
	if e.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(e.APIKeyEnv)
}

// APIKey resolves the LLM API key from the environment.
func (l LLM) APIKey() string {
	if l.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(l.APIKeyEnv)
}

// MetadataPath returns the metadata checkpoint artifact path.
func (p Paths) MetadataPath() string {
	return filepath.Join(p.CheckpointDir, MetadataFile)
}

// VectorIndexPath returns the vector index checkpoint artifact path.
func (p Paths) VectorIndexPath() string {
	return filepath.Join(p.CheckpointDir, VectorIndexFile)
}
