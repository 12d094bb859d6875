// Package cli implements the finchat command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finchat-labs/finchat-cli/internal/adapters/driven/embedding/ollama"
	"github.com/finchat-labs/finchat-cli/internal/adapters/driven/embedding/openai"
	llmanthropic "github.com/finchat-labs/finchat-cli/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/finchat-labs/finchat-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/finchat-labs/finchat-cli/internal/adapters/driven/llm/openai"
	"github.com/finchat-labs/finchat-cli/internal/adapters/driven/storage/memory"
	"github.com/finchat-labs/finchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/finchat-labs/finchat-cli/internal/adapters/driven/vector/flat"
	"github.com/finchat-labs/finchat-cli/internal/config"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driven"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driving"
	"github.com/finchat-labs/finchat-cli/internal/core/services"
	"github.com/finchat-labs/finchat-cli/internal/logger"
)

// version is set via -ldflags at build time.
var version = "dev"

var (
	cfgFile     string
	verboseFlag bool

	cfg config.Config

	// Services are built lazily by the commands that need them.
	// Tests inject mocks by assigning these directly.
	retrieverService driving.Retriever
	agentService     driving.Agent
	sessionsService  driving.Sessions

	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "finchat",
	Short: "Chat with a knowledge base of company financial tables",
	Long: `finchat indexes financial and capitalization tables for a set of
companies and answers questions about them using hybrid retrieval:
metadata filters narrow the candidate set, vector similarity ranks it.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.finchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

func initConfig(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	dir, err := config.DefaultDir()
	if err != nil {
		return err
	}

	path := cfgFile
	if path == "" {
		path = filepath.Join(dir, "config.toml")
	}

	cfg, err = config.Load(path, dir)
	if err != nil {
		return err
	}
	return nil
}

func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i].Close() //nolint:errcheck
	}
	closers = nil
}

func newEmbedder() (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:            cfg.Embedding.APIKey(),
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			Dimensions:        cfg.Embedding.Dimensions,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		})
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

// newLLM builds the configured LLM service. Provider "none" returns
// nil, which downgrades the agent to retrieval-only behaviour.
func newLLM() (driven.LLMService, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return llmopenai.NewLLMService(llmopenai.Config{
			APIKey:  cfg.LLM.APIKey(),
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	case "ollama":
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		}), nil
	case "anthropic":
		return llmanthropic.NewLLMService(llmanthropic.Config{
			APIKey:  cfg.LLM.APIKey(),
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// ensureRetriever builds the retriever on first use. Construction
// loads the checkpoint artifacts or, on first run, builds and
// persists the full index.
func ensureRetriever(ctx context.Context) (driving.Retriever, error) {
	if retrieverService != nil {
		return retrieverService, nil
	}

	embedder, err := newEmbedder()
	if err != nil {
		return nil, err
	}
	closers = append(closers, embedder)

	svc, err := services.NewRetrieverService(ctx, services.RetrieverOptions{
		DataPath:        cfg.Paths.Data,
		MetadataPath:    cfg.Paths.MetadataPath(),
		VectorIndexPath: cfg.Paths.VectorIndexPath(),
		Embedder:        embedder,
		Vectors:         flat.NewProvider(),
	})
	if err != nil {
		return nil, err
	}
	closers = append(closers, svc)

	retrieverService = svc
	return retrieverService, nil
}

// ensureAgent builds the agent (retriever plus LLM) on first use.
func ensureAgent(ctx context.Context) (driving.Agent, error) {
	if agentService != nil {
		return agentService, nil
	}

	retriever, err := ensureRetriever(ctx)
	if err != nil {
		return nil, err
	}

	llm, err := newLLM()
	if err != nil {
		return nil, err
	}
	if llm != nil {
		closers = append(closers, llm)
	}

	agentService = services.NewAgentService(retriever, llm)
	return agentService, nil
}

// ensureSessions builds the session service on first use.
func ensureSessions() (driving.Sessions, error) {
	if sessionsService != nil {
		return sessionsService, nil
	}

	var store driven.SessionStore
	switch cfg.Sessions.Backend {
	case "sqlite":
		s, err := sqlite.NewSessionStore(cfg.Sessions.DataDir)
		if err != nil {
			return nil, err
		}
		store = s
	case "memory", "":
		store = memory.NewSessionStore()
	default:
		return nil, fmt.Errorf("unknown sessions backend %q", cfg.Sessions.Backend)
	}
	closers = append(closers, store)

	sessionsService = services.NewSessionService(store)
	return sessionsService, nil
}
