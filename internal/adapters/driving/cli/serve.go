package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/finchat-labs/finchat-cli/internal/adapters/driving/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Starts the HTTP server exposing the chat agent and retriever:

  POST /chat       one conversational turn
  GET  /search     hybrid search over the knowledge base
  GET  /companies  companies in the knowledge base
  GET  /health     health probe`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agent, err := ensureAgent(ctx)
	if err != nil {
		return err
	}
	sessions, err := ensureSessions()
	if err != nil {
		return err
	}
	retriever, err := ensureRetriever(ctx)
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.ServerConfig{
		Agent:     agent,
		Sessions:  sessions,
		Retriever: retriever,
	})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.API.Addr
	}

	cmd.Printf("finchat API listening on http://%s\n", addr)
	return server.Run(ctx, addr)
}
