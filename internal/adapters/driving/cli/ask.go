package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Answers one question grounded in the financial knowledge base.
For a multi-turn conversation use "finchat chat".`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]

	agent, err := ensureAgent(cmd.Context())
	if err != nil {
		return err
	}

	// A one-shot question has no history, so it is its own
	// standalone form.
	answer, err := agent.Respond(cmd.Context(), query, query, nil)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	cmd.Println(answer)
	return nil
}
