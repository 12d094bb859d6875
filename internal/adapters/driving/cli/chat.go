package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Starts a multi-turn conversation with the financial knowledge base.
Follow-up questions are rewritten into standalone form using the
conversation history before retrieval. Type "exit" or "quit" to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	agent, err := ensureAgent(ctx)
	if err != nil {
		return err
	}
	sessions, err := ensureSessions()
	if err != nil {
		return err
	}

	sessionID := sessions.Start()
	cmd.Printf("Conversation %s. Type \"exit\" to leave.\n\n", sessionID)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		history, err := sessions.History(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("loading history: %w", err)
		}

		standalone, err := agent.StandaloneQuestion(ctx, query, history)
		if err != nil {
			return fmt.Errorf("rewriting question: %w", err)
		}

		answer, err := agent.Respond(ctx, query, standalone, history)
		if err != nil {
			return fmt.Errorf("answering question: %w", err)
		}

		if err := sessions.Append(ctx, sessionID, domain.RoleUser, standalone); err != nil {
			return fmt.Errorf("recording turn: %w", err)
		}
		if err := sessions.Append(ctx, sessionID, domain.RoleAssistant, answer); err != nil {
			return fmt.Errorf("recording turn: %w", err)
		}

		cmd.Printf("\n%s\n\n", answer)
	}

	return scanner.Err()
}
