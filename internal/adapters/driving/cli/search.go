package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

var (
	searchK       int
	searchCompany string
	searchTable   string
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the financial knowledge base",
	Long: `Performs hybrid search over the indexed financial tables.
Metadata filters (--company, --table) narrow the candidate set before
vector similarity ranks it.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "top-k", "n", domain.DefaultSearchK, "maximum number of results")
	searchCmd.Flags().StringVar(&searchCompany, "company", "", "restrict results to a company")
	searchCmd.Flags().StringVar(&searchTable, "table", "", "restrict results to a table type")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	retriever, err := ensureRetriever(cmd.Context())
	if err != nil {
		return err
	}

	opts := domain.SearchOptions{
		K:       searchK,
		Company: searchCompany,
		Table:   searchTable,
	}

	docs, err := retriever.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, docs)
	}

	return outputSearchText(cmd, docs)
}

func outputSearchJSON(cmd *cobra.Command, docs []domain.Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, docs []domain.Document) error {
	if len(docs) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  [%d] %s / %s (doc %d)\n", i+1, docs[i].Metadata.CompanyName, docs[i].Metadata.TableName, docs[i].ID)
		if docs[i].Metadata.SourceURL != "" {
			cmd.Printf("      Source: %s\n", docs[i].Metadata.SourceURL)
		}
		cmd.Println()
		cmd.Println(docs[i].Content)
		cmd.Println()
	}

	return nil
}
