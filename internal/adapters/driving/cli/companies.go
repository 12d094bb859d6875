package cli

import (
	"github.com/spf13/cobra"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List the companies in the knowledge base",
	RunE:  runCompanies,
}

func init() {
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(cmd *cobra.Command, _ []string) error {
	retriever, err := ensureRetriever(cmd.Context())
	if err != nil {
		return err
	}

	companies := retriever.KnownCompanies()
	if len(companies) == 0 {
		cmd.Println("No companies indexed.")
		return nil
	}

	for _, name := range companies {
		cmd.Println(name)
	}
	return nil
}
