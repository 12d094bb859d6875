package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finchat-labs/finchat-cli/internal/logger"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the raw source data",
	Long: `Deletes both checkpoint artifacts and rebuilds the document store,
inverted indices and vector index from the raw source data. Use this
after the source data changes or when a checkpoint is damaged.`,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	for _, path := range []string{cfg.Paths.MetadataPath(), cfg.Paths.VectorIndexPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		logger.Debug("removed checkpoint artifact %s", path)
	}

	// With no artifacts present, construction builds from scratch and
	// writes fresh checkpoints.
	retriever, err := ensureRetriever(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Index rebuilt: %d companies.\n", len(retriever.KnownCompanies()))
	return nil
}
