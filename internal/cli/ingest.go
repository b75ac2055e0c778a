package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dinewise/dinewise/internal/ingest"
)

var ingestSource string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.csv>",
	Short: "Ingest a review CSV export",
	Long: `Load a restaurant review CSV export: each row becomes one or more
embedded passages in the review index, and each distinct restaurant becomes
an aggregate record.

Examples:
  dinewise ingest reviews.csv
  dinewise ingest reviews.csv --source opentable-2025-04`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSource, "source", "csv", "source label stored on each passage")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	if err := dbClient.InitSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ingestor := ingest.NewIngestor(dbClient, embedder, nil)
	result, err := ingestor.Run(ctx, f, ingestSource)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	fmt.Printf("Ingested %d rows: %d passages, %d restaurants.\n",
		result.Rows, result.Passages, result.Restaurants)
	return nil
}
