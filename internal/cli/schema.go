package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var schemaWipe bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Initialize the database schema",
	Long: `Apply the table and index definitions to the configured SurrealDB
instance. Safe to run repeatedly.

Examples:
  dinewise schema
  dinewise schema --wipe`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaWipe, "wipe", false, "delete all data before applying the schema (testing only)")
}

func runSchema(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if schemaWipe {
		if err := dbClient.WipeData(ctx); err != nil {
			return fmt.Errorf("wipe data: %w", err)
		}
		fmt.Println("All data wiped.")
	}

	if err := dbClient.InitSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	fmt.Println("Schema applied.")
	return nil
}
