package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"servicofacil/internal/importer"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importItemsCmd)

	importItemsCmd.Flags().StringP("file", "f", "", "CSV file with name,price,notes columns")
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-load catalog data",
}

var importItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Create or update service items from a CSV file",
	Args:  cobra.NoArgs,
	RunE:  runImportItems,
}

func runImportItems(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return errors.New("--file is required")
	}
	ctx := cmd.Context()
	st, err := openStore(ctx, stderrLogger())
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	res, err := importer.NewCSVImporter(f, st.Items).Run(ctx)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d created, %d updated, %d skipped in %s\n",
		path, res.Created, res.Updated, res.Skipped, time.Since(start).Truncate(time.Millisecond))
	return nil
}
