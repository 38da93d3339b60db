// Package cli implements servicoctl, the administration command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"servicofacil/internal/config"
	"servicofacil/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "servicoctl",
	Short:         "Administer the service-order database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file (default $SERVICO_CONFIG)")
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "[cli] ", log.LstdFlags|log.LUTC)
}

// openStore loads the configuration, connects and brings the schema up to
// date. The caller closes the store.
func openStore(ctx context.Context, logger *log.Logger) (*store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return st, nil
}

func stderrLogger() *log.Logger {
	return newLogger(os.Stderr)
}
