// Package cmd provides CLI commands for simplebanking.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simaogato/simplebanking-backend/internal/config"
	"github.com/simaogato/simplebanking-backend/internal/logging"
)

var (
	envFile  string
	logLevel string

	cfg    *config.Config
	logger *logrus.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "simplebanking",
	Short: "Minimal banking ledger over HTTP and gRPC",
	Long: `simplebanking keeps accounts and their transaction history.

Accounts can be credited, debited and used to pay bills; every posting
gets an approval code and is persisted atomically with the new balance.

Example:
  simplebanking serve
  simplebanking migrate
  simplebanking seed fixtures/accounts.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		logger = logging.New(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
