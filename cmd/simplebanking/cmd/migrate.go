package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/simplebanking-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/simplebanking-backend/internal/config"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending Postgres migrations",
	Long: `Apply the embedded SQL migrations that are not yet recorded in
schema_migrations. Only the postgres driver has migrations; the sqlite
schema is created when the database is opened.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.StoreDriver != config.DriverPostgres {
		return fmt.Errorf("migrate requires the %s driver, got %s", config.DriverPostgres, cfg.StoreDriver)
	}

	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.Migrate(cmd.Context())
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
		return nil
	}
	for _, version := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", version)
	}
	return nil
}
