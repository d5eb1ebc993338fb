package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/simplebanking-backend/internal/usecase/seeder"
)

// seedCmd represents the seed command.
var seedCmd = &cobra.Command{
	Use:   "seed [fixture]",
	Short: "Create accounts from a YAML fixture",
	Long: `Create every account listed in the fixture that does not exist yet
and credit its opening deposit. The fixture defaults to SEED_FILE.

Example:
  simplebanking seed fixtures/accounts.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	path := cfg.SeedFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no fixture given and SEED_FILE is not set")
	}

	fixture, err := seeder.LoadFixture(path)
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	defer st.close()

	created, err := seeder.NewAccountSeeder(st.bankingService(), fixture, logger).Seed(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d of %d accounts\n", created, len(fixture.Accounts))
	return nil
}
