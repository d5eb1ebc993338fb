package cmd

import (
	"context"
	"fmt"

	"github.com/simaogato/simplebanking-backend/internal/adapter/repository/memory"
	"github.com/simaogato/simplebanking-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/simplebanking-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/simplebanking-backend/internal/config"
	"github.com/simaogato/simplebanking-backend/internal/domain"
	"github.com/simaogato/simplebanking-backend/internal/usecase/banking"
)

// store bundles the repositories of the configured driver
type store struct {
	uow          domain.UnitOfWork
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	close        func() error
}

// openStore connects to the configured store. Postgres migrations are applied on open.
func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			return nil, err
		}
		applied, err := db.Migrate(ctx)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if len(applied) > 0 {
			logger.WithField("versions", applied).Info("migrations applied")
		}
		return &store{
			uow:          db,
			accounts:     postgres.NewAccountRepository(db),
			transactions: postgres.NewTransactionRepository(db),
			close:        db.Close,
		}, nil

	case config.DriverSQLite:
		conn, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{
			uow:          conn,
			accounts:     conn.Accounts(),
			transactions: conn.Transactions(),
			close:        conn.Close,
		}, nil

	case config.DriverMemory:
		mem := memory.NewStore()
		return &store{
			uow:          mem,
			accounts:     mem.Accounts(),
			transactions: mem.Transactions(),
			close:        func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (s *store) bankingService() *banking.Service {
	return banking.NewService(s.uow, s.accounts, s.transactions, logger)
}
