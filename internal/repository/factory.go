package repository

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/config"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/repository/postgres"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/repository/sqlite"
	"github.com/rs/zerolog/log"
)

// Repositories groups the ledger stores of one backend
type Repositories struct {
	Transactions domain.TransactionRepository
	Investments  domain.InvestmentRepository
	Goals        domain.GoalRepository
	Budgets      domain.BudgetRepository

	close func() error
}

// Close releases the underlying connection pool or database handle
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open connects to the configured storage backend and runs its migrations
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg.DatabaseURL)
	case config.BackendSQLite:
		return openSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}

func openPostgres(ctx context.Context, databaseURL string) (*Repositories, error) {
	pool, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(pool); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Str("backend", config.BackendPostgres).Msg("Connected to database")

	return &Repositories{
		Transactions: postgres.NewTransactionRepository(pool),
		Investments:  postgres.NewInvestmentRepository(pool),
		Goals:        postgres.NewGoalRepository(pool),
		Budgets:      postgres.NewBudgetRepository(pool),
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

func openSQLite(path string) (*Repositories, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}

	log.Info().Str("backend", config.BackendSQLite).Str("path", path).Msg("Opened database")

	return &Repositories{
		Transactions: sqlite.NewTransactionRepository(db),
		Investments:  sqlite.NewInvestmentRepository(db),
		Goals:        sqlite.NewGoalRepository(db),
		Budgets:      sqlite.NewBudgetRepository(db),
		close:        db.Close,
	}, nil
}
