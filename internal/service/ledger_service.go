package service

import (
	"context"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"golang.org/x/sync/errgroup"
)

// LedgerService loads the read-only ledger snapshot the calculation engine works on
type LedgerService struct {
	transactionRepo domain.TransactionRepository
	investmentRepo  domain.InvestmentRepository
	goalRepo        domain.GoalRepository
	budgetRepo      domain.BudgetRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	transactionRepo domain.TransactionRepository,
	investmentRepo domain.InvestmentRepository,
	goalRepo domain.GoalRepository,
	budgetRepo domain.BudgetRepository,
) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		investmentRepo:  investmentRepo,
		goalRepo:        goalRepo,
		budgetRepo:      budgetRepo,
	}
}

// Snapshot reads the four collections concurrently. The first failure cancels the
// remaining reads and is returned.
func (s *LedgerService) Snapshot(ctx context.Context) (domain.Ledger, error) {
	var ledger domain.Ledger
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, err := s.transactionRepo.List(ctx)
		ledger.Transactions = txs
		return err
	})
	g.Go(func() error {
		investments, err := s.investmentRepo.List(ctx)
		ledger.Investments = investments
		return err
	})
	g.Go(func() error {
		goals, err := s.goalRepo.List(ctx)
		ledger.Goals = goals
		return err
	})
	g.Go(func() error {
		budgets, err := s.budgetRepo.List(ctx)
		ledger.Budgets = budgets
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Ledger{}, err
	}
	return ledger, nil
}

// Transactions loads only the transaction collection
func (s *LedgerService) Transactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.transactionRepo.List(ctx)
}
