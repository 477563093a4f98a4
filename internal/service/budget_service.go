package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget business logic
type BudgetService struct {
	eventSource
	budgetRepo    domain.BudgetRepository
	ledgerService *LedgerService
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, ledgerService *LedgerService) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, ledgerService: ledgerService}
}

// UpsertBudgetInput contains input for setting a category budget
type UpsertBudgetInput struct {
	Category    string
	LimitAmount decimal.Decimal
	// Period defaults to monthly
	Period domain.BudgetPeriod
}

// UpsertBudget sets the limit of a category, replacing any existing budget for it
func (s *BudgetService) UpsertBudget(ctx context.Context, input UpsertBudgetInput) (*domain.Budget, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if utf8.RuneCountInString(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}
	if !input.LimitAmount.IsPositive() {
		return nil, domain.ErrInvalidLimitAmount
	}

	period := input.Period
	if period == "" {
		period = domain.BudgetPeriodMonthly
	}
	if period != domain.BudgetPeriodMonthly {
		return nil, domain.ErrInvalidBudgetPeriod
	}

	saved, err := s.budgetRepo.Upsert(ctx, &domain.Budget{
		Category:    category,
		LimitAmount: input.LimitAmount,
		Period:      period,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, event.BudgetUpdated(saved))
	return saved, nil
}

// GetBudgets returns every budget ordered by category
func (s *BudgetService) GetBudgets(ctx context.Context) ([]*domain.Budget, error) {
	return s.budgetRepo.List(ctx)
}

// DeleteBudget removes a budget. Deleting an unknown id succeeds silently.
func (s *BudgetService) DeleteBudget(ctx context.Context, id int32) error {
	deleted, err := s.budgetRepo.Delete(ctx, id)
	if err != nil || !deleted {
		return err
	}
	s.publishEvent(ctx, event.BudgetDeleted(id))
	return nil
}

// GetBudgetStatuses evaluates every budget against the whole transaction history
func (s *BudgetService) GetBudgetStatuses(ctx context.Context) ([]calc.BudgetStatus, error) {
	ledger, err := s.ledgerService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return calc.BudgetStatuses(ledger.Budgets, ledger.Transactions), nil
}
