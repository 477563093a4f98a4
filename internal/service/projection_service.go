package service

import (
	"context"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxProjectionPeriods caps how far ahead a forecast may look
const MaxProjectionPeriods = 120

// ProjectionService forecasts the balance from recurring cash flow
type ProjectionService struct {
	ledgerService *LedgerService
	now           func() time.Time
}

// NewProjectionService creates a new ProjectionService
func NewProjectionService(ledgerService *LedgerService) *ProjectionService {
	return &ProjectionService{ledgerService: ledgerService, now: time.Now}
}

// ProjectionResult is a forecast with the inputs it was derived from
type ProjectionResult struct {
	Unit             calc.PeriodUnit        `json:"unit"`
	From             time.Time              `json:"from"`
	CurrentBalance   decimal.Decimal        `json:"currentBalance"`
	RecurringIncome  decimal.Decimal        `json:"recurringIncome"`
	RecurringExpense decimal.Decimal        `json:"recurringExpense"`
	NetFlow          decimal.Decimal        `json:"netFlow"`
	Periods          []calc.ProjectedPeriod `json:"periods"`
}

// Project forecasts periodsAhead units from today
func (s *ProjectionService) Project(ctx context.Context, periodsAhead int, unit calc.PeriodUnit) (*ProjectionResult, error) {
	if periodsAhead < 1 || periodsAhead > MaxProjectionPeriods {
		return nil, domain.ErrInvalidPeriods
	}

	ledger, err := s.ledgerService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	from := s.now().UTC()
	periods, err := calc.Project(ledger, periodsAhead, unit, from)
	if err != nil {
		return nil, err
	}

	income, expense := calc.RecurringFlow(ledger.Transactions)
	return &ProjectionResult{
		Unit:             unit,
		From:             from,
		CurrentBalance:   calc.Summarize(ledger).AvailableBalance(),
		RecurringIncome:  income,
		RecurringExpense: expense,
		NetFlow:          income.Sub(expense),
		Periods:          periods,
	}, nil
}
