package service

import (
	"context"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/shopspring/decimal"
)

// SummaryService exposes the ledger aggregations
type SummaryService struct {
	ledgerService *LedgerService
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(ledgerService *LedgerService) *SummaryService {
	return &SummaryService{ledgerService: ledgerService}
}

// SummaryResult is the Summary together with its derived totals
type SummaryResult struct {
	calc.Summary
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
}

// GetSummary aggregates the current ledger
func (s *SummaryService) GetSummary(ctx context.Context) (*SummaryResult, error) {
	ledger, err := s.ledgerService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	summary := calc.Summarize(ledger)
	return &SummaryResult{
		Summary:          summary,
		TotalIncome:      summary.TotalIncome(),
		TotalExpense:     summary.TotalExpense(),
		AvailableBalance: summary.AvailableBalance(),
	}, nil
}

// GetCategoryBreakdown groups expenses by category
func (s *SummaryService) GetCategoryBreakdown(ctx context.Context) ([]calc.CategoryTotal, error) {
	txs, err := s.ledgerService.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	return calc.CategoryBreakdown(txs), nil
}
