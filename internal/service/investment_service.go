package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/shopspring/decimal"
)

// InvestmentService handles investment business logic
type InvestmentService struct {
	eventSource
	investmentRepo domain.InvestmentRepository
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(investmentRepo domain.InvestmentRepository) *InvestmentService {
	return &InvestmentService{investmentRepo: investmentRepo}
}

// CreateInvestmentInput contains input for creating an investment
type CreateInvestmentInput struct {
	Name   string
	Amount decimal.Decimal
	Type   string
	// ExpectedReturn is a percentage and may be negative
	ExpectedReturn decimal.Decimal
	Date           time.Time
}

// CreateInvestment validates and stores a new investment
func (s *InvestmentService) CreateInvestment(ctx context.Context, input CreateInvestmentInput) (*domain.Investment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	investmentType := strings.TrimSpace(input.Type)
	if utf8.RuneCountInString(investmentType) > domain.MaxInvestmentTypeLength {
		return nil, domain.ErrInvalidTypeLength
	}
	if input.Date.IsZero() {
		return nil, domain.ErrDateRequired
	}

	created, err := s.investmentRepo.Create(ctx, &domain.Investment{
		Name:           name,
		Amount:         input.Amount,
		Type:           investmentType,
		ExpectedReturn: input.ExpectedReturn,
		Date:           util.DateOnly(input.Date),
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, event.InvestmentCreated(created))
	return created, nil
}

// GetInvestments returns every investment, newest first
func (s *InvestmentService) GetInvestments(ctx context.Context) ([]*domain.Investment, error) {
	return s.investmentRepo.List(ctx)
}
