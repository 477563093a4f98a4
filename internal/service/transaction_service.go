package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	eventSource
	transactionRepo domain.TransactionRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// CreateTransactionInput contains input for creating a transaction
type CreateTransactionInput struct {
	Description  string
	Amount       decimal.Decimal
	Type         domain.TransactionType
	Category     string
	Date         time.Time
	IsRecurring  bool
	Installments int
	// StartDate defaults to Date when nil
	StartDate *time.Time
}

// buildTransaction validates input and returns the normalized transaction to store
func buildTransaction(input CreateTransactionInput) (*domain.Transaction, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}

	category := strings.TrimSpace(input.Category)
	if utf8.RuneCountInString(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}

	if input.Date.IsZero() {
		return nil, domain.ErrDateRequired
	}

	tx := &domain.Transaction{
		Description:  description,
		Amount:       input.Amount,
		Type:         input.Type,
		Category:     category,
		Date:         util.DateOnly(input.Date),
		IsRecurring:  input.IsRecurring,
		Installments: input.Installments,
	}

	if input.IsRecurring {
		if input.Installments < 0 {
			return nil, domain.ErrInvalidInstallments
		}
		if input.Installments > domain.MaxInstallments {
			return nil, domain.ErrInstallmentsTooLarge
		}
		if input.StartDate != nil {
			tx.StartDate = util.DateOnly(*input.StartDate)
		}
	}

	tx.Normalize()
	return tx, nil
}

// CreateTransaction validates and stores a new transaction
func (s *TransactionService) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	tx, err := buildTransaction(input)
	if err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(ctx, tx)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, event.TransactionCreated(created))
	return created, nil
}

// GetTransactions returns every transaction, newest first
func (s *TransactionService) GetTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.transactionRepo.List(ctx)
}

// DeleteTransaction removes a transaction. Deleting an unknown id succeeds without
// publishing an event.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int32) error {
	deleted, err := s.transactionRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Debug().Int32("transaction_id", id).Msg("Transaction not found, nothing deleted")
		return nil
	}

	log.Debug().Int32("transaction_id", id).Msg("Transaction deleted")
	s.publishEvent(ctx, event.TransactionDeleted(id))
	return nil
}

// ActiveTransaction is a transaction in force on a given day, with the installment that
// falls in that day's month
type ActiveTransaction struct {
	*domain.Transaction
	Installment int       `json:"installment"`
	DueDate     time.Time `json:"dueDate"`
	EndDate     time.Time `json:"endDate"`
}

// GetActiveTransactions returns the transactions whose active span contains date
func (s *TransactionService) GetActiveTransactions(ctx context.Context, date time.Time) ([]ActiveTransaction, error) {
	txs, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	day := util.DateOnly(date)
	active := calc.ActiveOn(txs, day)
	result := make([]ActiveTransaction, 0, len(active))
	for _, tx := range active {
		occurrences, err := calc.Occurrences(tx)
		if err != nil {
			continue
		}
		index := util.MonthsBetween(occurrences[0], day)
		if index >= len(occurrences) {
			index = len(occurrences) - 1
		}
		result = append(result, ActiveTransaction{
			Transaction: tx,
			Installment: index + 1,
			DueDate:     occurrences[index],
			EndDate:     occurrences[len(occurrences)-1],
		})
	}
	return result, nil
}
