package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeFixedIncome     TransactionType = "fixed_income"
	TransactionTypeVariableIncome  TransactionType = "variable_income"
	TransactionTypeFixedExpense    TransactionType = "fixed_expense"
	TransactionTypeVariableExpense TransactionType = "variable_expense"
)

// TransactionTypes lists every valid transaction type in display order
var TransactionTypes = []TransactionType{
	TransactionTypeFixedIncome,
	TransactionTypeVariableIncome,
	TransactionTypeFixedExpense,
	TransactionTypeVariableExpense,
}

// IsValid reports whether t is one of the four known types
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeFixedIncome, TransactionTypeVariableIncome,
		TransactionTypeFixedExpense, TransactionTypeVariableExpense:
		return true
	}
	return false
}

// IsIncome reports whether t is a fixed or variable income
func (t TransactionType) IsIncome() bool {
	return t == TransactionTypeFixedIncome || t == TransactionTypeVariableIncome
}

// IsExpense reports whether t is a fixed or variable expense
func (t TransactionType) IsExpense() bool {
	return t == TransactionTypeFixedExpense || t == TransactionTypeVariableExpense
}

// ParseTransactionType accepts the canonical value as well as spaced, hyphenated or
// capitalised spellings such as "Fixed Income" or "variable-expense".
func ParseTransactionType(s string) (TransactionType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	t := TransactionType(normalized)
	if !t.IsValid() {
		return "", ErrInvalidTransactionType
	}
	return t, nil
}

// Transaction is a single ledger entry. A recurring transaction represents one
// installment series starting at StartDate.
type Transaction struct {
	ID           int32           `json:"id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Type         TransactionType `json:"type"`
	Category     string          `json:"category"`
	Date         time.Time       `json:"date"`
	IsRecurring  bool            `json:"isRecurring"`
	Installments int             `json:"installments"`
	StartDate    time.Time       `json:"startDate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Normalize applies the recurrence defaults: a non-recurring transaction always has a
// single installment starting on its own date, and a recurring one defaults to one
// installment starting on its date.
func (t *Transaction) Normalize() {
	if !t.IsRecurring {
		t.Installments = 1
		t.StartDate = t.Date
		return
	}
	if t.Installments == 0 {
		t.Installments = 1
	}
	if t.StartDate.IsZero() {
		t.StartDate = t.Date
	}
}

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxCategoryLength    = 100
	MaxInstallments      = 600
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	// List returns every transaction ordered by date descending
	List(ctx context.Context) ([]*Transaction, error)
	// Delete removes a transaction and reports whether it existed; deleting an unknown id is not an error
	Delete(ctx context.Context, id int32) (bool, error)
}
