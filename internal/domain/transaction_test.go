package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		in      string
		want    TransactionType
		wantErr bool
	}{
		{"fixed_income", TransactionTypeFixedIncome, false},
		{"Variable Income", TransactionTypeVariableIncome, false},
		{" fixed-expense ", TransactionTypeFixedExpense, false},
		{"VARIABLE_EXPENSE", TransactionTypeVariableExpense, false},
		{"income", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTransactionType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransactionType) {
					t.Errorf("ParseTransactionType(%q) error = %v, want ErrInvalidTransactionType", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTransactionType(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTransactionType(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransactionTypeClassification(t *testing.T) {
	for _, tt := range TransactionTypes {
		if tt.IsIncome() == tt.IsExpense() {
			t.Errorf("%s must be exactly one of income or expense", tt)
		}
	}
	if TransactionType("other").IsIncome() || TransactionType("other").IsExpense() {
		t.Error("unknown type must be neither income nor expense")
	}
}

func TestTransactionNormalize(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("non-recurring resets installments and start date", func(t *testing.T) {
		tx := &Transaction{Date: day, Installments: 5, StartDate: start}
		tx.Normalize()
		if tx.Installments != 1 || !tx.StartDate.Equal(day) {
			t.Errorf("got installments=%d start=%s", tx.Installments, tx.StartDate)
		}
	})

	t.Run("recurring defaults", func(t *testing.T) {
		tx := &Transaction{Date: day, IsRecurring: true}
		tx.Normalize()
		if tx.Installments != 1 || !tx.StartDate.Equal(day) {
			t.Errorf("got installments=%d start=%s", tx.Installments, tx.StartDate)
		}
	})

	t.Run("recurring keeps explicit values", func(t *testing.T) {
		tx := &Transaction{Date: day, IsRecurring: true, Installments: 12, StartDate: start}
		tx.Normalize()
		if tx.Installments != 12 || !tx.StartDate.Equal(start) {
			t.Errorf("got installments=%d start=%s", tx.Installments, tx.StartDate)
		}
	})
}

func TestStorageError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewStorageError("list transactions", cause)

	if !errors.Is(err, ErrStorage) {
		t.Error("StorageError must match ErrStorage")
	}
	if !errors.Is(err, cause) {
		t.Error("StorageError must unwrap to its cause")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("StorageError must not be a validation error")
	}
	if NewStorageError("noop", nil) != nil {
		t.Error("NewStorageError(nil) must be nil")
	}
}
