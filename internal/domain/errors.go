package domain

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrCategoryRequired       = errors.New("category is required")
	ErrCategoryTooLong        = errors.New("category exceeds maximum length")
	ErrInvalidAmount          = errors.New("amount must not be negative")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidInstallments    = errors.New("installments must be at least 1")
	ErrInstallmentsTooLarge   = errors.New("installments exceeds maximum")
	ErrDateRequired           = errors.New("date is required")
	ErrInvalidTargetAmount    = errors.New("target amount must be positive")
	ErrInvalidCurrentAmount   = errors.New("current amount must not be negative")
	ErrInvalidLimitAmount     = errors.New("limit amount must be positive")
	ErrInvalidBudgetPeriod    = errors.New("invalid budget period")
	ErrInvalidTypeLength      = errors.New("investment type exceeds maximum length")
	ErrInvalidGranularity     = errors.New("invalid report granularity")
	ErrInvalidPeriods         = errors.New("periods ahead must be at least 1")
	ErrInvalidPeriodUnit      = errors.New("invalid period unit")
	ErrInvalidExportFormat    = errors.New("invalid export format")
	ErrInvalidGrossIncome     = errors.New("gross income must not be negative")
)

// Lookup errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrTaxTableNotFound = errors.New("no tax table for fiscal year")
)

// ErrStorage marks failures of the persistence collaborator. It is never a validation error.
var ErrStorage = errors.New("storage failure")

// StorageError wraps a driver error with the operation that failed
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorage) match any StorageError
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError returns nil when err is nil
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
