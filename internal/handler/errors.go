package handler

import (
	"errors"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// fieldErrors maps validation sentinels to the request field they belong to
var fieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrDescriptionRequired, "description", "Description is required"},
	{domain.ErrDescriptionTooLong, "description", "Description must be 255 characters or less"},
	{domain.ErrNameRequired, "name", "Name is required"},
	{domain.ErrNameTooLong, "name", "Name must be 255 characters or less"},
	{domain.ErrCategoryRequired, "category", "Category is required"},
	{domain.ErrCategoryTooLong, "category", "Category must be 100 characters or less"},
	{domain.ErrInvalidAmount, "amount", "Amount must not be negative"},
	{domain.ErrInvalidTransactionType, "type", "Type must be one of: fixed_income, variable_income, fixed_expense, variable_expense"},
	{domain.ErrInvalidInstallments, "installments", "Installments must be at least 1"},
	{domain.ErrInstallmentsTooLarge, "installments", "Installments must be 600 or less"},
	{domain.ErrDateRequired, "date", "Date is required"},
	{domain.ErrInvalidTargetAmount, "targetAmount", "Target amount must be positive"},
	{domain.ErrInvalidCurrentAmount, "currentAmount", "Current amount must not be negative"},
	{domain.ErrInvalidLimitAmount, "limitAmount", "Limit amount must be positive"},
	{domain.ErrInvalidBudgetPeriod, "period", "Period must be monthly"},
	{domain.ErrInvalidTypeLength, "type", "Type must be 100 characters or less"},
	{domain.ErrInvalidGranularity, "granularity", "Granularity must be one of: monthly, quarterly, semiannual, annual"},
	{domain.ErrInvalidPeriods, "periods", "Periods must be between 1 and 120"},
	{domain.ErrInvalidPeriodUnit, "unit", "Unit must be one of: month, quarter, year"},
	{domain.ErrInvalidExportFormat, "format", "Format must be one of: csv, pdf"},
	{domain.ErrInvalidGrossIncome, "gross", "Gross income must not be negative"},
}

// handleServiceError writes the problem response for an error returned by a service.
// Validation sentinels become 400s, lookups 404, storage failures 503 and anything else 500.
func handleServiceError(c echo.Context, err error, action string) error {
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: fe.field, Message: fe.message},
			})
		}
	}

	switch {
	case errors.Is(err, domain.ErrTaxTableNotFound):
		return NewNotFoundError(c, "No tax table for the requested fiscal year")
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, "Resource not found")
	case errors.Is(err, domain.ErrStorage):
		log.Error().Err(err).Str("path", c.Path()).Msg("Storage failure while trying to " + action)
		return NewStorageUnavailableError(c, "Storage is unavailable, failed to "+action)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}

func fieldError(c echo.Context, field, message string) error {
	return NewValidationError(c, "Invalid "+field, []ValidationError{
		{Field: field, Message: message},
	})
}
