package calc

import (
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTx(typ domain.TransactionType, amount string, date time.Time, category string) *domain.Transaction {
	tx := &domain.Transaction{
		Description: string(typ) + " " + category,
		Amount:      dec(amount),
		Type:        typ,
		Category:    category,
		Date:        date,
	}
	tx.Normalize()
	return tx
}

func newRecurring(typ domain.TransactionType, amount string, start time.Time, installments int) *domain.Transaction {
	tx := &domain.Transaction{
		Description:  "recurring " + string(typ),
		Amount:       dec(amount),
		Type:         typ,
		Date:         start,
		IsRecurring:  true,
		Installments: installments,
		StartDate:    start,
	}
	tx.Normalize()
	return tx
}
