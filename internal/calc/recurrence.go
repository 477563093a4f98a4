package calc

import (
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
)

// ResolveEndDate returns the date of the last installment of a series that starts on
// start: installments-1 calendar months later, clamped to the end of the month.
func ResolveEndDate(start time.Time, installments int) (time.Time, error) {
	if installments < 1 {
		return time.Time{}, domain.ErrInvalidInstallments
	}
	return util.AddMonthsClamped(util.DateOnly(start), installments-1), nil
}

// ActiveSpan returns the inclusive calendar span in which tx is active. A non-recurring
// transaction spans its own date only.
func ActiveSpan(tx *domain.Transaction) (time.Time, time.Time, error) {
	if !tx.IsRecurring {
		day := util.DateOnly(tx.Date)
		return day, day, nil
	}
	start := tx.StartDate
	if start.IsZero() {
		start = tx.Date
	}
	installments := tx.Installments
	if installments == 0 {
		installments = 1
	}
	end, err := ResolveEndDate(start, installments)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return util.DateOnly(start), end, nil
}

// IsActiveOn reports whether date falls within the active span of tx, comparing calendar
// days only. It returns false for a transaction with an invalid installment count.
func IsActiveOn(tx *domain.Transaction, date time.Time) bool {
	start, end, err := ActiveSpan(tx)
	if err != nil {
		return false
	}
	day := util.DateOnly(date)
	return !day.Before(start) && !day.After(end)
}

// Occurrences lists the installment dates of tx, one per calendar month from its start
func Occurrences(tx *domain.Transaction) ([]time.Time, error) {
	start, _, err := ActiveSpan(tx)
	if err != nil {
		return nil, err
	}
	if !tx.IsRecurring {
		return []time.Time{start}, nil
	}
	n := tx.Installments
	if n == 0 {
		n = 1
	}
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = util.AddMonthsClamped(start, i)
	}
	return dates, nil
}

// ActiveOn filters txs to those active on date, keeping their order
func ActiveOn(txs []*domain.Transaction, date time.Time) []*domain.Transaction {
	active := make([]*domain.Transaction, 0)
	for _, tx := range txs {
		if IsActiveOn(tx, date) {
			active = append(active, tx)
		}
	}
	return active
}
