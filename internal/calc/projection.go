package calc

import (
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/shopspring/decimal"
)

// PeriodUnit is the step between projected periods
type PeriodUnit string

const (
	PeriodUnitMonth   PeriodUnit = "month"
	PeriodUnitQuarter PeriodUnit = "quarter"
	PeriodUnitYear    PeriodUnit = "year"
)

// DefaultProjectionPeriods is the forecast length used when none is requested
const DefaultProjectionPeriods = 12

// ParsePeriodUnit maps the query value to a unit; empty means month
func ParsePeriodUnit(s string) (PeriodUnit, error) {
	switch PeriodUnit(s) {
	case "", PeriodUnitMonth:
		return PeriodUnitMonth, nil
	case PeriodUnitQuarter, PeriodUnitYear:
		return PeriodUnit(s), nil
	}
	return "", domain.ErrInvalidPeriodUnit
}

// Months returns how many monthly installments fall in one unit
func (u PeriodUnit) Months() int {
	switch u {
	case PeriodUnitQuarter:
		return 3
	case PeriodUnitYear:
		return 12
	}
	return 1
}

func (u PeriodUnit) label(start time.Time) string {
	switch u {
	case PeriodUnitQuarter:
		return fmt.Sprintf("Q%d %d", (int(start.Month())-1)/3+1, start.Year())
	case PeriodUnitYear:
		return fmt.Sprintf("%d", start.Year())
	}
	return start.Format("2006-01")
}

// ProjectedPeriod is one step of the forecast
type ProjectedPeriod struct {
	Index            int             `json:"index"`
	Period           time.Time       `json:"period"`
	Label            string          `json:"label"`
	ProjectedBalance decimal.Decimal `json:"projectedBalance"`
}

// RecurringFlow returns the per-installment recurring income and expense. Every recurring
// transaction counts, whether or not its series has already ended.
func RecurringFlow(txs []*domain.Transaction) (income, expense decimal.Decimal) {
	recurring := func(tx *domain.Transaction) bool { return tx.IsRecurring }
	income = SumByPredicate(txs, And(recurring, IsIncome))
	expense = SumByPredicate(txs, And(recurring, IsExpense))
	return income, expense
}

// Project extrapolates the available balance linearly over periodsAhead periods following
// from. The recurring net flow is a monthly amount: every recurring installment is taken to
// fall once a month, so a quarter advances by three months of flow and a year by twelve.
// Period i holds balance + net × (i+1) × months per unit, so index 0 is one unit ahead.
// A ledger without recurring transactions projects a flat balance.
func Project(ledger domain.Ledger, periodsAhead int, unit PeriodUnit, from time.Time) ([]ProjectedPeriod, error) {
	if periodsAhead < 1 {
		return nil, domain.ErrInvalidPeriods
	}

	balance := Summarize(ledger).AvailableBalance()
	income, expense := RecurringFlow(ledger.Transactions)
	net := income.Sub(expense)

	step := unit.Months()
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	if unit == PeriodUnitQuarter {
		first = util.AddMonthsClamped(first, -((int(first.Month()) - 1) % 3))
	} else if unit == PeriodUnitYear {
		first = time.Date(from.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	periods := make([]ProjectedPeriod, periodsAhead)
	for i := range periods {
		start := util.AddMonthsClamped(first, (i+1)*step)
		installments := decimal.NewFromInt(int64((i + 1) * step))
		periods[i] = ProjectedPeriod{
			Index:            i,
			Period:           start,
			Label:            unit.label(start),
			ProjectedBalance: balance.Add(net.Mul(installments)),
		}
	}
	return periods, nil
}
