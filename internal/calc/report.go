package calc

import (
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/shopspring/decimal"
)

// Granularity is the calendar bucket size of a period report
type Granularity string

const (
	GranularityMonthly    Granularity = "monthly"
	GranularityQuarterly  Granularity = "quarterly"
	GranularitySemiAnnual Granularity = "semiannual"
	GranularityAnnual     Granularity = "annual"
)

// ParseGranularity accepts the canonical names; empty means monthly
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case "", GranularityMonthly:
		return GranularityMonthly, nil
	case GranularityQuarterly, GranularitySemiAnnual, GranularityAnnual:
		return Granularity(s), nil
	case "semi_annual", "semi-annual":
		return GranularitySemiAnnual, nil
	}
	return "", domain.ErrInvalidGranularity
}

// monthsPerBucket returns the bucket width in months, 0 for unknown values
func (g Granularity) monthsPerBucket() int {
	switch g {
	case GranularityMonthly:
		return 1
	case GranularityQuarterly:
		return 3
	case GranularitySemiAnnual:
		return 6
	case GranularityAnnual:
		return 12
	}
	return 0
}

// Buckets returns how many buckets a year splits into
func (g Granularity) Buckets() int {
	if w := g.monthsPerBucket(); w > 0 {
		return 12 / w
	}
	return 0
}

func (g Granularity) label(year, bucket int) string {
	switch g {
	case GranularityQuarterly:
		return fmt.Sprintf("Q%d %d", bucket+1, year)
	case GranularitySemiAnnual:
		return fmt.Sprintf("H%d %d", bucket+1, year)
	case GranularityAnnual:
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%d-%02d", year, bucket+1)
}

// Classification of a report row's net value
const (
	ClassificationSurplus  = "surplus"
	ClassificationDeficit  = "deficit"
	ClassificationBalanced = "balanced"
)

// ReportRow aggregates one calendar bucket
type ReportRow struct {
	Label    string          `json:"label"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// Classification derives the caller-facing label from the sign of Net
func (r ReportRow) Classification() string {
	switch r.Net.Sign() {
	case 1:
		return ClassificationSurplus
	case -1:
		return ClassificationDeficit
	}
	return ClassificationBalanced
}

// BuildReport buckets the transactions dated in year by granularity. Each transaction is
// counted once, in the bucket of its own date; buckets without transactions are zero.
func BuildReport(txs []*domain.Transaction, granularity Granularity, year int) ([]ReportRow, error) {
	width := granularity.monthsPerBucket()
	if width == 0 {
		return nil, domain.ErrInvalidGranularity
	}

	rows := make([]ReportRow, 12/width)
	for i := range rows {
		start := time.Date(year, time.Month(i*width+1), 1, 0, 0, 0, 0, time.UTC)
		end := util.AddMonthsClamped(start, width).AddDate(0, 0, -1)
		rows[i] = ReportRow{
			Label:    granularity.label(year, i),
			Start:    start,
			End:      end,
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
	}

	for _, tx := range txs {
		if tx.Date.Year() != year {
			continue
		}
		bucket := (int(tx.Date.Month()) - 1) / width
		switch {
		case tx.Type.IsIncome():
			rows[bucket].Income = rows[bucket].Income.Add(tx.Amount)
		case tx.Type.IsExpense():
			rows[bucket].Expenses = rows[bucket].Expenses.Add(tx.Amount)
		}
	}

	for i := range rows {
		rows[i].Net = rows[i].Income.Sub(rows[i].Expenses)
	}
	return rows, nil
}

// ReportTotals sums every column of rows into a single row labelled "Total"
func ReportTotals(rows []ReportRow) ReportRow {
	total := ReportRow{Label: "Total", Income: decimal.Zero, Expenses: decimal.Zero}
	for i, r := range rows {
		if i == 0 {
			total.Start = r.Start
		}
		total.End = r.End
		total.Income = total.Income.Add(r.Income)
		total.Expenses = total.Expenses.Add(r.Expenses)
	}
	total.Net = total.Income.Sub(total.Expenses)
	return total
}
