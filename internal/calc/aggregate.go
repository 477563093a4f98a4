package calc

import (
	"sort"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Predicate selects transactions for aggregation
type Predicate func(tx *domain.Transaction) bool

// OfType matches transactions whose type is one of types
func OfType(types ...domain.TransactionType) Predicate {
	return func(tx *domain.Transaction) bool {
		for _, t := range types {
			if tx.Type == t {
				return true
			}
		}
		return false
	}
}

// IsIncome matches fixed and variable income
func IsIncome(tx *domain.Transaction) bool { return tx.Type.IsIncome() }

// IsExpense matches fixed and variable expenses
func IsExpense(tx *domain.Transaction) bool { return tx.Type.IsExpense() }

// And combines predicates; all of them must match
func And(preds ...Predicate) Predicate {
	return func(tx *domain.Transaction) bool {
		for _, p := range preds {
			if !p(tx) {
				return false
			}
		}
		return true
	}
}

// SumByPredicate sums the amounts of the transactions matching pred. No match yields zero.
func SumByPredicate(txs []*domain.Transaction, pred Predicate) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if pred(tx) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// GroupByCategory sums amounts per category, skipping transactions of the excluded types
func GroupByCategory(txs []*domain.Transaction, exclude ...domain.TransactionType) map[string]decimal.Decimal {
	skip := OfType(exclude...)
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if skip(tx) {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	return totals
}

// SumInvestments totals the invested amounts
func SumInvestments(investments []*domain.Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		total = total.Add(inv.Amount)
	}
	return total
}

// Summary is the top-level aggregation of a ledger
type Summary struct {
	FixedIncome     decimal.Decimal `json:"fixedIncome"`
	VariableIncome  decimal.Decimal `json:"variableIncome"`
	FixedExpense    decimal.Decimal `json:"fixedExpense"`
	VariableExpense decimal.Decimal `json:"variableExpense"`
	TotalInvested   decimal.Decimal `json:"totalInvested"`
}

func (s Summary) TotalIncome() decimal.Decimal {
	return s.FixedIncome.Add(s.VariableIncome)
}

func (s Summary) TotalExpense() decimal.Decimal {
	return s.FixedExpense.Add(s.VariableExpense)
}

// AvailableBalance is income minus expenses. Investments are allocated, not spent, so
// they do not reduce it.
func (s Summary) AvailableBalance() decimal.Decimal {
	return s.TotalIncome().Sub(s.TotalExpense())
}

// Summarize builds the Summary of a ledger snapshot
func Summarize(ledger domain.Ledger) Summary {
	txs := ledger.Transactions
	return Summary{
		FixedIncome:     SumByPredicate(txs, OfType(domain.TransactionTypeFixedIncome)),
		VariableIncome:  SumByPredicate(txs, OfType(domain.TransactionTypeVariableIncome)),
		FixedExpense:    SumByPredicate(txs, OfType(domain.TransactionTypeFixedExpense)),
		VariableExpense: SumByPredicate(txs, OfType(domain.TransactionTypeVariableExpense)),
		TotalInvested:   SumInvestments(ledger.Investments),
	}
}

// CategoryTotal is one row of the expense-by-category breakdown
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	// Share is the percentage of total expenses, zero when there are none
	Share decimal.Decimal `json:"share"`
}

// CategoryBreakdown groups expenses by category, largest first, ties broken by name
func CategoryBreakdown(txs []*domain.Transaction) []CategoryTotal {
	totals := GroupByCategory(txs, domain.TransactionTypeFixedIncome, domain.TransactionTypeVariableIncome)
	all := decimal.Zero
	for _, amount := range totals {
		all = all.Add(amount)
	}

	rows := make([]CategoryTotal, 0, len(totals))
	for category, amount := range totals {
		share := decimal.Zero
		if !all.IsZero() {
			share = Percent(amount, all).Round(2)
		}
		rows = append(rows, CategoryTotal{Category: category, Amount: amount, Share: share})
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Amount.Cmp(rows[j].Amount); c != 0 {
			return c > 0
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}
