package calc

import (
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLedger() domain.Ledger {
	return domain.Ledger{
		Transactions: []*domain.Transaction{
			newTx(domain.TransactionTypeFixedIncome, "5000.00", day(2024, 1, 5), "salary"),
			newTx(domain.TransactionTypeVariableIncome, "750.50", day(2024, 2, 10), "freelance"),
			newTx(domain.TransactionTypeFixedExpense, "1500.00", day(2024, 1, 10), "housing"),
			newTx(domain.TransactionTypeVariableExpense, "320.25", day(2024, 1, 20), "food"),
			newTx(domain.TransactionTypeVariableExpense, "79.75", day(2024, 3, 2), "food"),
		},
		Investments: []*domain.Investment{
			{Name: "Index fund", Amount: dec("1000.00"), Date: day(2024, 1, 15)},
			{Name: "Bonds", Amount: dec("250.00"), Date: day(2024, 2, 15)},
		},
	}
}

func TestSumByPredicate_EmptyLedgerIsZero(t *testing.T) {
	preds := map[string]Predicate{
		"income":  IsIncome,
		"expense": IsExpense,
		"fixed":   OfType(domain.TransactionTypeFixedIncome, domain.TransactionTypeFixedExpense),
		"none":    OfType(),
	}
	for name, pred := range preds {
		got := SumByPredicate(nil, pred)
		assert.True(t, got.IsZero(), "%s: got %s", name, got)
		got = SumByPredicate([]*domain.Transaction{}, pred)
		assert.True(t, got.IsZero(), "%s: got %s", name, got)
	}
}

func TestSumByPredicate_NoDriftAcrossManyAdditions(t *testing.T) {
	txs := make([]*domain.Transaction, 0, 1000)
	for i := 0; i < 1000; i++ {
		txs = append(txs, newTx(domain.TransactionTypeVariableExpense, "0.10", day(2024, 1, 1), "coffee"))
	}
	got := SumByPredicate(txs, IsExpense)
	assert.True(t, got.Equal(dec("100")), "got %s", got)
}

func TestGroupByCategory_ExcludesTypes(t *testing.T) {
	ledger := sampleLedger()

	got := GroupByCategory(ledger.Transactions, domain.TransactionTypeFixedIncome, domain.TransactionTypeVariableIncome)

	require.Len(t, got, 2)
	assert.True(t, got["housing"].Equal(dec("1500")))
	assert.True(t, got["food"].Equal(dec("400")))
	_, hasSalary := got["salary"]
	assert.False(t, hasSalary)
}

func TestGroupByCategory_NoExclusions(t *testing.T) {
	got := GroupByCategory(sampleLedger().Transactions)
	assert.Len(t, got, 4)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleLedger())

	assert.True(t, s.FixedIncome.Equal(dec("5000")))
	assert.True(t, s.VariableIncome.Equal(dec("750.50")))
	assert.True(t, s.FixedExpense.Equal(dec("1500")))
	assert.True(t, s.VariableExpense.Equal(dec("400")))
	assert.True(t, s.TotalInvested.Equal(dec("1250")))
	assert.True(t, s.TotalIncome().Equal(dec("5750.50")))
	assert.True(t, s.TotalExpense().Equal(dec("1900")))
	// Investments do not reduce the available balance
	assert.True(t, s.AvailableBalance().Equal(dec("3850.50")), "got %s", s.AvailableBalance())
}

func TestSummarize_EmptyLedger(t *testing.T) {
	s := Summarize(domain.Ledger{})
	assert.True(t, s.AvailableBalance().IsZero())
	assert.True(t, s.TotalInvested.IsZero())
}

func TestSummarize_Idempotent(t *testing.T) {
	ledger := sampleLedger()
	first := Summarize(ledger)
	second := Summarize(ledger)
	assert.Equal(t, first, second)
}

func TestCategoryBreakdown(t *testing.T) {
	ledger := sampleLedger()
	ledger.Transactions = append(ledger.Transactions,
		newTx(domain.TransactionTypeVariableExpense, "400", day(2024, 4, 1), "travel"))

	rows := CategoryBreakdown(ledger.Transactions)

	require.Len(t, rows, 3)
	assert.Equal(t, "housing", rows[0].Category)
	// food and travel tie at 400, ordered by name
	assert.Equal(t, "food", rows[1].Category)
	assert.Equal(t, "travel", rows[2].Category)
	assert.True(t, rows[0].Share.Equal(dec("65.22")), "got %s", rows[0].Share)
}

func TestCategoryBreakdown_Empty(t *testing.T) {
	rows := CategoryBreakdown(nil)
	assert.Empty(t, rows)
	assert.Equal(t, decimal.Zero.String(), SumInvestments(nil).String())
}
