package calc

import (
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_BucketCounts(t *testing.T) {
	tests := []struct {
		granularity Granularity
		buckets     int
		firstLabel  string
	}{
		{GranularityMonthly, 12, "2024-01"},
		{GranularityQuarterly, 4, "Q1 2024"},
		{GranularitySemiAnnual, 2, "H1 2024"},
		{GranularityAnnual, 1, "2024"},
	}

	for _, tt := range tests {
		t.Run(string(tt.granularity), func(t *testing.T) {
			rows, err := BuildReport(nil, tt.granularity, 2024)
			require.NoError(t, err)
			require.Len(t, rows, tt.buckets)
			assert.Equal(t, tt.buckets, tt.granularity.Buckets())
			assert.Equal(t, tt.firstLabel, rows[0].Label)
			for _, r := range rows {
				assert.True(t, r.Income.IsZero())
				assert.True(t, r.Expenses.IsZero())
				assert.True(t, r.Net.IsZero())
				assert.Equal(t, ClassificationBalanced, r.Classification())
			}
			assert.True(t, rows[0].Start.Equal(day(2024, 1, 1)))
			assert.True(t, rows[len(rows)-1].End.Equal(day(2024, 12, 31)))
		})
	}
}

func TestBuildReport_MarchTransactionLandsOnce(t *testing.T) {
	txs := []*domain.Transaction{
		newTx(domain.TransactionTypeVariableExpense, "80", day(2024, 3, 31), "food"),
	}

	expectBucket := map[Granularity]int{
		GranularityMonthly:    2,
		GranularityQuarterly:  0,
		GranularitySemiAnnual: 0,
		GranularityAnnual:     0,
	}

	for g, bucket := range expectBucket {
		rows, err := BuildReport(txs, g, 2024)
		require.NoError(t, err)
		hits := 0
		for i, r := range rows {
			if !r.Expenses.IsZero() {
				hits++
				assert.Equal(t, bucket, i, "%s bucket", g)
				assert.True(t, r.Expenses.Equal(dec("80")))
				assert.Equal(t, ClassificationDeficit, r.Classification())
			}
		}
		assert.Equal(t, 1, hits, "%s must count the transaction exactly once", g)
	}
}

func TestBuildReport_Totals(t *testing.T) {
	txs := []*domain.Transaction{
		newTx(domain.TransactionTypeFixedIncome, "3000", day(2024, 1, 5), "salary"),
		newTx(domain.TransactionTypeFixedIncome, "3000", day(2024, 7, 5), "salary"),
		newTx(domain.TransactionTypeFixedExpense, "1000", day(2024, 2, 1), "rent"),
		newTx(domain.TransactionTypeVariableExpense, "4500", day(2024, 8, 1), "car"),
		// other years are ignored
		newTx(domain.TransactionTypeFixedIncome, "9999", day(2023, 12, 31), "salary"),
		newTx(domain.TransactionTypeFixedIncome, "9999", day(2025, 1, 1), "salary"),
	}

	rows, err := BuildReport(txs, GranularitySemiAnnual, 2024)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Net.Equal(dec("2000")))
	assert.Equal(t, ClassificationSurplus, rows[0].Classification())
	assert.True(t, rows[1].Net.Equal(dec("-1500")))
	assert.Equal(t, ClassificationDeficit, rows[1].Classification())

	total := ReportTotals(rows)
	assert.Equal(t, "Total", total.Label)
	assert.True(t, total.Income.Equal(dec("6000")))
	assert.True(t, total.Expenses.Equal(dec("5500")))
	assert.True(t, total.Net.Equal(dec("500")))
}

func TestBuildReport_RecurringCountedByOwnDate(t *testing.T) {
	// Only the recorded row is counted; installments are not expanded
	txs := []*domain.Transaction{
		newRecurring(domain.TransactionTypeFixedExpense, "100", day(2024, 1, 10), 12),
	}
	rows, err := BuildReport(txs, GranularityAnnual, 2024)
	require.NoError(t, err)
	assert.True(t, rows[0].Expenses.Equal(dec("100")))
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, GranularityMonthly, g)

	g, err = ParseGranularity("semi-annual")
	require.NoError(t, err)
	assert.Equal(t, GranularitySemiAnnual, g)

	_, err = ParseGranularity("weekly")
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)

	_, err = BuildReport(nil, Granularity("weekly"), 2024)
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
}
