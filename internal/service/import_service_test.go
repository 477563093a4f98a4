package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportTransactions_CommaDelimited(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	publisher := testutil.NewMockEventPublisher()
	importService := NewImportService(repo)
	importService.SetEventPublisher(publisher)

	payload := "description,amount,type,category,date\n" +
		"Salary,5000.00,fixed_income,Work,2024-01-05\n" +
		"Groceries,123.45,Variable Expense,Food,10/01/2024\n"

	result, err := importService.ImportTransactions(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.NotEmpty(t, result.BatchID)

	txs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "Groceries", txs[0].Description)
	assert.Equal(t, domain.TransactionTypeVariableExpense, txs[0].Type)
	assert.True(t, txs[0].Date.Equal(date(2024, 1, 10)))

	assert.Equal(t, []string{"transaction.imported"}, publisher.Types())
}

func TestImportTransactions_SemicolonAndCommaDecimal(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()

	payload := "descrizione;importo;tipo;categoria;data\n" +
		"Affitto;1.200,50;fixed-expense;Casa;01/02/2024\n"

	result, err := NewImportService(repo).ImportTransactions(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	txs, _ := repo.List(context.Background())
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("1200.50")), "amount %s", txs[0].Amount)
	assert.Equal(t, domain.TransactionTypeFixedExpense, txs[0].Type)
}

func TestImportTransactions_SkipsMalformedLines(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()

	payload := "description,amount,type,category,date\n" +
		"Too,few,fields\n" +
		"Bad amount,abc,fixed_income,Work,2024-01-01\n" +
		"Bad type,10,bonus,Work,2024-01-01\n" +
		"Bad date,10,fixed_income,Work,2024/13/01\n" +
		",10,fixed_income,Work,2024-01-01\n" +
		"Negative,-5,fixed_expense,Work,2024-01-01\n" +
		"Good,10,fixed_income,Work,2024-01-01\n"

	result, err := NewImportService(repo).ImportTransactions(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestImportTransactions_HeaderOnly(t *testing.T) {
	publisher := testutil.NewMockEventPublisher()
	importService := NewImportService(testutil.NewMockTransactionRepository())
	importService.SetEventPublisher(publisher)

	result, err := importService.ImportTransactions(context.Background(), strings.NewReader("description,amount,type,category,date\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Empty(t, publisher.Events)
}

func TestImportTransactions_Empty(t *testing.T) {
	publisher := testutil.NewMockEventPublisher()
	importService := NewImportService(testutil.NewMockTransactionRepository())
	importService.SetEventPublisher(publisher)

	for _, payload := range []string{"", "  \n"} {
		result, err := importService.ImportTransactions(context.Background(), strings.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
		assert.NotEmpty(t, result.BatchID)
	}
	assert.Empty(t, publisher.Events)
}

func TestImportTransactions_CommaDecimalWithCommaDelimiter(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()

	payload := "description,amount,type,category,date\n" +
		"Coffee,12,50,variable_expense,Food,2024-01-02\n" +
		"Quoted,\"7,25\",variable_expense,Food,2024-01-03\n" +
		"Plain,3.10,variable_expense,Food,2024-01-04\n"

	result, err := NewImportService(repo).ImportTransactions(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, 3, result.Imported)

	amounts := make(map[string]decimal.Decimal)
	for _, tx := range repo.Transactions {
		amounts[tx.Description] = tx.Amount
	}
	assert.True(t, amounts["Coffee"].Equal(decimal.RequireFromString("12.50")), "coffee %s", amounts["Coffee"])
	assert.True(t, amounts["Quoted"].Equal(decimal.RequireFromString("7.25")), "quoted %s", amounts["Quoted"])
	assert.True(t, amounts["Plain"].Equal(decimal.RequireFromString("3.10")), "plain %s", amounts["Plain"])
}

func TestJoinCommaDecimal(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   []string
	}{
		{"split amount", []string{"Tea", "2", "40", "variable_expense", "Food", "2024-01-01"},
			[]string{"Tea", "2,40", "variable_expense", "Food", "2024-01-01"}},
		{"five fields untouched", []string{"Tea", "2.40", "variable_expense", "Food", "2024-01-01"},
			[]string{"Tea", "2.40", "variable_expense", "Food", "2024-01-01"}},
		{"not an amount", []string{"Tea", "2", "cups", "variable_expense", "Food", "2024-01-01"},
			[]string{"Tea", "2", "cups", "variable_expense", "Food", "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinCommaDecimal(tt.record))
		})
	}
}

func TestImportTransactions_StorageFailureKeepsEarlierLines(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	repo.CreateErr = domain.NewStorageError("create transaction", errors.New("disk full"))
	repo.FailAfter = 1

	payload := "description,amount,type,category,date\n" +
		"First,10,fixed_income,Work,2024-01-01\n" +
		"Second,20,fixed_income,Work,2024-01-02\n"

	_, err := NewImportService(repo).ImportTransactions(context.Background(), strings.NewReader(payload))
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Len(t, repo.Transactions, 1)
}
