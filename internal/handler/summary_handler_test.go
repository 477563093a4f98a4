package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLedger(api *testAPI) {
	api.txRepo.AddTransaction(&domain.Transaction{Description: "Salary", Amount: decimal.NewFromInt(3000), Type: domain.TransactionTypeFixedIncome, Date: date(2024, 1, 5)})
	api.txRepo.AddTransaction(&domain.Transaction{Description: "Freelance", Amount: decimal.NewFromInt(500), Type: domain.TransactionTypeVariableIncome, Date: date(2024, 1, 20)})
	api.txRepo.AddTransaction(&domain.Transaction{Description: "Rent", Amount: decimal.NewFromInt(700), Type: domain.TransactionTypeFixedExpense, Category: "Housing", Date: date(2024, 1, 1)})
	api.txRepo.AddTransaction(&domain.Transaction{Description: "Market", Amount: decimal.NewFromInt(300), Type: domain.TransactionTypeVariableExpense, Category: "Food", Date: date(2024, 1, 8)})
	api.invRepo.AddInvestment(&domain.Investment{Name: "Bonds", Amount: decimal.NewFromInt(1000), Date: date(2024, 1, 10)})
}

func TestGetSummary(t *testing.T) {
	api := newTestAPI(t)
	seedLedger(api)

	rec := api.get("/api/v1/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	response := decode[SummaryResponse](t, rec)
	assert.Equal(t, "3000.00", response.FixedIncome)
	assert.Equal(t, "500.00", response.VariableIncome)
	assert.Equal(t, "3500.00", response.TotalIncome)
	assert.Equal(t, "1000.00", response.TotalExpense)
	assert.Equal(t, "1000.00", response.TotalInvested)
	// Investments do not reduce the available balance
	assert.Equal(t, "2500.00", response.AvailableBalance)
}

func TestGetSummary_StorageUnavailable(t *testing.T) {
	api := newTestAPI(t)
	api.goalRepo.Err = domain.NewStorageError("list goals", errors.New("timeout"))

	rec := api.get("/api/v1/summary")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetCategoryBreakdown(t *testing.T) {
	api := newTestAPI(t)
	seedLedger(api)

	rec := api.get("/api/v1/summary/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	response := decode[[]CategoryTotalResponse](t, rec)
	require.Len(t, response, 2)
	assert.Equal(t, CategoryTotalResponse{Category: "Housing", Amount: "700.00", Share: "70.00"}, response[0])
	assert.Equal(t, CategoryTotalResponse{Category: "Food", Amount: "300.00", Share: "30.00"}, response[1])
}
