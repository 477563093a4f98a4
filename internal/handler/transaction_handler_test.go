package handler

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateTransaction_Success(t *testing.T) {
	api := newTestAPI(t)

	rec := api.sendJSON(http.MethodPost, "/api/v1/transactions",
		`{"description": "Groceries", "amount": "150,5", "type": "variable_expense", "category": "Food", "date": "2024-03-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	response := decode[TransactionResponse](t, rec)
	assert.NotZero(t, response.ID)
	assert.Equal(t, "Groceries", response.Description)
	assert.Equal(t, "150.50", response.Amount)
	assert.Equal(t, "2024-03-10", response.Date)
	assert.Equal(t, "2024-03-10", response.StartDate)
	assert.Equal(t, 1, response.Installments)
	assert.False(t, response.IsRecurring)

	assert.Equal(t, []string{"transaction.created"}, api.publisher.Types())
}

func TestCreateTransaction_Recurring(t *testing.T) {
	api := newTestAPI(t)

	rec := api.sendJSON(http.MethodPost, "/api/v1/transactions",
		`{"description": "Laptop", "amount": "200", "type": "fixed_expense", "date": "2024-03-01",
		  "isRecurring": true, "installments": 10, "startDate": "2024-02-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	response := decode[TransactionResponse](t, rec)
	assert.True(t, response.IsRecurring)
	assert.Equal(t, 10, response.Installments)
	assert.Equal(t, "2024-02-01", response.StartDate)
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing description", `{"amount": "1", "type": "fixed_income", "date": "2024-01-01"}`, "description"},
		{"malformed amount", `{"description": "x", "amount": "abc", "type": "fixed_income", "date": "2024-01-01"}`, "amount"},
		{"negative amount", `{"description": "x", "amount": "-1", "type": "fixed_income", "date": "2024-01-01"}`, "amount"},
		{"unknown type", `{"description": "x", "amount": "1", "type": "salary", "date": "2024-01-01"}`, "type"},
		{"missing date", `{"description": "x", "amount": "1", "type": "fixed_income"}`, "date"},
		{"malformed date", `{"description": "x", "amount": "1", "type": "fixed_income", "date": "01/02/2024"}`, "date"},
		{"malformed start date", `{"description": "x", "amount": "1", "type": "fixed_income", "date": "2024-01-01", "isRecurring": true, "startDate": "2024/02/01"}`, "startDate"},
		{"too many installments", `{"description": "x", "amount": "1", "type": "fixed_income", "date": "2024-01-01", "isRecurring": true, "installments": 601}`, "installments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			rec := api.sendJSON(http.MethodPost, "/api/v1/transactions", tt.body)
			requireFieldError(t, rec, tt.field)
			assert.Empty(t, api.txRepo.Transactions)
			assert.Empty(t, api.publisher.Events)
		})
	}
}

func TestCreateTransaction_StorageUnavailable(t *testing.T) {
	api := newTestAPI(t)
	api.txRepo.Err = domain.NewStorageError("create transaction", errors.New("connection refused"))

	rec := api.sendJSON(http.MethodPost, "/api/v1/transactions",
		`{"description": "Rent", "amount": "900", "type": "fixed_expense", "date": "2024-03-01"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	problem := decode[ProblemDetails](t, rec)
	assert.Equal(t, ErrorTypeStorage, problem.Type)
	assert.Empty(t, api.publisher.Events)
}

func TestGetTransactions_NewestFirst(t *testing.T) {
	api := newTestAPI(t)
	api.txRepo.AddTransaction(&domain.Transaction{Description: "Old", Amount: decimal.NewFromInt(1), Type: domain.TransactionTypeVariableIncome, Date: date(2024, 1, 1)})
	api.txRepo.AddTransaction(&domain.Transaction{Description: "New", Amount: decimal.NewFromInt(2), Type: domain.TransactionTypeVariableIncome, Date: date(2024, 6, 1)})

	rec := api.get("/api/v1/transactions")
	require.Equal(t, http.StatusOK, rec.Code)

	response := decode[[]TransactionResponse](t, rec)
	require.Len(t, response, 2)
	assert.Equal(t, "New", response[0].Description)
	assert.Equal(t, "2.00", response[0].Amount)
	assert.Equal(t, "Old", response[1].Description)
}

func TestDeleteTransaction(t *testing.T) {
	api := newTestAPI(t)
	api.txRepo.AddTransaction(&domain.Transaction{ID: 5, Description: "x", Amount: decimal.NewFromInt(1), Type: domain.TransactionTypeFixedIncome, Date: date(2024, 1, 1)})

	rec := api.request(http.MethodDelete, "/api/v1/transactions/5", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, api.txRepo.Transactions)
	assert.Equal(t, []string{"transaction.deleted"}, api.publisher.Types())

	// Unknown IDs are a no-op
	rec = api.request(http.MethodDelete, "/api/v1/transactions/99", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"transaction.deleted"}, api.publisher.Types())

	rec = api.request(http.MethodDelete, "/api/v1/transactions/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetActiveTransactions(t *testing.T) {
	api := newTestAPI(t)
	api.txRepo.AddTransaction(&domain.Transaction{
		Description: "Phone", Amount: decimal.NewFromInt(100), Type: domain.TransactionTypeFixedExpense,
		Date: date(2024, 1, 31), IsRecurring: true, Installments: 3, StartDate: date(2024, 1, 31),
	})
	api.txRepo.AddTransaction(&domain.Transaction{
		Description: "Gym", Amount: decimal.NewFromInt(40), Type: domain.TransactionTypeFixedExpense,
		Date: date(2023, 1, 1), IsRecurring: true, Installments: 2, StartDate: date(2023, 1, 1),
	})

	rec := api.get("/api/v1/transactions/active?date=2024-02-15")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	response := decode[[]ActiveTransactionResponse](t, rec)
	require.Len(t, response, 1)
	assert.Equal(t, "Phone", response[0].Description)
	assert.Equal(t, 2, response[0].Installment)
	assert.Equal(t, "2024-02-29", response[0].DueDate)
	assert.Equal(t, "2024-03-31", response[0].EndDate)

	rec = api.get("/api/v1/transactions/active?date=15-02-2024")
	requireFieldError(t, rec, "date")
}

func TestImportTransactions_RawCSV(t *testing.T) {
	api := newTestAPI(t)

	csv := "description;amount;type;category;date\n" +
		"Coffee;3,50;Variable Expense;Food;02/01/2024\n" +
		"broken line\n" +
		"Salary;2500;fixed_income;;2024-01-05\n"

	rec := api.request(http.MethodPost, "/api/v1/transactions/import", "text/csv", strings.NewReader(csv))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	result := decode[service.ImportResult](t, rec)
	assert.Equal(t, 2, result.Imported)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, []string{"transaction.imported"}, api.publisher.Types())

	var coffee *domain.Transaction
	for _, tx := range api.txRepo.Transactions {
		if tx.Description == "Coffee" {
			coffee = tx
		}
	}
	require.NotNil(t, coffee)
	assert.True(t, coffee.Amount.Equal(decimal.RequireFromString("3.50")))
	assert.Equal(t, domain.TransactionTypeVariableExpense, coffee.Type)
	assert.True(t, coffee.Date.Equal(date(2024, 1, 2)), "date %s", coffee.Date)
}

func TestImportTransactions_Multipart(t *testing.T) {
	api := newTestAPI(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "ledger.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("description,amount,type,category,date\nBonus,100,variable_income,Work,2024-04-01\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rec := api.request(http.MethodPost, "/api/v1/transactions/import", w.FormDataContentType(), &body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, api.txRepo.Transactions, 1)
}

func TestImportTransactions_Empty(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(http.MethodPost, "/api/v1/transactions/import", "text/csv", strings.NewReader(""))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decode[service.ImportResult](t, rec)
	assert.Equal(t, 0, result.Imported)
	assert.Empty(t, api.publisher.Events)

	// A multipart request without the file field
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("other", "value"))
	require.NoError(t, w.Close())

	rec = api.request(http.MethodPost, "/api/v1/transactions/import", w.FormDataContentType(), &body)
	requireFieldError(t, rec, "file")
}
