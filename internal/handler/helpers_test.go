package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/testutil"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testAPI is the full router backed by in-memory repositories
type testAPI struct {
	e          *echo.Echo
	txRepo     *testutil.MockTransactionRepository
	invRepo    *testutil.MockInvestmentRepository
	goalRepo   *testutil.MockGoalRepository
	budgetRepo *testutil.MockBudgetRepository
	publisher  *testutil.MockEventPublisher
	archive    *testutil.MockReportArchive
}

func newTestAPI(t *testing.T) *testAPI {
	return newTestAPIWithLimit(t, 1000, 1000)
}

func newTestAPIWithLimit(t *testing.T, perMinute, burst int) *testAPI {
	t.Helper()

	txRepo, invRepo, goalRepo, budgetRepo := testutil.NewMockRepositories()
	publisher := testutil.NewMockEventPublisher()
	archive := testutil.NewMockReportArchive()

	ledgerService := service.NewLedgerService(txRepo, invRepo, goalRepo, budgetRepo)
	transactionService := service.NewTransactionService(txRepo)
	transactionService.SetEventPublisher(publisher)
	importService := service.NewImportService(txRepo)
	importService.SetEventPublisher(publisher)
	investmentService := service.NewInvestmentService(invRepo)
	investmentService.SetEventPublisher(publisher)
	goalService := service.NewGoalService(goalRepo)
	goalService.SetEventPublisher(publisher)
	budgetService := service.NewBudgetService(budgetRepo, ledgerService)
	budgetService.SetEventPublisher(publisher)
	reportService := service.NewReportService(ledgerService)
	reportService.SetArchive(archive)

	tables, err := calc.NewTaxTables(testTaxTable(2023, "0"), testTaxTable(2024, "0.10"))
	require.NoError(t, err)

	rateLimiter := middleware.NewRateLimiter(perMinute, burst)
	t.Cleanup(rateLimiter.Stop)

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	RegisterRoutes(e, Handlers{
		Transaction: NewTransactionHandler(transactionService, importService),
		Investment:  NewInvestmentHandler(investmentService),
		Goal:        NewGoalHandler(goalService),
		Budget:      NewBudgetHandler(budgetService),
		Summary:     NewSummaryHandler(service.NewSummaryService(ledgerService)),
		Projection:  NewProjectionHandler(service.NewProjectionService(ledgerService)),
		Report:      NewReportHandler(reportService),
		Tax:         NewTaxHandler(service.NewTaxService(tables)),
		WebSocket:   NewWebSocketHandler(websocket.NewHub(), testAllowedOrigins),
		OpenAPI:     NewOpenAPI3Handler("8080", "https://ledger.example.com/"),
	}, rateLimiter)

	return &testAPI{
		e:          e,
		txRepo:     txRepo,
		invRepo:    invRepo,
		goalRepo:   goalRepo,
		budgetRepo: budgetRepo,
		publisher:  publisher,
		archive:    archive,
	}
}

// testTaxTable has a two-bracket contribution and a single flat income tax rate
func testTaxTable(year int, rate string) *calc.TaxTable {
	return &calc.TaxTable{
		Year: year,
		Contribution: []calc.ContributionBracket{
			{UpperBound: decimal.NewFromInt(1000), Rate: decimal.RequireFromString("0.05")},
			{UpperBound: decimal.NewFromInt(3000), Rate: decimal.RequireFromString("0.09")},
		},
		IncomeTax: []calc.IncomeTaxBracket{
			{Rate: decimal.RequireFromString(rate), Deduction: decimal.Zero},
		},
	}
}

func (a *testAPI) request(method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) get(target string) *httptest.ResponseRecorder {
	return a.request(http.MethodGet, target, "", nil)
}

func (a *testAPI) sendJSON(method, target, body string) *httptest.ResponseRecorder {
	return a.request(method, target, echo.MIMEApplicationJSON, strings.NewReader(body))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// requireFieldError asserts a 400 problem naming field
func requireFieldError(t *testing.T, rec *httptest.ResponseRecorder, field string) {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", rec.Body.String())
	problem := decode[ProblemDetails](t, rec)
	require.Equal(t, ErrorTypeValidation, problem.Type)
	require.NotEmpty(t, problem.Errors)
	require.Equal(t, field, problem.Errors[0].Field)
}
