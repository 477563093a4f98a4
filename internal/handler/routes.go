package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler served by the API
type Handlers struct {
	Transaction *TransactionHandler
	Investment  *InvestmentHandler
	Goal        *GoalHandler
	Budget      *BudgetHandler
	Summary     *SummaryHandler
	Projection  *ProjectionHandler
	Report      *ReportHandler
	Tax         *TaxHandler
	WebSocket   *WebSocketHandler
	OpenAPI     *OpenAPI3Handler
}

// RegisterRoutes sets up all API routes. Writes and imports go through the rate limiter.
func RegisterRoutes(e *echo.Echo, h Handlers, rateLimiter *middleware.RateLimiter) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", h.OpenAPI.ServeOpenAPI3Spec)
	e.GET("/ws", h.WebSocket.HandleWS)

	// API version 1
	api := e.Group("/api/v1")
	limited := middleware.RateLimitMiddleware(rateLimiter)

	transactions := api.Group("/transactions")
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.POST("", h.Transaction.CreateTransaction, limited)
	transactions.GET("/active", h.Transaction.GetActiveTransactions)
	transactions.POST("/import", h.Transaction.ImportTransactions, limited)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction, limited)

	investments := api.Group("/investments")
	investments.GET("", h.Investment.GetInvestments)
	investments.POST("", h.Investment.CreateInvestment, limited)

	goals := api.Group("/goals")
	goals.GET("", h.Goal.GetGoals)
	goals.POST("", h.Goal.CreateGoal, limited)
	goals.GET("/progress", h.Goal.GetGoalProgress)
	goals.DELETE("/:id", h.Goal.DeleteGoal, limited)

	budgets := api.Group("/budgets")
	budgets.GET("", h.Budget.GetBudgets)
	budgets.PUT("", h.Budget.UpsertBudget, limited)
	budgets.GET("/status", h.Budget.GetBudgetStatuses)
	budgets.DELETE("/:id", h.Budget.DeleteBudget, limited)

	api.GET("/summary", h.Summary.GetSummary)
	api.GET("/summary/categories", h.Summary.GetCategoryBreakdown)

	api.GET("/projections", h.Projection.GetProjection)

	api.GET("/reports", h.Report.GetReport)
	api.GET("/reports/export", h.Report.ExportReport)

	api.GET("/taxes", h.Tax.ComputeTaxes)
	api.GET("/taxes/years", h.Tax.GetTaxYears)
}
