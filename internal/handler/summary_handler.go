package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/labstack/echo/v4"
)

// SummaryHandler serves ledger aggregations
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// SummaryResponse represents the ledger summary in API responses
type SummaryResponse struct {
	FixedIncome      string `json:"fixedIncome"`
	VariableIncome   string `json:"variableIncome"`
	FixedExpense     string `json:"fixedExpense"`
	VariableExpense  string `json:"variableExpense"`
	TotalIncome      string `json:"totalIncome"`
	TotalExpense     string `json:"totalExpense"`
	TotalInvested    string `json:"totalInvested"`
	AvailableBalance string `json:"availableBalance"`
}

// CategoryTotalResponse is one row of the expense breakdown
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Share    string `json:"share"`
}

// GetSummary godoc
// @Summary Ledger summary
// @Description Income and expense totals by type, the invested total and the available balance. Investments do not reduce the available balance.
// @Tags summary
// @Produce json
// @Success 200 {object} SummaryResponse
// @Failure 503 {object} ProblemDetails
// @Router /summary [get]
func (h *SummaryHandler) GetSummary(c echo.Context) error {
	summary, err := h.summaryService.GetSummary(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get summary")
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		FixedIncome:      summary.FixedIncome.StringFixed(2),
		VariableIncome:   summary.VariableIncome.StringFixed(2),
		FixedExpense:     summary.FixedExpense.StringFixed(2),
		VariableExpense:  summary.VariableExpense.StringFixed(2),
		TotalIncome:      summary.TotalIncome.StringFixed(2),
		TotalExpense:     summary.TotalExpense.StringFixed(2),
		TotalInvested:    summary.TotalInvested.StringFixed(2),
		AvailableBalance: summary.AvailableBalance.StringFixed(2),
	})
}

// GetCategoryBreakdown godoc
// @Summary Expenses by category
// @Description Largest category first; share is the percentage of total expenses
// @Tags summary
// @Produce json
// @Success 200 {array} CategoryTotalResponse
// @Failure 503 {object} ProblemDetails
// @Router /summary/categories [get]
func (h *SummaryHandler) GetCategoryBreakdown(c echo.Context) error {
	totals, err := h.summaryService.GetCategoryBreakdown(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get category breakdown")
	}

	response := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		response[i] = CategoryTotalResponse{
			Category: t.Category,
			Amount:   t.Amount.StringFixed(2),
			Share:    t.Share.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, response)
}
