package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// UpsertBudgetRequest represents the request body for setting a category budget
type UpsertBudgetRequest struct {
	Category    string `json:"category"`
	LimitAmount string `json:"limitAmount"`
	Period      string `json:"period,omitempty"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID          int32  `json:"id"`
	Category    string `json:"category"`
	LimitAmount string `json:"limitAmount"`
	Period      string `json:"period"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// BudgetStatusResponse is a budget with its consumption over the whole ledger
type BudgetStatusResponse struct {
	Budget      BudgetResponse `json:"budget"`
	Spent       string         `json:"spent"`
	Remaining   string         `json:"remaining"`
	Consumption string         `json:"consumption"`
	OverBudget  bool           `json:"overBudget"`
}

// UpsertBudget godoc
// @Summary Set a category budget
// @Description Creates the budget for the category or replaces its limit
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body UpsertBudgetRequest true "Budget details"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /budgets [put]
func (h *BudgetHandler) UpsertBudget(c echo.Context) error {
	var req UpsertBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	limit, err := calc.ParseAmount(req.LimitAmount)
	if err != nil {
		return fieldError(c, "limitAmount", "Limit amount must be a decimal number")
	}

	budget, err := h.budgetService.UpsertBudget(c.Request().Context(), service.UpsertBudgetInput{
		Category:    req.Category,
		LimitAmount: limit,
		Period:      domain.BudgetPeriod(req.Period),
	})
	if err != nil {
		return handleServiceError(c, err, "save budget")
	}

	log.Info().Int32("budget_id", budget.ID).Str("category", budget.Category).Msg("Budget saved")
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// GetBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Success 200 {array} BudgetResponse
// @Failure 503 {object} ProblemDetails
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	budgets, err := h.budgetService.GetBudgets(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		response[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param id path int true "Budget ID"
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err, "delete budget")
	}

	log.Info().Int32("budget_id", id).Msg("Budget deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetBudgetStatuses godoc
// @Summary Consumption of every budget
// @Description Spending is summed over the whole ledger, not only the current period
// @Tags budgets
// @Produce json
// @Success 200 {array} BudgetStatusResponse
// @Failure 503 {object} ProblemDetails
// @Router /budgets/status [get]
func (h *BudgetHandler) GetBudgetStatuses(c echo.Context) error {
	statuses, err := h.budgetService.GetBudgetStatuses(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get budget status")
	}

	response := make([]BudgetStatusResponse, len(statuses))
	for i, s := range statuses {
		response[i] = BudgetStatusResponse{
			Budget:      toBudgetResponse(s.Budget),
			Spent:       s.Spent.StringFixed(2),
			Remaining:   s.Remaining.StringFixed(2),
			Consumption: s.Consumption.StringFixed(2),
			OverBudget:  s.OverBudget,
		}
	}
	return c.JSON(http.StatusOK, response)
}

func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:          budget.ID,
		Category:    budget.Category,
		LimitAmount: budget.LimitAmount.StringFixed(2),
		Period:      string(budget.Period),
		CreatedAt:   budget.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   budget.UpdatedAt.Format(time.RFC3339),
	}
}
