package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/labstack/echo/v4"
)

// ProjectionHandler serves balance forecasts
type ProjectionHandler struct {
	projectionService *service.ProjectionService
}

// NewProjectionHandler creates a new ProjectionHandler
func NewProjectionHandler(projectionService *service.ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{projectionService: projectionService}
}

// ProjectedPeriodResponse is one forecast step
type ProjectedPeriodResponse struct {
	Index            int    `json:"index"`
	Period           string `json:"period"`
	Label            string `json:"label"`
	ProjectedBalance string `json:"projectedBalance"`
}

// ProjectionResponse represents a forecast in API responses
type ProjectionResponse struct {
	Unit             string                    `json:"unit"`
	From             string                    `json:"from"`
	CurrentBalance   string                    `json:"currentBalance"`
	RecurringIncome  string                    `json:"recurringIncome"`
	RecurringExpense string                    `json:"recurringExpense"`
	NetFlow          string                    `json:"netFlow"`
	Periods          []ProjectedPeriodResponse `json:"periods"`
}

// GetProjection godoc
// @Summary Forecast the balance
// @Description Projects the available balance forward using the recurring income and expense per unit
// @Tags projections
// @Produce json
// @Param periods query int false "Number of periods ahead (1-120)" default(12)
// @Param unit query string false "month, quarter or year" default(month)
// @Success 200 {object} ProjectionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /projections [get]
func (h *ProjectionHandler) GetProjection(c echo.Context) error {
	periods := calc.DefaultProjectionPeriods
	if raw := c.QueryParam("periods"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fieldError(c, "periods", "Periods must be a whole number")
		}
		periods = v
	}

	unit, err := calc.ParsePeriodUnit(c.QueryParam("unit"))
	if err != nil {
		return handleServiceError(c, err, "project balance")
	}

	result, err := h.projectionService.Project(c.Request().Context(), periods, unit)
	if err != nil {
		return handleServiceError(c, err, "project balance")
	}

	response := ProjectionResponse{
		Unit:             string(result.Unit),
		From:             result.From.Format(dateLayout),
		CurrentBalance:   result.CurrentBalance.StringFixed(2),
		RecurringIncome:  result.RecurringIncome.StringFixed(2),
		RecurringExpense: result.RecurringExpense.StringFixed(2),
		NetFlow:          result.NetFlow.StringFixed(2),
		Periods:          make([]ProjectedPeriodResponse, len(result.Periods)),
	}
	for i, p := range result.Periods {
		response.Periods[i] = ProjectedPeriodResponse{
			Index:            p.Index,
			Period:           p.Period.Format(dateLayout),
			Label:            p.Label,
			ProjectedBalance: p.ProjectedBalance.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, response)
}
