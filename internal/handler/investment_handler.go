package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InvestmentHandler handles investment-related HTTP requests
type InvestmentHandler struct {
	investmentService *service.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// CreateInvestmentRequest represents the create investment request body
type CreateInvestmentRequest struct {
	Name           string `json:"name"`
	Amount         string `json:"amount"`
	Type           string `json:"type"`
	ExpectedReturn string `json:"expectedReturn,omitempty"`
	Date           string `json:"date"`
}

// InvestmentResponse represents an investment in API responses
type InvestmentResponse struct {
	ID             int32  `json:"id"`
	Name           string `json:"name"`
	Amount         string `json:"amount"`
	Type           string `json:"type"`
	ExpectedReturn string `json:"expectedReturn"`
	Date           string `json:"date"`
	CreatedAt      string `json:"createdAt"`
}

// CreateInvestment godoc
// @Summary Create an investment
// @Description Investments count towards the invested total and never reduce the available balance
// @Tags investments
// @Accept json
// @Produce json
// @Param request body CreateInvestmentRequest true "Investment details"
// @Success 201 {object} InvestmentResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /investments [post]
func (h *InvestmentHandler) CreateInvestment(c echo.Context) error {
	var req CreateInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := calc.ParseAmount(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Amount must be a decimal number")
	}

	expectedReturn := decimal.Zero
	if req.ExpectedReturn != "" {
		expectedReturn, err = calc.ParseAmount(req.ExpectedReturn)
		if err != nil {
			return fieldError(c, "expectedReturn", "Expected return must be a decimal number")
		}
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse(dateLayout, req.Date)
		if err != nil {
			return fieldError(c, "date", "Date must be in YYYY-MM-DD format")
		}
	}

	investment, err := h.investmentService.CreateInvestment(c.Request().Context(), service.CreateInvestmentInput{
		Name:           req.Name,
		Amount:         amount,
		Type:           req.Type,
		ExpectedReturn: expectedReturn,
		Date:           date,
	})
	if err != nil {
		return handleServiceError(c, err, "create investment")
	}

	log.Info().Int32("investment_id", investment.ID).Msg("Investment created")
	return c.JSON(http.StatusCreated, toInvestmentResponse(investment))
}

// GetInvestments godoc
// @Summary List investments
// @Tags investments
// @Produce json
// @Success 200 {array} InvestmentResponse
// @Failure 503 {object} ProblemDetails
// @Router /investments [get]
func (h *InvestmentHandler) GetInvestments(c echo.Context) error {
	investments, err := h.investmentService.GetInvestments(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get investments")
	}

	response := make([]InvestmentResponse, len(investments))
	for i, inv := range investments {
		response[i] = toInvestmentResponse(inv)
	}
	return c.JSON(http.StatusOK, response)
}

func toInvestmentResponse(investment *domain.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:             investment.ID,
		Name:           investment.Name,
		Amount:         investment.Amount.StringFixed(2),
		Type:           investment.Type,
		ExpectedReturn: investment.ExpectedReturn.StringFixed(2),
		Date:           investment.Date.Format(dateLayout),
		CreatedAt:      investment.CreatedAt.Format(time.RFC3339),
	}
}
