package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/labstack/echo/v4"
)

// TaxHandler serves progressive tax computations
type TaxHandler struct {
	taxService *service.TaxService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(taxService *service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// TaxResponse represents a tax computation in API responses
type TaxResponse struct {
	Year          int    `json:"year"`
	Gross         string `json:"gross"`
	Contribution  string `json:"contribution"`
	TaxableBase   string `json:"taxableBase"`
	IncomeTax     string `json:"incomeTax"`
	Net           string `json:"net"`
	EffectiveRate string `json:"effectiveRate"`
}

// TaxYearsResponse lists the configured fiscal years
type TaxYearsResponse struct {
	Years []int `json:"years"`
}

// ComputeTaxes godoc
// @Summary Compute taxes on a gross income
// @Description Applies the social contribution brackets to gross and the income tax brackets to gross minus contribution
// @Tags taxes
// @Produce json
// @Param gross query string true "Gross income"
// @Param year query int false "Fiscal year, defaults to the latest configured"
// @Success 200 {object} TaxResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /taxes [get]
func (h *TaxHandler) ComputeTaxes(c echo.Context) error {
	gross, err := calc.ParseAmount(c.QueryParam("gross"))
	if err != nil {
		return fieldError(c, "gross", "Gross income must be a decimal number")
	}

	year := 0
	if raw := c.QueryParam("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			return fieldError(c, "year", "Year must be a whole number")
		}
	}

	result, err := h.taxService.ComputeTaxes(year, gross)
	if err != nil {
		return handleServiceError(c, err, "compute taxes")
	}

	return c.JSON(http.StatusOK, TaxResponse{
		Year:          result.Year,
		Gross:         result.Gross.StringFixed(2),
		Contribution:  result.Contribution.StringFixed(2),
		TaxableBase:   result.TaxableBase.StringFixed(2),
		IncomeTax:     result.IncomeTax.StringFixed(2),
		Net:           result.Net.StringFixed(2),
		EffectiveRate: result.EffectiveRate.StringFixed(2),
	})
}

// GetTaxYears godoc
// @Summary Configured fiscal years
// @Tags taxes
// @Produce json
// @Success 200 {object} TaxYearsResponse
// @Router /taxes/years [get]
func (h *TaxHandler) GetTaxYears(c echo.Context) error {
	return c.JSON(http.StatusOK, TaxYearsResponse{Years: h.taxService.GetYears()})
}
