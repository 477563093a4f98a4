package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/export"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Headers set on archived exports
const (
	HeaderArchiveKey = "X-Archive-Key"
	HeaderArchiveURL = "X-Archive-URL"
)

// ReportHandler serves period reports and their exports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportRowResponse is one calendar bucket of a report
type ReportRowResponse struct {
	Label          string `json:"label"`
	Start          string `json:"start"`
	End            string `json:"end"`
	Income         string `json:"income"`
	Expenses       string `json:"expenses"`
	Net            string `json:"net"`
	Classification string `json:"classification"`
}

// ReportResponse represents a period report in API responses
type ReportResponse struct {
	Granularity string              `json:"granularity"`
	Year        int                 `json:"year"`
	Rows        []ReportRowResponse `json:"rows"`
	Totals      ReportRowResponse   `json:"totals"`
}

var errInvalidYear = errors.New("invalid year")

// reportParams reads granularity and year, defaulting to monthly and the current year
func reportParams(c echo.Context) (calc.Granularity, int, error) {
	granularity, err := calc.ParseGranularity(c.QueryParam("granularity"))
	if err != nil {
		return "", 0, err
	}

	year := time.Now().UTC().Year()
	if raw := c.QueryParam("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil || year < 1 {
			return "", 0, errInvalidYear
		}
	}
	return granularity, year, nil
}

// GetReport godoc
// @Summary Period report
// @Description Buckets the year's income and expenses by granularity and classifies each bucket as surplus, deficit or balanced
// @Tags reports
// @Produce json
// @Param granularity query string false "monthly, quarterly, semiannual or annual" default(monthly)
// @Param year query int false "Calendar year, defaults to the current year"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /reports [get]
func (h *ReportHandler) GetReport(c echo.Context) error {
	granularity, year, err := reportParams(c)
	if errors.Is(err, errInvalidYear) {
		return fieldError(c, "year", "Year must be a positive whole number")
	}
	if err != nil {
		return handleServiceError(c, err, "build report")
	}

	report, err := h.reportService.GetReport(c.Request().Context(), granularity, year)
	if err != nil {
		return handleServiceError(c, err, "build report")
	}

	response := ReportResponse{
		Granularity: string(report.Granularity),
		Year:        report.Year,
		Rows:        make([]ReportRowResponse, len(report.Rows)),
		Totals:      toReportRowResponse(report.Totals),
	}
	for i, row := range report.Rows {
		response.Rows[i] = toReportRowResponse(row)
	}
	return c.JSON(http.StatusOK, response)
}

// ExportReport godoc
// @Summary Export a period report
// @Description Renders the report as CSV or PDF. When archiving is enabled the document is also stored and its key returned in X-Archive-Key.
// @Tags reports
// @Produce text/csv,application/pdf
// @Param granularity query string false "monthly, quarterly, semiannual or annual" default(monthly)
// @Param year query int false "Calendar year, defaults to the current year"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /reports/export [get]
func (h *ReportHandler) ExportReport(c echo.Context) error {
	granularity, year, err := reportParams(c)
	if errors.Is(err, errInvalidYear) {
		return fieldError(c, "year", "Year must be a positive whole number")
	}
	if err != nil {
		return handleServiceError(c, err, "export report")
	}

	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return handleServiceError(c, err, "export report")
	}

	result, err := h.reportService.ExportReport(c.Request().Context(), granularity, year, format)
	if err != nil {
		return handleServiceError(c, err, "export report")
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
	if result.ArchiveKey != "" {
		header.Set(HeaderArchiveKey, result.ArchiveKey)
	}
	if result.ArchiveURL != "" {
		header.Set(HeaderArchiveURL, result.ArchiveURL)
	}

	log.Info().Str("filename", result.Filename).Int("bytes", len(result.Data)).Msg("Report exported")
	return c.Blob(http.StatusOK, result.ContentType, result.Data)
}

func toReportRowResponse(line service.ReportLine) ReportRowResponse {
	return ReportRowResponse{
		Label:          line.Label,
		Start:          line.Start.Format(dateLayout),
		End:            line.End.Format(dateLayout),
		Income:         line.Income.StringFixed(2),
		Expenses:       line.Expenses.StringFixed(2),
		Net:            line.Net.StringFixed(2),
		Classification: line.Classification,
	}
}
