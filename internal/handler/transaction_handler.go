package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const dateLayout = util.DateLayout

// maxImportSize bounds the CSV accepted by the import endpoint
const maxImportSize = 10 << 20

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	importService      *service.ImportService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, importService *service.ImportService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		importService:      importService,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Description  string  `json:"description"`
	Amount       string  `json:"amount"`
	Type         string  `json:"type"`
	Category     string  `json:"category"`
	Date         string  `json:"date"`
	IsRecurring  bool    `json:"isRecurring"`
	Installments int     `json:"installments"`
	StartDate    *string `json:"startDate,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID           int32  `json:"id"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Type         string `json:"type"`
	Category     string `json:"category"`
	Date         string `json:"date"`
	IsRecurring  bool   `json:"isRecurring"`
	Installments int    `json:"installments"`
	StartDate    string `json:"startDate"`
	CreatedAt    string `json:"createdAt"`
}

// ActiveTransactionResponse is a transaction with the installment due in the requested month
type ActiveTransactionResponse struct {
	TransactionResponse
	Installment int    `json:"installment"`
	DueDate     string `json:"dueDate"`
	EndDate     string `json:"endDate"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record an income or expense. Recurring transactions expand into monthly installments from startDate.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction details"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := calc.ParseAmount(req.Amount)
	if err != nil {
		return fieldError(c, "amount", "Amount must be a decimal number")
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse(dateLayout, req.Date)
		if err != nil {
			return fieldError(c, "date", "Date must be in YYYY-MM-DD format")
		}
	}

	var startDate *time.Time
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return fieldError(c, "startDate", "Start date must be in YYYY-MM-DD format")
		}
		startDate = &parsed
	}

	input := service.CreateTransactionInput{
		Description:  req.Description,
		Amount:       amount,
		Type:         domain.TransactionType(req.Type),
		Category:     req.Category,
		Date:         date,
		IsRecurring:  req.IsRecurring,
		Installments: req.Installments,
		StartDate:    startDate,
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), input)
	if err != nil {
		return handleServiceError(c, err, "create transaction")
	}

	log.Info().Int32("transaction_id", transaction.ID).Str("type", string(transaction.Type)).Msg("Transaction created")
	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description Get every transaction, newest date first
// @Tags transactions
// @Produce json
// @Success 200 {array} TransactionResponse
// @Failure 503 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	transactions, err := h.transactionService.GetTransactions(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get transactions")
	}

	response := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = toTransactionResponse(t)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Deleting an unknown id is a no-op
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err, "delete transaction")
	}

	log.Info().Int32("transaction_id", id).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetActiveTransactions godoc
// @Summary Transactions active on a date
// @Description List the transactions whose installment span covers the date, with the installment due that month
// @Tags transactions
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {array} ActiveTransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /transactions/active [get]
func (h *TransactionHandler) GetActiveTransactions(c echo.Context) error {
	date := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return fieldError(c, "date", "Date must be in YYYY-MM-DD format")
		}
		date = parsed
	}

	active, err := h.transactionService.GetActiveTransactions(c.Request().Context(), date)
	if err != nil {
		return handleServiceError(c, err, "get active transactions")
	}

	response := make([]ActiveTransactionResponse, len(active))
	for i, a := range active {
		response[i] = ActiveTransactionResponse{
			TransactionResponse: toTransactionResponse(a.Transaction),
			Installment:         a.Installment,
			DueDate:             a.DueDate.Format(dateLayout),
			EndDate:             a.EndDate.Format(dateLayout),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// ImportTransactions godoc
// @Summary Bulk import transactions
// @Description Import a CSV with a header line and description,amount,type,category,date rows. Send it as the raw body (text/csv) or as the multipart field "file". Malformed rows are skipped.
// @Tags transactions
// @Accept text/csv,multipart/form-data
// @Produce json
// @Param file formData file false "CSV file"
// @Success 201 {object} service.ImportResult
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /transactions/import [post]
func (h *TransactionHandler) ImportTransactions(c echo.Context) error {
	body, closeBody, err := importBody(c)
	if err != nil {
		return fieldError(c, "file", "A CSV file is required")
	}
	defer closeBody()

	result, err := h.importService.ImportTransactions(c.Request().Context(), io.LimitReader(body, maxImportSize))
	if err != nil {
		return handleServiceError(c, err, "import transactions")
	}

	log.Info().Str("batch_id", result.BatchID).Int("imported", result.Imported).Msg("Transactions imported")
	return c.JSON(http.StatusCreated, result)
}

// importBody returns the uploaded file of a multipart request or the raw body otherwise
func importBody(c echo.Context) (io.Reader, func(), error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return c.Request().Body, func() {}, nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, nil, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           transaction.ID,
		Description:  transaction.Description,
		Amount:       transaction.Amount.StringFixed(2),
		Type:         string(transaction.Type),
		Category:     transaction.Category,
		Date:         transaction.Date.Format(dateLayout),
		IsRecurring:  transaction.IsRecurring,
		Installments: transaction.Installments,
		StartDate:    transaction.StartDate.Format(dateLayout),
		CreatedAt:    transaction.CreatedAt.Format(time.RFC3339),
	}
}

// parseID reads the :id path parameter
func parseID(c echo.Context) (int32, error) {
	v, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
