package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation = "https://fortuna.app/errors/validation"
	ErrorTypeNotFound   = "https://fortuna.app/errors/not-found"
	ErrorTypeStorage    = "https://fortuna.app/errors/storage"
	ErrorTypeInternal   = "https://fortuna.app/errors/internal"
	ErrorTypeHTTP       = "about:blank"
)

func writeProblem(c echo.Context, status int, problemType, title, detail string, errs []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errs,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return writeProblem(c, http.StatusBadRequest, ErrorTypeValidation, "Validation Error", detail, errors)
}

func NewNotFoundError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail, nil)
}

func NewInternalError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail, nil)
}

// NewStorageUnavailableError reports a failing persistence backend
func NewStorageUnavailableError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusServiceUnavailable, ErrorTypeStorage, "Storage Unavailable", detail, nil)
}

// HTTPErrorHandler renders errors that escape handlers (unknown routes, bad methods,
// recovered panics) as problem details
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := "Unexpected error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		}
	}

	problemType := ErrorTypeHTTP
	if status >= http.StatusInternalServerError {
		problemType = ErrorTypeInternal
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = writeProblem(c, status, problemType, http.StatusText(status), detail, nil)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to write error response")
	}
}
