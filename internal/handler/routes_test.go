package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHTTPErrorHandler_UnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	rec := api.get("/api/v1/nowhere")
	require.Equal(t, http.StatusNotFound, rec.Code)

	problem := decode[ProblemDetails](t, rec)
	assert.Equal(t, ErrorTypeHTTP, problem.Type)
	assert.Equal(t, "Not Found", problem.Title)
	assert.Equal(t, "/api/v1/nowhere", problem.Instance)
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	rec := httptest.NewRecorder()

	HTTPErrorHandler(errors.New("boom"), e.NewContext(req, rec))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decode[ProblemDetails](t, rec)
	assert.Equal(t, ErrorTypeInternal, problem.Type)
	assert.Equal(t, "Unexpected error", problem.Detail)
}

func TestRoutes_WritesAreRateLimited(t *testing.T) {
	api := newTestAPIWithLimit(t, 60, 1)
	body := `{"description": "Tea", "amount": "2", "type": "variable_expense", "date": "2024-01-01"}`

	rec := api.sendJSON(http.MethodPost, "/api/v1/transactions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.sendJSON(http.MethodPost, "/api/v1/transactions", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Reads are not limited
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, api.get("/api/v1/transactions").Code)
	}
}

func TestServeOpenAPI3Spec(t *testing.T) {
	api := newTestAPI(t)

	rec := api.get("/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)

	spec := decode[OpenAPI3Spec](t, rec)
	assert.Equal(t, "3.0.3", spec.OpenAPI)
	require.Len(t, spec.Servers, 2)
	assert.Equal(t, "http://localhost:8080/api/v1", spec.Servers[0].URL)
	assert.Equal(t, "https://ledger.example.com/api/v1", spec.Servers[1].URL)
	assert.Contains(t, spec.Paths, "/transactions")
	assert.Contains(t, spec.Paths, "/reports/export")
	assert.Contains(t, spec.Components, "schemas")

	body := rec.Body.String()
	assert.NotContains(t, body, "#/definitions/")
	assert.Contains(t, body, "#/components/schemas/handler.TransactionResponse")
}

func TestNewOpenAPI3Handler_LocalOnly(t *testing.T) {
	h := NewOpenAPI3Handler("9000", "")
	require.Len(t, h.servers, 1)
	assert.Equal(t, "http://localhost:9000/api/v1", h.servers[0].URL)
}

func TestTransformParameter_QueryToSchema(t *testing.T) {
	param := map[string]interface{}{
		"name": "periods", "in": "query", "type": "integer", "default": 12, "description": "Number of periods",
	}

	result := transformParameter(param)
	assert.Equal(t, "periods", result["name"])
	assert.NotContains(t, result, "type")
	assert.Equal(t, map[string]interface{}{"type": "integer", "default": 12}, result["schema"])
}

func TestConvertOperation_BodyBecomesRequestBody(t *testing.T) {
	op := map[string]interface{}{
		"summary": "Create a goal",
		"parameters": []interface{}{
			map[string]interface{}{
				"name": "request", "in": "body", "required": true,
				"schema": map[string]interface{}{"$ref": "#/definitions/handler.CreateGoalRequest"},
			},
		},
		"responses": map[string]interface{}{
			"201": map[string]interface{}{
				"description": "Created",
				"schema":      map[string]interface{}{"$ref": "#/definitions/handler.GoalResponse"},
			},
			"204": map[string]interface{}{},
		},
	}

	out := convertOperation(op, []string{"application/json"}, []string{"application/json"})
	assert.Equal(t, "Create a goal", out["summary"])
	assert.NotContains(t, out, "parameters")

	body := out["requestBody"].(map[string]interface{})
	assert.Equal(t, true, body["required"])
	schema := body["content"].(map[string]interface{})["application/json"].(map[string]interface{})["schema"]
	assert.Equal(t, map[string]interface{}{"$ref": "#/components/schemas/handler.CreateGoalRequest"}, schema)

	responses := out["responses"].(map[string]interface{})
	created := responses["201"].(map[string]interface{})
	assert.Contains(t, created["content"], "application/json")
	noContent := responses["204"].(map[string]interface{})
	assert.Equal(t, "No Content", noContent["description"])
	assert.NotContains(t, noContent, "content")
}

func TestConvertOperation_FormDataBecomesMultipart(t *testing.T) {
	op := map[string]interface{}{
		"consumes": []interface{}{"text/csv", "multipart/form-data"},
		"parameters": []interface{}{
			map[string]interface{}{"name": "file", "in": "formData", "type": "file", "description": "CSV file"},
			map[string]interface{}{"name": "id", "in": "path", "type": "integer", "required": true},
		},
		"responses": map[string]interface{}{},
	}

	out := convertOperation(op, []string{"application/json"}, []string{"application/json"})

	params := out["parameters"].([]interface{})
	require.Len(t, params, 1)
	assert.Equal(t, "id", params[0].(map[string]interface{})["name"])

	content := out["requestBody"].(map[string]interface{})["content"].(map[string]interface{})
	schema := content[echo.MIMEMultipartForm].(map[string]interface{})["schema"].(map[string]interface{})
	file := schema["properties"].(map[string]interface{})["file"]
	assert.Equal(t, map[string]interface{}{"type": "string", "format": "binary", "description": "CSV file"}, file)
	assert.NotContains(t, schema, "required")
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"validation", fmt.Errorf("create: %w", domain.ErrInvalidLimitAmount), http.StatusBadRequest, ErrorTypeValidation},
		{"not found", domain.ErrNotFound, http.StatusNotFound, ErrorTypeNotFound},
		{"unknown tax year", domain.ErrTaxTableNotFound, http.StatusNotFound, ErrorTypeNotFound},
		{"storage", domain.NewStorageError("list", errors.New("broken pipe")), http.StatusServiceUnavailable, ErrorTypeStorage},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/anything", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, handleServiceError(c, tt.err, "do something"))
			assert.Equal(t, tt.status, rec.Code)

			problem := decode[ProblemDetails](t, rec)
			assert.Equal(t, tt.typ, problem.Type)
			assert.Equal(t, tt.status, problem.Status)
			assert.Equal(t, "/api/v1/anything", problem.Instance)
			if tt.status == http.StatusBadRequest {
				require.Len(t, problem.Errors, 1)
				assert.Equal(t, "limitAmount", problem.Errors[0].Field)
			}
			assert.False(t, strings.Contains(problem.Detail, "broken pipe"), "driver errors are not leaked")
		})
	}
}
