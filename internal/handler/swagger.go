package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dafibh/fortuna/fortuna-ledger/docs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

const (
	definitionsPrefix = "#/definitions/"
	schemasPrefix     = "#/components/schemas/"
)

// schemaFields are the Swagger 2.0 parameter keys that move under "schema" in OpenAPI 3.0
var schemaFields = []string{"type", "format", "enum", "default", "minimum", "maximum", "items"}

// rewriteRefs points every $ref below data at components/schemas
func rewriteRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				out[key] = schemasPrefix + strings.TrimPrefix(ref, definitionsPrefix)
				continue
			}
			out[key] = rewriteRefs(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = rewriteRefs(item)
		}
		return out
	default:
		return data
	}
}

// transformParameter converts a path, query or header parameter
func transformParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range schemaFields {
		if val, ok := param[field]; ok {
			schema[field] = rewriteRefs(val)
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}
	return result
}

// formDataSchema folds formData parameters into one multipart object schema
func formDataSchema(params []map[string]interface{}) map[string]interface{} {
	properties := make(map[string]interface{}, len(params))
	var required []interface{}
	for _, p := range params {
		name, _ := p["name"].(string)
		prop := map[string]interface{}{"type": p["type"]}
		if p["type"] == "file" {
			prop = map[string]interface{}{"type": "string", "format": "binary"}
		}
		if desc, ok := p["description"]; ok {
			prop["description"] = desc
		}
		properties[name] = prop
		if req, _ := p["required"].(bool); req {
			required = append(required, name)
		}
	}

	schema := map[string]interface{}{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func mediaTypes(schema interface{}, types []string) map[string]interface{} {
	content := make(map[string]interface{}, len(types))
	for _, t := range types {
		content[t] = map[string]interface{}{"schema": schema}
	}
	return content
}

func stringList(v interface{}, fallback []string) []string {
	raw, ok := v.([]interface{})
	if !ok || len(raw) == 0 {
		return fallback
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// convertOperation moves body and formData parameters into requestBody and wraps
// response schemas in content entries
func convertOperation(op map[string]interface{}, consumes, produces []string) map[string]interface{} {
	consumes = stringList(op["consumes"], consumes)
	produces = stringList(op["produces"], produces)

	out := make(map[string]interface{}, len(op))
	for key, value := range op {
		switch key {
		case "consumes", "produces", "parameters", "responses":
		default:
			out[key] = value
		}
	}

	var (
		parameters []interface{}
		formData   []map[string]interface{}
	)
	rawParams, _ := op["parameters"].([]interface{})
	for _, raw := range rawParams {
		param, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		switch param["in"] {
		case "body":
			body := map[string]interface{}{
				"content": mediaTypes(rewriteRefs(param["schema"]), consumes),
			}
			if req, ok := param["required"]; ok {
				body["required"] = req
			}
			if desc, ok := param["description"]; ok {
				body["description"] = desc
			}
			out["requestBody"] = body
		case "formData":
			formData = append(formData, param)
		default:
			parameters = append(parameters, transformParameter(param))
		}
	}
	if len(parameters) > 0 {
		out["parameters"] = parameters
	}
	if len(formData) > 0 {
		if _, hasBody := out["requestBody"]; !hasBody {
			out["requestBody"] = map[string]interface{}{
				"content": mediaTypes(formDataSchema(formData), []string{echo.MIMEMultipartForm}),
			}
		}
	}

	responses := make(map[string]interface{})
	rawResponses, _ := op["responses"].(map[string]interface{})
	for code, raw := range rawResponses {
		resp, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		converted := map[string]interface{}{"description": resp["description"]}
		if converted["description"] == nil {
			status, _ := strconv.Atoi(code)
			converted["description"] = http.StatusText(status)
		}
		if schema, ok := resp["schema"]; ok {
			converted["content"] = mediaTypes(rewriteRefs(schema), produces)
		}
		responses[code] = converted
	}
	out["responses"] = responses
	return out
}

// convertSwagger2 builds the OpenAPI 3.0 document from a decoded Swagger 2.0 one
func convertSwagger2(swagger2 map[string]interface{}, servers []Server) OpenAPI3Spec {
	consumes := stringList(swagger2["consumes"], []string{echo.MIMEApplicationJSON})
	produces := stringList(swagger2["produces"], []string{echo.MIMEApplicationJSON})

	paths := make(map[string]interface{})
	rawPaths, _ := swagger2["paths"].(map[string]interface{})
	for path, rawItem := range rawPaths {
		item, ok := rawItem.(map[string]interface{})
		if !ok {
			continue
		}
		methods := make(map[string]interface{}, len(item))
		for method, rawOp := range item {
			if op, ok := rawOp.(map[string]interface{}); ok {
				methods[method] = convertOperation(op, consumes, produces)
			}
		}
		paths[path] = methods
	}

	components := make(map[string]interface{})
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = rewriteRefs(definitions)
	}

	info, _ := swagger2["info"].(map[string]interface{})
	return OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      paths,
		Components: components,
	}
}

// OpenAPI3Handler serves the swagger spec converted to OpenAPI 3.0
type OpenAPI3Handler struct {
	servers []Server
}

// NewOpenAPI3Handler lists the local server first, followed by publicURL when set
func NewOpenAPI3Handler(port, publicURL string) *OpenAPI3Handler {
	servers := []Server{{
		URL:         "http://localhost:" + port + "/api/v1",
		Description: "Local Development",
	}}
	if publicURL != "" {
		servers = append(servers, Server{
			URL:         strings.TrimRight(publicURL, "/") + "/api/v1",
			Description: "Production",
		})
	}
	return &OpenAPI3Handler{servers: servers}
}

// ServeOpenAPI3Spec godoc
// @Summary OpenAPI 3 document
// @Tags ops
// @Produce json
// @Success 200 {object} OpenAPI3Spec
// @Router /openapi.json [get]
func (h *OpenAPI3Handler) ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		log.Error().Err(err).Msg("Failed to read swagger doc")
		return NewInternalError(c, "Failed to read API documentation")
	}

	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		log.Error().Err(err).Msg("Failed to parse swagger doc")
		return NewInternalError(c, "Failed to parse API documentation")
	}

	return c.JSON(http.StatusOK, convertSwagger2(swagger2, h.servers))
}
