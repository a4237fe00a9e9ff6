package handler

// Swagger type definitions for API documentation.
// These types are only referenced by swag annotations.

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

// HealthResponse represents the health and readiness responses.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	App     string `json:"app,omitempty" example:"cordoba"`
	Version string `json:"version,omitempty" example:"1.0.0"`
	Error   string `json:"error,omitempty" example:"database not reachable"`
}
