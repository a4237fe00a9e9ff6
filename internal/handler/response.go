package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cordoba/internal/domain"
	"cordoba/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total   int `json:"total"`
	Page    int `json:"pagina"`
	PerPage int `json:"por_pagina"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var missing *domain.MissingColumnError
	var unsupported *domain.UnsupportedFileError
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest, "MISSING_REQUIRED_COLUMN", missing.Error()
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", unsupported.Reason
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrEmptyFile):
		return http.StatusBadRequest, "EMPTY_FILE", "file has no data rows"
	case errors.Is(err, domain.ErrPreviewNotFound):
		return http.StatusBadRequest, "PREVIEW_NOT_FOUND", "preview expired or not found; upload the file again"
	case errors.Is(err, domain.ErrImportFailed):
		return http.StatusInternalServerError, "IMPORT_FAILED", "import failed and was rolled back"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrImportRunNotFound):
		return http.StatusNotFound, "IMPORT_RUN_NOT_FOUND", "import run not found"
	case errors.Is(err, domain.ErrArchiveNotFound):
		return http.StatusNotFound, "ARCHIVE_NOT_FOUND", "no archived file for this import"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrDebtorNotFound):
		return http.StatusNotFound, "DEBTOR_NOT_FOUND", "debtor not found"
	case errors.Is(err, domain.ErrContractNotFound):
		return http.StatusNotFound, "CONTRACT_NOT_FOUND", "contract not found"
	case errors.Is(err, domain.ErrDuplicateNationalID):
		return http.StatusConflict, "DUPLICATE_NATIONAL_ID", "a debtor with this cpf already exists"
	case errors.Is(err, domain.ErrDuplicateContractNum):
		return http.StatusConflict, "DUPLICATE_CONTRACT_NUMBER", "a contract with this number already exists"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "a user with this email already exists"
	case errors.Is(err, domain.ErrInvalidNationalID):
		return http.StatusBadRequest, "INVALID_NATIONAL_ID", "cpf must have 11 digits"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT", "amount must be greater than zero"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "INVALID_STATUS", "invalid contract status; allowed: ativo, pago, atrasado, cancelado, negociado"
	case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrTenantInactive):
		return http.StatusForbidden, "TENANT_INACTIVE", "tenant is inactive"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "INSUFFICIENT_ROLE", "insufficient role for this action"
	case errors.Is(err, domain.ErrNoTenantAccess):
		return http.StatusForbidden, "NO_TENANT_ACCESS", "user is not assigned to any tenant"
	case errors.Is(err, domain.ErrTenantRequired):
		return http.StatusBadRequest, "TENANT_REQUIRED", "tenant_id is required for this action"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Server errors are attached to the context for the request logger.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	RespondError(c, status, code, msg)
}

// requireScope returns the tenant scope resolved by middleware.TenantScope.
// Returns false if it is missing (error response already written).
func requireScope(c *gin.Context) (domain.TenantScope, bool) {
	scope, ok := middleware.GetScope(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return domain.TenantScope{}, false
	}
	return scope, true
}

// requireWriteContext returns the single target tenant and the acting user.
func requireWriteContext(c *gin.Context) (tenantID, userID uuid.UUID, ok bool) {
	scope, ok := requireScope(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	if scope.All {
		HandleError(c, domain.ErrTenantRequired)
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, false
	}
	return scope.TenantID, userID, true
}

// parseIDParam parses a UUID path parameter.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parsePage reads pagina and por_pagina. The service applies the defaults
// and bounds.
func parsePage(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.Query("pagina"))
	perPage, _ = strconv.Atoi(c.Query("por_pagina"))
	return page, perPage
}
