package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"cordoba/internal/domain"
	"cordoba/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrPreviewNotFound, http.StatusBadRequest, "PREVIEW_NOT_FOUND"},
		{fmt.Errorf("commit: %w", domain.ErrImportFailed), http.StatusInternalServerError, "IMPORT_FAILED"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrEmptyFile, http.StatusBadRequest, "EMPTY_FILE"},
		{domain.ErrDebtorNotFound, http.StatusNotFound, "DEBTOR_NOT_FOUND"},
		{domain.ErrDuplicateNationalID, http.StatusConflict, "DUPLICATE_NATIONAL_ID"},
		{domain.ErrTenantRequired, http.StatusBadRequest, "TENANT_REQUIRED"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{domain.ErrImportRunNotFound, http.StatusNotFound, "IMPORT_RUN_NOT_FOUND"},
		{domain.ErrArchiveNotFound, http.StatusNotFound, "ARCHIVE_NOT_FOUND"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestMapDomainError_DetailedMessages(t *testing.T) {
	status, code, msg := handler.MapDomainError(&domain.MissingColumnError{Field: "cpf", Tried: []string{"cpf", "documento"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_REQUIRED_COLUMN", code)
	assert.Contains(t, msg, "documento")

	_, code, msg = handler.MapDomainError(&domain.UnsupportedFileError{Reason: "legacy .xls files are not supported"})
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", code)
	assert.Equal(t, "legacy .xls files are not supported", msg)
}
