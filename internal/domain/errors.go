package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTenantInactive     = errors.New("tenant is inactive")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInsufficientRole   = errors.New("insufficient role for this action")
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrNoTenantAccess     = errors.New("user is not assigned to any tenant")
	ErrTenantRequired     = errors.New("a concrete tenant is required for this action")

	ErrDebtorNotFound       = errors.New("debtor not found")
	ErrContractNotFound     = errors.New("contract not found")
	ErrDuplicateNationalID  = errors.New("a debtor with this national id already exists")
	ErrDuplicateContractNum = errors.New("a contract with this number already exists")
	ErrInvalidNationalID    = errors.New("national id must have 11 digits")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInvalidStatus        = errors.New("invalid contract status")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidInput         = errors.New("invalid input")

	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file too large")
	ErrEmptyFile             = errors.New("file has no data rows")
	ErrMissingRequiredColumn = errors.New("missing required column")
	ErrPreviewNotFound       = errors.New("preview expired or not found")
	ErrImportFailed          = errors.New("import failed")
	ErrUploadFailed          = errors.New("file upload to storage failed")
	ErrImportRunNotFound     = errors.New("import run not found")
	ErrArchiveNotFound       = errors.New("no archived file for this import")
)

// MissingColumnError names the required field that could not be resolved
// and every alias that was tried.
type MissingColumnError struct {
	Field string
	Tried []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found; accepted names: %s",
		e.Field, strings.Join(e.Tried, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingRequiredColumn
}

// UnsupportedFileError carries a user-facing reason for rejecting a file.
type UnsupportedFileError struct {
	Reason string
}

func (e *UnsupportedFileError) Error() string {
	return e.Reason
}

func (e *UnsupportedFileError) Unwrap() error {
	return ErrUnsupportedFileType
}
