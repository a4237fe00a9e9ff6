package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceFormat identifies how a batch was read.
type SourceFormat string

const (
	SourceCSV  SourceFormat = "csv"
	SourceXLSX SourceFormat = "xlsx"
)

// BatchRow is one non-blank data row with its 1-based line number in the file.
type BatchRow struct {
	Line  int      `json:"line"`
	Cells []string `json:"cells"`
}

// Batch is the parsed tabular content of one uploaded file.
type Batch struct {
	Source  SourceFormat `json:"source"`
	Headers []string     `json:"headers"`
	Rows    []BatchRow   `json:"rows"`
}

// ColumnMapping maps a canonical field name to the header found in the file.
type ColumnMapping map[string]string

// PreviewEntry is an analyzed batch waiting for confirmation.
type PreviewEntry struct {
	ID         uuid.UUID     `json:"id"`
	TenantID   uuid.UUID     `json:"tenant_id"`
	UserID     uuid.UUID     `json:"user_id"`
	ImportType ImportType    `json:"import_type"`
	FileName   string        `json:"file_name"`
	FileSize   int64         `json:"file_size"`
	FilePath   string        `json:"file_path,omitempty"`
	Batch      Batch         `json:"batch"`
	Mapping    ColumnMapping `json:"mapping"`
	CreatedAt  time.Time     `json:"created_at"`
	ExpiresAt  time.Time     `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at now.
func (e *PreviewEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}
