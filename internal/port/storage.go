package port

import (
	"context"
	"io"
	"time"
)

// UploadInput describes one archived spreadsheet.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	// Metadata is stored alongside the object (tenant, uploader, import type).
	Metadata map[string]string
}

// UploadOutput is where the object landed.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectInfo is one listed object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage archives uploaded files. Keys are bucket-relative.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, bucket, key string) error
	// GetPresignedURL returns a download URL for key valid for expirySeconds.
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
	// List returns every object whose key starts with prefix.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}
