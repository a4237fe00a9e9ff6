package noop

import (
	"context"

	"cordoba/internal/domain"
	"cordoba/internal/port"
)

// Storage discards uploads. It is used when no archive bucket is configured.
type Storage struct{}

// NewStorage creates a no-op ObjectStorage.
func NewStorage() port.ObjectStorage {
	return Storage{}
}

func (Storage) Upload(context.Context, port.UploadInput) (*port.UploadOutput, error) {
	return &port.UploadOutput{}, nil
}

func (Storage) Delete(context.Context, string, string) error {
	return nil
}

// GetPresignedURL always fails: nothing was ever stored.
func (Storage) GetPresignedURL(context.Context, string, string, int64) (string, error) {
	return "", domain.ErrArchiveNotFound
}

func (Storage) List(context.Context, string, string) ([]port.ObjectInfo, error) {
	return nil, nil
}
