package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
)

// MockPreviewStore is a mock implementation of port.PreviewStore.
type MockPreviewStore struct {
	mock.Mock
}

func (m *MockPreviewStore) Put(ctx context.Context, entry *domain.PreviewEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPreviewStore) Take(ctx context.Context, tenantID, id uuid.UUID) (*domain.PreviewEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreviewEntry), args.Error(1)
}

func (m *MockPreviewStore) EvictExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
