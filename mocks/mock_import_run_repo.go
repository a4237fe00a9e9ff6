package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
)

// MockImportRunRepo is a mock implementation of port.ImportRunRepository.
type MockImportRunRepo struct {
	mock.Mock
}

func (m *MockImportRunRepo) Create(ctx context.Context, run *domain.ImportRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockImportRunRepo) Finish(ctx context.Context, run *domain.ImportRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockImportRunRepo) List(ctx context.Context, scope domain.TenantScope, offset, limit int) ([]domain.ImportRunListItem, int, error) {
	args := m.Called(ctx, scope, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ImportRunListItem), args.Int(1), args.Error(2)
}

func (m *MockImportRunRepo) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.ImportRun, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportRun), args.Error(1)
}

func (m *MockImportRunRepo) ReferencedFilePaths(ctx context.Context, paths []string) (map[string]struct{}, error) {
	args := m.Called(ctx, paths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}
