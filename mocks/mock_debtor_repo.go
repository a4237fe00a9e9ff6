package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
)

// MockDebtorRepo is a mock implementation of port.DebtorRepository.
type MockDebtorRepo struct {
	mock.Mock
}

func (m *MockDebtorRepo) Create(ctx context.Context, debtor *domain.Debtor) error {
	args := m.Called(ctx, debtor)
	return args.Error(0)
}

func (m *MockDebtorRepo) Update(ctx context.Context, debtor *domain.Debtor) error {
	args := m.Called(ctx, debtor)
	return args.Error(0)
}

func (m *MockDebtorRepo) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Debtor, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debtor), args.Error(1)
}

func (m *MockDebtorRepo) GetByNationalID(ctx context.Context, tenantID uuid.UUID, nationalID string) (*domain.Debtor, error) {
	args := m.Called(ctx, tenantID, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debtor), args.Error(1)
}

func (m *MockDebtorRepo) FindByNationalIDs(ctx context.Context, tenantID uuid.UUID, nationalIDs []string) (map[string]domain.Debtor, error) {
	args := m.Called(ctx, tenantID, nationalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Debtor), args.Error(1)
}

func (m *MockDebtorRepo) List(ctx context.Context, scope domain.TenantScope, search string, offset, limit int) ([]domain.Debtor, int, error) {
	args := m.Called(ctx, scope, search, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Debtor), args.Int(1), args.Error(2)
}

func (m *MockDebtorRepo) ListSummaries(ctx context.Context, scope domain.TenantScope, search string, offset, limit int) ([]domain.DebtorSummary, int, error) {
	args := m.Called(ctx, scope, search, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DebtorSummary), args.Int(1), args.Error(2)
}
