package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
)

// MockContractRepo is a mock implementation of port.ContractRepository.
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) Create(ctx context.Context, contract *domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepo) Update(ctx context.Context, contract *domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepo) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Contract, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepo) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*domain.Contract, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepo) ListByDebtor(ctx context.Context, scope domain.TenantScope, debtorID uuid.UUID) ([]domain.Contract, error) {
	args := m.Called(ctx, scope, debtorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockContractRepo) List(ctx context.Context, scope domain.TenantScope, status *domain.ContractStatus, offset, limit int) ([]domain.Contract, int, error) {
	args := m.Called(ctx, scope, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Contract), args.Int(1), args.Error(2)
}

func (m *MockContractRepo) UpdateStatus(ctx context.Context, scope domain.TenantScope, id uuid.UUID, status domain.ContractStatus) error {
	args := m.Called(ctx, scope, id, status)
	return args.Error(0)
}
