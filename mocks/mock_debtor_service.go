package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
	"cordoba/internal/service"
)

// MockDebtorService is a mock implementation of service.DebtorService.
type MockDebtorService struct {
	mock.Mock
}

func (m *MockDebtorService) Create(ctx context.Context, tenantID uuid.UUID, input service.CreateDebtorInput) (*domain.Debtor, error) {
	args := m.Called(ctx, tenantID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debtor), args.Error(1)
}

func (m *MockDebtorService) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Debtor, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debtor), args.Error(1)
}

func (m *MockDebtorService) List(ctx context.Context, scope domain.TenantScope, search string, page, perPage int) (*service.DebtorPage, error) {
	args := m.Called(ctx, scope, search, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DebtorPage), args.Error(1)
}

func (m *MockDebtorService) Update(ctx context.Context, tenantID, id uuid.UUID, input service.UpdateDebtorInput) (*domain.Debtor, error) {
	args := m.Called(ctx, tenantID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debtor), args.Error(1)
}

func (m *MockDebtorService) Contracts(ctx context.Context, scope domain.TenantScope, id uuid.UUID) ([]domain.Contract, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}
