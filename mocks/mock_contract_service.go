package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
	"cordoba/internal/service"
)

// MockContractService is a mock implementation of service.ContractService.
type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) Create(ctx context.Context, tenantID uuid.UUID, input service.CreateContractInput) (*domain.Contract, error) {
	args := m.Called(ctx, tenantID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractService) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Contract, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractService) List(ctx context.Context, scope domain.TenantScope, status string, page, perPage int) (*service.ContractPage, error) {
	args := m.Called(ctx, scope, status, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContractPage), args.Error(1)
}

func (m *MockContractService) UpdateStatus(ctx context.Context, scope domain.TenantScope, id uuid.UUID, status string) (*domain.Contract, error) {
	args := m.Called(ctx, scope, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
