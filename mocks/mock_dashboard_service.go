package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
)

// MockDashboardService is a mock implementation of service.DashboardService.
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Principal(ctx context.Context, scope domain.TenantScope) (*domain.Dashboard, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}

func (m *MockDashboardService) Consolidated(ctx context.Context) (*domain.ConsolidatedDashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsolidatedDashboard), args.Error(1)
}
