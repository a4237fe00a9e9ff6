package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
	"cordoba/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, scope domain.TenantScope, actor domain.UserRole, input service.CreateUserInput) (*domain.User, error) {
	args := m.Called(ctx, scope, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, scope domain.TenantScope, page, perPage int) (*service.UserPage, error) {
	args := m.Called(ctx, scope, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserPage), args.Error(1)
}
