package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cordoba/internal/domain"
	"cordoba/internal/port"
)

const passwordCost = 12

// CreateUserInput is the DTO for creating a user.
type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"nome" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UserPage is one page of users.
type UserPage struct {
	Users   []domain.User `json:"usuarios"`
	Total   int           `json:"total"`
	Page    int           `json:"pagina"`
	PerPage int           `json:"por_pagina"`
}

// UserService defines the user management contract.
type UserService interface {
	// Create registers a user on behalf of actor. Directors have no tenant;
	// every other role is created in the single tenant of scope.
	Create(ctx context.Context, scope domain.TenantScope, actor domain.UserRole, input CreateUserInput) (*domain.User, error)
	List(ctx context.Context, scope domain.TenantScope, page, perPage int) (*UserPage, error)
}

type userService struct {
	users   port.UserRepository
	tenants port.TenantRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(users port.UserRepository, tenants port.TenantRepository) UserService {
	return &userService{users: users, tenants: tenants}
}

func (s *userService) Create(ctx context.Context, scope domain.TenantScope, actor domain.UserRole, input CreateUserInput) (*domain.User, error) {
	role, ok := domain.ParseUserRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be diretor, gerente or operador", domain.ErrInvalidInput)
	}

	var tenantID *uuid.UUID
	if role == domain.RoleDirector {
		if actor != domain.RoleDirector {
			return nil, domain.ErrInsufficientRole
		}
	} else {
		if scope.All {
			return nil, domain.ErrTenantRequired
		}
		if err := s.checkTenant(ctx, scope.TenantID); err != nil {
			return nil, err
		}
		id := scope.TenantID
		tenantID = &id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		TenantID:     tenantID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, scope domain.TenantScope, page, perPage int) (*UserPage, error) {
	page, perPage = normalizePage(page, perPage)
	users, total, err := s.users.List(ctx, scope, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return &UserPage{Users: users, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *userService) checkTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: tenant not found", domain.ErrInvalidInput)
		}
		return fmt.Errorf("user.checkTenant: %w", err)
	}
	if !tenant.IsActive {
		return domain.ErrTenantInactive
	}
	return nil
}
