package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cordoba/internal/config"
	"cordoba/internal/domain"
	"cordoba/internal/service"
	"cordoba/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  60 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "cordoba-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func tenantUser(tenantID uuid.UUID, role domain.UserRole) *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		TenantID:     &tenantID,
		Email:        "operador@acme.com.br",
		PasswordHash: hashPassword("senha-forte"),
		FullName:     "Operador Acme",
		Role:         role,
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	tenantID := uuid.New()
	user := tenantUser(tenantID, domain.RoleOperator)
	userRepo.On("GetByEmail", mock.Anything, "operador@acme.com.br").Return(user, nil)
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(&domain.Tenant{ID: tenantID, IsActive: true}, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{Email: "operador@acme.com.br", Password: "senha-forte"})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
	assert.Equal(t, user, pair.User)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, tenantID, *claims.TenantID)
	assert.Equal(t, domain.RoleOperator, claims.Role)

	tenantRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_DirectorWithoutTenant(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, testJWTConfig())

	user := &domain.User{
		ID: uuid.New(), Email: "diretor@cordoba.com.br", PasswordHash: hashPassword("senha-forte"),
		Role: domain.RoleDirector, IsActive: true,
	}
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{Email: user.Email, Password: "senha-forte"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID)
	assert.True(t, claims.Role.HasGlobalAccess())
	tenantRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAuthService_Login_Failures(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name    string
		setup   func(users *mocks.MockUserRepo, tenants *mocks.MockTenantRepo)
		pass    string
		wantErr error
	}{
		{
			name: "unknown email",
			setup: func(users *mocks.MockUserRepo, _ *mocks.MockTenantRepo) {
				users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
			},
			pass:    "senha-forte",
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			setup: func(users *mocks.MockUserRepo, _ *mocks.MockTenantRepo) {
				users.On("GetByEmail", mock.Anything, mock.Anything).Return(tenantUser(tenantID, domain.RoleManager), nil)
			},
			pass:    "errada",
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "inactive user",
			setup: func(users *mocks.MockUserRepo, _ *mocks.MockTenantRepo) {
				u := tenantUser(tenantID, domain.RoleManager)
				u.IsActive = false
				users.On("GetByEmail", mock.Anything, mock.Anything).Return(u, nil)
			},
			pass:    "senha-forte",
			wantErr: domain.ErrUserInactive,
		},
		{
			name: "inactive tenant",
			setup: func(users *mocks.MockUserRepo, tenants *mocks.MockTenantRepo) {
				users.On("GetByEmail", mock.Anything, mock.Anything).Return(tenantUser(tenantID, domain.RoleManager), nil)
				tenants.On("GetByID", mock.Anything, tenantID).Return(&domain.Tenant{ID: tenantID, IsActive: false}, nil)
			},
			pass:    "senha-forte",
			wantErr: domain.ErrTenantInactive,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, tenants := new(mocks.MockUserRepo), new(mocks.MockTenantRepo)
			tt.setup(users, tenants)
			svc := service.NewAuthService(users, tenants, testJWTConfig())

			_, err := svc.Login(context.Background(), service.LoginInput{Email: "operador@acme.com.br", Password: tt.pass})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	users, tenants := new(mocks.MockUserRepo), new(mocks.MockTenantRepo)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	svc := service.NewAuthService(users, tenants, testJWTConfig())

	_, err := svc.Login(context.Background(), service.LoginInput{Email: "a@b.com", Password: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_RefreshToken(t *testing.T) {
	users, tenants := new(mocks.MockUserRepo), new(mocks.MockTenantRepo)
	svc := service.NewAuthService(users, tenants, testJWTConfig())
	tenantID := uuid.New()
	user := tenantUser(tenantID, domain.RoleManager)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(user, nil)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	tenants.On("GetByID", mock.Anything, tenantID).Return(&domain.Tenant{ID: tenantID, IsActive: true}, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{Email: user.Email, Password: "senha-forte"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "access tokens cannot be used to refresh")
}

func TestAuthService_ValidateToken_RejectsRefreshAndGarbage(t *testing.T) {
	users, tenants := new(mocks.MockUserRepo), new(mocks.MockTenantRepo)
	svc := service.NewAuthService(users, tenants, testJWTConfig())
	user := &domain.User{ID: uuid.New(), PasswordHash: hashPassword("x"), Role: domain.RoleDirector, IsActive: true}
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{Email: "d@c.com", Password: "x"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)
	_, err = svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)

	other := service.NewAuthService(users, tenants, config.JWTConfig{Secret: "another-secret", AccessTokenExpiry: time.Minute})
	_, err = other.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestAuthService_Me(t *testing.T) {
	users, tenants := new(mocks.MockUserRepo), new(mocks.MockTenantRepo)
	svc := service.NewAuthService(users, tenants, testJWTConfig())
	user := tenantUser(uuid.New(), domain.RoleOperator)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	missing := uuid.New()
	users.On("GetByID", mock.Anything, missing).Return(nil, domain.ErrNotFound)

	got, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = svc.Me(context.Background(), missing)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
