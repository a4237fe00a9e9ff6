package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cordoba/internal/domain"
	"cordoba/internal/port"
)

type tenantRepo struct {
	db sqlx.ExtContext
}

// NewTenantRepo creates a new PostgreSQL-backed TenantRepository.
func NewTenantRepo(db sqlx.ExtContext) port.TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := sqlx.GetContext(ctx, r.db, &tenant, "SELECT * FROM tenants WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("tenantRepo.GetByID: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepo) ListActive(ctx context.Context) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	err := sqlx.SelectContext(ctx, r.db, &tenants, "SELECT * FROM tenants WHERE is_active = true ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.ListActive: %w", err)
	}
	return tenants, nil
}
