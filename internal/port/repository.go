package port

import (
	"context"

	"github.com/google/uuid"

	"cordoba/internal/domain"
)

// TenantRepository defines the contract for tenant persistence.
type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	ListActive(ctx context.Context) ([]domain.Tenant, error)
}

// UserRepository defines the contract for user persistence.
// E-mail addresses are unique across tenants.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, scope domain.TenantScope, offset, limit int) ([]domain.User, int, error)
}

// DebtorRepository defines the contract for debtor persistence.
type DebtorRepository interface {
	Create(ctx context.Context, debtor *domain.Debtor) error
	Update(ctx context.Context, debtor *domain.Debtor) error
	GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Debtor, error)
	GetByNationalID(ctx context.Context, tenantID uuid.UUID, nationalID string) (*domain.Debtor, error)
	// FindByNationalIDs returns the debtors of tenantID keyed by national id.
	FindByNationalIDs(ctx context.Context, tenantID uuid.UUID, nationalIDs []string) (map[string]domain.Debtor, error)
	List(ctx context.Context, scope domain.TenantScope, search string, offset, limit int) ([]domain.Debtor, int, error)
	ListSummaries(ctx context.Context, scope domain.TenantScope, search string, offset, limit int) ([]domain.DebtorSummary, int, error)
}

// ContractRepository defines the contract for contract persistence.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	Update(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Contract, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*domain.Contract, error)
	ListByDebtor(ctx context.Context, scope domain.TenantScope, debtorID uuid.UUID) ([]domain.Contract, error)
	List(ctx context.Context, scope domain.TenantScope, status *domain.ContractStatus, offset, limit int) ([]domain.Contract, int, error)
	UpdateStatus(ctx context.Context, scope domain.TenantScope, id uuid.UUID, status domain.ContractStatus) error
}

// ImportRunRepository defines the contract for the import audit log.
type ImportRunRepository interface {
	Create(ctx context.Context, run *domain.ImportRun) error
	Finish(ctx context.Context, run *domain.ImportRun) error
	List(ctx context.Context, scope domain.TenantScope, offset, limit int) ([]domain.ImportRunListItem, int, error)
	GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.ImportRun, error)
	// ReferencedFilePaths returns the subset of paths stored on some import run.
	ReferencedFilePaths(ctx context.Context, paths []string) (map[string]struct{}, error)
}
