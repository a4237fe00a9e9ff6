package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cordoba/internal/domain"
	"cordoba/internal/port"
)

type contractRepo struct {
	db sqlx.ExtContext
}

// NewContractRepo creates a new PostgreSQL-backed ContractRepository.
func NewContractRepo(db sqlx.ExtContext) port.ContractRepository {
	return &contractRepo{db: db}
}

func (r *contractRepo) Create(ctx context.Context, c *domain.Contract) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO contracts (id, tenant_id, debtor_id, contract_number, original_amount, updated_amount,
			paid_amount, contract_date, due_date, payment_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.TenantID, c.DebtorID, c.ContractNumber, c.OriginalAmount, c.UpdatedAmount,
		c.PaidAmount, c.ContractDate, c.DueDate, c.PaymentDate, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err, "contracts_tenant_number_key") {
			return domain.ErrDuplicateContractNum
		}
		return fmt.Errorf("contractRepo.Create: %w", err)
	}
	return nil
}

func (r *contractRepo) Update(ctx context.Context, c *domain.Contract) error {
	c.UpdatedAt = time.Now().UTC()
	query := `UPDATE contracts SET original_amount = $1, updated_amount = $2, paid_amount = $3,
			contract_date = $4, due_date = $5, payment_date = $6, status = $7, updated_at = $8
		WHERE id = $9 AND tenant_id = $10`

	result, err := r.db.ExecContext(ctx, query,
		c.OriginalAmount, c.UpdatedAmount, c.PaidAmount, c.ContractDate, c.DueDate, c.PaymentDate,
		c.Status, c.UpdatedAt, c.ID, c.TenantID)
	if err != nil {
		return fmt.Errorf("contractRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *contractRepo) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Contract, error) {
	var c domain.Contract
	err := sqlx.GetContext(ctx, r.db, &c,
		"SELECT * FROM contracts WHERE id = $1 AND ($2::uuid IS NULL OR tenant_id = $2)", id, scope.Filter())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("contractRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *contractRepo) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*domain.Contract, error) {
	var c domain.Contract
	err := sqlx.GetContext(ctx, r.db, &c,
		"SELECT * FROM contracts WHERE tenant_id = $1 AND contract_number = $2", tenantID, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("contractRepo.GetByNumber: %w", err)
	}
	return &c, nil
}

func (r *contractRepo) ListByDebtor(ctx context.Context, scope domain.TenantScope, debtorID uuid.UUID) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := sqlx.SelectContext(ctx, r.db, &contracts,
		`SELECT * FROM contracts WHERE debtor_id = $1 AND ($2::uuid IS NULL OR tenant_id = $2)
		ORDER BY due_date DESC`, debtorID, scope.Filter())
	if err != nil {
		return nil, fmt.Errorf("contractRepo.ListByDebtor: %w", err)
	}
	return contracts, nil
}

func (r *contractRepo) List(ctx context.Context, scope domain.TenantScope, status *domain.ContractStatus, offset, limit int) ([]domain.Contract, int, error) {
	const filter = "($1::uuid IS NULL OR tenant_id = $1) AND ($2::text IS NULL OR status = $2)"

	var total int
	err := sqlx.GetContext(ctx, r.db, &total, "SELECT COUNT(*) FROM contracts WHERE "+filter, scope.Filter(), status)
	if err != nil {
		return nil, 0, fmt.Errorf("contractRepo.List count: %w", err)
	}

	var contracts []domain.Contract
	err = sqlx.SelectContext(ctx, r.db, &contracts,
		"SELECT * FROM contracts WHERE "+filter+" ORDER BY due_date DESC LIMIT $3 OFFSET $4",
		scope.Filter(), status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("contractRepo.List: %w", err)
	}
	return contracts, total, nil
}

func (r *contractRepo) UpdateStatus(ctx context.Context, scope domain.TenantScope, id uuid.UUID, status domain.ContractStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contracts SET status = $1, updated_at = $2
		WHERE id = $3 AND ($4::uuid IS NULL OR tenant_id = $4)`,
		status, time.Now().UTC(), id, scope.Filter())
	if err != nil {
		return fmt.Errorf("contractRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
