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

// lookupChunk bounds the bind parameters of one FindByNationalIDs query.
const lookupChunk = 1000

type debtorRepo struct {
	db sqlx.ExtContext
}

// NewDebtorRepo creates a new PostgreSQL-backed DebtorRepository.
func NewDebtorRepo(db sqlx.ExtContext) port.DebtorRepository {
	return &debtorRepo{db: db}
}

func (r *debtorRepo) Create(ctx context.Context, d *domain.Debtor) error {
	d.ID = uuid.New()
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	query := `INSERT INTO debtors (id, tenant_id, name, national_id, birth_date, sex, phone, email,
			address, city, state, zip_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.TenantID, d.Name, d.NationalID, d.BirthDate, d.Sex, d.Phone, d.Email,
		d.Address, d.City, d.State, d.ZipCode, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err, "debtors_tenant_national_id_key") {
			return domain.ErrDuplicateNationalID
		}
		return fmt.Errorf("debtorRepo.Create: %w", err)
	}
	return nil
}

func (r *debtorRepo) Update(ctx context.Context, d *domain.Debtor) error {
	d.UpdatedAt = time.Now().UTC()
	query := `UPDATE debtors SET name = $1, birth_date = $2, sex = $3, phone = $4, email = $5,
			address = $6, city = $7, state = $8, zip_code = $9, updated_at = $10
		WHERE id = $11 AND tenant_id = $12`

	result, err := r.db.ExecContext(ctx, query,
		d.Name, d.BirthDate, d.Sex, d.Phone, d.Email,
		d.Address, d.City, d.State, d.ZipCode, d.UpdatedAt, d.ID, d.TenantID)
	if err != nil {
		return fmt.Errorf("debtorRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *debtorRepo) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Debtor, error) {
	var d domain.Debtor
	err := sqlx.GetContext(ctx, r.db, &d,
		"SELECT * FROM debtors WHERE id = $1 AND ($2::uuid IS NULL OR tenant_id = $2)", id, scope.Filter())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("debtorRepo.GetByID: %w", err)
	}
	return &d, nil
}

func (r *debtorRepo) GetByNationalID(ctx context.Context, tenantID uuid.UUID, nationalID string) (*domain.Debtor, error) {
	var d domain.Debtor
	err := sqlx.GetContext(ctx, r.db, &d,
		"SELECT * FROM debtors WHERE tenant_id = $1 AND national_id = $2", tenantID, nationalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("debtorRepo.GetByNationalID: %w", err)
	}
	return &d, nil
}

func (r *debtorRepo) FindByNationalIDs(ctx context.Context, tenantID uuid.UUID, nationalIDs []string) (map[string]domain.Debtor, error) {
	found := make(map[string]domain.Debtor, len(nationalIDs))
	for start := 0; start < len(nationalIDs); start += lookupChunk {
		end := min(start+lookupChunk, len(nationalIDs))

		query, args, err := sqlx.In("SELECT * FROM debtors WHERE tenant_id = ? AND national_id IN (?)",
			tenantID, nationalIDs[start:end])
		if err != nil {
			return nil, fmt.Errorf("debtorRepo.FindByNationalIDs: %w", err)
		}
		var debtors []domain.Debtor
		if err := sqlx.SelectContext(ctx, r.db, &debtors, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("debtorRepo.FindByNationalIDs: %w", err)
		}
		for _, d := range debtors {
			found[d.NationalID] = d
		}
	}
	return found, nil
}

const debtorFilter = `($1::uuid IS NULL OR d.tenant_id = $1)
	AND ($2 = '' OR d.name ILIKE '%' || $2 || '%' OR d.national_id LIKE '%' || $2 || '%')`

func (r *debtorRepo) List(ctx context.Context, scope domain.TenantScope, search string, offset, limit int) ([]domain.Debtor, int, error) {
	var total int
	err := sqlx.GetContext(ctx, r.db, &total,
		"SELECT COUNT(*) FROM debtors d WHERE "+debtorFilter, scope.Filter(), search)
	if err != nil {
		return nil, 0, fmt.Errorf("debtorRepo.List count: %w", err)
	}

	var debtors []domain.Debtor
	err = sqlx.SelectContext(ctx, r.db, &debtors,
		"SELECT d.* FROM debtors d WHERE "+debtorFilter+" ORDER BY d.name LIMIT $3 OFFSET $4",
		scope.Filter(), search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("debtorRepo.List: %w", err)
	}
	return debtors, total, nil
}

// ListSummaries lists debtors with their contract count, total amount and
// worst contract status.
func (r *debtorRepo) ListSummaries(ctx context.Context, scope domain.TenantScope, search string, offset, limit int) ([]domain.DebtorSummary, int, error) {
	var total int
	err := sqlx.GetContext(ctx, r.db, &total,
		"SELECT COUNT(*) FROM debtors d WHERE "+debtorFilter, scope.Filter(), search)
	if err != nil {
		return nil, 0, fmt.Errorf("debtorRepo.ListSummaries count: %w", err)
	}

	query := `SELECT d.id, d.name, d.national_id, d.phone, d.email, d.city, d.state, d.created_at,
			COUNT(c.id) AS total_contracts,
			COALESCE(SUM(c.original_amount), 0) AS total_amount,
			CASE
				WHEN BOOL_OR(c.status = 'atrasado') THEN 'atrasado'
				WHEN COUNT(c.id) > 0 AND BOOL_AND(c.status = 'pago') THEN 'pago'
				ELSE 'ativo'
			END AS status
		FROM debtors d
		LEFT JOIN contracts c ON c.debtor_id = d.id
		WHERE ` + debtorFilter + `
		GROUP BY d.id
		ORDER BY d.name
		LIMIT $3 OFFSET $4`

	var summaries []domain.DebtorSummary
	if err := sqlx.SelectContext(ctx, r.db, &summaries, query, scope.Filter(), search, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("debtorRepo.ListSummaries: %w", err)
	}
	return summaries, total, nil
}
