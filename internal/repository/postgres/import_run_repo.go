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

type importRunRepo struct {
	db sqlx.ExtContext
}

// NewImportRunRepo creates a new PostgreSQL-backed ImportRunRepository.
func NewImportRunRepo(db sqlx.ExtContext) port.ImportRunRepository {
	return &importRunRepo{db: db}
}

func (r *importRunRepo) Create(ctx context.Context, run *domain.ImportRun) error {
	run.CreatedAt = time.Now().UTC()
	query := `INSERT INTO import_runs (id, tenant_id, user_id, file_name, file_size, file_path, import_type,
			status, total_rows, error_details, column_mapping, started_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.TenantID, run.UserID, run.FileName, run.FileSize, run.FilePath, run.Type,
		run.Status, run.TotalRows, jsonb(run.ErrorDetails), jsonb(run.ColumnMapping), run.StartedAt, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("importRunRepo.Create: %w", err)
	}
	return nil
}

// Finish stores the final status, counters and error details of run.
func (r *importRunRepo) Finish(ctx context.Context, run *domain.ImportRun) error {
	query := `UPDATE import_runs SET status = $1, processed_rows = $2, debtors_created = $3, debtors_updated = $4,
			contracts_created = $5, contracts_updated = $6, total_errors = $7, error_details = $8, finished_at = $9
		WHERE id = $10`

	result, err := r.db.ExecContext(ctx, query,
		run.Status, run.ProcessedRows, run.DebtorsCreated, run.DebtorsUpdated,
		run.ContractsCreated, run.ContractsUpdated, run.TotalErrors, jsonb(run.ErrorDetails), run.FinishedAt, run.ID)
	if err != nil {
		return fmt.Errorf("importRunRepo.Finish: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *importRunRepo) List(ctx context.Context, scope domain.TenantScope, offset, limit int) ([]domain.ImportRunListItem, int, error) {
	var total int
	err := sqlx.GetContext(ctx, r.db, &total,
		"SELECT COUNT(*) FROM import_runs WHERE ($1::uuid IS NULL OR tenant_id = $1)", scope.Filter())
	if err != nil {
		return nil, 0, fmt.Errorf("importRunRepo.List count: %w", err)
	}

	query := `SELECT ir.id, ir.file_name, ir.import_type, ir.status, ir.total_rows, ir.processed_rows,
			ir.total_errors, ir.started_at, u.full_name AS user_name, t.name AS tenant_name
		FROM import_runs ir
		LEFT JOIN users u ON u.id = ir.user_id
		LEFT JOIN tenants t ON t.id = ir.tenant_id
		WHERE ($1::uuid IS NULL OR ir.tenant_id = $1)
		ORDER BY ir.started_at DESC
		LIMIT $2 OFFSET $3`

	var runs []domain.ImportRunListItem
	if err := sqlx.SelectContext(ctx, r.db, &runs, query, scope.Filter(), limit, offset); err != nil {
		return nil, 0, fmt.Errorf("importRunRepo.List: %w", err)
	}
	return runs, total, nil
}

func (r *importRunRepo) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.ImportRun, error) {
	query := `SELECT id, tenant_id, user_id, file_name, file_size, file_path, import_type, status,
			total_rows, processed_rows, debtors_created, debtors_updated, contracts_created,
			contracts_updated, total_errors, COALESCE(error_details, 'null') AS error_details,
			COALESCE(column_mapping, 'null') AS column_mapping, started_at, finished_at, created_at
		FROM import_runs
		WHERE id = $1 AND ($2::uuid IS NULL OR tenant_id = $2)`

	var run domain.ImportRun
	err := sqlx.GetContext(ctx, r.db, &run, query, id, scope.Filter())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("importRunRepo.GetByID: %w", err)
	}
	return &run, nil
}

func (r *importRunRepo) ReferencedFilePaths(ctx context.Context, paths []string) (map[string]struct{}, error) {
	found := make(map[string]struct{}, len(paths))
	for start := 0; start < len(paths); start += lookupChunk {
		end := min(start+lookupChunk, len(paths))

		query, args, err := sqlx.In("SELECT DISTINCT file_path FROM import_runs WHERE file_path IN (?)", paths[start:end])
		if err != nil {
			return nil, fmt.Errorf("importRunRepo.ReferencedFilePaths: %w", err)
		}
		var referenced []string
		if err := sqlx.SelectContext(ctx, r.db, &referenced, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("importRunRepo.ReferencedFilePaths: %w", err)
		}
		for _, p := range referenced {
			found[p] = struct{}{}
		}
	}
	return found, nil
}

// jsonb passes raw JSON as text so the driver does not send it as bytea.
func jsonb(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
