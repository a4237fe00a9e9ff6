package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cordoba/internal/domain"
	"cordoba/internal/port"
)

type statsRepo struct {
	db sqlx.ExtContext
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db sqlx.ExtContext) port.StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) Totals(ctx context.Context, scope domain.TenantScope) (*port.PortfolioTotals, error) {
	query := `SELECT
			COUNT(*) AS total_contracts,
			COUNT(DISTINCT debtor_id) AS total_debtors,
			COUNT(*) FILTER (WHERE status = 'ativo') AS active_contracts,
			COUNT(*) FILTER (WHERE status = 'pago') AS paid_contracts,
			COUNT(*) FILTER (WHERE status = 'atrasado') AS overdue_contracts,
			COALESCE(SUM(original_amount), 0) AS total_amount,
			COALESCE(AVG(CURRENT_DATE - due_date) FILTER (WHERE status = 'atrasado'), 0)::float8 AS average_delay
		FROM contracts
		WHERE ($1::uuid IS NULL OR tenant_id = $1)`

	var totals port.PortfolioTotals
	if err := sqlx.GetContext(ctx, r.db, &totals, query, scope.Filter()); err != nil {
		return nil, fmt.Errorf("statsRepo.Totals: %w", err)
	}
	return &totals, nil
}

func (r *statsRepo) StatusDistribution(ctx context.Context, scope domain.TenantScope) ([]domain.StatusSlice, error) {
	query := `SELECT status, COUNT(*) AS quantity, COALESCE(SUM(original_amount), 0) AS total_amount
		FROM contracts
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
		GROUP BY status
		ORDER BY quantity DESC, status`

	var slices []domain.StatusSlice
	if err := sqlx.SelectContext(ctx, r.db, &slices, query, scope.Filter()); err != nil {
		return nil, fmt.Errorf("statsRepo.StatusDistribution: %w", err)
	}
	return slices, nil
}

// DelayBuckets groups unpaid contracts by days past due. Buckets without
// contracts are omitted.
func (r *statsRepo) DelayBuckets(ctx context.Context, scope domain.TenantScope) ([]domain.DelayBucket, error) {
	query := `SELECT label, COUNT(*) AS quantity, COALESCE(SUM(original_amount - paid_amount), 0) AS total_amount
		FROM (
			SELECT original_amount, paid_amount,
				CASE
					WHEN CURRENT_DATE - due_date <= 0 THEN 'Em dia'
					WHEN CURRENT_DATE - due_date <= 30 THEN 'D+1-30'
					WHEN CURRENT_DATE - due_date <= 60 THEN 'D+31-60'
					WHEN CURRENT_DATE - due_date <= 90 THEN 'D+61-90'
					WHEN CURRENT_DATE - due_date <= 180 THEN 'D+91-180'
					ELSE 'D+180+'
				END AS label
			FROM contracts
			WHERE ($1::uuid IS NULL OR tenant_id = $1) AND status NOT IN ('pago', 'cancelado')
		) b
		GROUP BY label`

	var buckets []domain.DelayBucket
	if err := sqlx.SelectContext(ctx, r.db, &buckets, query, scope.Filter()); err != nil {
		return nil, fmt.Errorf("statsRepo.DelayBuckets: %w", err)
	}
	return buckets, nil
}

func (r *statsRepo) TopDebtors(ctx context.Context, scope domain.TenantScope, limit int) ([]domain.TopDebtor, error) {
	query := `SELECT d.id, d.name, d.national_id,
			COUNT(c.id) AS total_contracts,
			COALESCE(SUM(c.original_amount - c.paid_amount), 0) AS outstanding,
			COALESCE(MAX(GREATEST(CURRENT_DATE - c.due_date, 0)), 0) AS max_delay
		FROM debtors d
		JOIN contracts c ON c.debtor_id = d.id AND c.status NOT IN ('pago', 'cancelado')
		WHERE ($1::uuid IS NULL OR d.tenant_id = $1)
		GROUP BY d.id
		ORDER BY outstanding DESC
		LIMIT $2`

	var top []domain.TopDebtor
	if err := sqlx.SelectContext(ctx, r.db, &top, query, scope.Filter(), limit); err != nil {
		return nil, fmt.Errorf("statsRepo.TopDebtors: %w", err)
	}
	return top, nil
}

func (r *statsRepo) BaseStats(ctx context.Context, scope domain.TenantScope) (*domain.BaseStats, error) {
	query := `SELECT
			(SELECT COUNT(*) FROM debtors WHERE ($1::uuid IS NULL OR tenant_id = $1)) AS total_debtors,
			(SELECT COUNT(*) FROM contracts WHERE ($1::uuid IS NULL OR tenant_id = $1)) AS total_contracts,
			(SELECT COALESCE(SUM(original_amount), 0) FROM contracts
				WHERE ($1::uuid IS NULL OR tenant_id = $1)) AS total_amount,
			(SELECT COUNT(DISTINCT debtor_id) FROM contracts
				WHERE ($1::uuid IS NULL OR tenant_id = $1) AND status = 'atrasado') AS overdue_debtors,
			(SELECT MAX(finished_at) FROM import_runs
				WHERE ($1::uuid IS NULL OR tenant_id = $1) AND status = 'concluido') AS last_import`

	var stats domain.BaseStats
	if err := sqlx.GetContext(ctx, r.db, &stats, query, scope.Filter()); err != nil {
		return nil, fmt.Errorf("statsRepo.BaseStats: %w", err)
	}
	return &stats, nil
}
