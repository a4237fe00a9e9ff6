package port

import (
	"context"

	"github.com/shopspring/decimal"

	"cordoba/internal/domain"
)

// PortfolioTotals holds the scalar numbers of the main dashboard.
type PortfolioTotals struct {
	TotalContracts   int             `db:"total_contracts"`
	TotalDebtors     int             `db:"total_debtors"`
	ActiveContracts  int             `db:"active_contracts"`
	PaidContracts    int             `db:"paid_contracts"`
	OverdueContracts int             `db:"overdue_contracts"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	AverageDelayDays float64         `db:"average_delay"`
}

// StatsRepository provides aggregate statistics queries.
type StatsRepository interface {
	Totals(ctx context.Context, scope domain.TenantScope) (*PortfolioTotals, error)
	StatusDistribution(ctx context.Context, scope domain.TenantScope) ([]domain.StatusSlice, error)
	DelayBuckets(ctx context.Context, scope domain.TenantScope) ([]domain.DelayBucket, error)
	TopDebtors(ctx context.Context, scope domain.TenantScope, limit int) ([]domain.TopDebtor, error)
	BaseStats(ctx context.Context, scope domain.TenantScope) (*domain.BaseStats, error)
}
