package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"cordoba/internal/domain"
	"cordoba/internal/importer"
	"cordoba/internal/port"
)

const (
	topDebtorsLimit = 10
	// consolidatedWorkers bounds the per-tenant dashboards built concurrently.
	consolidatedWorkers = 4
)

// DashboardService builds portfolio dashboards.
type DashboardService interface {
	Principal(ctx context.Context, scope domain.TenantScope) (*domain.Dashboard, error)
	Consolidated(ctx context.Context) (*domain.ConsolidatedDashboard, error)
}

type dashboardService struct {
	stats   port.StatsRepository
	tenants port.TenantRepository
}

// NewDashboardService creates a new DashboardService implementation.
func NewDashboardService(stats port.StatsRepository, tenants port.TenantRepository) DashboardService {
	return &dashboardService{stats: stats, tenants: tenants}
}

func (s *dashboardService) Principal(ctx context.Context, scope domain.TenantScope) (*domain.Dashboard, error) {
	dash, err := s.build(ctx, scope)
	if err != nil {
		return nil, err
	}
	if !scope.All {
		tenant, err := s.tenants.GetByID(ctx, scope.TenantID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("dashboard.Principal: %w", err)
		}
		id := scope.TenantID
		dash.TenantID = &id
		if tenant != nil {
			name := tenant.Name
			dash.TenantName = &name
		}
	}
	return dash, nil
}

func (s *dashboardService) Consolidated(ctx context.Context) (*domain.ConsolidatedDashboard, error) {
	total, err := s.build(ctx, domain.AllTenants())
	if err != nil {
		return nil, err
	}
	tenants, err := s.tenants.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard.Consolidated: %w", err)
	}

	perTenant := make([]domain.Dashboard, len(tenants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(consolidatedWorkers)
	for i := range tenants {
		tenant := tenants[i]
		g.Go(func() error {
			dash, err := s.build(gctx, domain.SingleTenant(tenant.ID))
			if err != nil {
				return err
			}
			dash.TenantID = &tenant.ID
			dash.TenantName = &tenant.Name
			perTenant[i] = *dash
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &domain.ConsolidatedDashboard{Total: *total, PerTenant: perTenant}, nil
}

func (s *dashboardService) build(ctx context.Context, scope domain.TenantScope) (*domain.Dashboard, error) {
	totals, err := s.stats.Totals(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard.build: totals: %w", err)
	}
	statuses, err := s.stats.StatusDistribution(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard.build: status distribution: %w", err)
	}
	buckets, err := s.stats.DelayBuckets(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard.build: delay buckets: %w", err)
	}
	top, err := s.stats.TopDebtors(ctx, scope, topDebtorsLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard.build: top debtors: %w", err)
	}

	for i := range statuses {
		statuses[i].Percent = percent(statuses[i].Count, totals.TotalContracts)
	}
	for i := range top {
		top[i].MaskedID = importer.MaskNationalID(top[i].NationalID)
	}
	if statuses == nil {
		statuses = []domain.StatusSlice{}
	}
	if top == nil {
		top = []domain.TopDebtor{}
	}

	return &domain.Dashboard{
		TotalContracts:     totals.TotalContracts,
		TotalDebtors:       totals.TotalDebtors,
		ActiveContracts:    totals.ActiveContracts,
		PaidContracts:      totals.PaidContracts,
		OverdueContracts:   totals.OverdueContracts,
		TotalAmount:        totals.TotalAmount,
		AverageDelayDays:   math.Round(totals.AverageDelayDays*10) / 10,
		StatusDistribution: statuses,
		DelayBuckets:       orderBuckets(buckets),
		TopDebtors:         top,
	}, nil
}

// orderBuckets returns every delay bucket in display order, filling the ones
// the query did not return with zeros. Percentages are relative to the
// contracts counted in the buckets.
func orderBuckets(rows []domain.DelayBucket) []domain.DelayBucket {
	byLabel := make(map[string]domain.DelayBucket, len(rows))
	total := 0
	for _, r := range rows {
		byLabel[r.Label] = r
		total += r.Count
	}

	out := make([]domain.DelayBucket, len(domain.DelayBucketLabels))
	for i, label := range domain.DelayBucketLabels {
		b, ok := byLabel[label]
		if !ok {
			b = domain.DelayBucket{Label: label, TotalAmount: decimal.Zero}
		}
		b.Percent = percent(b.Count, total)
		out[i] = b
	}
	return out
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}
