package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
	"cordoba/internal/port"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) Totals(ctx context.Context, scope domain.TenantScope) (*port.PortfolioTotals, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PortfolioTotals), args.Error(1)
}

func (m *MockStatsRepo) StatusDistribution(ctx context.Context, scope domain.TenantScope) ([]domain.StatusSlice, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusSlice), args.Error(1)
}

func (m *MockStatsRepo) DelayBuckets(ctx context.Context, scope domain.TenantScope) ([]domain.DelayBucket, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DelayBucket), args.Error(1)
}

func (m *MockStatsRepo) TopDebtors(ctx context.Context, scope domain.TenantScope, limit int) ([]domain.TopDebtor, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopDebtor), args.Error(1)
}

func (m *MockStatsRepo) BaseStats(ctx context.Context, scope domain.TenantScope) (*domain.BaseStats, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BaseStats), args.Error(1)
}
