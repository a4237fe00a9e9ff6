package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
	"cordoba/internal/importer"
)

// MockBatchClassifier is a mock implementation of service.BatchClassifier.
type MockBatchClassifier struct {
	mock.Mock
}

func (m *MockBatchClassifier) Classify(ctx context.Context, tenantID uuid.UUID, batch *domain.Batch, mapping domain.ColumnMapping) (*importer.Analysis, error) {
	args := m.Called(ctx, tenantID, batch, mapping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importer.Analysis), args.Error(1)
}

// MockBatchCommitter is a mock implementation of service.BatchCommitter.
type MockBatchCommitter struct {
	mock.Mock
}

func (m *MockBatchCommitter) Commit(ctx context.Context, in importer.CommitInput) (*importer.Result, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importer.Result), args.Error(1)
}
