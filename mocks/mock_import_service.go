package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
	"cordoba/internal/importer"
	"cordoba/internal/service"
)

// MockImportService is a mock implementation of service.ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Fields() service.FieldCatalog {
	args := m.Called()
	return args.Get(0).(service.FieldCatalog)
}

func (m *MockImportService) Analyze(ctx context.Context, in service.UploadInput) (*service.PreviewSummary, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PreviewSummary), args.Error(1)
}

func (m *MockImportService) Confirm(ctx context.Context, in service.ConfirmInput) (*importer.Result, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importer.Result), args.Error(1)
}

func (m *MockImportService) DirectImport(ctx context.Context, in service.UploadInput, overwrite bool) (*importer.Result, error) {
	args := m.Called(ctx, in, overwrite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importer.Result), args.Error(1)
}

func (m *MockImportService) Logs(ctx context.Context, scope domain.TenantScope, page, perPage int) (*service.ImportLogPage, error) {
	args := m.Called(ctx, scope, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportLogPage), args.Error(1)
}

func (m *MockImportService) Stats(ctx context.Context, scope domain.TenantScope) (*domain.BaseStats, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BaseStats), args.Error(1)
}

func (m *MockImportService) Clients(ctx context.Context, scope domain.TenantScope, search string, page, perPage int) (*service.ClientPage, error) {
	args := m.Called(ctx, scope, search, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClientPage), args.Error(1)
}

func (m *MockImportService) Template(format string) (*service.TemplateFile, error) {
	args := m.Called(format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TemplateFile), args.Error(1)
}

func (m *MockImportService) ArchiveLink(ctx context.Context, scope domain.TenantScope, runID uuid.UUID) (*service.ArchiveLink, error) {
	args := m.Called(ctx, scope, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArchiveLink), args.Error(1)
}
