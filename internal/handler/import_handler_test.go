package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cordoba/internal/domain"
	"cordoba/internal/handler"
	"cordoba/internal/importer"
	"cordoba/internal/service"
	"cordoba/mocks"
)

const csvPayload = "cpf,nome,valor,vencimento\n11111111111,Ana,100,2024-12-31\n"

func TestImportHandler_Preview_Success(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024*1024)
	tenantID, userID := uuid.New(), uuid.New()
	previewID := uuid.New()

	svc.On("Analyze", mock.Anything, service.UploadInput{
		TenantID: tenantID, UserID: userID, Type: domain.ImportNewBase,
		FileName: "carteira.csv", Payload: []byte(csvPayload),
	}).Return(&service.PreviewSummary{PreviewID: previewID, TotalRows: 1, NewDebtors: 1}, nil)

	body, contentType := multipartBody(t, "arquivo", "carteira.csv", []byte(csvPayload))
	c, w := newContext(http.MethodPost, "/base/upload/preview?tipo=nova_base", body)
	c.Request.Header.Set("Content-Type", contentType)
	setAuthContext(c, domain.SingleTenant(tenantID), userID, domain.RoleOperator)

	h.Preview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id_preview":"`+previewID.String()+`"`)
	assert.Contains(t, w.Body.String(), `"novos_clientes":1`)
	svc.AssertExpectations(t)
}

func TestImportHandler_Preview_AcceptsFileAlias(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024*1024)
	svc.On("Analyze", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.FileName == "base.xlsx" && in.Type == domain.ImportIncremental
	})).Return(&service.PreviewSummary{}, nil)

	body, contentType := multipartBody(t, "file", "base.xlsx", []byte("PK"))
	c, w := newContext(http.MethodPost, "/base/upload/preview", body)
	c.Request.Header.Set("Content-Type", contentType)
	setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleOperator)

	h.Preview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestImportHandler_Preview_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		target string
		field  string
		scope  domain.TenantScope
		size   int
		status int
		code   string
	}{
		{"missing file", "/base/upload/preview", "documento", domain.SingleTenant(uuid.New()), 10, http.StatusBadRequest, "MISSING_FILE"},
		{"bad type", "/base/upload/preview?tipo=total", "arquivo", domain.SingleTenant(uuid.New()), 10, http.StatusBadRequest, "INVALID_IMPORT_TYPE"},
		{"all tenants", "/base/upload/preview", "arquivo", domain.AllTenants(), 10, http.StatusBadRequest, "TENANT_REQUIRED"},
		{"too large", "/base/upload/preview", "arquivo", domain.SingleTenant(uuid.New()), 2048, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockImportService)
			h := handler.NewImportHandler(svc, 1024)

			body, contentType := multipartBody(t, tt.field, "base.csv", []byte(strings.Repeat("a", tt.size)))
			c, w := newContext(http.MethodPost, tt.target, body)
			c.Request.Header.Set("Content-Type", contentType)
			setAuthContext(c, tt.scope, uuid.New(), domain.RoleDirector)

			h.Preview(c)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
		})
	}
}

func TestImportHandler_Preview_MissingColumn(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024*1024)
	svc.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, &domain.MissingColumnError{Field: "cpf", Tried: []string{"cpf", "documento"}})

	body, contentType := multipartBody(t, "arquivo", "base.csv", []byte("nome\nAna\n"))
	c, w := newContext(http.MethodPost, "/base/upload/preview", body)
	c.Request.Header.Set("Content-Type", contentType)
	setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleOperator)

	h.Preview(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_REQUIRED_COLUMN", decode(t, w).Error.Code)
}

func TestImportHandler_Confirm(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024)
	tenantID, userID, previewID := uuid.New(), uuid.New(), uuid.New()

	svc.On("Confirm", mock.Anything, service.ConfirmInput{
		TenantID: tenantID, UserID: userID, PreviewID: previewID, Overwrite: true,
	}).Return(&importer.Result{Status: domain.ImportDone, DebtorsCreated: 1}, nil)

	c, w := newContext(http.MethodPost, "/base/upload/confirmar/"+previewID.String()+"?sobrescrever=true", nil)
	c.AddParam("previewId", previewID.String())
	setAuthContext(c, domain.SingleTenant(tenantID), userID, domain.RoleManager)

	h.Confirm(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"clientes_criados":1`)
	svc.AssertExpectations(t)
}

func TestImportHandler_Confirm_PreviewNotFound(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024)
	svc.On("Confirm", mock.Anything, mock.Anything).Return(nil, domain.ErrPreviewNotFound)

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		c, w := newContext(http.MethodPost, "/base/upload/confirmar/"+id, nil)
		c.AddParam("previewId", id)
		setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleManager)

		h.Confirm(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, "PREVIEW_NOT_FOUND", decode(t, w).Error.Code, id)
	}
}

func TestImportHandler_Confirm_ImportFailed(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024)
	svc.On("Confirm", mock.Anything, mock.Anything).Return(nil, domain.ErrImportFailed)
	id := uuid.NewString()

	c, w := newContext(http.MethodPost, "/base/upload/confirmar/"+id, nil)
	c.AddParam("previewId", id)
	setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleManager)

	h.Confirm(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "IMPORT_FAILED", decode(t, w).Error.Code)
	assert.Len(t, c.Errors, 1)
}

func TestImportHandler_DirectImport(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024*1024)
	svc.On("DirectImport", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.Type == domain.ImportUpdate && string(in.Payload) == csvPayload
	}), false).Return(&importer.Result{Status: domain.ImportDone}, nil)

	body, contentType := multipartBody(t, "arquivo", "base.csv", []byte(csvPayload))
	c, w := newContext(http.MethodPost, "/base/upload/excel?tipo=atualizacao&sobrescrever=0", body)
	c.Request.Header.Set("Content-Type", contentType)
	setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleOperator)

	h.DirectImport(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestImportHandler_DirectImport_BadOverwrite(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024)

	c, w := newContext(http.MethodPost, "/base/upload/excel?sobrescrever=talvez", nil)
	setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleOperator)

	h.DirectImport(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportHandler_Logs(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024)
	scope := domain.AllTenants()
	svc.On("Logs", mock.Anything, scope, 2, 10).Return(&service.ImportLogPage{
		Logs: []domain.ImportRunListItem{{User: "Sistema"}}, Total: 11, Page: 2, PerPage: 10,
	}, nil)

	c, w := newContext(http.MethodGet, "/base/logs?pagina=2&por_pagina=10", nil)
	setAuthContext(c, scope, uuid.New(), domain.RoleDirector)

	h.Logs(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"usuario":"Sistema"`)
	assert.Contains(t, w.Body.String(), `"por_pagina":10`)
}

func TestImportHandler_ArchiveLink(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024)
	scope := domain.SingleTenant(uuid.New())
	runID := uuid.New()
	svc.On("ArchiveLink", mock.Anything, scope, runID).Return(&service.ArchiveLink{
		RunID: runID, FileName: "base.csv", URL: "https://s3.example.com/imports/base.csv?sig=abc",
	}, nil)

	c, w := newContext(http.MethodGet, "/base/logs/"+runID.String()+"/arquivo", nil)
	c.AddParam("id", runID.String())
	setAuthContext(c, scope, uuid.New(), domain.RoleOperator)

	h.ArchiveLink(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"url":"https://s3.example.com/imports/base.csv?sig=abc"`)
	assert.Contains(t, w.Body.String(), `"arquivo":"base.csv"`)
}

func TestImportHandler_ArchiveLink_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
		code   string
	}{
		{"invalid id", "abc", nil, http.StatusBadRequest, "INVALID_ID"},
		{"run of another tenant", uuid.NewString(), domain.ErrImportRunNotFound, http.StatusNotFound, "IMPORT_RUN_NOT_FOUND"},
		{"nothing archived", uuid.NewString(), domain.ErrArchiveNotFound, http.StatusNotFound, "ARCHIVE_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockImportService)
			h := handler.NewImportHandler(svc, 1024)
			if tt.err != nil {
				svc.On("ArchiveLink", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			c, w := newContext(http.MethodGet, "/base/logs/"+tt.id+"/arquivo", nil)
			c.AddParam("id", tt.id)
			setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleOperator)
			h.ArchiveLink(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w).Error.Code)
		})
	}
}

func TestImportHandler_Clients(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024)
	scope := domain.SingleTenant(uuid.New())
	svc.On("Clients", mock.Anything, scope, "ana", 0, 0).Return(&service.ClientPage{
		Clients: []domain.DebtorSummary{{Name: "Ana", NationalID: "123.456.789-00", MaskedID: "***.***.*789-00"}},
	}, nil)

	c, w := newContext(http.MethodGet, "/base/clientes?busca=ana", nil)
	setAuthContext(c, scope, uuid.New(), domain.RoleOperator)

	h.Clients(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cpf":"***.***.*789-00"`)
	assert.NotContains(t, w.Body.String(), "123.456.789-00")
}

func TestImportHandler_Template(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024)
	svc.On("Template", "csv").Return(&service.TemplateFile{
		FileName: "template_importacao.csv", ContentType: "text/csv; charset=utf-8", Content: []byte("cpf,nome\n"),
	}, nil)

	c, w := newContext(http.MethodGet, "/base/template?formato=csv", nil)

	h.Template(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="template_importacao.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "cpf,nome\n", w.Body.String())
}

func TestImportHandler_Fields(t *testing.T) {
	svc := new(mocks.MockImportService)
	h := handler.NewImportHandler(svc, 1024)
	svc.On("Fields").Return(service.FieldCatalog{Required: importer.RequiredFields, Optional: importer.OptionalFields})

	c, w := newContext(http.MethodGet, "/base/campos", nil)

	h.Fields(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"obrigatorios"`)
	assert.Contains(t, w.Body.String(), `"alternativas"`)
}
