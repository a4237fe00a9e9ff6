package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cordoba/internal/domain"
	"cordoba/internal/handler"
	"cordoba/internal/service"
	"cordoba/mocks"
)

func TestContractHandler_List(t *testing.T) {
	svc := new(mocks.MockContractService)
	h := handler.NewContractHandler(svc)
	scope := domain.AllTenants()
	svc.On("List", mock.Anything, scope, "atrasado", 0, 0).Return(&service.ContractPage{
		Contracts: []domain.Contract{{ID: uuid.New(), Status: domain.ContractOverdue}}, Total: 1, Page: 1, PerPage: 20,
	}, nil)

	c, w := newContext(http.MethodGet, "/contratos?status=atrasado", nil)
	setAuthContext(c, scope, uuid.New(), domain.RoleDirector)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"atrasado"`)
	assert.Contains(t, w.Body.String(), `"por_pagina":20`)
}

func TestContractHandler_List_InvalidStatus(t *testing.T) {
	svc := new(mocks.MockContractService)
	h := handler.NewContractHandler(svc)
	svc.On("List", mock.Anything, mock.Anything, "perdido", 0, 0).Return(nil, domain.ErrInvalidStatus)

	c, w := newContext(http.MethodGet, "/contratos?status=perdido", nil)
	setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleOperator)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATUS", decode(t, w).Error.Code)
}

func TestContractHandler_Create(t *testing.T) {
	svc := new(mocks.MockContractService)
	h := handler.NewContractHandler(svc)
	tenantID, debtorID := uuid.New(), uuid.New()
	svc.On("Create", mock.Anything, tenantID, mock.MatchedBy(func(in service.CreateContractInput) bool {
		return in.DebtorID == debtorID && in.OriginalAmount.String() == "1500.5" && in.DueDate == "2024-12-31"
	})).Return(&domain.Contract{ID: uuid.New(), DebtorID: debtorID, Status: domain.ContractActive}, nil)

	body := `{"cliente_id":"` + debtorID.String() + `","valor_original":1500.50,"data_vencimento":"2024-12-31"}`
	c, w := newContext(http.MethodPost, "/contratos", strings.NewReader(body))
	setAuthContext(c, domain.SingleTenant(tenantID), uuid.New(), domain.RoleOperator)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestContractHandler_Create_Errors(t *testing.T) {
	debtorID := uuid.NewString()
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"missing due date", `{"cliente_id":"` + debtorID + `","valor_original":10}`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"non positive amount", `{"cliente_id":"` + debtorID + `","valor_original":0,"data_vencimento":"2024-12-31"}`, domain.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"unknown debtor", `{"cliente_id":"` + debtorID + `","valor_original":10,"data_vencimento":"2024-12-31"}`, domain.ErrDebtorNotFound, http.StatusNotFound, "DEBTOR_NOT_FOUND"},
		{"duplicate number", `{"cliente_id":"` + debtorID + `","valor_original":10,"data_vencimento":"2024-12-31","numero_contrato":"C-1"}`, domain.ErrDuplicateContractNum, http.StatusConflict, "DUPLICATE_CONTRACT_NUMBER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockContractService)
			h := handler.NewContractHandler(svc)
			if tt.err != nil {
				svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			c, w := newContext(http.MethodPost, "/contratos", strings.NewReader(tt.body))
			setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleOperator)
			h.Create(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w).Error.Code)
		})
	}
}

func TestContractHandler_UpdateStatus(t *testing.T) {
	svc := new(mocks.MockContractService)
	h := handler.NewContractHandler(svc)
	scope := domain.SingleTenant(uuid.New())
	id := uuid.New()
	svc.On("UpdateStatus", mock.Anything, scope, id, "pago").
		Return(&domain.Contract{ID: id, Status: domain.ContractPaid}, nil)

	c, w := newContext(http.MethodPatch, "/contratos/"+id.String()+"/status", strings.NewReader(`{"status":"pago"}`))
	c.AddParam("id", id.String())
	setAuthContext(c, scope, uuid.New(), domain.RoleManager)
	h.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pago"`)
}

func TestContractHandler_GetByID_NotFound(t *testing.T) {
	svc := new(mocks.MockContractService)
	h := handler.NewContractHandler(svc)
	id := uuid.New()
	svc.On("GetByID", mock.Anything, mock.Anything, id).Return(nil, domain.ErrContractNotFound)

	c, w := newContext(http.MethodGet, "/contratos/"+id.String(), nil)
	c.AddParam("id", id.String())
	setAuthContext(c, domain.SingleTenant(uuid.New()), uuid.New(), domain.RoleOperator)
	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CONTRACT_NOT_FOUND", decode(t, w).Error.Code)
}
