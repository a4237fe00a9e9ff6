package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cordoba/internal/service"
)

// DebtorHandler handles debtor endpoints.
type DebtorHandler struct {
	debtorService service.DebtorService
}

// NewDebtorHandler creates a new DebtorHandler.
func NewDebtorHandler(debtorService service.DebtorService) *DebtorHandler {
	return &DebtorHandler{debtorService: debtorService}
}

// List handles GET /devedores
// @Summary List debtors
// @Tags devedores
// @Produce json
// @Param busca query string false "Search by name or national id"
// @Param tenant_id query string false "Restrict a director's listing to one tenant"
// @Param pagina query int false "Page number" default(1)
// @Param por_pagina query int false "Page size (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Debtor,meta=PagMeta} "Debtors"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /devedores [get]
func (h *DebtorHandler) List(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	page, perPage := parsePage(c)

	result, err := h.debtorService.List(c.Request.Context(), scope, c.Query("busca"), page, perPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, result.Debtors, PagMeta{Total: result.Total, Page: result.Page, PerPage: result.PerPage})
}

// Create handles POST /devedores
// @Summary Create a debtor
// @Description Register a debtor by hand. The national id is normalized and must be unique in the tenant.
// @Tags devedores
// @Accept json
// @Produce json
// @Param tenant_id query string false "Target tenant (directors only)"
// @Param request body service.CreateDebtorInput true "Debtor details"
// @Success 201 {object} Response{data=domain.Debtor} "Debtor created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 409 {object} ErrorResponseBody "National id already exists"
// @Security BearerAuth
// @Router /devedores [post]
func (h *DebtorHandler) Create(c *gin.Context) {
	tenantID, _, ok := requireWriteContext(c)
	if !ok {
		return
	}
	var input service.CreateDebtorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	debtor, err := h.debtorService.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, debtor)
}

// GetByID handles GET /devedores/:id
// @Summary Get a debtor
// @Tags devedores
// @Produce json
// @Param id path string true "Debtor ID"
// @Success 200 {object} Response{data=domain.Debtor} "Debtor"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Debtor not found"
// @Security BearerAuth
// @Router /devedores/{id} [get]
func (h *DebtorHandler) GetByID(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	debtor, err := h.debtorService.GetByID(c.Request.Context(), scope, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, debtor)
}

// Update handles PUT /devedores/:id
// @Summary Update a debtor
// @Description Update the given fields of a debtor. The national id cannot change.
// @Tags devedores
// @Accept json
// @Produce json
// @Param id path string true "Debtor ID"
// @Param tenant_id query string false "Target tenant (directors only)"
// @Param request body service.UpdateDebtorInput true "Fields to update"
// @Success 200 {object} Response{data=domain.Debtor} "Debtor updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Debtor not found"
// @Security BearerAuth
// @Router /devedores/{id} [put]
func (h *DebtorHandler) Update(c *gin.Context) {
	tenantID, _, ok := requireWriteContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input service.UpdateDebtorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	debtor, err := h.debtorService.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, debtor)
}

// Contracts handles GET /devedores/:id/contratos
// @Summary List a debtor's contracts
// @Tags devedores
// @Produce json
// @Param id path string true "Debtor ID"
// @Success 200 {object} Response{data=[]domain.Contract} "Contracts"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Debtor not found"
// @Security BearerAuth
// @Router /devedores/{id}/contratos [get]
func (h *DebtorHandler) Contracts(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contracts, err := h.debtorService.Contracts(c.Request.Context(), scope, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, contracts)
}
