package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cordoba/internal/service"
)

// ContractHandler handles contract endpoints.
type ContractHandler struct {
	contractService service.ContractService
}

// NewContractHandler creates a new ContractHandler.
func NewContractHandler(contractService service.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// List handles GET /contratos
// @Summary List contracts
// @Tags contratos
// @Produce json
// @Param status query string false "Filter by status" Enums(ativo, pago, atrasado, cancelado, negociado)
// @Param tenant_id query string false "Restrict a director's listing to one tenant"
// @Param pagina query int false "Page number" default(1)
// @Param por_pagina query int false "Page size (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Contract,meta=PagMeta} "Contracts"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /contratos [get]
func (h *ContractHandler) List(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	page, perPage := parsePage(c)

	result, err := h.contractService.List(c.Request.Context(), scope, c.Query("status"), page, perPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, result.Contracts, PagMeta{Total: result.Total, Page: result.Page, PerPage: result.PerPage})
}

// Create handles POST /contratos
// @Summary Create a contract
// @Description Register a contract for an existing debtor of the tenant
// @Tags contratos
// @Accept json
// @Produce json
// @Param tenant_id query string false "Target tenant (directors only)"
// @Param request body service.CreateContractInput true "Contract details"
// @Success 201 {object} Response{data=domain.Contract} "Contract created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Debtor not found"
// @Failure 409 {object} ErrorResponseBody "Contract number already exists"
// @Security BearerAuth
// @Router /contratos [post]
func (h *ContractHandler) Create(c *gin.Context) {
	tenantID, _, ok := requireWriteContext(c)
	if !ok {
		return
	}
	var input service.CreateContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, contract)
}

// GetByID handles GET /contratos/:id
// @Summary Get a contract
// @Tags contratos
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} Response{data=domain.Contract} "Contract"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Contract not found"
// @Security BearerAuth
// @Router /contratos/{id} [get]
func (h *ContractHandler) GetByID(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.GetByID(c.Request.Context(), scope, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, contract)
}

// UpdateStatus handles PATCH /contratos/:id/status
// @Summary Change a contract's status
// @Tags contratos
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body service.UpdateContractStatusInput true "New status"
// @Success 200 {object} Response{data=domain.Contract} "Contract updated"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Contract not found"
// @Security BearerAuth
// @Router /contratos/{id}/status [patch]
func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input service.UpdateContractStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	contract, err := h.contractService.UpdateStatus(c.Request.Context(), scope, id, input.Status)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, contract)
}
