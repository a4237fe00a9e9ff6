package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cordoba/internal/domain"
	"cordoba/internal/service"
)

// uploadFields lists the accepted multipart field names, in lookup order.
var uploadFields = []string{"arquivo", "file"}

// ImportHandler handles the spreadsheet import pipeline under /base.
type ImportHandler struct {
	importService  service.ImportService
	maxUploadBytes int64
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService service.ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{importService: importService, maxUploadBytes: maxUploadBytes}
}

// Fields handles GET /base/campos
// @Summary List import fields
// @Description List every importable field with its accepted column names, marking the required ones
// @Tags base
// @Produce json
// @Success 200 {object} Response{data=service.FieldCatalog} "Field catalog"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /base/campos [get]
func (h *ImportHandler) Fields(c *gin.Context) {
	RespondOK(c, h.importService.Fields())
}

// Preview handles POST /base/upload/preview
// @Summary Analyze a spreadsheet
// @Description Parse and classify a CSV or Excel file without writing anything. The result is cached under id_preview for confirmation.
// @Tags base
// @Accept multipart/form-data
// @Produce json
// @Param arquivo formData file true "CSV, XLSX or XLS file (field 'file' is also accepted)"
// @Param tipo query string true "Import type" Enums(nova_base, atualizacao, incremental)
// @Param tenant_id query string false "Target tenant (directors only)"
// @Success 200 {object} Response{data=service.PreviewSummary} "Preview summary"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type, empty file or missing column"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /base/upload/preview [post]
func (h *ImportHandler) Preview(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	summary, err := h.importService.Analyze(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// Confirm handles POST /base/upload/confirmar/:previewId
// @Summary Confirm a preview
// @Description Commit the rows of a cached preview. A preview can be confirmed once, by its own tenant.
// @Tags base
// @Produce json
// @Param previewId path string true "Preview ID"
// @Param sobrescrever query bool false "Overwrite existing debtors" default(false)
// @Param tenant_id query string false "Target tenant (directors only)"
// @Success 200 {object} Response{data=importer.Result} "Import result"
// @Failure 400 {object} ErrorResponseBody "Preview expired or not found, invalid parameters or tenant required"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 500 {object} ErrorResponseBody "Import failed"
// @Security BearerAuth
// @Router /base/upload/confirmar/{previewId} [post]
func (h *ImportHandler) Confirm(c *gin.Context) {
	tenantID, userID, ok := requireWriteContext(c)
	if !ok {
		return
	}
	previewID, err := uuid.Parse(c.Param("previewId"))
	if err != nil {
		HandleError(c, domain.ErrPreviewNotFound)
		return
	}
	overwrite, ok := parseOverwrite(c)
	if !ok {
		return
	}

	result, err := h.importService.Confirm(c.Request.Context(), service.ConfirmInput{
		TenantID:  tenantID,
		UserID:    userID,
		PreviewID: previewID,
		Overwrite: overwrite,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// DirectImport handles POST /base/upload/excel
// @Summary Import a spreadsheet
// @Description Analyze and commit a file in one request, without a preview step
// @Tags base
// @Accept multipart/form-data
// @Produce json
// @Param arquivo formData file true "CSV, XLSX or XLS file (field 'file' is also accepted)"
// @Param tipo query string true "Import type" Enums(nova_base, atualizacao, incremental)
// @Param sobrescrever query bool false "Overwrite existing debtors" default(false)
// @Param tenant_id query string false "Target tenant (directors only)"
// @Success 200 {object} Response{data=importer.Result} "Import result"
// @Failure 400 {object} ErrorResponseBody "Invalid file or parameters"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Import failed"
// @Security BearerAuth
// @Router /base/upload/excel [post]
func (h *ImportHandler) DirectImport(c *gin.Context) {
	overwrite, ok := parseOverwrite(c)
	if !ok {
		return
	}
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.importService.DirectImport(c.Request.Context(), input, overwrite)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Logs handles GET /base/logs
// @Summary List import runs
// @Description List import runs, newest first, with the name of the user who started each one
// @Tags base
// @Produce json
// @Param tenant_id query string false "Restrict a director's listing to one tenant"
// @Param pagina query int false "Page number" default(1)
// @Param por_pagina query int false "Page size (max 100)" default(20)
// @Success 200 {object} Response{data=service.ImportLogPage} "Import runs"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /base/logs [get]
func (h *ImportHandler) Logs(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	page, perPage := parsePage(c)

	logs, err := h.importService.Logs(c.Request.Context(), scope, page, perPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, logs)
}

// ArchiveLink handles GET /base/logs/:id/arquivo
// @Summary Download the archived upload of an import run
// @Description Get a presigned download URL for the file an import run was created from
// @Tags base
// @Produce json
// @Param id path string true "Import run ID"
// @Param tenant_id query string false "Restrict a director's lookup to one tenant"
// @Success 200 {object} Response{data=service.ArchiveLink} "Presigned download URL"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Import run not found or nothing archived"
// @Security BearerAuth
// @Router /base/logs/{id}/arquivo [get]
func (h *ImportHandler) ArchiveLink(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	runID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	link, err := h.importService.ArchiveLink(c.Request.Context(), scope, runID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, link)
}

// Stats handles GET /base/estatisticas
// @Summary Base statistics
// @Description Get debtor, contract and import counters for the base
// @Tags base
// @Produce json
// @Param tenant_id query string false "Restrict a director's statistics to one tenant"
// @Success 200 {object} Response{data=domain.BaseStats} "Base statistics"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /base/estatisticas [get]
func (h *ImportHandler) Stats(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	stats, err := h.importService.Stats(c.Request.Context(), scope)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}

// Clients handles GET /base/clientes
// @Summary List imported clients
// @Description List debtors with contract totals and worst status. National ids are masked.
// @Tags base
// @Produce json
// @Param busca query string false "Search by name or national id"
// @Param tenant_id query string false "Restrict a director's listing to one tenant"
// @Param pagina query int false "Page number" default(1)
// @Param por_pagina query int false "Page size (max 100)" default(20)
// @Success 200 {object} Response{data=service.ClientPage} "Clients"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /base/clientes [get]
func (h *ImportHandler) Clients(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	page, perPage := parsePage(c)

	clients, err := h.importService.Clients(c.Request.Context(), scope, c.Query("busca"), page, perPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, clients)
}

// Template handles GET /base/template
// @Summary Download the import template
// @Description Download an empty spreadsheet with the canonical column headers
// @Tags base
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param formato query string false "Template format" Enums(csv, xlsx) default(xlsx)
// @Success 200 {file} file "Template file"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /base/template [get]
func (h *ImportHandler) Template(c *gin.Context) {
	file, err := h.importService.Template(c.Query("formato"))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// readUpload reads the uploaded file and the import type. Returns false if
// the request is invalid (error response already written).
func (h *ImportHandler) readUpload(c *gin.Context) (service.UploadInput, bool) {
	tenantID, userID, ok := requireWriteContext(c)
	if !ok {
		return service.UploadInput{}, false
	}
	importType, valid := domain.ParseImportType(c.Query("tipo"))
	if !valid {
		RespondError(c, http.StatusBadRequest, "INVALID_IMPORT_TYPE", "tipo must be nova_base, atualizacao or incremental")
		return service.UploadInput{}, false
	}

	file, header, err := formFile(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "arquivo field is required")
		return service.UploadInput{}, false
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return service.UploadInput{}, false
	}
	var reader io.Reader = file
	if h.maxUploadBytes > 0 {
		reader = io.LimitReader(file, h.maxUploadBytes+1)
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
		return service.UploadInput{}, false
	}

	return service.UploadInput{
		TenantID: tenantID,
		UserID:   userID,
		Type:     importType,
		FileName: header.Filename,
		Payload:  payload,
	}, true
}

func formFile(c *gin.Context) (multipart.File, *multipart.FileHeader, error) {
	var lastErr error
	for _, field := range uploadFields {
		file, header, err := c.Request.FormFile(field)
		if err == nil {
			return file, header, nil
		}
		lastErr = err
	}
	return nil, nil, lastErr
}

func parseOverwrite(c *gin.Context) (bool, bool) {
	raw := c.Query("sobrescrever")
	if raw == "" {
		return false, true
	}
	overwrite, err := strconv.ParseBool(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "sobrescrever must be true or false")
		return false, false
	}
	return overwrite, true
}
