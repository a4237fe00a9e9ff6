package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cordoba/internal/middleware"
	"cordoba/internal/service"
)

// UserHandler handles user management endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles POST /usuarios
// @Summary Create a user
// @Description Create a back-office user. Managers create users of their own tenant; only directors create directors.
// @Tags usuarios
// @Accept json
// @Produce json
// @Param tenant_id query string false "Target tenant (directors creating a tenant user)"
// @Param request body service.CreateUserInput true "User details"
// @Success 201 {object} Response{data=domain.User} "User created"
// @Failure 400 {object} ErrorResponseBody "Validation error or tenant required"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - directors and managers only"
// @Failure 409 {object} ErrorResponseBody "Email already exists"
// @Security BearerAuth
// @Router /usuarios [post]
func (h *UserHandler) Create(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), scope, middleware.GetRole(c), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, user)
}

// List handles GET /usuarios
// @Summary List users
// @Description List the users visible in the caller's tenant scope
// @Tags usuarios
// @Produce json
// @Param tenant_id query string false "Restrict a director's listing to one tenant"
// @Param pagina query int false "Page number" default(1)
// @Param por_pagina query int false "Page size (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.User,meta=PagMeta} "List of users"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - directors and managers only"
// @Security BearerAuth
// @Router /usuarios [get]
func (h *UserHandler) List(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	page, perPage := parsePage(c)

	result, err := h.userService.List(c.Request.Context(), scope, page, perPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, result.Users, PagMeta{Total: result.Total, Page: result.Page, PerPage: result.PerPage})
}
