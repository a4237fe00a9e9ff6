package handler

import (
	"github.com/gin-gonic/gin"

	"cordoba/internal/service"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Principal handles GET /dashboard/principal
// @Summary Main dashboard
// @Description Get portfolio totals, status breakdown and recent imports for the caller's scope
// @Tags dashboard
// @Produce json
// @Param tenant_id query string false "Restrict a director's dashboard to one tenant"
// @Success 200 {object} Response{data=domain.Dashboard} "Dashboard"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /dashboard/principal [get]
func (h *DashboardHandler) Principal(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	dash, err := h.dashboardService.Principal(c.Request.Context(), scope)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, dash)
}

// Consolidated handles GET /dashboard/consolidado
// @Summary Consolidated dashboard
// @Description Get the per-tenant breakdown of every active tenant (directors only)
// @Tags dashboard
// @Produce json
// @Success 200 {object} Response{data=domain.ConsolidatedDashboard} "Consolidated dashboard"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - directors only"
// @Security BearerAuth
// @Router /dashboard/consolidado [get]
func (h *DashboardHandler) Consolidated(c *gin.Context) {
	dash, err := h.dashboardService.Consolidated(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, dash)
}
