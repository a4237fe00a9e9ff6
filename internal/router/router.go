package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cordoba/internal/domain"
	"cordoba/internal/handler"
	"cordoba/internal/middleware"
	"cordoba/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Import    *handler.ImportHandler
	Debtor    *handler.DebtorHandler
	Contract  *handler.ContractHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
	User      *handler.UserHandler
}

// Options carries the cross-cutting middleware settings.
type Options struct {
	Log       logrus.FieldLogger
	CORS      gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, opts Options) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(opts.Log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Log))
	if opts.CORS != nil {
		r.Use(opts.CORS)
	}
	if opts.RateLimit != nil {
		r.Use(opts.RateLimit)
	}

	// Health checks
	r.GET("/health", h.Health.Health)
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// Public auth routes
	auth := r.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)
	auth.GET("/me", middleware.AuthMiddleware(authSvc), h.Auth.Me)

	// Protected routes - require valid JWT and a resolved tenant scope
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.Use(middleware.TenantScope())
	writes := middleware.RequireTenant()

	// Import pipeline
	base := protected.Group("/base")
	base.GET("/campos", h.Import.Fields)
	base.GET("/template", h.Import.Template)
	base.POST("/upload/preview", writes, h.Import.Preview)
	base.POST("/upload/confirmar/:previewId", writes, h.Import.Confirm)
	base.POST("/upload/excel", writes, h.Import.DirectImport)
	base.GET("/logs", h.Import.Logs)
	base.GET("/logs/:id/arquivo", h.Import.ArchiveLink)
	base.GET("/estatisticas", h.Import.Stats)
	base.GET("/clientes", h.Import.Clients)

	debtors := protected.Group("/devedores")
	debtors.GET("", h.Debtor.List)
	debtors.POST("", writes, h.Debtor.Create)
	debtors.GET("/:id", h.Debtor.GetByID)
	debtors.PUT("/:id", writes, h.Debtor.Update)
	debtors.GET("/:id/contratos", h.Debtor.Contracts)

	contracts := protected.Group("/contratos")
	contracts.GET("", h.Contract.List)
	contracts.POST("", writes, h.Contract.Create)
	contracts.GET("/:id", h.Contract.GetByID)
	contracts.PATCH("/:id/status", writes, h.Contract.UpdateStatus)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/principal", h.Dashboard.Principal)
	dashboard.GET("/consolidado", middleware.RequireRole(domain.RoleDirector), h.Dashboard.Consolidated)

	users := protected.Group("/usuarios")
	users.Use(middleware.RequireRole(domain.RoleDirector, domain.RoleManager))
	users.GET("", h.User.List)
	users.POST("", h.User.Create)

	return r
}
