package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency the readiness check pings.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	appName string
	version string
	checks  map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler. checks maps a dependency
// name to its pinger; "database" is expected.
func NewHealthHandler(appName, version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{appName: appName, version: version, checks: checks}
}

// Health handles GET /health
// @Summary Health check
// @Description Report the application name and version
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "app": h.appName, "version": h.version})
}

// Liveness handles GET /healthz
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Process is alive"
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness check
// @Description Ping every dependency (database, redis) and report whether the service can take traffic
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "All dependencies reachable"
// @Failure 503 {object} HealthResponse "A dependency is not reachable"
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	for name, check := range h.checks {
		if err := check.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": name + " not reachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
