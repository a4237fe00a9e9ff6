package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cordoba/internal/domain"
)

// TenantScope resolves which tenants the request may read and stores the
// result under ContextKeyScope. Directors see every tenant unless they pass
// ?tenant_id=; everyone else is bound to their own tenant. It relies on
// AuthMiddleware having already run.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		var scope domain.TenantScope
		if GetRole(c).HasGlobalAccess() {
			scope = domain.AllTenants()
			if raw := strings.TrimSpace(c.Query("tenant_id")); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					abort(c, http.StatusBadRequest, "INVALID_ID", "invalid tenant_id")
					return
				}
				scope = domain.SingleTenant(id)
			}
		} else {
			home := GetHomeTenantID(c)
			if home == nil {
				abort(c, http.StatusForbidden, "NO_TENANT_ACCESS", "user is not assigned to any tenant")
				return
			}
			scope = domain.SingleTenant(*home)
		}

		c.Set(ContextKeyScope, scope)
		c.Next()
	}
}

// RequireTenant rejects requests whose scope spans every tenant. Writes and
// uploads always target one tenant.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := GetScope(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "tenant context required")
			return
		}
		if scope.All {
			abort(c, http.StatusBadRequest, "TENANT_REQUIRED", "tenant_id is required for this action")
			return
		}
		c.Next()
	}
}

// GetScope extracts the tenant scope set by TenantScope.
func GetScope(c *gin.Context) (domain.TenantScope, bool) {
	val, exists := c.Get(ContextKeyScope)
	if !exists {
		return domain.TenantScope{}, false
	}
	scope, ok := val.(domain.TenantScope)
	return scope, ok
}
