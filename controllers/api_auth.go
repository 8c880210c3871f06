package controllers

import (
	"net/http"
	"strings"

	dbpkg "autobot/db"
	"autobot/models"

	"github.com/gin-gonic/gin"
)

const ctxTenantKey = "auth_tenant"

// APIKeyRequired authenticates dashboard and API traffic with the
// tenant's key (X-API-Key header). Key issuance and rotation belong to
// the account provisioning flow, which lives outside this service.
func APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if key == "" {
			RespondError(c, "no API key provided", http.StatusUnauthorized)
			c.Abort()
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			RespondError(c, "db not configured in context", http.StatusInternalServerError)
			c.Abort()
			return
		}

		var tenant models.Tenant
		if err := db.Where("api_key = ?", key).First(&tenant).Error; err != nil {
			RespondError(c, "invalid API key", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if tenant.Status != models.TENANT_STATUS_AVAILABLE {
			RespondError(c, "account is not active", http.StatusForbidden)
			c.Abort()
			return
		}

		c.Set(ctxTenantKey, tenant)
		c.Next()
	}
}

// GetTenantLogged returns the tenant loaded by APIKeyRequired.
func GetTenantLogged(c *gin.Context) (models.Tenant, bool) {
	v, ok := c.Get(ctxTenantKey)
	if !ok {
		return models.Tenant{}, false
	}
	tenant, ok := v.(models.Tenant)
	return tenant, ok
}
