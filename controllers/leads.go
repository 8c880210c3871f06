package controllers

import (
	"net/http"

	dbpkg "autobot/db"
	"autobot/models"

	"github.com/gin-gonic/gin"
)

// GET /api/leads (X-API-Key)
func GetLeads(c *gin.Context) {
	tenant, ok := GetTenantLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	var leads []models.Lead
	if err := db.Where("tenant_id = ?", tenant.ID).
		Order("created_at desc").
		Find(&leads).Error; err != nil {
		RespondError(c, "error fetching leads", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"leads": leads})
}
