package controllers

import (
	"net/http"
	"strings"

	dbpkg "autobot/db"
	"autobot/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type botConfigInput struct {
	Status        string `json:"status"`
	Model         string `json:"model"`
	SystemPrompt  string `json:"system_prompt"`
	KnowledgeText string `json:"knowledge_text"`
	Language      string `json:"language"`
	BusinessName  string `json:"business_name"`
}

func validBotStatus(s string) bool {
	switch s {
	case models.BOT_STATUS_DRAFT, models.BOT_STATUS_ACTIVE, models.BOT_STATUS_INACTIVE:
		return true
	}
	return false
}

// GET /api/bot/config (X-API-Key)
func GetBotConfig(c *gin.Context) {
	tenant, ok := GetTenantLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	var bot models.BotConfig
	if err := db.Where("tenant_id = ?", tenant.ID).First(&bot).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondError(c, "no bot configuration found", http.StatusNotFound)
			return
		}
		RespondError(c, "error fetching bot configuration", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"bot": bot, "credits": tenant.Credits})
}

// POST /api/bot/config (X-API-Key)
//
// Upsert on the single canonical row per tenant.
func SaveBotConfig(c *gin.Context) {
	tenant, ok := GetTenantLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var in botConfigInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.BusinessName) == "" {
		RespondError(c, "business name is required", http.StatusBadRequest)
		return
	}
	if in.Status != "" && !validBotStatus(in.Status) {
		RespondError(c, "invalid status", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)

	var bot models.BotConfig
	err := db.Where("tenant_id = ?", tenant.ID).First(&bot).Error
	if gorm.IsRecordNotFoundError(err) {
		bot = models.BotConfig{TenantID: tenant.ID, Status: models.BOT_STATUS_DRAFT}
		if err := db.Create(&bot).Error; err != nil {
			RespondError(c, "error saving bot configuration", http.StatusInternalServerError)
			return
		}
	} else if err != nil {
		RespondError(c, "error saving bot configuration", http.StatusInternalServerError)
		return
	}

	updates := map[string]any{
		"model":          in.Model,
		"system_prompt":  in.SystemPrompt,
		"knowledge_text": in.KnowledgeText,
		"business_name":  in.BusinessName,
	}
	if in.Status != "" {
		updates["status"] = in.Status
	}
	if in.Language != "" {
		updates["language"] = in.Language
	}

	if err := db.Model(&models.BotConfig{}).Where("id = ?", bot.ID).Updates(updates).Error; err != nil {
		RespondError(c, "error saving bot configuration", http.StatusInternalServerError)
		return
	}

	if err := db.First(&bot, bot.ID).Error; err != nil {
		RespondError(c, "error saving bot configuration", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"bot": bot})
}
