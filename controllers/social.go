package controllers

import (
	"net/http"
	"strings"

	dbpkg "autobot/db"
	"autobot/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func maskToken(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:6] + "****************"
}

type socialSettingsInput struct {
	WhatsappEnabled     bool   `json:"whatsapp_enabled"`
	WhatsappBusinessID  string `json:"whatsapp_business_id"`
	WhatsappPhoneID     string `json:"whatsapp_phone_id"`
	WhatsappAccessToken string `json:"whatsapp_access_token"`

	InstagramEnabled     bool   `json:"instagram_enabled"`
	InstagramBusinessID  string `json:"instagram_business_id"`
	InstagramAccessToken string `json:"instagram_access_token"`

	ApiVersion string `json:"api_version"`
}

// GET /api/social/settings (X-API-Key)
func GetSocialSettings(c *gin.Context) {
	tenant, ok := GetTenantLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	var social models.SocialConfig
	if err := db.Where("tenant_id = ?", tenant.ID).First(&social).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			RespondSuccess(c, nil)
			return
		}
		RespondError(c, "error fetching social settings", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"whatsapp_enabled":       social.WhatsappEnabled,
		"whatsapp_business_id":   social.WhatsappBusinessID,
		"whatsapp_phone_id":      social.WhatsappPhoneID,
		"whatsapp_access_token":  maskToken(social.WhatsappAccessToken),
		"instagram_enabled":      social.InstagramEnabled,
		"instagram_business_id":  social.InstagramBusinessID,
		"instagram_access_token": maskToken(social.InstagramAccessToken),
		"api_version":            social.ApiVersion,
	})
}

// POST /api/social/settings (X-API-Key)
//
// Masked tokens coming back from the dashboard are ignored so a save
// without retyping the secret keeps the stored one.
func UpdateSocialSettings(c *gin.Context) {
	tenant, ok := GetTenantLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var in socialSettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)

	var social models.SocialConfig
	err := db.Where("tenant_id = ?", tenant.ID).First(&social).Error
	if gorm.IsRecordNotFoundError(err) {
		social = models.SocialConfig{TenantID: tenant.ID}
		if err := db.Create(&social).Error; err != nil {
			RespondError(c, "error saving social settings", http.StatusInternalServerError)
			return
		}
	} else if err != nil {
		RespondError(c, "error saving social settings", http.StatusInternalServerError)
		return
	}

	updates := map[string]any{
		"whatsapp_enabled":      in.WhatsappEnabled,
		"whatsapp_business_id":  strings.TrimSpace(in.WhatsappBusinessID),
		"whatsapp_phone_id":     strings.TrimSpace(in.WhatsappPhoneID),
		"instagram_enabled":     in.InstagramEnabled,
		"instagram_business_id": strings.TrimSpace(in.InstagramBusinessID),
	}
	if v := strings.TrimSpace(in.ApiVersion); v != "" {
		updates["api_version"] = v
	}
	if t := strings.TrimSpace(in.WhatsappAccessToken); t != "" && !strings.Contains(t, "***") {
		updates["whatsapp_access_token"] = t
	}
	if t := strings.TrimSpace(in.InstagramAccessToken); t != "" && !strings.Contains(t, "***") {
		updates["instagram_access_token"] = t
	}

	if err := db.Model(&models.SocialConfig{}).Where("id = ?", social.ID).Updates(updates).Error; err != nil {
		RespondError(c, "error saving social settings", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"success": true})
}
