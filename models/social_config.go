package models

import "time"

/************************************************
/**** MARK: PLATFORMS ****/
/************************************************/
const PLATFORM_WHATSAPP = "whatsapp"
const PLATFORM_INSTAGRAM = "instagram"

// SocialConfig stores tenant-specific Meta Graph API credentials.
// One row per tenant. The business ids are the webhook resolution keys:
// an inbound event is matched against exactly one of these columns,
// chosen by the platform of the envelope.
type SocialConfig struct {
	ID       int64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID int64 `gorm:"not null;unique_index" json:"tenant_id"`

	WhatsappEnabled     bool   `gorm:"default:false" json:"whatsapp_enabled" form:"whatsapp_enabled"`
	WhatsappBusinessID  string `gorm:"column:whatsapp_business_id;index" json:"whatsapp_business_id" form:"whatsapp_business_id"`
	WhatsappPhoneID     string `gorm:"column:whatsapp_phone_id" json:"whatsapp_phone_id" form:"whatsapp_phone_id"`
	WhatsappAccessToken string `gorm:"column:whatsapp_access_token" json:"-"`

	InstagramEnabled     bool   `gorm:"default:false" json:"instagram_enabled" form:"instagram_enabled"`
	InstagramBusinessID  string `gorm:"column:instagram_business_id;index" json:"instagram_business_id" form:"instagram_business_id"`
	InstagramAccessToken string `gorm:"column:instagram_access_token" json:"-"`

	ApiVersion string `gorm:"column:api_version;not null;default:'v21.0'" json:"api_version"`

	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
