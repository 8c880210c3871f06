package models

import "time"

/************************************************
/**** MARK: BOT STATUS ****/
/************************************************/
const BOT_STATUS_DRAFT = "draft"
const BOT_STATUS_ACTIVE = "active"
const BOT_STATUS_INACTIVE = "inactive"

// BotConfig holds the per-tenant bot configuration consumed by the relay.
// One canonical row per tenant, upserted on write.
type BotConfig struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID      int64      `gorm:"not null;unique_index" json:"tenant_id"`
	Status        string     `gorm:"not null;default:'draft'" json:"status" form:"status"`
	Model         string     `gorm:"default:''" json:"model" form:"model"`
	SystemPrompt  string     `gorm:"type:text" json:"system_prompt" form:"system_prompt"`
	KnowledgeText string     `gorm:"type:text" json:"knowledge_text" form:"knowledge_text"`
	Language      string     `gorm:"default:'English'" json:"language" form:"language"`
	BusinessName  string     `gorm:"default:''" json:"business_name" form:"business_name"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

func (b BotConfig) IsActive() bool {
	return b.Status == BOT_STATUS_ACTIVE
}
