package models

import "time"

/************************************************
/**** MARK: LEAD STATUS ****/
/************************************************/
const LEAD_STATUS_NEW = "new"
const LEAD_STATUS_CONTACTED = "contacted"
const LEAD_STATUS_QUALIFIED = "qualified"
const LEAD_STATUS_CLOSED = "closed"

// Lead is a contact (email or phone) extracted opportunistically from
// inbound customer text. At most one row per (tenant, contact); repeat
// mentions update LastMessage in place.
type Lead struct {
	ID                 int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID           int64      `gorm:"not null;index:idx_leads_contact" json:"tenant_id"`
	Contact            string     `gorm:"not null;index:idx_leads_contact" json:"contact"`
	LastMessage        string     `gorm:"type:text" json:"last_message"`
	CustomerIdentifier string     `gorm:"default:''" json:"customer_identifier"`
	Status             string     `gorm:"not null;default:'new'" json:"status"`
	Notes              string     `gorm:"type:text" json:"notes"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}
