package models

import "time"

/************************************************
/**** MARK: EVENT STATUS ****/
/************************************************/
const EVENT_STATUS_PENDING = "pending"
const EVENT_STATUS_PROCESSING = "processing"
const EVENT_STATUS_DONE = "done"
const EVENT_STATUS_FAILED = "failed"

// WebhookEvent is one inbound platform message accepted by the webhook
// handler. The handler only acks and enqueues; the worker claims rows
// with an optimistic status update and runs the relay, so the outcome of
// every delivery is observable here instead of in a fire-and-forget
// goroutine.
type WebhookEvent struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID      int64      `gorm:"not null;index" json:"tenant_id"`
	Platform      string     `gorm:"not null" json:"platform"`
	SenderID      string     `gorm:"not null;index" json:"sender_id"`
	MessageID     string     `gorm:"default:''" json:"message_id"`
	Text          string     `gorm:"type:text" json:"text"`
	Status        string     `gorm:"not null;default:'pending';index" json:"status"`
	ReplyText     string     `gorm:"type:text" json:"reply_text"`
	FailureReason string     `gorm:"default:''" json:"failure_reason"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}
