package models

import "time"

/************************************************
/**** MARK: MESSAGE ROLES ****/
/************************************************/
const MESSAGE_ROLE_CUSTOMER = "customer"
const MESSAGE_ROLE_ASSISTANT = "assistant"

// Conversation is the thread between a tenant's bot and one end customer.
// Created on first message (upsert-on-write), never deleted by the relay.
type Conversation struct {
	ID                 int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID           int64      `gorm:"not null;index:idx_conversations_thread" json:"tenant_id"`
	CustomerIdentifier string     `gorm:"not null;index:idx_conversations_thread" json:"customer_identifier"`
	LastInteractionAt  *time.Time `gorm:"index" json:"last_interaction_at"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

// Message is one turn inside a conversation. Append-only: rows are
// inserted by the ledger and never updated.
type Message struct {
	ID             int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ConversationID int64      `gorm:"not null;index" json:"conversation_id"`
	Role           string     `gorm:"not null" json:"role"`
	Text           string     `gorm:"type:text" json:"text"`
	CreatedAt      *time.Time `json:"created_at"`
}
