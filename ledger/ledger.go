// Package ledger is the durable per-thread conversation memory.
//
// Threads are keyed by (tenant, customer identifier) and append-only.
// Only a bounded recent window is ever read back into prompts; older
// history stays for audit and the dashboard.
package ledger

import (
	"fmt"
	"time"

	"autobot/models"

	"github.com/jinzhu/gorm"
)

// WindowLimit is how many trailing messages are reinjected into prompts.
const WindowLimit = 6

// Turn is the neutral shape handed to prompt assembly.
type Turn struct {
	Speaker string // models.MESSAGE_ROLE_CUSTOMER or MESSAGE_ROLE_ASSISTANT
	Text    string
}

// AppendExchange records one customer message and the assistant reply on
// the thread, creating the thread on first contact. Failures here must
// not sink the reply path; callers log and move on.
func AppendExchange(db *gorm.DB, tenantID int64, customerID, customerText, assistantText string) error {
	conv, err := upsertThread(db, tenantID, customerID)
	if err != nil {
		return err
	}

	now := time.Now()
	pair := []models.Message{
		{ConversationID: conv.ID, Role: models.MESSAGE_ROLE_CUSTOMER, Text: customerText, CreatedAt: &now},
		{ConversationID: conv.ID, Role: models.MESSAGE_ROLE_ASSISTANT, Text: assistantText, CreatedAt: &now},
	}
	for i := range pair {
		if err := db.Create(&pair[i]).Error; err != nil {
			return fmt.Errorf("append message: %w", err)
		}
	}

	if err := db.Model(&models.Conversation{}).
		Where("id = ?", conv.ID).
		Update("last_interaction_at", &now).Error; err != nil {
		return fmt.Errorf("touch thread: %w", err)
	}
	return nil
}

// RecentWindow returns the last limit messages of the thread in
// chronological order. A missing thread is an empty window, not an error.
func RecentWindow(db *gorm.DB, tenantID int64, customerID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = WindowLimit
	}

	var conv models.Conversation
	err := db.Where("tenant_id = ? AND customer_identifier = ?", tenantID, customerID).
		First(&conv).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find thread: %w", err)
	}

	var msgs []models.Message
	if err := db.Where("conversation_id = ?", conv.ID).
		Order("id desc").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}

	// query is newest-first; flip back to chronological
	turns := make([]Turn, len(msgs))
	for i, m := range msgs {
		turns[len(msgs)-1-i] = Turn{Speaker: m.Role, Text: m.Text}
	}
	return turns, nil
}

// History lists a tenant's threads, most recently active first.
func History(db *gorm.DB, tenantID int64) ([]models.Conversation, error) {
	var convs []models.Conversation
	if err := db.Where("tenant_id = ?", tenantID).
		Order("last_interaction_at desc").
		Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return convs, nil
}

// Messages returns the full message log of one thread (dashboard view).
func Messages(db *gorm.DB, conversationID int64) ([]models.Message, error) {
	var msgs []models.Message
	if err := db.Where("conversation_id = ?", conversationID).
		Order("id asc").
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return msgs, nil
}

func upsertThread(db *gorm.DB, tenantID int64, customerID string) (models.Conversation, error) {
	var conv models.Conversation
	err := db.Where("tenant_id = ? AND customer_identifier = ?", tenantID, customerID).
		First(&conv).Error
	if gorm.IsRecordNotFoundError(err) {
		now := time.Now()
		conv = models.Conversation{
			TenantID:           tenantID,
			CustomerIdentifier: customerID,
			LastInteractionAt:  &now,
		}
		if err := db.Create(&conv).Error; err != nil {
			return conv, fmt.Errorf("create thread: %w", err)
		}
		return conv, nil
	}
	if err != nil {
		return conv, fmt.Errorf("find thread: %w", err)
	}
	return conv, nil
}
