package workers

import (
	"context"
	"time"

	"autobot/logger"
	"autobot/models"
	"autobot/relay"

	"github.com/jinzhu/gorm"
)

// StartWebhookProcessor runs the loop that executes enqueued inbound
// events through the relay. The webhook handler only acks and enqueues;
// this worker is where the debit/infer/deliver pipeline actually runs,
// so its outcome lands on the event row instead of vanishing in a
// fire-and-forget goroutine.
func StartWebhookProcessor(db *gorm.DB, engine *relay.Engine, log *logger.Logger) {
	wlog := log.With("service", "WebhookProcessor")
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			processPendingEvents(db, engine, wlog)
		}
	}()
}

func processPendingEvents(db *gorm.DB, engine *relay.Engine, log *logger.Logger) {
	var events []models.WebhookEvent
	if err := db.
		Where("status = ?", models.EVENT_STATUS_PENDING).
		Order("id asc").
		Limit(50).
		Find(&events).Error; err != nil {
		log.Error("query pending events failed", "error", err)
		return
	}

	for _, ev := range events {
		// optimistic claim: only the worker that flips the status runs it
		res := db.Model(&models.WebhookEvent{}).
			Where("id = ? AND status = ?", ev.ID, models.EVENT_STATUS_PENDING).
			Update("status", models.EVENT_STATUS_PROCESSING)
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}

		go handleEvent(db, engine, log, ev.ID)
	}
}

func handleEvent(db *gorm.DB, engine *relay.Engine, log *logger.Logger, eventID int64) {
	var ev models.WebhookEvent
	if err := db.First(&ev, eventID).Error; err != nil {
		return
	}
	if ev.Status != models.EVENT_STATUS_PROCESSING {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reply, err := engine.HandleInbound(ctx, ev)

	now := time.Now()
	if err != nil {
		// fail-silent toward the customer; the tenant was refunded where due
		log.Warn("inbound event failed", "event_id", ev.ID, "tenant_id", ev.TenantID, "error", err)
		_ = db.Model(&models.WebhookEvent{}).Where("id = ?", ev.ID).Updates(map[string]any{
			"status":         models.EVENT_STATUS_FAILED,
			"processed_at":   &now,
			"failure_reason": err.Error(),
		}).Error
		return
	}

	_ = db.Model(&models.WebhookEvent{}).Where("id = ?", ev.ID).Updates(map[string]any{
		"status":       models.EVENT_STATUS_DONE,
		"processed_at": &now,
		"reply_text":   reply,
	}).Error
}
