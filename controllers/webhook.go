package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	dbpkg "autobot/db"
	"autobot/models"
	"autobot/relay"
	"autobot/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// metaEnvelope covers the WhatsApp Cloud API and Instagram webhook
// shapes; only the fields the relay needs are mapped.
type metaEnvelope struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []struct {
					From string `json:"from"`
					ID   string `json:"id"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message struct {
				Mid  string `json:"mid"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// InboundMessage is the neutral shape both platforms reduce to.
type InboundMessage struct {
	Platform   string
	BusinessID string
	SenderID   string
	MessageID  string
	Text       string
}

func extractInbound(payload metaEnvelope) []InboundMessage {
	var out []InboundMessage

	switch payload.Object {
	case "whatsapp_business_account":
		for _, entry := range payload.Entry {
			for _, change := range entry.Changes {
				if strings.TrimSpace(change.Field) != "messages" && change.Field != "" {
					continue
				}
				for _, m := range change.Value.Messages {
					if strings.ToLower(strings.TrimSpace(m.Type)) != "text" {
						continue
					}
					body := strings.TrimSpace(m.Text.Body)
					if body == "" {
						continue
					}
					out = append(out, InboundMessage{
						Platform:   models.PLATFORM_WHATSAPP,
						BusinessID: strings.TrimSpace(entry.ID),
						SenderID:   strings.TrimSpace(m.From),
						MessageID:  strings.TrimSpace(m.ID),
						Text:       body,
					})
				}
			}
		}
	case "instagram":
		for _, entry := range payload.Entry {
			for _, m := range entry.Messaging {
				body := strings.TrimSpace(m.Message.Text)
				if body == "" || m.Sender.ID == "" {
					continue
				}
				out = append(out, InboundMessage{
					Platform:   models.PLATFORM_INSTAGRAM,
					BusinessID: strings.TrimSpace(entry.ID),
					SenderID:   strings.TrimSpace(m.Sender.ID),
					MessageID:  strings.TrimSpace(m.Message.Mid),
					Text:       body,
				})
			}
		}
	}

	return out
}

// GET /api/webhooks/meta
//
// Meta calls this once when the webhook is configured:
// ?hub.mode=subscribe&hub.verify_token=...&hub.challenge=...
func WebhookVerify(c *gin.Context) {
	if conf.Webhook.VerifyToken == "" {
		RespondError(c, "webhook verify token not configured", http.StatusInternalServerError)
		return
	}

	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == conf.Webhook.VerifyToken && challenge != "" {
		c.String(http.StatusOK, "%s", challenge)
		return
	}

	RespondError(c, "forbidden", http.StatusForbidden)
}

// POST /api/webhooks/meta
//
// The handler only validates, acks and enqueues. Meta retries deliveries
// that are not acked quickly, so the relay work happens in the worker;
// the dedup window collapses those retries before anything is debited.
func WebhookReceive(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, "failed to read body", http.StatusBadRequest)
		return
	}

	if conf.Webhook.AppSecret != "" {
		ok, reason := tools.VerifyMetaSignature(raw, c.GetHeader("X-Hub-Signature-256"), conf.Webhook.AppSecret)
		if !ok {
			log.Warn("webhook signature rejected", "reason", reason)
			RespondError(c, "forbidden", http.StatusForbidden)
			return
		}
	}

	var payload metaEnvelope
	if err := json.Unmarshal(raw, &payload); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}

	msgs := extractInbound(payload)

	// ack before processing; Meta only needs the 2xx
	c.String(http.StatusOK, "EVENT_RECEIVED")

	db := dbpkg.DBInstance(c)
	for _, m := range msgs {
		enqueueInbound(db, m)
	}
}

func enqueueInbound(db *gorm.DB, m InboundMessage) {
	// first claim on the message id wins; platform retries stop here
	if !window.Seen(context.Background(), m.MessageID) {
		log.Debug("duplicate webhook delivery dropped", "message_id", m.MessageID)
		return
	}

	tenant, _, _, err := engine.ResolveBusiness(m.Platform, m.BusinessID)
	if err != nil {
		// nobody to answer on the webhook path; log and drop
		if errors.Is(err, relay.ErrTenantNotFound) || errors.Is(err, relay.ErrTenantInactive) {
			log.Warn("inbound message dropped", "platform", m.Platform,
				"business_id", m.BusinessID, "reason", err.Error())
		} else {
			log.Error("inbound resolution failed", "platform", m.Platform,
				"business_id", m.BusinessID, "error", err)
		}
		return
	}

	ev := models.WebhookEvent{
		TenantID:  tenant.ID,
		Platform:  m.Platform,
		SenderID:  m.SenderID,
		MessageID: m.MessageID,
		Text:      m.Text,
		Status:    models.EVENT_STATUS_PENDING,
	}
	if err := db.Create(&ev).Error; err != nil {
		log.Error("enqueue inbound failed", "tenant_id", tenant.ID, "message_id", m.MessageID, "error", err)
	}
}
