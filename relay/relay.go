// Package relay orchestrates one metered exchange: resolve tenant,
// debit credits, assemble the grounded prompt, call the inference
// gateway and deliver or return the reply. The single most important
// contract here is debit/refund symmetry: a tenant is never charged for
// a reply that was not produced, and never allowed past its balance by
// concurrent requests.
package relay

import (
	"context"
	"fmt"
	"strings"

	"autobot/credits"
	"autobot/ledger"
	"autobot/logger"
	"autobot/models"
	"autobot/tools"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

type Engine struct {
	db      *gorm.DB
	ai      *tools.AIClient
	log     *logger.Logger
	threads *threadLocks
}

func New(db *gorm.DB, ai *tools.AIClient, log *logger.Logger) *Engine {
	return &Engine{
		db:      db,
		ai:      ai,
		log:     log.With("service", "Relay"),
		threads: newThreadLocks(),
	}
}

// Usage reports what one exchange cost the tenant.
type Usage struct {
	Debited   int64 `json:"debited"`
	Remaining int64 `json:"remainingCredits"`
}

// ResolveTenant loads the tenant and its bot configuration and enforces
// the activation precondition. The gateway is never called for a tenant
// whose bot is not active.
func (e *Engine) ResolveTenant(tenantID int64) (models.Tenant, models.BotConfig, error) {
	var tenant models.Tenant
	if err := e.db.First(&tenant, tenantID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return tenant, models.BotConfig{}, ErrTenantNotFound
		}
		return tenant, models.BotConfig{}, fmt.Errorf("load tenant %d: %w", tenantID, err)
	}

	var bot models.BotConfig
	if err := e.db.Where("tenant_id = ?", tenantID).First(&bot).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return tenant, bot, ErrTenantNotFound
		}
		return tenant, bot, fmt.Errorf("load bot config %d: %w", tenantID, err)
	}

	if !bot.IsActive() {
		return tenant, bot, ErrTenantInactive
	}
	return tenant, bot, nil
}

// ResolveBusiness maps a webhook business-account id to a tenant. The
// lookup key is (platform, business id) against the matching
// SocialConfig column, written at settings-save time. No fallbacks.
func (e *Engine) ResolveBusiness(platform, businessID string) (models.Tenant, models.BotConfig, models.SocialConfig, error) {
	var social models.SocialConfig

	query := e.db
	switch platform {
	case models.PLATFORM_WHATSAPP:
		query = query.Where("whatsapp_business_id = ? AND whatsapp_enabled = ?", businessID, true)
	case models.PLATFORM_INSTAGRAM:
		query = query.Where("instagram_business_id = ? AND instagram_enabled = ?", businessID, true)
	default:
		return models.Tenant{}, models.BotConfig{}, social, fmt.Errorf("unknown platform %q", platform)
	}

	if err := query.First(&social).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return models.Tenant{}, models.BotConfig{}, social, ErrTenantNotFound
		}
		return models.Tenant{}, models.BotConfig{}, social, fmt.Errorf("resolve business %s/%s: %w", platform, businessID, err)
	}

	tenant, bot, err := e.ResolveTenant(social.TenantID)
	return tenant, bot, social, err
}

// Complete serves the tenant-authenticated chat endpoint. The caller
// supplies its own history, so nothing is written to the ledger.
func (e *Engine) Complete(ctx context.Context, tenant models.Tenant, messages []tools.ChatMessage, modelOverride string) (string, Usage, error) {
	var bot models.BotConfig
	if err := e.db.Where("tenant_id = ?", tenant.ID).First(&bot).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return "", Usage{}, ErrTenantNotFound
		}
		return "", Usage{}, fmt.Errorf("load bot config %d: %w", tenant.ID, err)
	}
	if !bot.IsActive() {
		return "", Usage{}, ErrTenantInactive
	}
	if len(messages) == 0 {
		return "", Usage{}, ErrEmptyMessage
	}

	remaining, err := credits.TryDebit(e.db, tenant.ID, credits.ChatCost)
	if err != nil {
		return "", Usage{}, err
	}

	model := modelOverride
	if strings.TrimSpace(model) == "" {
		model = bot.Model
	}

	prompt := make([]tools.ChatMessage, 0, len(messages)+1)
	prompt = append(prompt, tools.ChatMessage{Role: "system", Content: SystemContent(bot.SystemPrompt, bot.KnowledgeText)})
	prompt = append(prompt, messages...)

	reply, err := e.infer(ctx, tenant.ID, model, prompt)
	if err != nil {
		return "", Usage{}, err
	}
	return reply, Usage{Debited: credits.ChatCost, Remaining: remaining}, nil
}

// PublicChat serves the no-login widget endpoint: full pipeline with
// conversation memory and lead capture. Returns the customer identifier
// so first-time callers can keep their thread on the next message.
func (e *Engine) PublicChat(ctx context.Context, tenantID int64, message, customerName string) (string, int64, string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", 0, "", ErrEmptyMessage
	}

	tenant, bot, err := e.ResolveTenant(tenantID)
	if err != nil {
		return "", 0, "", err
	}

	customerID := strings.TrimSpace(customerName)
	if customerID == "" {
		customerID = "guest-" + uuid.NewString()
	}

	reply, remaining, err := e.converse(ctx, tenant, bot, customerID, message)
	if err != nil {
		return "", 0, "", err
	}
	return reply, remaining, customerID, nil
}

// HandleInbound runs the pipeline for one webhook-sourced message and
// pushes the reply back through the platform. Called by the worker, not
// by the HTTP handler.
func (e *Engine) HandleInbound(ctx context.Context, ev models.WebhookEvent) (string, error) {
	tenant, bot, err := e.ResolveTenant(ev.TenantID)
	if err != nil {
		return "", err
	}

	reply, _, err := e.converse(ctx, tenant, bot, ev.SenderID, ev.Text)
	if err != nil {
		return "", err
	}

	// Delivery failures do not refund: the inference cost was incurred.
	if err := e.deliver(ctx, ev, reply); err != nil {
		e.log.Error("delivery failed", "tenant_id", ev.TenantID, "platform", ev.Platform,
			"sender_id", ev.SenderID, "error", err)
	}
	return reply, nil
}

// converse is the shared debit → window → infer → append pipeline.
func (e *Engine) converse(ctx context.Context, tenant models.Tenant, bot models.BotConfig, customerID, message string) (string, int64, error) {
	remaining, err := credits.TryDebit(e.db, tenant.ID, credits.ChatCost)
	if err != nil {
		return "", 0, err
	}

	threadKey := fmt.Sprintf("%d/%s", tenant.ID, customerID)

	e.threads.lock(threadKey)
	window, err := ledger.RecentWindow(e.db, tenant.ID, customerID, ledger.WindowLimit)
	e.threads.unlock(threadKey)
	if err != nil {
		// memory is best-effort: degrade to an empty window
		e.log.Warn("recent window unavailable", "tenant_id", tenant.ID, "customer", customerID, "error", err)
		window = nil
	}

	prompt := BuildMessages(SystemContent(bot.SystemPrompt, bot.KnowledgeText), window, message)

	reply, err := e.infer(ctx, tenant.ID, bot.Model, prompt)
	if err != nil {
		return "", 0, err
	}

	e.threads.lock(threadKey)
	if err := ledger.AppendExchange(e.db, tenant.ID, customerID, message, reply); err != nil {
		e.log.Warn("exchange not recorded", "tenant_id", tenant.ID, "customer", customerID, "error", err)
	}
	e.threads.unlock(threadKey)

	e.captureLead(tenant.ID, customerID, message)

	return reply, remaining, nil
}

// infer calls the gateway and owns the refund on failure. The call runs
// on a context detached from the request: once the debit happened, a
// client disconnect must not abandon the exchange mid-flight, or the
// balance would silently leak.
func (e *Engine) infer(ctx context.Context, tenantID int64, model string, prompt []tools.ChatMessage) (string, error) {
	reply, err := e.ai.Chat(context.WithoutCancel(ctx), model, prompt)
	if err != nil {
		e.log.Error("inference failed, refunding", "tenant_id", tenantID, "error", err)
		if rerr := credits.Refund(e.db, tenantID, credits.ChatCost); rerr != nil {
			e.log.Error("refund failed", "tenant_id", tenantID, "error", rerr)
		}
		return "", fmt.Errorf("%w: %v", ErrInferenceUnavailable, err)
	}
	return reply, nil
}

func (e *Engine) deliver(ctx context.Context, ev models.WebhookEvent, reply string) error {
	var social models.SocialConfig
	if err := e.db.Where("tenant_id = ?", ev.TenantID).First(&social).Error; err != nil {
		return fmt.Errorf("load social config %d: %w", ev.TenantID, err)
	}

	switch ev.Platform {
	case models.PLATFORM_WHATSAPP:
		client := tools.WhatsAppClient{
			AccessToken:   social.WhatsappAccessToken,
			ApiVersion:    social.ApiVersion,
			PhoneNumberID: social.WhatsappPhoneID,
		}
		return client.SendText(ctx, ev.SenderID, reply)
	case models.PLATFORM_INSTAGRAM:
		client := tools.InstagramClient{
			AccessToken: social.InstagramAccessToken,
			ApiVersion:  social.ApiVersion,
		}
		return client.SendText(ctx, ev.SenderID, reply)
	}
	return fmt.Errorf("unknown platform %q", ev.Platform)
}
