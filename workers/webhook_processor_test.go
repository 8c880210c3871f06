package workers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	dbpkg "autobot/db"
	"autobot/logger"
	"autobot/models"
	"autobot/relay"
	"autobot/tools"

	"github.com/jinzhu/gorm"
)

func setupWorker(t *testing.T) (*gorm.DB, *relay.Engine) {
	t.Helper()

	db, err := gorm.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.DB().SetMaxOpenConns(1)
	dbpkg.AutoMigrate(db)
	t.Cleanup(func() { db.Close() })

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]any{"content": "worker reply"}})
	}))
	t.Cleanup(gateway.Close)

	ai := tools.NewAIClient(gateway.URL, "llama3", 5*time.Second)
	return db, relay.New(db, ai, logger.Nop())
}

func seedEvent(t *testing.T, db *gorm.DB, balance int64, botStatus string) models.WebhookEvent {
	t.Helper()
	tenant := models.Tenant{Name: "Acme", Email: "owner@acme.test", ApiKey: "k-acme", Credits: balance}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	bot := models.BotConfig{TenantID: tenant.ID, Status: botStatus, Model: "llama3", BusinessName: "Acme"}
	if err := db.Create(&bot).Error; err != nil {
		t.Fatalf("create bot config: %v", err)
	}
	ev := models.WebhookEvent{
		TenantID:  tenant.ID,
		Platform:  models.PLATFORM_WHATSAPP,
		SenderID:  "5511999990000",
		MessageID: "wamid.w1",
		Text:      "do you deliver?",
		Status:    models.EVENT_STATUS_PENDING,
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	return ev
}

func waitForStatus(t *testing.T, db *gorm.DB, eventID int64, want string) models.WebhookEvent {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var ev models.WebhookEvent
		if err := db.First(&ev, eventID).Error; err == nil && ev.Status == want {
			return ev
		}
		time.Sleep(20 * time.Millisecond)
	}
	var ev models.WebhookEvent
	db.First(&ev, eventID)
	t.Fatalf("event never reached %q, stuck at %q (reason=%q)", want, ev.Status, ev.FailureReason)
	return ev
}

func TestProcessPendingEvents_CompletesEvent(t *testing.T) {
	db, engine := setupWorker(t)
	ev := seedEvent(t, db, 50, models.BOT_STATUS_ACTIVE)

	processPendingEvents(db, engine, logger.Nop())

	done := waitForStatus(t, db, ev.ID, models.EVENT_STATUS_DONE)
	if done.ReplyText != "worker reply" {
		t.Fatalf("reply not recorded on the event row: %+v", done)
	}
	if done.ProcessedAt == nil {
		t.Fatalf("processed_at must be set")
	}

	var tenant models.Tenant
	db.First(&tenant, ev.TenantID)
	if tenant.Credits != 45 {
		t.Fatalf("expected one debit (50-5), got balance %d", tenant.Credits)
	}
}

func TestProcessPendingEvents_ClaimIsExclusive(t *testing.T) {
	db, engine := setupWorker(t)
	ev := seedEvent(t, db, 50, models.BOT_STATUS_ACTIVE)

	// two sweeps over the same pending set: the second must find the
	// event already claimed and run nothing
	processPendingEvents(db, engine, logger.Nop())
	processPendingEvents(db, engine, logger.Nop())

	waitForStatus(t, db, ev.ID, models.EVENT_STATUS_DONE)

	var tenant models.Tenant
	db.First(&tenant, ev.TenantID)
	if tenant.Credits != 45 {
		t.Fatalf("double claim caused a double debit: balance %d", tenant.Credits)
	}
}

func TestProcessPendingEvents_FailureRecorded(t *testing.T) {
	db, engine := setupWorker(t)
	ev := seedEvent(t, db, 50, models.BOT_STATUS_DRAFT)

	processPendingEvents(db, engine, logger.Nop())

	failed := waitForStatus(t, db, ev.ID, models.EVENT_STATUS_FAILED)
	if failed.FailureReason == "" {
		t.Fatalf("failure reason must be recorded")
	}

	var tenant models.Tenant
	db.First(&tenant, ev.TenantID)
	if tenant.Credits != 50 {
		t.Fatalf("an inactive bot must not cost anything, got balance %d", tenant.Credits)
	}
}
