package ledger

import (
	"fmt"
	"path/filepath"
	"testing"

	dbpkg "autobot/db"
	"autobot/models"

	"github.com/jinzhu/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.DB().SetMaxOpenConns(1)
	dbpkg.AutoMigrate(db)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecentWindow_EmptyThread(t *testing.T) {
	db := openTestDB(t)

	turns, err := RecentWindow(db, 1, "nobody", WindowLimit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty window, got %d turns", len(turns))
	}
}

func TestAppendExchange_CreatesThreadOnFirstContact(t *testing.T) {
	db := openTestDB(t)

	if err := AppendExchange(db, 1, "maria", "hi", "hello, how can I help?"); err != nil {
		t.Fatalf("append: %v", err)
	}

	var conv models.Conversation
	if err := db.Where("tenant_id = ? AND customer_identifier = ?", 1, "maria").First(&conv).Error; err != nil {
		t.Fatalf("thread not created: %v", err)
	}
	if conv.LastInteractionAt == nil {
		t.Fatalf("last_interaction_at not set")
	}

	turns, err := RecentWindow(db, 1, "maria", WindowLimit)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns got %d", len(turns))
	}
	if turns[0].Speaker != models.MESSAGE_ROLE_CUSTOMER || turns[0].Text != "hi" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Speaker != models.MESSAGE_ROLE_ASSISTANT {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

// 10 exchanges (20 messages) -> window of 6 holds exactly the last 6, in
// original order.
func TestRecentWindow_BoundAndOrder(t *testing.T) {
	db := openTestDB(t)

	for i := 1; i <= 10; i++ {
		q := fmt.Sprintf("question %d", i)
		a := fmt.Sprintf("answer %d", i)
		if err := AppendExchange(db, 7, "joao", q, a); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	turns, err := RecentWindow(db, 7, "joao", 6)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(turns) != 6 {
		t.Fatalf("expected 6 turns got %d", len(turns))
	}

	want := []string{"question 8", "answer 8", "question 9", "answer 9", "question 10", "answer 10"}
	for i, w := range want {
		if turns[i].Text != w {
			t.Fatalf("turn %d: expected %q got %q", i, w, turns[i].Text)
		}
	}
}

func TestRecentWindow_ThreadsAreIsolated(t *testing.T) {
	db := openTestDB(t)

	if err := AppendExchange(db, 1, "ana", "a?", "a!"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := AppendExchange(db, 1, "bob", "b?", "b!"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := AppendExchange(db, 2, "ana", "other tenant", "ok"); err != nil {
		t.Fatalf("append: %v", err)
	}

	turns, err := RecentWindow(db, 1, "ana", WindowLimit)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(turns) != 2 || turns[0].Text != "a?" {
		t.Fatalf("thread leaked across keys: %+v", turns)
	}
}

func TestHistory_MostRecentFirst(t *testing.T) {
	db := openTestDB(t)

	if err := AppendExchange(db, 3, "first", "q", "a"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := AppendExchange(db, 3, "second", "q", "a"); err != nil {
		t.Fatalf("append: %v", err)
	}
	// touch the first thread again so it becomes the most recent
	if err := AppendExchange(db, 3, "first", "q2", "a2"); err != nil {
		t.Fatalf("append: %v", err)
	}

	convs, err := History(db, 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 threads got %d", len(convs))
	}
}
