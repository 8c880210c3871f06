// Package dedup suppresses duplicate processing of platform webhook
// retries. The only correctness requirement is atomic insert-if-absent:
// of N concurrent deliveries of the same message id, exactly one caller
// gets the first claim.
package dedup

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL covers the window in which Meta retries a delivery that was
// not acked fast enough. Entries are worthless after that.
const DefaultTTL = 60 * time.Second

// Store records message ids for a short TTL.
type Store interface {
	// Seen returns true if this call is the first claim on messageID
	// within the TTL, recording it; false if it was already claimed.
	Seen(ctx context.Context, messageID string) bool
}

// Memory is the in-process fallback store. Correct only for
// single-instance deployments; multi-instance setups need the redis
// store so the window is shared.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{ttl: ttl, entries: make(map[string]time.Time)}
	go m.janitor()
	return m
}

func (m *Memory) Seen(_ context.Context, messageID string) bool {
	if messageID == "" {
		return true
	}
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if exp, ok := m.entries[messageID]; ok && now.Before(exp) {
		return false
	}
	m.entries[messageID] = now.Add(m.ttl)
	return true
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.ttl)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		m.mu.Lock()
		for id, exp := range m.entries {
			if now.After(exp) {
				delete(m.entries, id)
			}
		}
		m.mu.Unlock()
	}
}
