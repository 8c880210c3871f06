package dedup

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemory_FirstClaimWins(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	if !m.Seen(ctx, "abc123") {
		t.Fatalf("first delivery must be a fresh claim")
	}
	if m.Seen(ctx, "abc123") {
		t.Fatalf("retry within TTL must be reported as already seen")
	}
	if !m.Seen(ctx, "other") {
		t.Fatalf("distinct ids must not collide")
	}
}

func TestMemory_ConcurrentClaims(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	const workers = 32
	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- m.Seen(ctx, "same-id")
		}()
	}
	wg.Wait()
	close(results)

	first := 0
	for ok := range results {
		if ok {
			first++
		}
	}
	if first != 1 {
		t.Fatalf("exactly one caller may win the first claim, got %d", first)
	}
}

func TestMemory_EntriesExpire(t *testing.T) {
	m := NewMemory(20 * time.Millisecond)
	ctx := context.Background()

	if !m.Seen(ctx, "short-lived") {
		t.Fatalf("first claim expected")
	}
	time.Sleep(40 * time.Millisecond)
	if !m.Seen(ctx, "short-lived") {
		t.Fatalf("expired entry must be claimable again")
	}
}

func TestMemory_EmptyIDIsNeverFresh(t *testing.T) {
	m := NewMemory(time.Minute)
	if !m.Seen(context.Background(), "") {
		t.Fatalf("empty ids pass through; there is nothing to dedup on")
	}
}
