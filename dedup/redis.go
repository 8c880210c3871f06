package dedup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autobot/logger"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "autobot:dedup:"

// Redis is the shared dedup window. SET NX EX is the atomic
// insert-if-absent, so the first claim holds across all instances.
type Redis struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedis(log *logger.Logger, addr string, ttl time.Duration) (*Redis, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{
		log: log.With("service", "RedisDedup"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (r *Redis) Seen(ctx context.Context, messageID string) bool {
	if messageID == "" {
		return true
	}

	ok, err := r.rdb.SetNX(ctx, keyPrefix+messageID, 1, r.ttl).Result()
	if err != nil {
		// Degraded: treat the event as first-seen rather than dropping
		// customer messages while redis is down.
		r.log.Warn("dedup setnx failed, passing event through", "error", err, "message_id", messageID)
		return true
	}
	return ok
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
