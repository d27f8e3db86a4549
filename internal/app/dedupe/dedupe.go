// Package dedupe suppresses redelivered webhook events.
package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "carebot:event:"

// Guard reports whether an event id is seen for the first time.
type Guard interface {
	FirstSeen(ctx context.Context, eventID string) bool
	Ping(ctx context.Context) error
}

// NopGuard treats every event as new.
type NopGuard struct{}

func (NopGuard) FirstSeen(context.Context, string) bool { return true }
func (NopGuard) Ping(context.Context) error             { return nil }

type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisGuard marks event ids with SETNX and a TTL.
type RedisGuard struct {
	client redisClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisGuard(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisGuard {
	return newRedisGuard(client, ttl, logger)
}

func newRedisGuard(client redisClient, ttl time.Duration, logger *zap.Logger) *RedisGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisGuard{client: client, ttl: ttl, logger: logger}
}

// FirstSeen fails open: when redis is unreachable the event is processed.
func (g *RedisGuard) FirstSeen(ctx context.Context, eventID string) bool {
	if eventID == "" {
		return true
	}
	ok, err := g.client.SetNX(ctx, keyPrefix+eventID, 1, g.ttl).Result()
	if err != nil {
		g.logger.Warn("event de-duplication unavailable", zap.String("event_id", eventID), zap.Error(err))
		return true
	}
	return ok
}

func (g *RedisGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}
