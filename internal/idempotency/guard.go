// Package idempotency serialises work that must not run twice at the same
// time, such as generating bills for one meter reading.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Guard hands out short-lived exclusive locks by key.  Acquire reports
// ok=false when another holder owns the key; the returned release func is
// only meaningful when ok is true.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

// releaseScript deletes the key only when it still carries our token, so
// a holder whose lock expired cannot free someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard implements Guard with SET NX PX.
type RedisGuard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisGuard returns a Redis-backed guard.  A nil client yields a
// NoopGuard so deployments without Redis keep working, with the database
// unique index as the only duplicate protection.
func NewRedisGuard(client *redis.Client, prefix string, ttl time.Duration) Guard {
	if client == nil {
		return NoopGuard{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{client: client, prefix: prefix, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), bool, error) {
	full := g.prefix + key
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, full, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", full, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// The request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, g.client, []string{full}, token).Err()
	}
	return release, true, nil
}

// NoopGuard always grants the lock.
type NoopGuard struct{}

func (NoopGuard) Acquire(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}
