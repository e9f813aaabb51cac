// Package ratelimit paces calls to billed provider APIs. A Pacer blocks
// until the next call is allowed to proceed, so call sites stay simple
// sequential loops. The local pacer is per-process; the Redis pacer
// shares one budget across enrichment workers hitting the same provider
// account.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Pacer gates external calls. Wait blocks until a call may proceed or
// the context is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Unlimited is a Pacer that never blocks. Used in tests and when pacing
// is disabled in config.
type Unlimited struct{}

// Wait returns immediately.
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }

// Local is a per-process token-bucket pacer.
type Local struct {
	limiter *rate.Limiter
}

// NewLocal creates a pacer allowing perMinute calls per minute with a
// burst of one, matching the original sleep-between-calls behavior.
// perMinute <= 0 disables pacing.
func NewLocal(perMinute int) Pacer {
	if perMinute <= 0 {
		return Unlimited{}
	}
	return &Local{
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
	}
}

// Wait blocks until the next call slot is available.
func (l *Local) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Redis is a cross-worker pacer backed by an atomic Lua counter.
// Prevents the race that a GET → check → INCR sequence would have when
// several workers share one provider account.
type Redis struct {
	redis     *redis.Client
	name      string
	perMinute int

	// Pre-compiled Lua script for atomicity
	windowScript *redis.Script
}

// Lua script for an atomic fixed-window check-and-increment.
const windowLuaScript = `
local key = KEYS[1]
local increment = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local current = tonumber(redis.call("GET", key) or "0")

if current + increment > limit then
    return {0, current}  -- denied
end

local newVal = redis.call("INCRBY", key, increment)
if newVal == increment then
    redis.call("EXPIRE", key, ttl)
end

return {1, newVal}  -- allowed
`

// NewRedis creates a shared pacer for the named provider budget.
func NewRedis(client *redis.Client, name string, perMinute int) *Redis {
	return &Redis{
		redis:        client,
		name:         name,
		perMinute:    perMinute,
		windowScript: redis.NewScript(windowLuaScript),
	}
}

// NewRedisFromURL creates a shared pacer by connecting to Redis.
func NewRedisFromURL(redisURL, name string, perMinute int) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.Printf("[ratelimit] Connected to Redis for %s budget", name)

	return NewRedis(client, name, perMinute), nil
}

// Wait blocks until the shared per-minute budget admits one call.
// Redis errors fail open: a broken limiter must not stall a batch, the
// provider's own 429 handling is the backstop.
func (r *Redis) Wait(ctx context.Context) error {
	if r.perMinute <= 0 {
		return ctx.Err()
	}

	for {
		allowed, waitTime, err := r.checkAndIncrement(ctx)
		if err != nil {
			log.Printf("[ratelimit] %s budget check error: %v", r.name, err)
			return nil
		}
		if allowed {
			return nil
		}

		timer := time.NewTimer(waitTime)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// checkAndIncrement atomically checks and increments the minute counter.
func (r *Redis) checkAndIncrement(ctx context.Context) (allowed bool, waitTime time.Duration, err error) {
	now := time.Now()
	key := fmt.Sprintf("ratelimit:%s:min:%d", r.name, now.Unix()/60)

	result, err := r.windowScript.Run(ctx, r.redis,
		[]string{key},
		1,
		r.perMinute,
		120, // 2 minute TTL
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowedInt := result[0].(int64)
	if allowedInt == 0 {
		// Window is full; wait for the minute to roll over.
		return false, time.Duration(60-now.Second()) * time.Second, nil
	}

	return true, 0, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.redis.Close()
}
