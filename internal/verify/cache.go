package verify

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/email-enrich/internal/pkg/logger"
)

// Cache stores verification verdicts keyed by lowercase address.
// Entries are written once and never updated within a run.
type Cache interface {
	Get(ctx context.Context, email string) (deliverable bool, ok bool)
	Put(ctx context.Context, email string, deliverable bool)
}

// MemoryCache is the per-run verdict store.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]bool)}
}

func (m *MemoryCache) Get(_ context.Context, email string) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	deliverable, ok := m.items[email]
	return deliverable, ok
}

func (m *MemoryCache) Put(_ context.Context, email string, deliverable bool) {
	m.mu.Lock()
	m.items[email] = deliverable
	m.mu.Unlock()
}

// Len reports how many addresses have verdicts.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// RedisCache layers a shared Redis verdict store over the in-process
// map, so separate runs and parallel workers stop re-billing addresses
// the fleet already checked. Redis being unreachable silently degrades
// to memory-only behavior.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	local  *MemoryCache
}

// NewRedisCache wraps a Redis client. ttl bounds how long a verdict is
// trusted across runs; zero means 30 days.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisCache{client: client, ttl: ttl, local: NewMemoryCache()}
}

func (r *RedisCache) Get(ctx context.Context, email string) (bool, bool) {
	if deliverable, ok := r.local.Get(ctx, email); ok {
		return deliverable, true
	}
	val, err := r.client.Get(ctx, verifyKey(email)).Result()
	if err != nil {
		return false, false
	}
	deliverable := val == "1"
	r.local.Put(ctx, email, deliverable)
	return deliverable, true
}

func (r *RedisCache) Put(ctx context.Context, email string, deliverable bool) {
	r.local.Put(ctx, email, deliverable)
	val := "0"
	if deliverable {
		val = "1"
	}
	if err := r.client.Set(ctx, verifyKey(email), val, r.ttl).Err(); err != nil {
		logger.Debug("verify_cache_redis_unavailable", "error", err.Error())
	}
}

func verifyKey(email string) string { return "verify:" + email }
