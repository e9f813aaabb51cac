package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPacerAllowsFirstCallImmediately(t *testing.T) {
	p := NewLocal(60)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestLocalPacerDisabled(t *testing.T) {
	p := NewLocal(0)

	for i := 0; i < 100; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
}

func TestRedisPacerSharesBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewRedis(client, "verify", 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := p.checkAndIncrement(ctx)
		require.NoError(t, err)
		assert.True(t, allowed, "call %d should be within budget", i+1)
	}

	allowed, waitTime, err := p.checkAndIncrement(ctx)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, waitTime, time.Duration(0))
}

func TestRedisPacerFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	p := NewRedis(client, "verify", 1)

	mr.Close()

	// A dead Redis must not block the batch.
	require.NoError(t, p.Wait(context.Background()))
}
