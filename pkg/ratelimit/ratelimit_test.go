package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLimiterWithoutRedis verifies a limiter with no backing store never blocks.
func TestLimiterWithoutRedis(t *testing.T) {
	l := New(nil)
	ctx := context.Background()
	id := uuid.New()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, id, "generate_story", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ttl, err := l.TTL(ctx, id, "generate_story")
	require.NoError(t, err)
	assert.Zero(t, ttl)
	assert.NoError(t, l.Clear(ctx, id, "generate_story"))
}

// TestKeyFormat verifies the redis key layout.
func TestKeyFormat(t *testing.T) {
	id := uuid.MustParse("7b1e4c0a-9d2f-4a55-8f0e-2f1c7d9a1b22")
	assert.Equal(t, "rate_limit:user:7b1e4c0a-9d2f-4a55-8f0e-2f1c7d9a1b22:ai", key(id, "ai"))
}
