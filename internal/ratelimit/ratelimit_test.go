package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLimiter_Allow(t *testing.T) {
	l := NewInMemoryLimiter(0.001, 2)

	assert.True(t, l.Allow("vk"))
	assert.True(t, l.Allow("vk"))
	assert.False(t, l.Allow("vk"), "burst exhausted")
	assert.True(t, l.Allow("telegram"), "keys have separate buckets")
}

func TestInMemoryLimiter_Unlimited(t *testing.T) {
	l := NewInMemoryLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("vk"))
	}
}

func TestInMemoryLimiter_WaitHonoursContext(t *testing.T) {
	l := NewInMemoryLimiter(0.001, 1)
	require.NoError(t, l.Wait(context.Background(), "vk"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "vk"))
}
