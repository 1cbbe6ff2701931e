package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	l := NewMemoryLimiter(Config{Window: time.Minute, MaxAttempts: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "k1")
		assert.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "k1")
	assert.NoError(t, err)
	assert.False(t, ok)

	// independent keys
	ok, err = l.Allow(ctx, "k2")
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, l.Close())
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	l := NewMemoryLimiter(Config{Window: 20 * time.Millisecond, MaxAttempts: 1})
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok)

	time.Sleep(30 * time.Millisecond)
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}
