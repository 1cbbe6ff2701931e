package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func newTestRedisLimiter(t *testing.T, cfg Config) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	l, err := NewRedisLimiter(mr.Addr(), "", "", 0, "test:", cfg)
	if err != nil {
		mr.Close()
		t.Fatalf("failed to create RedisLimiter: %v", err)
	}
	return l, mr
}

func TestRedisLimiter_Allow(t *testing.T) {
	l, mr := newTestRedisLimiter(t, Config{Window: time.Minute, MaxAttempts: 2})
	defer mr.Close()
	ctx := context.Background()

	ok, err := l.Allow(ctx, "k1")
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = l.Allow(ctx, "k1")
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = l.Allow(ctx, "k1")
	assert.NoError(t, err)
	assert.False(t, ok)

	// other keys are unaffected
	ok, err = l.Allow(ctx, "k2")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_WindowSlides(t *testing.T) {
	l, mr := newTestRedisLimiter(t, Config{Window: time.Minute, MaxAttempts: 1})
	defer mr.Close()
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err := l.Allow(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRedisLimiter_ConnectionError(t *testing.T) {
	l, err := NewRedisLimiter("127.0.0.1:0", "", "", 0, "", Config{Window: time.Minute, MaxAttempts: 1})
	assert.Nil(t, l)
	assert.Error(t, err)
}
