package ratelimit

import (
	"context"
	"time"
)

// Limiter throttles authentication attempts per caller over a rolling
// window. This is IP+identity scoped and independent of the per-account
// lockout counter; the two defenses run side by side.
type Limiter interface {
	// Allow records one attempt for the key and reports whether it is
	// still inside the window's budget.
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// Config carries the window parameters shared by all implementations.
type Config struct {
	Window      time.Duration
	MaxAttempts int64
}
