package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implements Limiter with per-key attempt timestamps guarded
// by a mutex. Suitable for single-instance deployments.
type MemoryLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	cfg      Config
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter creates a new in-memory limiter
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		attempts: make(map[string][]time.Time),
		cfg:      cfg,
	}
}

// Allow records an attempt and reports whether the key is within budget
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.cfg.Window)

	kept := l.attempts[key][:0]
	for _, t := range l.attempts[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if int64(len(kept)) >= l.cfg.MaxAttempts {
		l.attempts[key] = kept
		return false, nil
	}

	l.attempts[key] = append(kept, now)
	return true, nil
}

// Close is a no-op for the memory limiter
func (l *MemoryLimiter) Close() error {
	return nil
}
