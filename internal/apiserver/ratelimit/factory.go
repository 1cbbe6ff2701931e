package ratelimit

import (
	"fmt"

	"github.com/sanigest/sanigest/internal/common/config"
	"go.uber.org/zap"
)

// NewLimiter creates a limiter based on configuration
func NewLimiter(logger *zap.Logger, cfg *config.RateLimitConfig) (Limiter, error) {
	logger.Info("initializing rate limiter",
		zap.String("type", cfg.Type),
		zap.Duration("window", cfg.Window),
		zap.Int64("max_attempts", cfg.MaxAttempts))

	lcfg := Config{Window: cfg.Window, MaxAttempts: cfg.MaxAttempts}
	switch cfg.Type {
	case "memory":
		return NewMemoryLimiter(lcfg), nil
	case "redis":
		return NewRedisLimiter(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password,
			cfg.Redis.DB, cfg.Redis.Prefix, lcfg)
	default:
		return nil, fmt.Errorf("unsupported rate limit type: %s", cfg.Type)
	}
}
