package storage

import (
	"fmt"

	"github.com/sanigest/sanigest/internal/common/config"
	"go.uber.org/zap"
)

// NewStore creates a refresh token store based on configuration. The store
// type follows the rate-limit backend so a single redis instance serves both.
func NewStore(logger *zap.Logger, cfg *config.RateLimitConfig) (Store, error) {
	logger.Info("initializing refresh token storage", zap.String("type", cfg.Type))
	switch cfg.Type {
	case "memory":
		return NewMemoryStorage(), nil
	case "redis":
		return NewRedisStorage(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
