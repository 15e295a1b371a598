package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Idempotency backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// NewIdempotencyStore builds the store selected by cfg.Backend. The redis
// backend requires a connected client; memory ignores it.
func NewIdempotencyStore(cfg config.IdempotencyConfig, client redis.UniversalClient, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("idempotency backend %q requires a Redis client", cfg.Backend)
		}
		logger.Info("Using Redis idempotency store", zap.String("prefix", cfg.Prefix))
		return NewRedisIdempotencyStore(client, cfg.Prefix), nil
	case BackendMemory, "":
		logger.Warn("Using in-memory idempotency store; duplicate requests are only detected per instance")
		return NewInMemoryIdempotencyStore(), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.Backend)
	}
}
