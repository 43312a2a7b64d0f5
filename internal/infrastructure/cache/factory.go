package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/config"
)

// IdempotencyStoreFactory picks the idempotency store for the configuration
type IdempotencyStoreFactory struct {
	redisConfig           config.RedisConfig
	cleanupInterval       time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(context.Context, RedisConfig) (shared.IdempotencyStore, error)
}

// IdempotencyStoreFactoryOption configures the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory store. Defaults to true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithCleanupInterval sets the in-memory store's cleanup interval
func WithCleanupInterval(d time.Duration) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.cleanupInterval = d
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect: func(ctx context.Context, cfg RedisConfig) (shared.IdempotencyStore, error) {
			return NewRedisIdempotencyStore(ctx, cfg)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis store when Redis is enabled and reachable,
// otherwise the in-memory store
func (f *IdempotencyStoreFactory) CreateStore(ctx context.Context) (shared.IdempotencyStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(f.cleanupInterval), nil
	}

	store, err := f.connect(ctx, RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis idempotency store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"Retries routed to another instance will not be deduplicated.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(f.cleanupInterval), nil
}
