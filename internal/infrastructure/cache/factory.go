package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/analytics"
	"github.com/Akhilesh2006s/gst-backend/internal/infrastructure/config"
)

// SnapshotStoreFactory creates snapshot stores based on configuration
type SnapshotStoreFactory struct {
	redisConfig           config.RedisConfig
	snapshotTTL           time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SnapshotStoreFactoryOption is a functional option for configuring the factory
type SnapshotStoreFactoryOption func(*SnapshotStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory store
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithSnapshotTTL sets the Redis expiry applied to published snapshots.
// A zero TTL keeps snapshots until overwritten.
func WithSnapshotTTL(ttl time.Duration) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.snapshotTTL = ttl
	}
}

// NewSnapshotStoreFactory creates a new factory
func NewSnapshotStoreFactory(cfg config.RedisConfig, opts ...SnapshotStoreFactoryOption) *SnapshotStoreFactory {
	f := &SnapshotStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based snapshot store
func (f *SnapshotStoreFactory) CreateRedisStore() (analytics.SnapshotStore, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	store, err := NewRedisSnapshotStore(redisCfg, f.snapshotTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis snapshot store: %w", err)
	}

	return store, nil
}

// CreateInMemoryStore creates an in-memory snapshot store.
// WARNING: in-memory stores do not share state across process instances;
// each instance serves only the snapshots it computed itself.
func (f *SnapshotStoreFactory) CreateInMemoryStore() analytics.SnapshotStore {
	return NewInMemorySnapshotStore()
}

// CreateStore creates a snapshot store based on whether Redis is available.
// When Redis is disabled in config or unreachable, it falls back to in-memory
// if AllowInMemoryFallback is true.
func (f *SnapshotStoreFactory) CreateStore() (analytics.SnapshotStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory snapshot store")
		return f.CreateInMemoryStore(), nil
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis snapshot store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for snapshots but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory snapshot store. "+
		"Instances will serve only locally computed snapshots.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
