package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/analytics"
)

// RedisSnapshotStore implements SnapshotStore using Redis. Snapshots are
// stored as whole JSON values, so a SET replaces the published snapshot in
// one step and concurrent readers never observe a partial refresh.
type RedisSnapshotStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSnapshotStore creates a Redis-backed snapshot store.
// A zero ttl keeps snapshots until the next refresh overwrites them.
func NewRedisSnapshotStore(cfg RedisConfig, ttl time.Duration) (*RedisSnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSnapshotStore{
		client:    client,
		keyPrefix: "analytics:snapshot:",
		ttl:       ttl,
	}, nil
}

// NewRedisSnapshotStoreWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisSnapshotStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSnapshotStore {
	if keyPrefix == "" {
		keyPrefix = "analytics:snapshot:"
	}
	return &RedisSnapshotStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *RedisSnapshotStore) key(tenantID uuid.UUID, period analytics.Period) string {
	return s.keyPrefix + tenantID.String() + ":" + period.String()
}

// Get returns the published snapshot or (nil, nil) when none exists
func (s *RedisSnapshotStore) Get(ctx context.Context, tenantID uuid.UUID, period analytics.Period) (*analytics.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(tenantID, period)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot analytics.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &snapshot, nil
}

// Put replaces the published snapshot for the tenant and period
func (s *RedisSnapshotStore) Put(ctx context.Context, snapshot *analytics.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.key(snapshot.TenantID, snapshot.Period), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	return nil
}

// Close closes the Redis client
func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}

var _ analytics.SnapshotStore = (*RedisSnapshotStore)(nil)
