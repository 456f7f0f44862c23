package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/analytics"
)

// InMemorySnapshotStore implements SnapshotStore with a process-local map.
// Suitable for single-instance deployments and testing. Put swaps the stored
// pointer under the lock, so readers see either the old snapshot or the new
// one, never a mix.
type InMemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*analytics.Snapshot
}

// NewInMemorySnapshotStore creates a new in-memory snapshot store
func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{
		snapshots: make(map[string]*analytics.Snapshot),
	}
}

func snapshotKey(tenantID uuid.UUID, period analytics.Period) string {
	return tenantID.String() + ":" + period.String()
}

// Get returns the published snapshot or (nil, nil) when none exists
func (s *InMemorySnapshotStore) Get(_ context.Context, tenantID uuid.UUID, period analytics.Period) (*analytics.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[snapshotKey(tenantID, period)], nil
}

// Put replaces the published snapshot for the tenant and period
func (s *InMemorySnapshotStore) Put(_ context.Context, snapshot *analytics.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshotKey(snapshot.TenantID, snapshot.Period)] = snapshot
	return nil
}

var _ analytics.SnapshotStore = (*InMemorySnapshotStore)(nil)
