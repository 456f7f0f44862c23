package analytics

import (
	"context"

	"github.com/google/uuid"
)

// SnapshotStore publishes computed snapshots atomically: a Get during a
// concurrent Put returns either the previous complete snapshot or the new
// one, never a partial mix.
type SnapshotStore interface {
	// Get returns the published snapshot or (nil, nil) when none exists.
	Get(ctx context.Context, tenantID uuid.UUID, period Period) (*Snapshot, error)
	// Put replaces the published snapshot for the tenant and period.
	Put(ctx context.Context, snapshot *Snapshot) error
}
