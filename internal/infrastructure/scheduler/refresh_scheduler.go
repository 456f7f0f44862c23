package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/analytics"
)

// SnapshotRefresher enqueues snapshot recomputations. Implemented by the
// application-layer refresher worker pool.
type SnapshotRefresher interface {
	EnqueueAllPeriods(tenantID uuid.UUID)
}

// RefreshSchedulerConfig holds configuration for the periodic snapshot scheduler
type RefreshSchedulerConfig struct {
	Enabled bool
	// Interval between full refresh sweeps across all active tenants
	Interval time.Duration
}

// DefaultRefreshSchedulerConfig returns an hourly sweep configuration
func DefaultRefreshSchedulerConfig() RefreshSchedulerConfig {
	return RefreshSchedulerConfig{
		Enabled:  true,
		Interval: time.Hour,
	}
}

// RefreshScheduler periodically enqueues snapshot refreshes for every tenant
// with ledger activity, so dashboards stay warm without explicit updates.
type RefreshScheduler struct {
	config    RefreshSchedulerConfig
	refresher SnapshotRefresher
	tenants   analytics.TenantSource
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewRefreshScheduler creates a new periodic snapshot scheduler
func NewRefreshScheduler(
	config RefreshSchedulerConfig,
	refresher SnapshotRefresher,
	tenants analytics.TenantSource,
	logger *zap.Logger,
) (*RefreshScheduler, error) {
	if config.Interval <= 0 {
		return nil, ErrInvalidConfig
	}
	return &RefreshScheduler{
		config:    config,
		refresher: refresher,
		tenants:   tenants,
		logger:    logger,
	}, nil
}

// Start starts the scheduler loop. A disabled scheduler starts successfully
// but does nothing.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info("Snapshot refresh scheduler disabled")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	next := time.Now().Add(s.config.Interval)
	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Snapshot refresh scheduler started",
		zap.Duration("interval", s.config.Interval),
	)

	return nil
}

// Stop stops the scheduler and waits for the loop to exit
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Snapshot refresh scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Snapshot refresh scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *RefreshScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runSweep(ctx)

			next := time.Now().Add(s.config.Interval)
			s.mu.Lock()
			s.nextRunAt = &next
			s.mu.Unlock()
		}
	}
}

// runSweep enqueues all periods for every active tenant
func (s *RefreshScheduler) runSweep(ctx context.Context) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	tenantIDs, err := s.tenants.ActiveTenantIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list active tenants for snapshot refresh", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		s.refresher.EnqueueAllPeriods(tenantID)
	}

	s.logger.Info("Snapshot refresh sweep scheduled",
		zap.Int("tenant_count", len(tenantIDs)),
	)
}

// TriggerManualRun runs a sweep outside the regular schedule.
// Uses a background context so the sweep survives the HTTP request that
// triggered it.
func (s *RefreshScheduler) TriggerManualRun() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runSweep(context.Background())
	return nil
}

// GetStatus returns the current scheduler status
func (s *RefreshScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.config.Enabled,
		"is_running":  s.isRunning,
		"interval":    s.config.Interval.String(),
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
	}
}
