package analytics

import (
	"context"
	"sync"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/analytics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RefreshJob names one tenant/period recomputation
type RefreshJob struct {
	TenantID uuid.UUID
	Period   analytics.Period
}

// Refresher runs snapshot recomputations on a bounded worker pool. The
// explicit update endpoint and the cron scheduler both enqueue here, so a
// burst of requests never runs more than `workers` computations at once.
type Refresher struct {
	service *AnalyticsService
	logger  *zap.Logger
	jobs    chan RefreshJob
	workers int
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// NewRefresher creates a Refresher with the given worker count and queue depth
func NewRefresher(service *AnalyticsService, workers, queueDepth int, logger *zap.Logger) *Refresher {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < workers {
		queueDepth = workers * 4
	}
	return &Refresher{
		service: service,
		logger:  logger,
		jobs:    make(chan RefreshJob, queueDepth),
		workers: workers,
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(ctx)
	}
}

// Stop waits for in-flight refreshes to finish. Call after cancelling the
// context passed to Start.
func (r *Refresher) Stop() {
	r.wg.Wait()
}

// Enqueue schedules a refresh without blocking. Returns false when the queue
// is full; the caller still gets an ack since the periodic scheduler will
// cover the period on its next tick.
func (r *Refresher) Enqueue(job RefreshJob) bool {
	select {
	case r.jobs <- job:
		return true
	default:
		r.logger.Warn("analytics refresh queue full, dropping job",
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("period", job.Period.String()))
		return false
	}
}

// EnqueueAllPeriods schedules every named period for a tenant
func (r *Refresher) EnqueueAllPeriods(tenantID uuid.UUID) {
	for _, period := range analytics.AllPeriods() {
		r.Enqueue(RefreshJob{TenantID: tenantID, Period: period})
	}
}

func (r *Refresher) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-r.jobs:
			if _, err := r.service.Refresh(ctx, job.TenantID, job.Period); err != nil {
				r.logger.Error("analytics refresh failed",
					zap.String("tenant_id", job.TenantID.String()),
					zap.String("period", job.Period.String()),
					zap.Error(err))
			}
		}
	}
}
