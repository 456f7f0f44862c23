package ledger

import (
	"context"
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
)

const (
	lockRetryAttempts = 3
	lockRetryBackoff  = 25 * time.Millisecond
)

// withOptimisticRetry runs fn, retrying a bounded number of times when the
// optimistic version check loses. Each attempt re-reads state, so a
// transition that became invalid in the meantime surfaces its own domain
// error rather than CONFLICT. After the last attempt the conflict is
// returned as-is.
func withOptimisticRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < lockRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(lockRetryBackoff * time.Duration(attempt)):
			}
		}
		err = fn(ctx)
		if !shared.IsCode(err, shared.CodeConflict) {
			return err
		}
	}
	return err
}
