package runstates

import (
	"context"
	"time"
)

// RunStateManager tracks scrape runs across dispatcher nodes. Counter updates
// and slot operations are atomic. Scrape workers decrement the active-task
// counters through the same Redis key namespace as they finish tasks.
type RunStateManager interface {
	IncrementActiveTasks(ctx context.Context, runID string) (int64, error)
	GetActiveTasks(ctx context.Context, runID string) (int64, error)
	SetLastRun(ctx context.Context, jurisdiction string, at time.Time) error
	GetLastRun(ctx context.Context, jurisdiction string) (time.Time, error)
	AcquireRunCompletionLock(ctx context.Context, runID string, ttl time.Duration) (bool, error)
	ReleaseRunCompletionLock(ctx context.Context, runID string) error
	AcquireRunSlot(ctx context.Context, maxConcurrent int) (bool, error)
	ReleaseRunSlot(ctx context.Context) error
	CleanupRun(ctx context.Context, runID string) error
	Stop(ctx context.Context) error
}
