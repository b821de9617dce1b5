package runstates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	activeTasksKeyPrefix       = "run:active_tasks:"
	runCompletionLockKeyPrefix = "run:completion_lock:"
	lastRunKeyPrefix           = "jurisdiction:last_run:"
	runSemaphoreKey            = "dispatcher:run_semaphore"

	DefaultRunStateTTL = 24 * time.Hour
	LockTTL            = 30 * time.Second
)

type RedisRunStateManager struct {
	client *redis.Client
	logger *zap.SugaredLogger
	nodeID string
}

func NewRedisRunStateManager(client *redis.Client, logger *zap.SugaredLogger, nodeID string) *RedisRunStateManager {
	return &RedisRunStateManager{
		client: client,
		logger: logger,
		nodeID: nodeID,
	}
}

func activeTasksKey(runID string) string {
	return activeTasksKeyPrefix + runID
}

func completionLockKey(runID string) string {
	return runCompletionLockKeyPrefix + runID
}

func lastRunKey(jurisdiction string) string {
	return lastRunKeyPrefix + jurisdiction
}

func (m *RedisRunStateManager) IncrementActiveTasks(ctx context.Context, runID string) (int64, error) {
	key := activeTasksKey(runID)
	val, err := m.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment active tasks: %w", err)
	}

	if val == 1 {
		m.client.Expire(ctx, key, DefaultRunStateTTL)
	}

	return val, nil
}

func (m *RedisRunStateManager) GetActiveTasks(ctx context.Context, runID string) (int64, error) {
	key := activeTasksKey(runID)

	val, err := m.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get active tasks: %w", err)
	}
	return val, nil
}

// SetLastRun records when a jurisdiction was last dispatched, so the scheduler
// does not queue it again before the interval elapses.
func (m *RedisRunStateManager) SetLastRun(ctx context.Context, jurisdiction string, at time.Time) error {
	err := m.client.Set(ctx, lastRunKey(jurisdiction), at.UTC().Format(time.RFC3339), 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set last run for %q: %w", jurisdiction, err)
	}
	return nil
}

// GetLastRun returns the zero time when the jurisdiction has never run.
func (m *RedisRunStateManager) GetLastRun(ctx context.Context, jurisdiction string) (time.Time, error) {
	val, err := m.client.Get(ctx, lastRunKey(jurisdiction)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last run for %q: %w", jurisdiction, err)
	}

	at, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last run for %q: %w", jurisdiction, err)
	}
	return at, nil
}

func (m *RedisRunStateManager) AcquireRunCompletionLock(ctx context.Context, runID string, ttl time.Duration) (bool, error) {
	key := completionLockKey(runID)

	acquired, err := m.client.SetNX(ctx, key, m.nodeID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire completion lock: %w", err)
	}

	if acquired {
		m.logger.Debugw("Acquired run completion lock", "runID", runID, "nodeID", m.nodeID)
	}

	return acquired, nil
}

func (m *RedisRunStateManager) ReleaseRunCompletionLock(ctx context.Context, runID string) error {
	key := completionLockKey(runID)

	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	_, err := script.Run(ctx, m.client, []string{key}, m.nodeID).Result()
	if err != nil {
		return fmt.Errorf("failed to release completion lock: %w", err)
	}

	return nil
}

func (m *RedisRunStateManager) AcquireRunSlot(ctx context.Context, maxConcurrent int) (bool, error) {
	script := redis.NewScript(`
		local current = redis.call("get", KEYS[1])
		if current == false then
			current = 0
		else
			current = tonumber(current)
		end

		if current < tonumber(ARGV[1]) then
			redis.call("incr", KEYS[1])
			return 1
		else
			return 0
		end
	`)

	result, err := script.Run(ctx, m.client, []string{runSemaphoreKey}, maxConcurrent).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run slot: %w", err)
	}

	acquired := result == 1
	if acquired {
		m.logger.Infow("Acquired run slot", "nodeID", m.nodeID)
	}

	return acquired, nil
}

func (m *RedisRunStateManager) ReleaseRunSlot(ctx context.Context) error {
	script := redis.NewScript(`
		local current = redis.call("get", KEYS[1])
		if current == false or tonumber(current) <= 0 then
			return 0
		else
			return redis.call("decr", KEYS[1])
		end
	`)

	_, err := script.Run(ctx, m.client, []string{runSemaphoreKey}).Result()
	if err != nil {
		return fmt.Errorf("failed to release run slot: %w", err)
	}

	m.logger.Infow("Released run slot", "nodeID", m.nodeID)
	return nil
}

func (m *RedisRunStateManager) CleanupRun(ctx context.Context, runID string) error {
	keys := []string{
		activeTasksKey(runID),
		completionLockKey(runID),
	}

	err := m.client.Del(ctx, keys...).Err()
	if err != nil {
		return fmt.Errorf("failed to cleanup run state: %w", err)
	}

	m.logger.Infow("Cleaned up run state", "runID", runID)
	return nil
}

func (m *RedisRunStateManager) Stop(ctx context.Context) error {
	return m.client.Close()
}
