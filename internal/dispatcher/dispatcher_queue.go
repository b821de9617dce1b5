package dispatcher

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"legistar-dispatch/internal/dispatcher/queue"
	"legistar-dispatch/internal/domain/config"
	"legistar-dispatch/internal/jurisdictions"

	"go.uber.org/zap"
)

type QueueDispatcher struct {
	logger     *zap.SugaredLogger
	tasksQueue queue.Queue
	runsQueue  queue.Queue
}

func NewQueueDispatcherKafka(logger *zap.SugaredLogger, tasksQueue, runsQueue queue.Queue) *QueueDispatcher {
	return &QueueDispatcher{
		logger:     logger,
		tasksQueue: tasksQueue,
		runsQueue:  runsQueue,
	}
}

// StartRun fans the run out into its tasks and queues every one of them.
func (d *QueueDispatcher) StartRun(run *config.Run, rec jurisdictions.Record) error {
	for _, task := range BuildTasks(run, rec) {
		if err := d.SendTask(task); err != nil {
			return err
		}
	}
	return nil
}

func (d *QueueDispatcher) SendTask(task *config.Task) error {
	bytes, err := json.Marshal(task)
	if err != nil {
		d.logger.Warnw("Failed to marshal task to json", "task", task)
		return err
	}

	task.Run.IncrementActiveWithMutex()

	d.tasksQueue.GetProducerChan() <- bytes
	return nil
}

func (d *QueueDispatcher) GetTask(ctx context.Context) (*config.Task, error) {
	select {
	case taskBytes := <-d.tasksQueue.GetConsumerChan():
		task := new(config.Task)

		if err := json.Unmarshal(taskBytes, task); err != nil {
			d.logger.Warnw("Failed to unmarshal task from kafka", "record", taskBytes, "err", err)
			return nil, err
		}

		return task, nil
	case <-time.After(queue.SingleRequestTimeout):
		return nil, ErrNoTasks
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *QueueDispatcher) GetRun(ctx context.Context) (*config.Run, error) {
	select {
	case runBytes := <-d.runsQueue.GetConsumerChan():
		run := new(config.Run)

		if err := json.Unmarshal(runBytes, run); err != nil {
			d.logger.Warnw("Failed to unmarshal run from kafka", "record", runBytes, "err", err)
			return nil, err
		}

		return run, nil
	case <-time.After(queue.SingleRequestTimeout):
		return nil, ErrNoRuns
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *QueueDispatcher) QueueRun(run *config.Run) {
	bytes, err := json.Marshal(run)
	if err != nil {
		d.logger.Warnw("Failed to marshal run to json", "run", run)
		return
	}

	d.runsQueue.GetProducerChan() <- bytes
}

func joinPortalPath(rootURL, view string) string {
	return strings.TrimRight(rootURL, "/") + "/" + view
}
