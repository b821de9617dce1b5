package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"legistar-dispatch/internal/dispatcher"
	"legistar-dispatch/internal/dispatcher/queue"
	"legistar-dispatch/internal/domain/config"
	"legistar-dispatch/internal/jurisdictions"
	"legistar-dispatch/internal/runlog"
	"legistar-dispatch/internal/runstates"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const (
	DefaultMaxConcurrentRuns = 4
	DefaultSaverWorkers      = 4
	DefaultDispatchInterval  = 6 * time.Hour

	completionPollInterval = 30 * time.Second
)

type DispatcherApp struct {
	logger          *zap.SugaredLogger
	registry        *jurisdictions.Registry
	dispatcher      dispatcher.Dispatcher
	tasksQueue      queue.Queue
	runsQueue       queue.Queue
	runStateManager runstates.RunStateManager
	runLedger       runlog.RunLedger
	tracerProvider  *trace.TracerProvider

	maxConcurrentRuns int
	dispatchInterval  time.Duration

	mu            sync.Mutex
	dispatchedRun map[string]*config.Run

	// producing counts the goroutines allowed to send on the queue channels;
	// StopApp joins them before the channels close.
	producing sync.WaitGroup
}

func NewDispatcherApp(
	logger *zap.SugaredLogger,
	registry *jurisdictions.Registry,
	disp dispatcher.Dispatcher,
	tasksQueue, runsQueue queue.Queue,
	runStateManager runstates.RunStateManager,
	runLedger runlog.RunLedger,
	tracerProvider *trace.TracerProvider,
	dispatchInterval time.Duration,
) *DispatcherApp {
	return &DispatcherApp{
		logger:            logger,
		registry:          registry,
		dispatcher:        disp,
		tasksQueue:        tasksQueue,
		runsQueue:         runsQueue,
		runStateManager:   runStateManager,
		runLedger:         runLedger,
		tracerProvider:    tracerProvider,
		maxConcurrentRuns: DefaultMaxConcurrentRuns,
		dispatchInterval:  dispatchInterval,
		dispatchedRun:     map[string]*config.Run{},
	}
}

func (app *DispatcherApp) StartApp(ctx context.Context) error {
	err := app.runLedger.EnsureConnectivity()
	if err != nil {
		app.logger.Errorf("Error ensuring run ledger connectivity: %v", err)
		return err
	}

	go app.tasksQueue.StartQueueProducer()
	go app.runsQueue.StartQueueProducer()
	go app.runsQueue.StartQueueConsumer()

	app.runLedger.StartSaverWorkers(DefaultSaverWorkers)

	app.producing.Add(3)
	go func() {
		defer app.producing.Done()
		app.startScheduler(ctx)
	}()
	go func() {
		defer app.producing.Done()
		app.startRunListener(ctx)
	}()
	go func() {
		defer app.producing.Done()
		app.startCompletionMonitor(ctx)
	}()

	return nil
}

// startScheduler queues a run for every jurisdiction whose last dispatch is
// older than the interval.
func (app *DispatcherApp) startScheduler(ctx context.Context) {
	ticker := time.NewTicker(app.dispatchInterval)
	defer ticker.Stop()

	app.scheduleDueRuns(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.scheduleDueRuns(ctx)
		}
	}
}

func (app *DispatcherApp) scheduleDueRuns(ctx context.Context) {
	for _, name := range app.registry.List() {
		lastRun, err := app.runStateManager.GetLastRun(ctx, name)
		if err != nil {
			app.logger.Warnw("Failed to read last run, skipping jurisdiction", "jurisdiction", name, "err", err)
			continue
		}

		if time.Since(lastRun) < app.dispatchInterval {
			continue
		}

		rec, err := app.registry.Get(name)
		if err != nil {
			app.logger.Warnw("Jurisdiction vanished from registry", "jurisdiction", name, "err", err)
			continue
		}

		run, err := config.NewRun(rec.Name, rec.RootURL)
		if err != nil {
			app.logger.Errorw("Failed to create run", "jurisdiction", name, "err", err)
			continue
		}

		app.dispatcher.QueueRun(run)

		if err := app.runStateManager.SetLastRun(ctx, name, run.StartedAt); err != nil {
			app.logger.Warnw("Failed to record last run", "jurisdiction", name, "err", err)
		}

		app.logger.Infow("Queued run", "jurisdiction", name, "runID", run.ID)
	}
}

// startRunListener consumes queued runs and fans each out into tasks once a
// run slot is free.
func (app *DispatcherApp) startRunListener(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		run, err := app.dispatcher.GetRun(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			if !errors.Is(err, dispatcher.ErrNoRuns) {
				app.logger.Warnw("Failed to get run", "err", err)
			}
			continue
		}

		if !app.acquireRunSlot(ctx, run) {
			continue
		}

		app.dispatchRun(ctx, run)
	}
}

func (app *DispatcherApp) acquireRunSlot(ctx context.Context, run *config.Run) bool {
	slotCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for {
		acquired, err := app.runStateManager.AcquireRunSlot(slotCtx, app.maxConcurrentRuns)
		if err != nil {
			// The run is already committed off the broker; requeue it rather
			// than losing it.
			app.logger.Errorw("Error acquiring run slot, requeueing", "error", err, "runID", run.ID)
			app.dispatcher.QueueRun(run)
			return false
		}

		if acquired {
			return true
		}

		select {
		case <-slotCtx.Done():
			app.logger.Warnw("Timeout waiting for run slot, requeueing", "runID", run.ID)
			app.dispatcher.QueueRun(run)
			return false
		case <-time.After(1 * time.Second):
		}
	}
}

func (app *DispatcherApp) dispatchRun(ctx context.Context, run *config.Run) {
	rec, err := app.registry.Get(run.Jurisdiction)
	if err != nil {
		// Unknown jurisdictions are skipped, not fatal to the batch.
		app.logger.Warnw("Skipping run for unregistered jurisdiction", "jurisdiction", run.Jurisdiction, "err", err)
		app.releaseRunSlot()
		return
	}

	if err := app.dispatcher.StartRun(run, rec); err != nil {
		app.logger.Errorf("Error fanning out run %s: %v", run.ID, err)
		app.recordRun(run, runlog.StatusFailed)
		app.releaseRunSlot()
		return
	}

	run.RLock()
	active := run.ActiveTasks
	run.RUnlock()

	for range active {
		if _, err := app.runStateManager.IncrementActiveTasks(ctx, run.ID); err != nil {
			app.logger.Warnw("Failed to mirror active task count", "runID", run.ID, "err", err)
		}
	}

	app.mu.Lock()
	app.dispatchedRun[run.ID] = run
	app.mu.Unlock()

	app.logger.Infow("Dispatched run", "jurisdiction", run.Jurisdiction, "runID", run.ID, "tasks", active)
}

// startCompletionMonitor watches dispatched runs until the scrape workers
// drain their task counters, then finalizes them under the completion lock.
func (app *DispatcherApp) startCompletionMonitor(ctx context.Context) {
	ticker := time.NewTicker(completionPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.finalizeCompletedRuns(ctx)
		}
	}
}

func (app *DispatcherApp) finalizeCompletedRuns(ctx context.Context) {
	app.mu.Lock()
	runs := make([]*config.Run, 0, len(app.dispatchedRun))
	for _, run := range app.dispatchedRun {
		runs = append(runs, run)
	}
	app.mu.Unlock()

	for _, run := range runs {
		active, err := app.runStateManager.GetActiveTasks(ctx, run.ID)
		if err != nil {
			app.logger.Warnw("Failed to read active tasks", "runID", run.ID, "err", err)
			continue
		}

		if active > 0 {
			continue
		}

		locked, err := app.runStateManager.AcquireRunCompletionLock(ctx, run.ID, runstates.LockTTL)
		if err != nil || !locked {
			continue
		}

		if err := app.runStateManager.CleanupRun(ctx, run.ID); err != nil {
			app.logger.Warnw("Failed to cleanup run state, retrying next pass", "runID", run.ID, "err", err)
			// Hand the lock back so a later pass (or another node) can finish
			// the run.
			if relErr := app.runStateManager.ReleaseRunCompletionLock(ctx, run.ID); relErr != nil {
				app.logger.Warnw("Failed to release completion lock", "runID", run.ID, "err", relErr)
			}
			continue
		}

		app.recordRun(run, runlog.StatusCompleted)

		app.releaseRunSlot()

		app.mu.Lock()
		delete(app.dispatchedRun, run.ID)
		app.mu.Unlock()

		app.logger.Infow("Run completed", "jurisdiction", run.Jurisdiction, "runID", run.ID)
	}
}

func (app *DispatcherApp) recordRun(run *config.Run, status string) {
	run.RLock()
	record := runlog.RunRecord{
		RunID:        run.ID,
		Jurisdiction: run.Jurisdiction,
		RootURL:      run.RootURL,
		StartedAt:    run.StartedAt,
		FinishedAt:   time.Now().UTC(),
		Tasks:        run.ActiveTasks + run.CompletedTasks,
		Status:       status,
	}
	run.RUnlock()

	app.runLedger.GetSaverChan() <- record
}

func (app *DispatcherApp) releaseRunSlot() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.runStateManager.ReleaseRunSlot(ctx); err != nil {
		app.logger.Errorw("Failed to release run slot", "error", err)
	}
}

func (app *DispatcherApp) StopApp(ctx context.Context) error {
	// The scheduler and run listener send on the queue channels, the
	// completion monitor on the ledger's saver channel; join them before
	// anything closes underneath them.
	producersDone := make(chan struct{})
	go func() {
		app.producing.Wait()
		close(producersDone)
	}()

	select {
	case <-producersDone:
	case <-ctx.Done():
		app.logger.Errorw("Timed out waiting for dispatch goroutines, leaving queues open", "error", ctx.Err())
		return ctx.Err()
	}

	if err := app.tasksQueue.CloseQueue(ctx); err != nil {
		app.logger.Errorw("Failed to close tasks queue", "error", err)
	}
	if err := app.runsQueue.CloseQueue(ctx); err != nil {
		app.logger.Errorw("Failed to close runs queue", "error", err)
	}

	if err := app.runLedger.Stop(ctx); err != nil {
		app.logger.Errorw("Failed to stop run ledger", "error", err)
	}

	if err := app.runStateManager.Stop(ctx); err != nil {
		app.logger.Errorw("Failed to stop run state manager", "error", err)
	}

	return app.tracerProvider.Shutdown(ctx)
}
