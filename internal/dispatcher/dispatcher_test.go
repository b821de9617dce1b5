package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"legistar-dispatch/internal/domain/config"
	"legistar-dispatch/internal/jurisdictions"

	"go.uber.org/zap"
)

type stubQueue struct {
	producerChan chan []byte
	consumerChan chan []byte
}

func newStubQueue() *stubQueue {
	return &stubQueue{
		producerChan: make(chan []byte, 50),
		consumerChan: make(chan []byte, 50),
	}
}

func (q *stubQueue) GetProducerChan() chan<- []byte   { return q.producerChan }
func (q *stubQueue) GetConsumerChan() <-chan []byte   { return q.consumerChan }
func (q *stubQueue) StartQueueConsumer()              {}
func (q *stubQueue) StartQueueProducer()              {}
func (q *stubQueue) CloseQueue(context.Context) error { return nil }

func testRecord(peopleDetail bool) jurisdictions.Record {
	d := jurisdictions.DefaultBase()
	seed := jurisdictions.Seed{Name: "Springfield", RootURL: "https://springfield.legistar.com/"}
	if !peopleDetail {
		f := false
		seed.PeopleSearchDetailAvailable = &f
	}
	return d.Resolve(seed)
}

func TestBuildTasks_AllViews(t *testing.T) {
	run, err := config.NewRun("Springfield", "https://springfield.legistar.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := BuildTasks(run, testRecord(true))
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}

	kinds := map[string]string{}
	for _, task := range tasks {
		kinds[task.Kind] = task.URL
		if task.Jurisdiction != "Springfield" {
			t.Errorf("task jurisdiction = %q, want Springfield", task.Jurisdiction)
		}
		if task.Run != run {
			t.Error("task does not reference its run")
		}
	}

	if kinds[config.TaskKindBills] != "https://springfield.legistar.com/Legislation.aspx" {
		t.Errorf("bills URL = %q", kinds[config.TaskKindBills])
	}
	if kinds[config.TaskKindEvents] != "https://springfield.legistar.com/Calendar.aspx" {
		t.Errorf("events URL = %q", kinds[config.TaskKindEvents])
	}
	if kinds[config.TaskKindPeople] != "https://springfield.legistar.com/People.aspx" {
		t.Errorf("people URL = %q", kinds[config.TaskKindPeople])
	}
}

func TestBuildTasks_PeopleDetailDisabled(t *testing.T) {
	run, err := config.NewRun("Springfield", "https://springfield.legistar.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := BuildTasks(run, testRecord(false))
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2 when the people view is unavailable", len(tasks))
	}
	for _, task := range tasks {
		if task.Kind == config.TaskKindPeople {
			t.Error("people task built despite the flag being off")
		}
	}
}

func TestStartRun_QueuesEveryTask(t *testing.T) {
	tasksQueue := newStubQueue()
	runsQueue := newStubQueue()
	d := NewQueueDispatcherKafka(zap.NewNop().Sugar(), tasksQueue, runsQueue)

	run, err := config.NewRun("Springfield", "https://springfield.legistar.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := d.StartRun(run, testRecord(true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(tasksQueue.producerChan); got != 3 {
		t.Fatalf("queued %d task messages, want 3", got)
	}
	if run.ActiveTasks != 3 {
		t.Errorf("run.ActiveTasks = %d, want 3", run.ActiveTasks)
	}

	var task config.Task
	if err := json.Unmarshal(<-tasksQueue.producerChan, &task); err != nil {
		t.Fatalf("queued message is not a task: %v", err)
	}
	if task.Jurisdiction != "Springfield" {
		t.Errorf("task jurisdiction = %q, want Springfield", task.Jurisdiction)
	}
}

func TestQueueRun_AndGetRun(t *testing.T) {
	tasksQueue := newStubQueue()
	runsQueue := newStubQueue()
	d := NewQueueDispatcherKafka(zap.NewNop().Sugar(), tasksQueue, runsQueue)

	run, err := config.NewRun("Springfield", "https://springfield.legistar.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.QueueRun(run)

	// Loop the queued message back as if it came off the broker.
	runsQueue.consumerChan <- <-runsQueue.producerChan

	got, err := d.GetRun(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != run.ID || got.Jurisdiction != "Springfield" {
		t.Errorf("round-tripped run = %+v, want id %s", got, run.ID)
	}
}

func TestGetTask_BadPayload(t *testing.T) {
	tasksQueue := newStubQueue()
	d := NewQueueDispatcherKafka(zap.NewNop().Sugar(), tasksQueue, newStubQueue())

	tasksQueue.consumerChan <- []byte("not json")

	if _, err := d.GetTask(context.Background()); err == nil {
		t.Fatal("expected error for malformed task payload")
	}
}

func TestGetRun_ContextCancelled(t *testing.T) {
	d := NewQueueDispatcherKafka(zap.NewNop().Sugar(), newStubQueue(), newStubQueue())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := d.GetRun(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("GetRun did not return promptly on cancellation")
	}
}
