// Package dispatcher fans jurisdiction scrape runs out into per-view tasks and
// moves both over the Kafka-backed queues.
package dispatcher

import (
	"context"

	"legistar-dispatch/internal/domain/config"
	"legistar-dispatch/internal/jurisdictions"
)

type Dispatcher interface {
	StartRun(run *config.Run, rec jurisdictions.Record) error
	SendTask(task *config.Task) error
	GetTask(ctx context.Context) (*config.Task, error)
	GetRun(ctx context.Context) (*config.Run, error)
	QueueRun(run *config.Run)
}

// Legistar search views, relative to a portal's root URL.
const (
	billsSearchPath  = "Legislation.aspx"
	peopleSearchPath = "People.aspx"
	eventsSearchPath = "Calendar.aspx"
)

// BuildTasks produces the task set for one run, honoring the record's feature
// flags. Bills and events exist on every deployment; the people view is
// skipped where the portal lacks the search-detail table.
func BuildTasks(run *config.Run, rec jurisdictions.Record) []*config.Task {
	tasks := []*config.Task{
		{
			Jurisdiction: run.Jurisdiction,
			Kind:         config.TaskKindBills,
			URL:          joinPortalPath(rec.RootURL, billsSearchPath),
			Run:          run,
		},
		{
			Jurisdiction: run.Jurisdiction,
			Kind:         config.TaskKindEvents,
			URL:          joinPortalPath(rec.RootURL, eventsSearchPath),
			Run:          run,
		},
	}

	if rec.PeopleSearchDetailAvailable {
		tasks = append(tasks, &config.Task{
			Jurisdiction: run.Jurisdiction,
			Kind:         config.TaskKindPeople,
			URL:          joinPortalPath(rec.RootURL, peopleSearchPath),
			Run:          run,
		})
	}

	return tasks
}
