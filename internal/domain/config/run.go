package config

import (
	"sync"
	"time"

	"legistar-dispatch/internal/utils"
)

// Run is one scheduled scrape of one jurisdiction's portal instance.
type Run struct {
	ID string `json:"id"`

	Jurisdiction string `json:"jurisdiction"`
	RootURL      string `json:"root_url"`

	StartedAt time.Time `json:"started_at"`

	ActiveTasks    int `json:"active_tasks"`
	CompletedTasks int `json:"completed_tasks"`

	sync.RWMutex
}

func NewRun(jurisdiction, rootURL string) (*Run, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	return &Run{
		ID:           id,
		Jurisdiction: jurisdiction,
		RootURL:      rootURL,
		StartedAt:    time.Now().UTC(),
	}, nil
}

func (run *Run) IncrementActiveWithMutex() int {
	run.Lock()
	defer run.Unlock()

	run.ActiveTasks++
	return run.ActiveTasks
}
