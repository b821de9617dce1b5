package runlog

import (
	"context"
	"encoding/json"
	"time"
)

// RunRecord is the ledger entry written once a scrape run finishes.
type RunRecord struct {
	RunID        string    `json:"runID"`
	Jurisdiction string    `json:"jurisdiction"`
	RootURL      string    `json:"rootURL"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	Tasks        int       `json:"tasks"`
	Status       string    `json:"status"`
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

func (r RunRecord) toParams() (map[string]any, error) {
	var m map[string]any
	b, err := json.Marshal(r)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

type RunLedger interface {
	SaveRun(record RunRecord) error
	GetSaverChan() chan<- RunRecord
	StartSaverWorkers(workers int)
	EnsureConnectivity() error
	Stop(ctx context.Context) error
}
