package dispatcher

import "errors"

var (
	ErrNoTasks = errors.New("no tasks found")
	ErrNoRuns  = errors.New("no runs found")
)
