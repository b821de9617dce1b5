package runstates

import "testing"

func TestKeyNamespaces(t *testing.T) {
	if got := activeTasksKey("abc"); got != "run:active_tasks:abc" {
		t.Errorf("activeTasksKey = %q", got)
	}
	if got := completionLockKey("abc"); got != "run:completion_lock:abc" {
		t.Errorf("completionLockKey = %q", got)
	}
	if got := lastRunKey("Maricopa"); got != "jurisdiction:last_run:Maricopa" {
		t.Errorf("lastRunKey = %q", got)
	}
}
