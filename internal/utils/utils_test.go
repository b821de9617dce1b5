package utils

import (
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	a, err := GenerateID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 40 {
		t.Errorf("id length = %d, want 40 hex chars", len(a))
	}

	b, err := GenerateID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Error("two generated ids collide")
	}
}

func TestDrainTimer_AfterFire(t *testing.T) {
	timer := time.NewTimer(time.Nanosecond)
	time.Sleep(time.Millisecond)

	done := make(chan struct{})
	go func() {
		DrainTimer(timer)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("DrainTimer blocked on a fired timer")
	}
}

func TestDrainTimer_BeforeFire(t *testing.T) {
	timer := time.NewTimer(time.Hour)
	DrainTimer(timer)

	select {
	case <-timer.C:
		t.Fatal("drained timer still fired")
	case <-time.After(10 * time.Millisecond):
	}
}
