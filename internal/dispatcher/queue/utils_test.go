package queue

import (
	"context"
	"testing"
)

func TestDrainAndCloseChannel(t *testing.T) {
	ch := make(chan []byte, 10)
	ch <- []byte("a")
	ch <- []byte("b")

	if err := drainAndCloseChannel(context.Background(), ch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := <-ch; ok {
		t.Fatal("channel not drained and closed")
	}
}

func TestDrainAndCloseChannel_Empty(t *testing.T) {
	ch := make(chan []byte, 10)

	if err := drainAndCloseChannel(context.Background(), ch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := <-ch; ok {
		t.Fatal("channel not closed")
	}
}
