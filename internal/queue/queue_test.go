package queue

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryPublishConsume(t *testing.T) {
	q := NewInMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := q.Consume(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := q.Publish(ctx, Event{Action: "clock_in", RecordID: "r1", Session: "morning"}); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-out:
		if evt.Action != "clock_in" || evt.RecordID != "r1" {
			t.Errorf("got %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestInMemoryConsumeStopsOnCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	out, err := q.Consume(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Hand the forwarder an event nobody is reading, then cancel. The
	// forwarding goroutine must give up the pending send and close out.
	if err := q.Publish(ctx, Event{Action: "clock_in", RecordID: "r1"}); err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("consume channel not closed after cancel")
		}
	}
}
