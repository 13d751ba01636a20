package events

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// gatedPublisher blocks every delivery until gate is closed.
type gatedPublisher struct {
	gate chan struct{}

	mu      sync.Mutex
	events  []Event
	ctxErrs []error
	closed  bool
}

func newGatedPublisher() *gatedPublisher {
	return &gatedPublisher{gate: make(chan struct{})}
}

func (g *gatedPublisher) Publish(ctx context.Context, e Event) error {
	<-g.gate
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, e)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	return nil
}

func (g *gatedPublisher) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

func TestAsync_DoesNotWaitForDelivery(t *testing.T) {
	next := newGatedPublisher()
	async := NewAsync(next, 4)

	ctx, cancel := context.WithCancel(context.Background())
	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		if err := async.Publish(ctx, NewEvent(ActionCreated, id, nil)); err != nil {
			t.Fatalf("publish %s: %v", id, err)
		}
	}
	cancel()

	close(next.gate)
	if err := async.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(next.events) != len(ids) {
		t.Fatalf("expected %d delivered events, got %d", len(ids), len(next.events))
	}
	for i, id := range ids {
		if next.events[i].TransactionID != id {
			t.Errorf("event %d: expected %s, got %s", i, id, next.events[i].TransactionID)
		}
		if next.ctxErrs[i] != nil {
			t.Errorf("event %d: delivery context was canceled: %v", i, next.ctxErrs[i])
		}
	}
	if !next.closed {
		t.Error("expected wrapped publisher to be closed")
	}
}

func TestAsync_QueueFull(t *testing.T) {
	next := newGatedPublisher()
	async := NewAsync(next, 1)

	full := 0
	for i := 0; i < 3; i++ {
		err := async.Publish(context.Background(), NewEvent(ActionDeleted, "x", nil))
		if errors.Is(err, ErrQueueFull) {
			full++
		} else if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if full == 0 {
		t.Error("expected at least one ErrQueueFull")
	}

	close(next.gate)
	if err := async.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := async.Publish(context.Background(), NewEvent(ActionDeleted, "x", nil)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
	if err := async.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
