package events

import (
	"context"
	"errors"
	"sync"

	"ledger/internal/logger"
)

var (
	// ErrQueueFull is returned when the buffer cannot take another event.
	ErrQueueFull = errors.New("event queue full")
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("publisher closed")
)

type queued struct {
	ctx   context.Context
	event Event
}

// Async queues events and forwards them to another Publisher from a single
// background worker, so Publish never waits on the broker. Events keep their
// publish order.
type Async struct {
	next  Publisher
	queue chan queued
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	err    error
}

// NewAsync starts a worker that drains up to size buffered events into next.
func NewAsync(next Publisher, size int) *Async {
	a := &Async{
		next:  next,
		queue: make(chan queued, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Publish enqueues event. The request context is detached so a finished
// request does not cancel delivery.
func (a *Async) Publish(ctx context.Context, event Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- queued{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events, waits for the queue to drain and closes the
// wrapped publisher.
func (a *Async) Close() error {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		a.mu.Unlock()

		<-a.done
		a.err = a.next.Close()
	})
	return a.err
}

func (a *Async) run() {
	defer close(a.done)
	for q := range a.queue {
		if err := a.next.Publish(q.ctx, q.event); err != nil {
			logger.Get().Warnw("failed to deliver transaction event",
				"error", err,
				"action", q.event.Action,
				"transaction_id", q.event.TransactionID,
			)
		}
	}
}
