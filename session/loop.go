package session

import (
	"context"
	"sync"
	"time"
)

// Scheduler serializes work onto the goroutine that owns a Controller.
type Scheduler interface {
	// Post enqueues fn to run on the owning goroutine.
	Post(fn func())
	// Every posts fn every d until stop is called.
	Every(d time.Duration, fn func()) (stop func())
}

const queueSize = 64

// Loop is the single event loop that runs every controller call, poll tick and backend
// notification, one at a time. Do must never be called from inside the loop.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop returns a loop that is ready to accept work; nothing runs until Run.
func NewLoop() *Loop {
	return &Loop{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// Run executes queued work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post enqueues fn without waiting for it. Work posted after the loop stopped is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.queue <- wrapped:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Every starts a ticker goroutine that posts fn every d. The returned stop is idempotent.
func (l *Loop) Every(d time.Duration, fn func()) (stop func()) {
	ticker := time.NewTicker(d)
	quit := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-l.done:
				return
			case <-ticker.C:
				select {
				case l.queue <- fn:
				case <-quit:
					return
				case <-l.done:
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}
