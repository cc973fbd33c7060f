package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/BrandishReveal_Go/internal/logger"
)

// ErrLoopStopped is returned when work is handed to a loop that has shut down
var ErrLoopStopped = errors.New("event loop stopped")

// Timer is a cancellable callback scheduled on a Loop
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped a pending callback.
	Stop() bool
}

// Loop is the shared cooperative event loop every reveal callback runs on.
// Callbacks never run in parallel with each other; they run in the order
// their due times are reached.
type Loop interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
	// Do runs fn on the loop and waits for it to return. It must not be
	// called from a callback already running on the loop.
	Do(fn func()) error
}

// RealLoop is a Loop backed by a single goroutine and wall-clock timers
type RealLoop struct {
	jobs     chan func()
	quit     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewLoop creates a new event loop with the given queue size
func NewLoop(queueSize int) *RealLoop {
	return &RealLoop{
		jobs: make(chan func(), queueSize),
		quit: make(chan struct{}),
	}
}

// Start starts the loop goroutine
func (l *RealLoop) Start() {
	l.wg.Add(1)
	go l.run()
}

func (l *RealLoop) run() {
	defer l.wg.Done()
	for {
		select {
		case fn := <-l.jobs:
			l.safeRun(fn)
		case <-l.quit:
			return
		}
	}
}

// safeRun keeps a panicking callback from killing the loop
func (l *RealLoop) safeRun(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(context.Background()).Error(LogMsgLoopCallbackPanic, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

func (l *RealLoop) post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case l.jobs <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Now returns the wall-clock time
func (l *RealLoop) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn to run on the loop after d
func (l *RealLoop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.post(func() {
			// Stop may have been called after the wall-clock timer fired
			// but before the loop picked the callback up.
			if t.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	return t
}

// Do runs fn on the loop goroutine and waits for it
func (l *RealLoop) Do(fn func()) error {
	done := make(chan struct{})
	if !l.post(func() {
		defer close(done)
		fn()
	}) {
		return ErrLoopStopped
	}
	select {
	case <-done:
		return nil
	case <-l.quit:
		return ErrLoopStopped
	}
}

// CheckHealth reports whether the loop still runs callbacks
func (l *RealLoop) CheckHealth(ctx context.Context) error {
	done := make(chan struct{})
	if !l.post(func() { close(done) }) {
		return ErrLoopStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.quit:
		return ErrLoopStopped
	}
}

// Stop stops the loop and waits for the running callback to finish
func (l *RealLoop) Stop() {
	l.stopOnce.Do(func() {
		close(l.quit)
	})
	l.wg.Wait()
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	wasPending := !t.stopped.Swap(true)
	t.timer.Stop()
	return wasPending
}
