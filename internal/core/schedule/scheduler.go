// Package schedule provides cancelable one-shot callbacks on top of a
// clockwork clock. It is the only place the engine touches timers.
package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	// ErrClosed indicates the scheduler no longer accepts callbacks.
	ErrClosed = errors.New("scheduler closed")
	// ErrInvalidDelay indicates a non-positive delay.
	ErrInvalidDelay = errors.New("invalid delay")
)

// Scheduler runs one-shot callbacks after a delay.
type Scheduler struct {
	mu          sync.Mutex
	clock       clockwork.Clock
	outstanding map[*Handle]struct{}
	changed     chan struct{}
	closed      bool
}

// Handle references a scheduled callback.
type Handle struct {
	scheduler *Scheduler
	timer     clockwork.Timer
	deadline  time.Time
	cancelled bool
	running   bool
}

// New creates a scheduler driven by clock. A nil clock uses the real clock.
func New(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock:       clock,
		outstanding: make(map[*Handle]struct{}),
		changed:     make(chan struct{}),
	}
}

// Now returns the scheduler's current time.
func (scheduler *Scheduler) Now() time.Time {
	return scheduler.clock.Now()
}

// Clock exposes the underlying clock.
func (scheduler *Scheduler) Clock() clockwork.Clock {
	return scheduler.clock
}

// After schedules fn to run once delay has elapsed.
func (scheduler *Scheduler) After(delay time.Duration, fn func()) (*Handle, error) {
	if delay <= 0 {
		return nil, ErrInvalidDelay
	}

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.closed {
		return nil, ErrClosed
	}

	handle := &Handle{
		scheduler: scheduler,
		deadline:  scheduler.clock.Now().Add(delay),
	}
	scheduler.outstanding[handle] = struct{}{}
	handle.timer = scheduler.clock.AfterFunc(delay, func() {
		scheduler.fire(handle, fn)
	})
	return handle, nil
}

// Cancel stops the callback. Safe on nil and safe to call repeatedly.
func (handle *Handle) Cancel() {
	if handle == nil || handle.scheduler == nil {
		return
	}
	scheduler := handle.scheduler
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.cancelLocked(handle)
}

// Deadline returns the instant the callback is due.
func (handle *Handle) Deadline() time.Time {
	if handle == nil {
		return time.Time{}
	}
	return handle.deadline
}

// Close cancels every outstanding callback and rejects new ones.
func (scheduler *Scheduler) Close() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.closed = true
	for handle := range scheduler.outstanding {
		scheduler.cancelLocked(handle)
	}
}

// Pending returns the number of callbacks that have not finished or been
// cancelled.
func (scheduler *Scheduler) Pending() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return len(scheduler.outstanding)
}

// Settle blocks until no callback due at or before Now is still outstanding.
// Fake clocks run callbacks on their own goroutines, so tests call Settle after
// every Advance.
func (scheduler *Scheduler) Settle(ctx context.Context) error {
	for {
		scheduler.mu.Lock()
		now := scheduler.clock.Now()
		due := false
		for handle := range scheduler.outstanding {
			if !handle.deadline.After(now) {
				due = true
				break
			}
		}
		changed := scheduler.changed
		scheduler.mu.Unlock()

		if !due {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (scheduler *Scheduler) fire(handle *Handle, fn func()) {
	scheduler.mu.Lock()
	if handle.cancelled {
		scheduler.removeLocked(handle)
		scheduler.mu.Unlock()
		return
	}
	handle.running = true
	scheduler.mu.Unlock()

	defer func() {
		scheduler.mu.Lock()
		scheduler.removeLocked(handle)
		scheduler.mu.Unlock()
	}()
	fn()
}

func (scheduler *Scheduler) cancelLocked(handle *Handle) {
	if handle.cancelled {
		return
	}
	handle.cancelled = true
	if handle.running {
		return
	}
	if handle.timer != nil && handle.timer.Stop() {
		scheduler.removeLocked(handle)
	}
}

func (scheduler *Scheduler) removeLocked(handle *Handle) {
	if _, ok := scheduler.outstanding[handle]; !ok {
		return
	}
	delete(scheduler.outstanding, handle)
	close(scheduler.changed)
	scheduler.changed = make(chan struct{})
}
