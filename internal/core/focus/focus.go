// Package focus suppresses interval reminders for a fixed span.
package focus

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"movedyet/internal/core/schedule"
)

// ErrActive indicates a focus session is already running.
var ErrActive = errors.New("focus session already active")

// Timers is the part of the interval timer pair focus mode controls.
type Timers interface {
	ClearAll()
	ResetAll() error
}

// Listener is told when a focus session starts and ends.
type Listener interface {
	FocusStarted(d time.Duration)
	FocusEnded()
}

// Options contains the collaborators of a Session.
type Options struct {
	Scheduler *schedule.Scheduler
	Timers    Timers
	Listener  Listener
	Logger    *log.Logger
}

// Status is a snapshot of focus mode.
type Status struct {
	Active           bool
	EndsAt           time.Time
	RemainingMinutes int
}

// Session is the focus mode controller.
type Session struct {
	mu         sync.Mutex
	scheduler  *schedule.Scheduler
	timers     Timers
	listener   Listener
	logger     *log.Logger
	handle     *schedule.Handle
	endsAt     time.Time
	generation uint64
}

// New creates an inactive Session.
func New(options Options) *Session {
	if options.Scheduler == nil {
		options.Scheduler = schedule.New(nil)
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	return &Session{
		scheduler: options.Scheduler,
		timers:    options.Timers,
		listener:  options.Listener,
		logger:    options.Logger,
	}
}

// SetListener replaces the start/end listener.
func (session *Session) SetListener(listener Listener) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.listener = listener
}

// Start clears the interval timers and schedules the end of focus after d.
func (session *Session) Start(d time.Duration) error {
	session.mu.Lock()
	if session.handle != nil {
		session.mu.Unlock()
		return ErrActive
	}
	session.generation++
	generation := session.generation
	handle, err := session.scheduler.After(d, func() {
		session.expire(generation)
	})
	if err != nil {
		session.mu.Unlock()
		return fmt.Errorf("start focus: %w", err)
	}
	session.handle = handle
	session.endsAt = handle.Deadline()
	listener := session.listener
	session.mu.Unlock()

	if session.timers != nil {
		session.timers.ClearAll()
	}
	if listener != nil {
		listener.FocusStarted(d)
	}
	return nil
}

// End stops focus and restarts the interval timers. No-op when inactive.
func (session *Session) End() error {
	session.mu.Lock()
	if session.handle == nil {
		session.mu.Unlock()
		return nil
	}
	session.handle.Cancel()
	return session.finishLocked()
}

// Toggle ends an active session or starts one lasting d.
func (session *Session) Toggle(d time.Duration) error {
	if session.Active() {
		return session.End()
	}
	return session.Start(d)
}

// Active reports whether focus is running.
func (session *Session) Active() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.handle != nil
}

// Remaining returns the whole minutes left, rounded up.
func (session *Session) Remaining() int {
	return session.Status().RemainingMinutes
}

// Status returns the current snapshot.
func (session *Session) Status() Status {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.handle == nil {
		return Status{}
	}
	left := session.endsAt.Sub(session.scheduler.Now())
	minutes := 0
	if left > 0 {
		minutes = int((left + time.Minute - 1) / time.Minute)
	}
	return Status{Active: true, EndsAt: session.endsAt, RemainingMinutes: minutes}
}

func (session *Session) expire(generation uint64) {
	session.mu.Lock()
	if generation != session.generation || session.handle == nil {
		session.mu.Unlock()
		return
	}
	if err := session.finishLocked(); err != nil {
		session.logger.Printf("focus: restart timers: %v", err)
	}
}

// finishLocked must be called with mu held; it releases it.
func (session *Session) finishLocked() error {
	session.handle = nil
	session.endsAt = time.Time{}
	session.generation++
	listener := session.listener
	session.mu.Unlock()

	var err error
	if session.timers != nil {
		err = session.timers.ResetAll()
	}
	if listener != nil {
		listener.FocusEnded()
	}
	return err
}
