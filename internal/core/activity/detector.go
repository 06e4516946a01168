// Package activity turns observed user input into an inactivity gauge and a
// resume-from-inactivity signal.
package activity

import (
	"log"
	"sync"
	"time"

	"movedyet/internal/core/model"
	"movedyet/internal/core/schedule"
)

// ResumeHandler is invoked once for the first activity after a gap longer than
// the inactivity threshold.
type ResumeHandler interface {
	Resume(gap time.Duration) error
}

// ResumeFunc adapts a function to ResumeHandler.
type ResumeFunc func(gap time.Duration) error

// Resume calls fn(gap).
func (fn ResumeFunc) Resume(gap time.Duration) error {
	return fn(gap)
}

// Options contains the collaborators of a Detector.
type Options struct {
	Scheduler *schedule.Scheduler
	Config    model.ConfigProvider
	OnResume  ResumeHandler
	Logger    *log.Logger
}

// Status is a snapshot of the detector.
type Status struct {
	Enabled         bool
	Threshold       time.Duration
	LastActivityAt  time.Time
	InactiveMinutes int
	// Idle is set once the watchdog saw a full threshold of silence.
	Idle bool
}

// Detector tracks the last activity instant.
type Detector struct {
	mu             sync.Mutex
	scheduler      *schedule.Scheduler
	config         model.ConfigProvider
	onResume       ResumeHandler
	logger         *log.Logger
	running        bool
	threshold      time.Duration
	lastActivityAt time.Time
	idle           bool
	watchdog       *schedule.Handle
	generation     uint64
}

// New creates a stopped Detector.
func New(options Options) *Detector {
	if options.Scheduler == nil {
		options.Scheduler = schedule.New(nil)
	}
	if options.Config == nil {
		options.Config = model.StaticConfig(model.DefaultConfig())
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	return &Detector{
		scheduler: options.Scheduler,
		config:    options.Config,
		onResume:  options.OnResume,
		logger:    options.Logger,
	}
}

// SetResumeHandler replaces the resume side effect.
func (detector *Detector) SetResumeHandler(handler ResumeHandler) {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	detector.onResume = handler
}

// Start wires the detector using the current configuration. A disabled
// configuration leaves it stopped.
func (detector *Detector) Start() {
	settings := detector.config.Config().Activity

	detector.mu.Lock()
	defer detector.mu.Unlock()
	if detector.running {
		return
	}
	if !settings.Enabled || settings.InactivityThreshold <= 0 {
		return
	}
	detector.running = true
	detector.threshold = settings.InactivityThreshold
	detector.lastActivityAt = detector.scheduler.Now()
	detector.idle = false
	detector.armLocked()
}

// Stop unwires the detector. Idempotent.
func (detector *Detector) Stop() {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	detector.stopLocked()
}

// Restart applies a changed threshold or enablement flag to the next gap.
func (detector *Detector) Restart() {
	detector.Stop()
	detector.Start()
}

// Enabled reports whether the detector is wired.
func (detector *Detector) Enabled() bool {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	return detector.running
}

// Observe records one activity event. It reports whether the event ended an
// inactivity gap, in which case the resume handler has run.
func (detector *Detector) Observe() bool {
	detector.mu.Lock()
	if !detector.running {
		detector.mu.Unlock()
		return false
	}
	now := detector.scheduler.Now()
	gap := now.Sub(detector.lastActivityAt)
	resumed := gap > detector.threshold
	detector.lastActivityAt = now
	detector.idle = false
	detector.armLocked()
	handler := detector.onResume
	detector.mu.Unlock()

	if resumed && handler != nil {
		detector.resume(handler, gap)
	}
	return resumed
}

// InactiveFor returns the time since the last activity, or zero when stopped.
func (detector *Detector) InactiveFor() time.Duration {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	if !detector.running {
		return 0
	}
	return detector.scheduler.Now().Sub(detector.lastActivityAt)
}

// InactivityMinutes is InactiveFor truncated to whole minutes.
func (detector *Detector) InactivityMinutes() int {
	return int(detector.InactiveFor() / time.Minute)
}

// Status returns the current snapshot.
func (detector *Detector) Status() Status {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	status := Status{
		Enabled:        detector.running,
		Threshold:      detector.threshold,
		LastActivityAt: detector.lastActivityAt,
		Idle:           detector.idle,
	}
	if detector.running {
		status.InactiveMinutes = int(detector.scheduler.Now().Sub(detector.lastActivityAt) / time.Minute)
	}
	return status
}

func (detector *Detector) resume(handler ResumeHandler, gap time.Duration) {
	defer func() {
		if recovered := recover(); recovered != nil {
			detector.logger.Printf("activity: resume handler panicked: %v", recovered)
		}
	}()
	if err := handler.Resume(gap); err != nil {
		detector.logger.Printf("activity: resume after %s: %v", gap.Round(time.Second), err)
	}
}

// armLocked re-arms the watchdog. It only marks the detector idle; resets
// happen on the next activity.
func (detector *Detector) armLocked() {
	detector.watchdog.Cancel()
	detector.watchdog = nil
	detector.generation++
	generation := detector.generation
	handle, err := detector.scheduler.After(detector.threshold, func() {
		detector.markIdle(generation)
	})
	if err != nil {
		detector.logger.Printf("activity: schedule watchdog: %v", err)
		return
	}
	detector.watchdog = handle
}

func (detector *Detector) markIdle(generation uint64) {
	detector.mu.Lock()
	defer detector.mu.Unlock()
	if generation != detector.generation || !detector.running {
		return
	}
	detector.watchdog = nil
	detector.idle = true
}

func (detector *Detector) stopLocked() {
	detector.watchdog.Cancel()
	detector.watchdog = nil
	detector.generation++
	detector.running = false
	detector.idle = false
}
