// Package worktime accumulates active work minutes per calendar day.
package worktime

import (
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"movedyet/internal/core/model"
)

// DefaultInactivityLimit is the silence after which an open session is closed.
// It is independent of the activity detector threshold.
const DefaultInactivityLimit = 15 * time.Minute

// Bucket persists per-day work minutes.
type Bucket interface {
	AddWorkMinutes(day string, minutes int) error
	WorkMinutes(day string) (int, error)
}

// Options contains the collaborators of an Accountant.
type Options struct {
	Clock           clockwork.Clock
	Bucket          Bucket
	InactivityLimit time.Duration
	Logger          *log.Logger
}

// Status is a read-only view of the accountant.
type Status struct {
	Active         bool
	Paused         bool
	SessionMinutes int
	IdleMinutes    int
	// TodayMinutes is what has been flushed to today's bucket.
	TodayMinutes int
}

// Accountant tracks the open work session.
type Accountant struct {
	mu           sync.Mutex
	clock        clockwork.Clock
	bucket       Bucket
	limit        time.Duration
	logger       *log.Logger
	sessionStart time.Time
	lastActiveAt time.Time
	active       bool
	paused       bool
}

// New creates an Accountant with an open session starting now.
func New(options Options) *Accountant {
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.InactivityLimit <= 0 {
		options.InactivityLimit = DefaultInactivityLimit
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	now := options.Clock.Now()
	return &Accountant{
		clock:        options.Clock,
		bucket:       options.Bucket,
		limit:        options.InactivityLimit,
		logger:       options.Logger,
		sessionStart: now,
		lastActiveAt: now,
		active:       true,
	}
}

// RecordActivity notes user input. An inactive, unpaused session resumes.
func (accountant *Accountant) RecordActivity() {
	accountant.mu.Lock()
	defer accountant.mu.Unlock()

	now := accountant.clock.Now()
	if !accountant.active && !accountant.paused {
		accountant.active = true
		accountant.sessionStart = now
	}
	accountant.lastActiveAt = now
}

// CheckInactivity closes the session when the inactivity limit was exceeded,
// crediting time only up to the last activity.
func (accountant *Accountant) CheckInactivity() {
	accountant.mu.Lock()
	defer accountant.mu.Unlock()
	accountant.checkInactivityLocked(accountant.clock.Now())
}

// UpdateWorkTime flushes the open session into today's bucket.
func (accountant *Accountant) UpdateWorkTime() {
	accountant.mu.Lock()
	defer accountant.mu.Unlock()

	now := accountant.clock.Now()
	accountant.checkInactivityLocked(now)
	if !accountant.active {
		return
	}
	flushed := accountant.flushLocked(now)
	// Sub-minute remainders stay in the session.
	accountant.sessionStart = accountant.sessionStart.Add(time.Duration(flushed) * time.Minute)
}

// Pause flushes and closes the session until Resume.
func (accountant *Accountant) Pause() {
	accountant.mu.Lock()
	defer accountant.mu.Unlock()
	if accountant.paused {
		return
	}
	now := accountant.clock.Now()
	accountant.checkInactivityLocked(now)
	if accountant.active {
		accountant.flushLocked(now)
	}
	accountant.active = false
	accountant.paused = true
}

// Resume reopens the session starting now.
func (accountant *Accountant) Resume() {
	accountant.mu.Lock()
	defer accountant.mu.Unlock()
	if !accountant.paused {
		return
	}
	now := accountant.clock.Now()
	accountant.paused = false
	accountant.active = true
	accountant.sessionStart = now
	accountant.lastActiveAt = now
}

// Paused reports whether the work timer was paused manually.
func (accountant *Accountant) Paused() bool {
	accountant.mu.Lock()
	defer accountant.mu.Unlock()
	return accountant.paused
}

// Status returns the current view without changing any state.
func (accountant *Accountant) Status() Status {
	accountant.mu.Lock()
	now := accountant.clock.Now()
	status := Status{
		Active:      accountant.active,
		Paused:      accountant.paused,
		IdleMinutes: wholeMinutes(now.Sub(accountant.lastActiveAt)),
	}
	if accountant.active {
		status.SessionMinutes = wholeMinutes(now.Sub(accountant.sessionStart))
	}
	bucket := accountant.bucket
	accountant.mu.Unlock()

	if bucket != nil {
		minutes, err := bucket.WorkMinutes(model.DayKey(now))
		if err != nil {
			accountant.logger.Printf("worktime: read today's minutes: %v", err)
		}
		status.TodayMinutes = minutes
	}
	return status
}

func (accountant *Accountant) checkInactivityLocked(now time.Time) {
	if !accountant.active || now.Sub(accountant.lastActiveAt) <= accountant.limit {
		return
	}
	if accountant.lastActiveAt.After(accountant.sessionStart) {
		accountant.flushLocked(accountant.lastActiveAt)
	}
	accountant.active = false
}

// flushLocked credits whole minutes from sessionStart to end and returns them.
// A session crossing local midnight is split between the days it spans.
func (accountant *Accountant) flushLocked(end time.Time) int {
	minutes := wholeMinutes(end.Sub(accountant.sessionStart))
	if minutes <= 0 || accountant.bucket == nil {
		return minutes
	}

	credited := 0
	start := accountant.sessionStart
	for credited < minutes {
		day := model.DayKey(start)
		share := minutes - credited
		if midnight := nextMidnight(start); midnight.Before(end) {
			if part := wholeMinutes(midnight.Sub(start)); part < share {
				share = part
			}
		}
		if share > 0 {
			if err := accountant.bucket.AddWorkMinutes(day, share); err != nil {
				accountant.logger.Printf("worktime: flush %d minutes for %s: %v", share, day, err)
			}
		}
		credited += share
		start = start.Add(time.Duration(share) * time.Minute)
		if share == 0 {
			start = nextMidnight(start)
		}
	}
	return minutes
}

func nextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}

func wholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
