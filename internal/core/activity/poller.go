package activity

import (
	"errors"
	"log"
	"sync"
	"time"

	"movedyet/internal/platform"
)

// Observer receives one call per detected activity event.
type Observer interface {
	Observe() bool
}

// Poller samples the host idle time and reports input that happened since the
// previous sample as one activity event.
type Poller struct {
	mu       sync.Mutex
	source   platform.IdleProvider
	interval time.Duration
	observer Observer
	logger   *log.Logger
	disabled bool
}

// NewPoller creates a Poller expected to be invoked every interval.
func NewPoller(source platform.IdleProvider, interval time.Duration, observer Observer, logger *log.Logger) *Poller {
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		source:   source,
		interval: interval,
		observer: observer,
		logger:   logger,
	}
}

// Interval returns the expected polling period.
func (poller *Poller) Interval() time.Duration {
	return poller.interval
}

// Disabled reports whether idle probing was found to be unsupported.
func (poller *Poller) Disabled() bool {
	poller.mu.Lock()
	defer poller.mu.Unlock()
	return poller.disabled
}

// Poll takes one sample and reports whether an activity event was emitted.
func (poller *Poller) Poll() bool {
	poller.mu.Lock()
	if poller.disabled || poller.source == nil || poller.observer == nil {
		poller.mu.Unlock()
		return false
	}
	poller.mu.Unlock()

	idle, err := poller.source.IdleDuration()
	if err != nil {
		if errors.Is(err, platform.ErrIdleUnsupported) {
			poller.mu.Lock()
			poller.disabled = true
			poller.mu.Unlock()
			poller.logger.Printf("activity: idle probing disabled: %v", err)
			return false
		}
		poller.logger.Printf("activity: read idle time: %v", err)
		return false
	}
	if idle >= poller.interval {
		return false
	}
	poller.observer.Observe()
	return true
}
