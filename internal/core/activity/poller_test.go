package activity

import (
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"movedyet/internal/platform"
)

type countingObserver struct {
	calls atomic.Int32
}

func (observer *countingObserver) Observe() bool {
	observer.calls.Add(1)
	return false
}

func TestPollerEmitsWhenInputSinceLastPoll(t *testing.T) {
	idle := 3 * time.Second
	source := platform.IdleFunc(func() (time.Duration, error) { return idle, nil })
	observer := &countingObserver{}
	poller := NewPoller(source, 10*time.Second, observer, log.New(io.Discard, "", 0))

	if !poller.Poll() {
		t.Fatalf("recent input not reported")
	}

	idle = 40 * time.Second
	if poller.Poll() {
		t.Fatalf("input older than the poll interval reported again")
	}
	if got := observer.calls.Load(); got != 1 {
		t.Fatalf("observations = %d, want 1", got)
	}
}

func TestPollerDisablesWhenUnsupported(t *testing.T) {
	var calls atomic.Int32
	source := platform.IdleFunc(func() (time.Duration, error) {
		calls.Add(1)
		return 0, platform.ErrIdleUnsupported
	})
	observer := &countingObserver{}
	poller := NewPoller(source, 10*time.Second, observer, log.New(io.Discard, "", 0))

	poller.Poll()
	poller.Poll()
	if !poller.Disabled() {
		t.Fatalf("poller not disabled")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("probes = %d, want 1", got)
	}
	if got := observer.calls.Load(); got != 0 {
		t.Fatalf("observations = %d, want 0", got)
	}
}

func TestPollerKeepsGoingAfterTransientError(t *testing.T) {
	fail := true
	source := platform.IdleFunc(func() (time.Duration, error) {
		if fail {
			return 0, errors.New("xprintidle: exit status 1")
		}
		return time.Second, nil
	})
	observer := &countingObserver{}
	poller := NewPoller(source, 10*time.Second, observer, log.New(io.Discard, "", 0))

	if poller.Poll() {
		t.Fatalf("failed probe reported activity")
	}
	fail = false
	if !poller.Poll() {
		t.Fatalf("probe after transient error did not report activity")
	}
	if poller.Disabled() {
		t.Fatalf("transient error disabled the poller")
	}
}
