package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func settle(t *testing.T, scheduler *Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := scheduler.Settle(ctx); err != nil {
		t.Fatalf("settle: %v", err)
	}
}

func TestAfterFiresOnceWhenDue(t *testing.T) {
	clock := clockwork.NewFakeClock()
	scheduler := New(clock)

	var calls atomic.Int32
	if _, err := scheduler.After(5*time.Minute, func() { calls.Add(1) }); err != nil {
		t.Fatalf("after: %v", err)
	}

	clock.Advance(4 * time.Minute)
	settle(t, scheduler)
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls before deadline = %d, want 0", got)
	}

	clock.Advance(time.Minute)
	settle(t, scheduler)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls at deadline = %d, want 1", got)
	}

	clock.Advance(time.Hour)
	settle(t, scheduler)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls after deadline = %d, want 1", got)
	}
	if scheduler.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", scheduler.Pending())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	scheduler := New(clock)

	var calls atomic.Int32
	handle, err := scheduler.After(time.Minute, func() { calls.Add(1) })
	if err != nil {
		t.Fatalf("after: %v", err)
	}
	handle.Cancel()
	handle.Cancel()

	var nilHandle *Handle
	nilHandle.Cancel()

	clock.Advance(2 * time.Minute)
	settle(t, scheduler)
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls = %d, want 0", got)
	}
	if scheduler.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", scheduler.Pending())
	}
}

func TestAfterRejectsInvalidDelay(t *testing.T) {
	scheduler := New(clockwork.NewFakeClock())
	if _, err := scheduler.After(0, func() {}); !errors.Is(err, ErrInvalidDelay) {
		t.Fatalf("err = %v, want ErrInvalidDelay", err)
	}
	if _, err := scheduler.After(-time.Second, func() {}); !errors.Is(err, ErrInvalidDelay) {
		t.Fatalf("err = %v, want ErrInvalidDelay", err)
	}
}

func TestCloseCancelsAndRejects(t *testing.T) {
	clock := clockwork.NewFakeClock()
	scheduler := New(clock)

	var calls atomic.Int32
	if _, err := scheduler.After(time.Minute, func() { calls.Add(1) }); err != nil {
		t.Fatalf("after: %v", err)
	}
	scheduler.Close()

	if _, err := scheduler.After(time.Minute, func() {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}

	clock.Advance(time.Hour)
	settle(t, scheduler)
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls = %d, want 0", got)
	}
}

func TestDeadlineTracksClock(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	scheduler := New(clock)

	handle, err := scheduler.After(45*time.Minute, func() {})
	if err != nil {
		t.Fatalf("after: %v", err)
	}
	if want := start.Add(45 * time.Minute); !handle.Deadline().Equal(want) {
		t.Fatalf("deadline = %v, want %v", handle.Deadline(), want)
	}
}
