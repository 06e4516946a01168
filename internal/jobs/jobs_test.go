package jobs

import (
	"io"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"movedyet/internal/core/model"
	"movedyet/internal/platform"
	"movedyet/internal/report"
)

type fakeEngine struct {
	flushes    atomic.Int32
	activities atomic.Int32
}

func (engine *fakeEngine) UpdateWorkTime() error {
	engine.flushes.Add(1)
	return nil
}

func (engine *fakeEngine) RecordActivity() error {
	engine.activities.Add(1)
	return nil
}

type memorySource struct {
	mu    sync.Mutex
	stats map[string]model.DailyStats
	last  string
}

func (source *memorySource) DailyStats(day string) (model.DailyStats, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	stats := source.stats[day]
	stats.Day = day
	return stats, nil
}

func (source *memorySource) LastReportDate() (string, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.last, nil
}

func (source *memorySource) SetLastReportDate(day string) error {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.last = day
	return nil
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestStartRegistersConfiguredJobs(t *testing.T) {
	runner, err := Start(Options{
		Engine: &fakeEngine{},
		Idle:   platform.IdleFunc(func() (time.Duration, error) { return time.Hour, nil }),
		Logger: discard(),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer runner.Shutdown()

	names := runner.JobNames()
	sort.Strings(names)
	want := []string{JobIdlePoll, JobWorkFlush}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("jobs = %v, want %v", names, want)
	}
}

func TestStartRequiresEngine(t *testing.T) {
	if _, err := Start(Options{Logger: discard()}); err == nil {
		t.Fatalf("start without engine succeeded")
	}
}

func TestCheckReportPresentsOncePerDay(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 3, 10, 0, 0, 0, time.Local))
	source := &memorySource{stats: map[string]model.DailyStats{
		"2026-03-02": {SitCount: 6, DrinkCount: 8, WorkMinutes: 480},
	}}
	var shown []report.Report
	runner, err := newRunner(Options{
		Engine:   &fakeEngine{},
		Reports:  source,
		OnReport: func(daily report.Report) { shown = append(shown, daily) },
		Clock:    clock,
		Logger:   discard(),
	})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if !runner.CheckReport() {
		t.Fatalf("report not shown after 9AM")
	}
	if runner.CheckReport() {
		t.Fatalf("report shown twice on the same day")
	}
	if len(shown) != 1 || shown[0].Day != "2026-03-02" {
		t.Fatalf("shown = %+v, want one report for 2026-03-02", shown)
	}
}

func TestCheckReportWaitsForMorning(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 3, 8, 30, 0, 0, time.Local))
	source := &memorySource{stats: map[string]model.DailyStats{
		"2026-03-02": {SitCount: 1},
	}}
	runner, err := newRunner(Options{Engine: &fakeEngine{}, Reports: source, Clock: clock, Logger: discard()})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if runner.CheckReport() {
		t.Fatalf("report shown before 9AM")
	}
	clock.Advance(time.Hour)
	if !runner.CheckReport() {
		t.Fatalf("report not shown after 9AM")
	}
}

func TestIdlePollFeedsEngine(t *testing.T) {
	engine := &fakeEngine{}
	runner, err := newRunner(Options{
		Engine:           engine,
		Idle:             platform.IdleFunc(func() (time.Duration, error) { return 2 * time.Second, nil }),
		IdlePollInterval: 10 * time.Second,
		Logger:           discard(),
	})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if !runner.poller.Poll() {
		t.Fatalf("recent input not reported as activity")
	}
	if got := engine.activities.Load(); got != 1 {
		t.Fatalf("activities = %d, want 1", got)
	}
	runner.flushWorkTime()
	if got := engine.flushes.Load(); got != 1 {
		t.Fatalf("flushes = %d, want 1", got)
	}
}
