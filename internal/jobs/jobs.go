// Package jobs runs the periodic background work of the desktop app.
package jobs

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"movedyet/internal/core/activity"
	"movedyet/internal/platform"
	"movedyet/internal/report"
)

const (
	DefaultWorkFlushInterval   = 10 * time.Minute
	DefaultIdlePollInterval    = 10 * time.Second
	DefaultReportCheckInterval = 30 * time.Minute
)

// Job names.
const (
	JobWorkFlush   = "work-flush"
	JobIdlePoll    = "idle-poll"
	JobReportCheck = "report-check"
)

// Engine is the part of the reminder engine driven by the jobs.
type Engine interface {
	UpdateWorkTime() error
	RecordActivity() error
}

// Options configures Start. Idle and Reports are optional; their jobs are not
// registered when nil.
type Options struct {
	Engine              Engine
	Idle                platform.IdleProvider
	Reports             report.Source
	OnReport            func(report.Report)
	Clock               clockwork.Clock
	WorkFlushInterval   time.Duration
	IdlePollInterval    time.Duration
	ReportCheckInterval time.Duration
	Logger              *log.Logger
}

// Runner owns the gocron scheduler.
type Runner struct {
	options   Options
	scheduler gocron.Scheduler
	poller    *activity.Poller
	logger    *log.Logger
}

// Start registers the jobs and starts the scheduler.
func Start(options Options) (*Runner, error) {
	runner, err := newRunner(options)
	if err != nil {
		return nil, err
	}

	scheduler, err := gocron.NewScheduler(gocron.WithClock(runner.options.Clock))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	runner.scheduler = scheduler

	if err := runner.register(JobWorkFlush, runner.options.WorkFlushInterval, false, runner.flushWorkTime); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	if runner.poller != nil {
		if err := runner.register(JobIdlePoll, runner.options.IdlePollInterval, false, func() { runner.poller.Poll() }); err != nil {
			_ = scheduler.Shutdown()
			return nil, err
		}
	}
	if runner.options.Reports != nil {
		if err := runner.register(JobReportCheck, runner.options.ReportCheckInterval, true, func() { runner.CheckReport() }); err != nil {
			_ = scheduler.Shutdown()
			return nil, err
		}
	}

	scheduler.Start()
	return runner, nil
}

func newRunner(options Options) (*Runner, error) {
	if options.Engine == nil {
		return nil, errors.New("jobs: engine is required")
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.WorkFlushInterval <= 0 {
		options.WorkFlushInterval = DefaultWorkFlushInterval
	}
	if options.IdlePollInterval <= 0 {
		options.IdlePollInterval = DefaultIdlePollInterval
	}
	if options.ReportCheckInterval <= 0 {
		options.ReportCheckInterval = DefaultReportCheckInterval
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}

	runner := &Runner{options: options, logger: options.Logger}
	if options.Idle != nil {
		runner.poller = activity.NewPoller(options.Idle, options.IdlePollInterval, engineObserver{engine: options.Engine}, options.Logger)
	}
	return runner, nil
}

func (runner *Runner) register(name string, every time.Duration, immediately bool, task func()) error {
	jobOptions := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if immediately {
		jobOptions = append(jobOptions, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	if _, err := runner.scheduler.NewJob(gocron.DurationJob(every), gocron.NewTask(task), jobOptions...); err != nil {
		return fmt.Errorf("register %s job: %w", name, err)
	}
	return nil
}

// JobNames lists the registered jobs.
func (runner *Runner) JobNames() []string {
	if runner.scheduler == nil {
		return nil
	}
	jobs := runner.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, job := range jobs {
		names = append(names, job.Name())
	}
	return names
}

// CheckReport presents yesterday's report if it is due and reports whether it
// did.
func (runner *Runner) CheckReport() bool {
	if runner.options.Reports == nil {
		return false
	}
	daily, due, err := report.Due(runner.options.Reports, runner.options.Clock.Now())
	if err != nil {
		runner.logger.Printf("jobs: %v", err)
		return false
	}
	if !due {
		return false
	}
	if runner.options.OnReport != nil {
		runner.options.OnReport(daily)
	}
	return true
}

// Shutdown stops the scheduler and waits for running jobs.
func (runner *Runner) Shutdown() error {
	if runner.scheduler == nil {
		return nil
	}
	if err := runner.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown jobs: %w", err)
	}
	return nil
}

func (runner *Runner) flushWorkTime() {
	if err := runner.options.Engine.UpdateWorkTime(); err != nil {
		runner.logger.Printf("jobs: flush work time: %v", err)
	}
}

// engineObserver feeds idle-poll activity to the engine.
type engineObserver struct {
	engine Engine
}

func (observer engineObserver) Observe() bool {
	return observer.engine.RecordActivity() == nil
}
