package timekeeper

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"movedyet/internal/core/model"
	"movedyet/internal/core/schedule"
)

// TriggerSink receives a reminder kind whenever its interval elapses.
type TriggerSink interface {
	Trigger(kind model.ReminderKind)
}

// TriggerFunc adapts a function to TriggerSink.
type TriggerFunc func(kind model.ReminderKind)

// Trigger calls fn(kind).
func (fn TriggerFunc) Trigger(kind model.ReminderKind) {
	fn(kind)
}

// Options contains the collaborators of a TimeKeeper.
type Options struct {
	Scheduler *schedule.Scheduler
	Config    model.ConfigProvider
	Sink      TriggerSink
	Logger    *log.Logger
}

// Remaining describes how long until a reminder fires.
type Remaining struct {
	Kind    model.ReminderKind
	Enabled bool
	Running bool
	Minutes int
}

type track struct {
	handle     *schedule.Handle
	startedAt  time.Time
	generation uint64
}

// TimeKeeper owns the sit and drink interval timers.
type TimeKeeper struct {
	mu        sync.Mutex
	scheduler *schedule.Scheduler
	config    model.ConfigProvider
	sink      TriggerSink
	logger    *log.Logger
	tracks    map[model.ReminderKind]*track
	events    []chan Event
}

// New creates a TimeKeeper. Timers are not started until StartAll.
func New(options Options) *TimeKeeper {
	if options.Scheduler == nil {
		options.Scheduler = schedule.New(nil)
	}
	if options.Config == nil {
		options.Config = model.StaticConfig(model.DefaultConfig())
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}

	now := options.Scheduler.Now()
	keeper := &TimeKeeper{
		scheduler: options.Scheduler,
		config:    options.Config,
		sink:      options.Sink,
		logger:    options.Logger,
		tracks:    make(map[model.ReminderKind]*track),
	}
	for _, kind := range model.Kinds() {
		keeper.tracks[kind] = &track{startedAt: now}
	}
	return keeper
}

// SetSink replaces the trigger sink.
func (keeper *TimeKeeper) SetSink(sink TriggerSink) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.sink = sink
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// StartAll starts every enabled track that is not already counting down.
func (keeper *TimeKeeper) StartAll() error {
	config := keeper.config.Config()

	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	var errs []error
	for _, kind := range model.Kinds() {
		if err := keeper.startLocked(kind, config); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ClearAll cancels both timers. Calling it again is a no-op.
func (keeper *TimeKeeper) ClearAll() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	for _, kind := range model.Kinds() {
		keeper.clearLocked(kind)
	}
}

// ResetAll clears both timers and starts them again from the latest config.
func (keeper *TimeKeeper) ResetAll() error {
	config := keeper.config.Config()

	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	for _, kind := range model.Kinds() {
		keeper.clearLocked(kind)
	}
	var errs []error
	for _, kind := range model.Kinds() {
		if err := keeper.startLocked(kind, config); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResetOne restarts a single track without touching the other one.
func (keeper *TimeKeeper) ResetOne(kind model.ReminderKind) error {
	if !kind.Valid() {
		return fmt.Errorf("reset timer: unknown kind %q", kind)
	}
	config := keeper.config.Config()

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.clearLocked(kind)
	return keeper.startLocked(kind, config)
}

// Remaining reports the whole minutes left for kind, truncating elapsed time
// and clamping at zero.
func (keeper *TimeKeeper) Remaining(kind model.ReminderKind) Remaining {
	reminder := keeper.config.Config().Reminder(kind)
	result := Remaining{Kind: kind, Enabled: reminder.Enabled}
	if !reminder.Enabled {
		return result
	}

	keeper.mu.Lock()
	current, ok := keeper.tracks[kind]
	if !ok {
		keeper.mu.Unlock()
		result.Enabled = false
		return result
	}
	startedAt := current.startedAt
	result.Running = current.handle != nil
	keeper.mu.Unlock()

	elapsed := int(keeper.scheduler.Now().Sub(startedAt) / time.Minute)
	minutes := int(reminder.Interval/time.Minute) - elapsed
	if minutes < 0 {
		minutes = 0
	}
	result.Minutes = minutes
	return result
}

// StartedAt returns when kind was last (re)started.
func (keeper *TimeKeeper) StartedAt(kind model.ReminderKind) time.Time {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if current, ok := keeper.tracks[kind]; ok {
		return current.startedAt
	}
	return time.Time{}
}

// Running reports whether kind is counting down.
func (keeper *TimeKeeper) Running(kind model.ReminderKind) bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	current, ok := keeper.tracks[kind]
	return ok && current.handle != nil
}

// Stop clears the timers and closes observers.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	for _, kind := range model.Kinds() {
		keeper.clearLocked(kind)
	}
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) startLocked(kind model.ReminderKind, config model.Config) error {
	current := keeper.tracks[kind]
	if current.handle != nil {
		keeper.logger.Printf("timekeeper: %s timer already running, start ignored", kind)
		return nil
	}

	reminder := config.Reminder(kind)
	if !reminder.Enabled {
		return nil
	}

	current.generation++
	generation := current.generation
	handle, err := keeper.scheduler.After(reminder.Interval, func() {
		keeper.expire(kind, generation)
	})
	if err != nil {
		keeper.logger.Printf("timekeeper: schedule %s timer: %v", kind, err)
		keeper.emitLocked(Event{
			Type:    EventScheduleError,
			Kind:    kind,
			Message: err.Error(),
			At:      keeper.scheduler.Now(),
		})
		return fmt.Errorf("schedule %s timer: %w", kind, err)
	}

	current.handle = handle
	current.startedAt = keeper.scheduler.Now()
	keeper.emitLocked(Event{
		Type: EventStarted,
		Kind: kind,
		At:   current.startedAt,
	})
	return nil
}

func (keeper *TimeKeeper) clearLocked(kind model.ReminderKind) {
	current := keeper.tracks[kind]
	if current.handle == nil {
		return
	}
	current.handle.Cancel()
	current.handle = nil
	current.generation++
	keeper.emitLocked(Event{
		Type: EventCleared,
		Kind: kind,
		At:   keeper.scheduler.Now(),
	})
}

func (keeper *TimeKeeper) expire(kind model.ReminderKind, generation uint64) {
	keeper.mu.Lock()
	current := keeper.tracks[kind]
	if current.handle == nil || current.generation != generation {
		keeper.mu.Unlock()
		return
	}
	current.handle = nil
	sink := keeper.sink
	keeper.emitLocked(Event{
		Type: EventTriggered,
		Kind: kind,
		At:   keeper.scheduler.Now(),
	})
	keeper.mu.Unlock()

	if sink == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			keeper.logger.Printf("timekeeper: %s trigger panicked: %v", kind, recovered)
		}
	}()
	sink.Trigger(kind)
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
