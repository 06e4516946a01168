// Package engine wires the reminder components into one host-owned service.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"movedyet/internal/core/activity"
	"movedyet/internal/core/escalation"
	"movedyet/internal/core/focus"
	"movedyet/internal/core/model"
	"movedyet/internal/core/schedule"
	"movedyet/internal/core/timekeeper"
	"movedyet/internal/core/worktime"
)

// ErrNotInitialized is returned by every operation used before Init or after
// Dispose.
var ErrNotInitialized = errors.New("engine not initialized")

// History persists reminder outcomes and work minutes.
type History interface {
	RecordReminder(record model.ReminderRecord) error
	AddWorkMinutes(day string, minutes int) error
	WorkMinutes(day string) (int, error)
}

// Presenter renders every reminder level and user notices.
type Presenter interface {
	escalation.Presenter
	// ShowBlocking shows the confirm-only prompt; confirm is called once the
	// user acknowledges it.
	ShowBlocking(kind model.ReminderKind, confirm func()) error
	Notify(title, message string)
}

// Options contains the collaborators of an Engine.
type Options struct {
	Clock           clockwork.Clock
	Config          model.ConfigProvider
	Presenter       Presenter
	History         History
	InactivityLimit time.Duration
	NewID           func() string
	Logger          *log.Logger
}

// Status is a point-in-time view of every component.
type Status struct {
	Remaining  map[model.ReminderKind]timekeeper.Remaining
	Escalation escalation.State
	Activity   activity.Status
	Work       worktime.Status
	Focus      focus.Status
}

type parts struct {
	scheduler  *schedule.Scheduler
	keeper     *timekeeper.TimeKeeper
	machine    *escalation.Machine
	detector   *activity.Detector
	accountant *worktime.Accountant
	focus      *focus.Session
}

// Engine is the reminder service facade.
type Engine struct {
	mu          sync.Mutex
	options     Options
	logger      *log.Logger
	parts       *parts
	reminderIDs map[model.ReminderKind]string
}

// New creates an Engine. Nothing runs until Init.
func New(options Options) *Engine {
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.Config == nil {
		options.Config = model.StaticConfig(model.DefaultConfig())
	}
	if options.Presenter == nil {
		options.Presenter = nopPresenter{}
	}
	if options.NewID == nil {
		options.NewID = uuid.NewString
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	return &Engine{
		options:     options,
		logger:      options.Logger,
		reminderIDs: make(map[model.ReminderKind]string),
	}
}

// Init builds the components, starts the interval timers and then the
// activity detector. Calling it twice is a no-op.
func (engine *Engine) Init() error {
	engine.mu.Lock()
	if engine.parts != nil {
		engine.mu.Unlock()
		return nil
	}

	scheduler := schedule.New(engine.options.Clock)
	current := &parts{scheduler: scheduler}
	current.keeper = timekeeper.New(timekeeper.Options{
		Scheduler: scheduler,
		Config:    engine.options.Config,
		Sink:      timekeeper.TriggerFunc(engine.trigger),
		Logger:    engine.logger,
	})
	current.machine = escalation.New(escalation.Options{
		Scheduler: scheduler,
		Config:    engine.options.Config,
		Presenter: escalationPresenter{engine: engine},
		Confirmer: escalation.ConfirmFunc(engine.completeConfirm),
		Logger:    engine.logger,
	})
	current.detector = activity.New(activity.Options{
		Scheduler: scheduler,
		Config:    engine.options.Config,
		OnResume:  activity.ResumeFunc(engine.resume),
		Logger:    engine.logger,
	})
	var bucket worktime.Bucket
	if engine.options.History != nil {
		bucket = engine.options.History
	}
	current.accountant = worktime.New(worktime.Options{
		Clock:           engine.options.Clock,
		Bucket:          bucket,
		InactivityLimit: engine.options.InactivityLimit,
		Logger:          engine.logger,
	})
	current.focus = focus.New(focus.Options{
		Scheduler: scheduler,
		Timers:    current.keeper,
		Listener:  focusListener{engine: engine},
		Logger:    engine.logger,
	})
	engine.parts = current
	engine.mu.Unlock()

	if err := current.keeper.StartAll(); err != nil {
		engine.logger.Printf("engine: start timers: %v", err)
	}
	current.detector.Start()
	return nil
}

// Dispose stops every component and flushes work time. Idempotent.
func (engine *Engine) Dispose() {
	engine.mu.Lock()
	current := engine.parts
	engine.parts = nil
	engine.mu.Unlock()
	if current == nil {
		return
	}

	current.detector.Stop()
	current.keeper.Stop()
	current.machine.Stop()
	current.accountant.UpdateWorkTime()
	current.scheduler.Close()
}

// Subscribe returns timer events for observers such as the tray.
func (engine *Engine) Subscribe(buffer int) (<-chan timekeeper.Event, error) {
	current, err := engine.current()
	if err != nil {
		return nil, err
	}
	return current.keeper.Subscribe(buffer), nil
}

// Confirm acknowledges the reminder for kind: the kind's episode is stopped,
// its timer restarts and the outcome is recorded.
func (engine *Engine) Confirm(kind model.ReminderKind) error {
	if !kind.Valid() {
		return fmt.Errorf("confirm: unknown kind %q", kind)
	}
	current, err := engine.current()
	if err != nil {
		return err
	}
	current.machine.StopKind(kind)
	engine.completeConfirm(kind)
	return nil
}

// ConfirmActive confirms whichever escalation is running and reports whether
// one was.
func (engine *Engine) ConfirmActive() (bool, error) {
	current, err := engine.current()
	if err != nil {
		return false, err
	}
	return current.machine.Confirm(), nil
}

// Snooze postpones the running escalation and reports whether one was running.
func (engine *Engine) Snooze() (bool, error) {
	current, err := engine.current()
	if err != nil {
		return false, err
	}
	return current.machine.Snooze(), nil
}

// FullReset restarts both interval timers from the latest configuration and
// restarts the detector. Timers stay cleared while focus mode is active.
func (engine *Engine) FullReset() error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	var resetErr error
	if !current.focus.Active() {
		resetErr = current.keeper.ResetAll()
	}
	current.detector.Restart()
	return resetErr
}

// ClearAllReminders stops any escalation and performs a full reset.
func (engine *Engine) ClearAllReminders() error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	current.machine.Stop()
	return engine.FullReset()
}

// ApplyConfig makes a configuration change take effect.
func (engine *Engine) ApplyConfig() error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	if !engine.options.Config.Config().Escalation.Enabled {
		current.machine.Stop()
	}
	return engine.FullReset()
}

// RecordActivity feeds one host activity event to the detector and the work
// accountant.
func (engine *Engine) RecordActivity() error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	current.accountant.RecordActivity()
	current.detector.Observe()
	return nil
}

// UpdateWorkTime flushes the open work session.
func (engine *Engine) UpdateWorkTime() error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	current.accountant.UpdateWorkTime()
	return nil
}

// PauseWork stops work time accounting until ResumeWork.
func (engine *Engine) PauseWork() error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	current.accountant.Pause()
	return nil
}

// ResumeWork restarts work time accounting.
func (engine *Engine) ResumeWork() error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	current.accountant.Resume()
	return nil
}

// StartFocus suppresses interval reminders for d, or the configured focus
// duration when d is zero.
func (engine *Engine) StartFocus(d time.Duration) error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	if d <= 0 {
		d = engine.options.Config.Config().FocusDuration
	}
	current.machine.Stop()
	return current.focus.Start(d)
}

// EndFocus ends focus mode early.
func (engine *Engine) EndFocus() error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	return current.focus.End()
}

// ToggleFocus ends an active focus session or starts one.
func (engine *Engine) ToggleFocus() error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	if current.focus.Active() {
		return current.focus.End()
	}
	return engine.StartFocus(0)
}

// Status assembles a snapshot of every component.
func (engine *Engine) Status() (Status, error) {
	current, err := engine.current()
	if err != nil {
		return Status{}, err
	}
	status := Status{
		Remaining:  make(map[model.ReminderKind]timekeeper.Remaining, len(model.Kinds())),
		Escalation: current.machine.State(),
		Activity:   current.detector.Status(),
		Work:       current.accountant.Status(),
		Focus:      current.focus.Status(),
	}
	for _, kind := range model.Kinds() {
		status.Remaining[kind] = current.keeper.Remaining(kind)
	}
	return status, nil
}

func (engine *Engine) current() (*parts, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.parts == nil {
		return nil, ErrNotInitialized
	}
	return engine.parts, nil
}

// trigger is the interval timer sink.
func (engine *Engine) trigger(kind model.ReminderKind) {
	current, err := engine.current()
	if err != nil {
		return
	}
	engine.mu.Lock()
	engine.reminderIDs[kind] = engine.options.NewID()
	engine.mu.Unlock()

	if engine.options.Config.Config().Escalation.Enabled {
		current.machine.Start(kind, func() { engine.showBlocking(kind) })
		return
	}
	engine.showBlocking(kind)
}

func (engine *Engine) showBlocking(kind model.ReminderKind) {
	defer func() {
		if recovered := recover(); recovered != nil {
			engine.logger.Printf("engine: blocking prompt for %s panicked: %v", kind, recovered)
		}
	}()
	err := engine.options.Presenter.ShowBlocking(kind, func() {
		if err := engine.Confirm(kind); err != nil {
			engine.logger.Printf("engine: confirm %s from blocking prompt: %v", kind, err)
		}
	})
	if err != nil {
		engine.logger.Printf("engine: show blocking prompt for %s: %v", kind, err)
	}
}

// completeConfirm restarts the kind's timer, records history and acknowledges.
func (engine *Engine) completeConfirm(kind model.ReminderKind) {
	current, err := engine.current()
	if err != nil {
		return
	}
	if !current.focus.Active() {
		if err := current.keeper.ResetOne(kind); err != nil {
			engine.logger.Printf("engine: reset %s timer: %v", kind, err)
		}
	}

	config := engine.options.Config.Config()
	if config.HistoryEnabled && engine.options.History != nil {
		record := model.ReminderRecord{
			ID:        engine.reminderID(kind),
			Kind:      kind,
			At:        engine.options.Clock.Now(),
			Confirmed: true,
		}
		if err := engine.options.History.RecordReminder(record); err != nil {
			engine.logger.Printf("history: record %s confirmation: %v", kind, err)
		}
	}
	engine.notify(confirmTitle(kind), confirmMessage(kind))
}

func (engine *Engine) recordSnooze(kind model.ReminderKind) {
	if engine.options.History == nil || !engine.options.Config.Config().HistoryEnabled {
		return
	}
	record := model.ReminderRecord{
		ID:      engine.options.NewID(),
		Kind:    kind,
		At:      engine.options.Clock.Now(),
		Snoozed: true,
	}
	if err := engine.options.History.RecordReminder(record); err != nil {
		engine.logger.Printf("history: record %s snooze: %v", kind, err)
	}
}

// reminderID returns the ID of the latest reminder for kind, allocating one
// for confirmations that had no trigger. Repeated confirmations of the same
// reminder share the ID.
func (engine *Engine) reminderID(kind model.ReminderKind) string {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	id, ok := engine.reminderIDs[kind]
	if !ok {
		id = engine.options.NewID()
		engine.reminderIDs[kind] = id
	}
	return id
}

// resume handles the first activity after an inactivity gap.
func (engine *Engine) resume(gap time.Duration) error {
	current, err := engine.current()
	if err != nil {
		return err
	}
	if current.focus.Active() {
		return nil
	}
	if err := current.keeper.ResetAll(); err != nil {
		return fmt.Errorf("reset timers after inactivity: %w", err)
	}
	engine.notify("Welcome back", fmt.Sprintf("You were away for %d minutes. Reminders have been restarted.", int(gap/time.Minute)))
	return nil
}

func (engine *Engine) notify(title, message string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			engine.logger.Printf("engine: notify panicked: %v", recovered)
		}
	}()
	engine.options.Presenter.Notify(title, message)
}

func confirmTitle(kind model.ReminderKind) string {
	if kind == model.KindSit {
		return "Nice stretch"
	}
	return "Stay hydrated"
}

func confirmMessage(kind model.ReminderKind) string {
	if kind == model.KindSit {
		return "Sit timer restarted."
	}
	return "Drink timer restarted."
}
