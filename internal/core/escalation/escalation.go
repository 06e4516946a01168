// Package escalation drives the ambient -> interruptive -> blocking reminder
// sequence for a single reminder at a time.
package escalation

import (
	"fmt"
	"log"
	"sync"

	"movedyet/internal/core/model"
	"movedyet/internal/core/schedule"
)

// Level is the current escalation level.
type Level int

const (
	LevelIdle Level = iota
	LevelAmbient
	LevelInterruptive
	LevelBlocking
)

func (level Level) String() string {
	switch level {
	case LevelIdle:
		return "idle"
	case LevelAmbient:
		return "ambient"
	case LevelInterruptive:
		return "interruptive"
	case LevelBlocking:
		return "blocking"
	default:
		return fmt.Sprintf("level(%d)", int(level))
	}
}

// Choice is the user's answer to the interruptive prompt.
type Choice int

const (
	ChoiceDismissed Choice = iota
	ChoiceConfirm
	ChoiceSnooze
)

// Presenter renders the first two levels.
type Presenter interface {
	ShowAmbient(kind model.ReminderKind) error
	HideAmbient()
	// Prompt asks the user to confirm or snooze. reply may be called at most
	// once, from any goroutine, at any later time.
	Prompt(kind model.ReminderKind, reply func(Choice)) error
	Snoozed(kind model.ReminderKind)
}

// Confirmer performs the side effects of a confirmed reminder.
type Confirmer interface {
	Confirm(kind model.ReminderKind)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(kind model.ReminderKind)

// Confirm calls fn(kind).
func (fn ConfirmFunc) Confirm(kind model.ReminderKind) {
	fn(kind)
}

// Options contains the collaborators of a Machine.
type Options struct {
	Scheduler *schedule.Scheduler
	Config    model.ConfigProvider
	Presenter Presenter
	Confirmer Confirmer
	Logger    *log.Logger
}

// State is a snapshot of the machine.
type State struct {
	Level      Level
	Kind       model.ReminderKind
	Active     bool
	Snoozed    bool
	Generation uint64
}

// Machine is the escalation state machine. Every scheduled callback captures
// the generation it was scheduled under and does nothing once it changed.
// Presenter calls are queued under the lock and run in queue order outside it,
// so the presenter sees them in the order the state changed.
type Machine struct {
	mu         sync.Mutex
	scheduler  *schedule.Scheduler
	config     model.ConfigProvider
	presenter  Presenter
	confirmer  Confirmer
	logger     *log.Logger
	level      Level
	kind       model.ReminderKind
	snoozed    model.ReminderKind
	onBlocking func()
	handle     *schedule.Handle
	generation uint64
	queue      []presentation
	draining   bool
}

type presentation struct {
	action string
	kind   model.ReminderKind
	fn     func() error
}

// New creates an idle Machine.
func New(options Options) *Machine {
	if options.Scheduler == nil {
		options.Scheduler = schedule.New(nil)
	}
	if options.Config == nil {
		options.Config = model.StaticConfig(model.DefaultConfig())
	}
	if options.Presenter == nil {
		options.Presenter = nopPresenter{}
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	return &Machine{
		scheduler: options.Scheduler,
		config:    options.Config,
		presenter: options.Presenter,
		confirmer: options.Confirmer,
		logger:    options.Logger,
	}
}

// SetConfirmer replaces the confirm side effect.
func (machine *Machine) SetConfirmer(confirmer Confirmer) {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	machine.confirmer = confirmer
}

// State returns the current snapshot.
func (machine *Machine) State() State {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return State{
		Level:      machine.level,
		Kind:       machine.kind,
		Active:     machine.level != LevelIdle,
		Snoozed:    machine.snoozed != "",
		Generation: machine.generation,
	}
}

// Level returns the current level.
func (machine *Machine) Level() Level {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.level
}

// Start begins a new episode for kind at the ambient level. A running episode,
// or a pending snooze, is stopped first.
func (machine *Machine) Start(kind model.ReminderKind, onBlocking func()) {
	level1 := machine.config.Config().Escalation.Level1

	machine.mu.Lock()
	hadIndicator := machine.stopLocked()
	machine.level = LevelAmbient
	machine.kind = kind
	machine.onBlocking = onBlocking
	generation := machine.generation
	handle, err := machine.scheduler.After(level1, func() {
		machine.promote(generation)
	})
	if err != nil {
		machine.logger.Printf("escalation: schedule level 2 for %s: %v", kind, err)
		machine.stopLocked()
		if hadIndicator {
			machine.hideAmbientLocked()
		}
		machine.mu.Unlock()
		machine.flush()
		machine.runBlocking(kind, onBlocking)
		return
	}
	machine.handle = handle
	if hadIndicator {
		machine.hideAmbientLocked()
	}
	machine.enqueueLocked("show ambient reminder", kind, func() error {
		return machine.presenter.ShowAmbient(kind)
	})
	machine.mu.Unlock()
	machine.flush()
}

// Stop returns to idle, cancelling any pending timer or snooze. Idempotent.
func (machine *Machine) Stop() {
	machine.mu.Lock()
	if machine.stopLocked() {
		machine.hideAmbientLocked()
	}
	machine.mu.Unlock()
	machine.flush()
}

// StopKind stops the episode only if it concerns kind, including a pending
// snooze for kind.
func (machine *Machine) StopKind(kind model.ReminderKind) bool {
	machine.mu.Lock()
	if machine.kind != kind && machine.snoozed != kind {
		machine.mu.Unlock()
		return false
	}
	if machine.stopLocked() {
		machine.hideAmbientLocked()
	}
	machine.mu.Unlock()
	machine.flush()
	return true
}

// Confirm confirms the active episode from any level and reports whether one
// was active.
func (machine *Machine) Confirm() bool {
	machine.mu.Lock()
	if machine.level == LevelIdle {
		machine.mu.Unlock()
		return false
	}
	kind := machine.kind
	machine.stopLocked()
	machine.hideAmbientLocked()
	confirmer := machine.confirmer
	machine.mu.Unlock()

	machine.flush()
	machine.confirm(confirmer, kind)
	return true
}

// Snooze postpones the active episode by the level 1 duration and reports
// whether one was active.
func (machine *Machine) Snooze() bool {
	machine.mu.Lock()
	if machine.level == LevelIdle {
		machine.mu.Unlock()
		return false
	}
	machine.snoozeLocked()
	return true
}

func (machine *Machine) promote(generation uint64) {
	level2 := machine.config.Config().Escalation.Level2

	machine.mu.Lock()
	if generation != machine.generation || machine.level != LevelAmbient {
		machine.mu.Unlock()
		return
	}
	machine.handle = nil
	machine.level = LevelInterruptive
	machine.generation++
	current := machine.generation
	kind := machine.kind
	handle, err := machine.scheduler.After(level2, func() {
		machine.block(current)
	})
	if err != nil {
		machine.logger.Printf("escalation: schedule level 3 for %s: %v", kind, err)
		machine.mu.Unlock()
		machine.block(current)
		return
	}
	machine.handle = handle
	machine.enqueueLocked("prompt", kind, func() error {
		return machine.presenter.Prompt(kind, func(choice Choice) {
			machine.choose(current, choice)
		})
	})
	machine.mu.Unlock()
	machine.flush()
}

func (machine *Machine) choose(generation uint64, choice Choice) {
	machine.mu.Lock()
	if generation != machine.generation || machine.level != LevelInterruptive {
		machine.mu.Unlock()
		return
	}

	switch choice {
	case ChoiceConfirm:
		kind := machine.kind
		machine.stopLocked()
		machine.hideAmbientLocked()
		confirmer := machine.confirmer
		machine.mu.Unlock()
		machine.flush()
		machine.confirm(confirmer, kind)
	case ChoiceSnooze:
		machine.snoozeLocked()
	default:
		machine.mu.Unlock()
	}
}

func (machine *Machine) block(generation uint64) {
	machine.mu.Lock()
	if generation != machine.generation || machine.level != LevelInterruptive {
		machine.mu.Unlock()
		return
	}
	kind := machine.kind
	onBlocking := machine.onBlocking
	machine.stopLocked()
	machine.hideAmbientLocked()
	machine.mu.Unlock()

	machine.flush()
	machine.runBlocking(kind, onBlocking)
}

// snoozeLocked must be called with mu held; it releases it.
func (machine *Machine) snoozeLocked() {
	kind := machine.kind
	onBlocking := machine.onBlocking
	machine.stopLocked()
	machine.snoozed = kind
	generation := machine.generation
	delay := machine.config.Config().Escalation.Level1
	handle, err := machine.scheduler.After(delay, func() {
		machine.reenter(generation, kind, onBlocking)
	})
	if err != nil {
		machine.logger.Printf("escalation: schedule snooze for %s: %v", kind, err)
		machine.snoozed = ""
		machine.hideAmbientLocked()
		machine.mu.Unlock()
		machine.flush()
		machine.runBlocking(kind, onBlocking)
		return
	}
	machine.handle = handle
	machine.hideAmbientLocked()
	machine.enqueueLocked("snooze notice", kind, func() error {
		machine.presenter.Snoozed(kind)
		return nil
	})
	machine.mu.Unlock()
	machine.flush()
}

func (machine *Machine) reenter(generation uint64, kind model.ReminderKind, onBlocking func()) {
	machine.mu.Lock()
	if generation != machine.generation || machine.snoozed != kind {
		machine.mu.Unlock()
		return
	}
	machine.handle = nil
	machine.snoozed = ""
	machine.mu.Unlock()

	machine.Start(kind, onBlocking)
}

// stopLocked resets to idle and reports whether an indicator was showing.
func (machine *Machine) stopLocked() bool {
	hadIndicator := machine.level == LevelAmbient || machine.level == LevelInterruptive
	machine.handle.Cancel()
	machine.handle = nil
	machine.level = LevelIdle
	machine.kind = ""
	machine.snoozed = ""
	machine.onBlocking = nil
	machine.generation++
	return hadIndicator
}

func (machine *Machine) runBlocking(kind model.ReminderKind, onBlocking func()) {
	if onBlocking == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			machine.logger.Printf("escalation: blocking reminder for %s panicked: %v", kind, recovered)
		}
	}()
	onBlocking()
}

func (machine *Machine) hideAmbientLocked() {
	machine.enqueueLocked("hide ambient reminder", "", func() error {
		machine.presenter.HideAmbient()
		return nil
	})
}

func (machine *Machine) enqueueLocked(action string, kind model.ReminderKind, fn func() error) {
	machine.queue = append(machine.queue, presentation{action: action, kind: kind, fn: fn})
}

// flush runs queued presenter calls. One goroutine drains at a time; calls
// queued meanwhile, including from inside a presenter call, are run by it.
func (machine *Machine) flush() {
	machine.mu.Lock()
	if machine.draining {
		machine.mu.Unlock()
		return
	}
	machine.draining = true
	for len(machine.queue) > 0 {
		next := machine.queue[0]
		machine.queue[0] = presentation{}
		machine.queue = machine.queue[1:]
		machine.mu.Unlock()
		machine.present(next.action, next.kind, next.fn)
		machine.mu.Lock()
	}
	machine.queue = nil
	machine.draining = false
	machine.mu.Unlock()
}

// present runs a presentation callback; failures never change machine state.
func (machine *Machine) present(action string, kind model.ReminderKind, fn func() error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			machine.logger.Printf("escalation: %s %s panicked: %v", action, kind, recovered)
		}
	}()
	if err := fn(); err != nil {
		machine.logger.Printf("escalation: %s %s: %v", action, kind, err)
	}
}

func (machine *Machine) confirm(confirmer Confirmer, kind model.ReminderKind) {
	if confirmer == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			machine.logger.Printf("escalation: confirm %s panicked: %v", kind, recovered)
		}
	}()
	confirmer.Confirm(kind)
}

type nopPresenter struct{}

func (nopPresenter) ShowAmbient(model.ReminderKind) error { return nil }

func (nopPresenter) HideAmbient() {}

func (nopPresenter) Prompt(model.ReminderKind, func(Choice)) error { return nil }

func (nopPresenter) Snoozed(model.ReminderKind) {}
