package engine

import (
	"fmt"
	"time"

	"movedyet/internal/core/escalation"
	"movedyet/internal/core/model"
)

// escalationPresenter forwards to the host presenter and records snoozes.
type escalationPresenter struct {
	engine *Engine
}

func (presenter escalationPresenter) ShowAmbient(kind model.ReminderKind) error {
	return presenter.engine.options.Presenter.ShowAmbient(kind)
}

func (presenter escalationPresenter) HideAmbient() {
	presenter.engine.options.Presenter.HideAmbient()
}

func (presenter escalationPresenter) Prompt(kind model.ReminderKind, reply func(escalation.Choice)) error {
	return presenter.engine.options.Presenter.Prompt(kind, reply)
}

func (presenter escalationPresenter) Snoozed(kind model.ReminderKind) {
	presenter.engine.recordSnooze(kind)
	presenter.engine.options.Presenter.Snoozed(kind)
}

type focusListener struct {
	engine *Engine
}

func (listener focusListener) FocusStarted(d time.Duration) {
	listener.engine.notify("Focus mode", fmt.Sprintf("Reminders paused for %d minutes.", int(d/time.Minute)))
}

func (listener focusListener) FocusEnded() {
	listener.engine.notify("Focus mode ended", "Reminders are back on.")
}

type nopPresenter struct{}

func (nopPresenter) ShowAmbient(model.ReminderKind) error { return nil }

func (nopPresenter) HideAmbient() {}

func (nopPresenter) Prompt(model.ReminderKind, func(escalation.Choice)) error { return nil }

func (nopPresenter) Snoozed(model.ReminderKind) {}

func (nopPresenter) ShowBlocking(model.ReminderKind, func()) error { return nil }

func (nopPresenter) Notify(string, string) {}
