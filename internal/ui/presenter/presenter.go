// Package presenter renders engine reminders with the fyne tray, prompt and
// overlay windows.
package presenter

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"

	"movedyet/internal/core/escalation"
	"movedyet/internal/core/model"
	"movedyet/internal/core/timekeeper"
	"movedyet/internal/engine"
	"movedyet/internal/report"
	"movedyet/internal/ui/overlay"
	"movedyet/internal/ui/tray"
)

// Presenter implements engine.Presenter. Every call may come from any
// goroutine; UI work is queued with fyne.Do.
type Presenter struct {
	app     fyne.App
	tray    *tray.Manager
	prompt  *overlay.Prompt
	overlay *overlay.Window
}

var _ engine.Presenter = (*Presenter)(nil)

// New creates a Presenter over the given widgets.
func New(app fyne.App, trayManager *tray.Manager, prompt *overlay.Prompt, overlayWindow *overlay.Window) *Presenter {
	return &Presenter{app: app, tray: trayManager, prompt: prompt, overlay: overlayWindow}
}

// ShowAmbient switches the tray to the warning icon for kind.
func (presenter *Presenter) ShowAmbient(kind model.ReminderKind) error {
	fyne.Do(func() {
		presenter.tray.SetAmbient(kind)
		presenter.tray.SetEscalation(true)
	})
	return nil
}

// HideAmbient restores the tray icon and closes any open prompt.
func (presenter *Presenter) HideAmbient() {
	fyne.Do(func() {
		presenter.tray.SetAmbient("")
		presenter.tray.SetEscalation(false)
		presenter.prompt.Hide()
	})
}

// Prompt opens the confirm-or-snooze dialog for kind.
func (presenter *Presenter) Prompt(kind model.ReminderKind, reply func(escalation.Choice)) error {
	fyne.Do(func() {
		presenter.prompt.Show(kind, reply)
	})
	return nil
}

// Snoozed notifies that kind was postponed.
func (presenter *Presenter) Snoozed(kind model.ReminderKind) {
	presenter.Notify("Snoozed", fmt.Sprintf("We'll remind you to %s again soon.", verb(kind)))
}

// ShowBlocking puts kind on the blocking overlay.
func (presenter *Presenter) ShowBlocking(kind model.ReminderKind, confirm func()) error {
	fyne.Do(func() {
		presenter.overlay.Show(kind, confirm)
	})
	return nil
}

// Notify sends a desktop notification.
func (presenter *Presenter) Notify(title, message string) {
	presenter.app.SendNotification(fyne.NewNotification(title, message))
}

// Refresh updates the tray from an engine snapshot.
func (presenter *Presenter) Refresh(status engine.Status) {
	sit := FormatRemaining(status.Remaining[model.KindSit])
	drink := FormatRemaining(status.Remaining[model.KindDrink])
	line := StatusLine(status)
	fyne.Do(func() {
		presenter.tray.SetRemaining(sit, drink)
		presenter.tray.SetFocus(status.Focus.Active)
		presenter.tray.SetWorkPaused(status.Work.Paused)
		presenter.tray.SetStatus(line)
	})
}

// ShowReport notifies the daily report.
func (presenter *Presenter) ShowReport(daily report.Report) {
	presenter.Notify(
		fmt.Sprintf("Yesterday: %d/100 (%s)", daily.Score, daily.Rating.Label),
		fmt.Sprintf("%d stretches, %d drinks, %.1f h worked. %s", daily.SitCount, daily.DrinkCount, daily.WorkHours, strings.Join(daily.Suggestions, " ")),
	)
}

// FormatRemaining renders one countdown line.
func FormatRemaining(remaining timekeeper.Remaining) string {
	switch {
	case !remaining.Enabled:
		return "off"
	case !remaining.Running:
		return "paused"
	default:
		return fmt.Sprintf("%d min", remaining.Minutes)
	}
}

// StatusLine summarizes focus and work time.
func StatusLine(status engine.Status) string {
	if status.Focus.Active {
		return fmt.Sprintf("focus, %d min left", status.Focus.RemainingMinutes)
	}
	if status.Activity.Idle {
		return fmt.Sprintf("away %d min", status.Activity.InactiveMinutes)
	}
	return fmt.Sprintf("worked %d min today", status.Work.TodayMinutes+status.Work.SessionMinutes)
}

func verb(kind model.ReminderKind) string {
	if kind == model.KindSit {
		return "stand up"
	}
	return "drink water"
}
