package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"movedyet/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnConfirm     func()
	OnSnooze      func()
	OnActivity    func()
	OnToggleFocus func()
	OnToggleWork  func()
	OnReset       func()
	OnReport      func()
	OnPreferences func()
	OnQuit        func()
}

// Icons are the tray icons for the normal and ambient-reminder states.
type Icons struct {
	Normal  fyne.Resource
	Ambient fyne.Resource
}

// Manager handles system tray state. Methods must run on the fyne thread.
type Manager struct {
	app         desktop.App
	icons       Icons
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	sitItem     *fyne.MenuItem
	drinkItem   *fyne.MenuItem
	confirmItem *fyne.MenuItem
	snoozeItem  *fyne.MenuItem
	focusItem   *fyne.MenuItem
	workItem    *fyne.MenuItem
	ambient     model.ReminderKind
	focus       bool
	workPaused  bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		icons:     icons,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true
	manager.sitItem = fyne.NewMenuItem("Sit: --", nil)
	manager.sitItem.Disabled = true
	manager.drinkItem = fyne.NewMenuItem("Drink: --", nil)
	manager.drinkItem.Disabled = true

	manager.confirmItem = fyne.NewMenuItem("Done", call(&manager.callbacks.OnConfirm))
	manager.confirmItem.Disabled = true
	manager.snoozeItem = fyne.NewMenuItem("Snooze", call(&manager.callbacks.OnSnooze))
	manager.snoozeItem.Disabled = true
	manager.focusItem = fyne.NewMenuItem("Start focus", call(&manager.callbacks.OnToggleFocus))
	manager.workItem = fyne.NewMenuItem("Pause work tracking", call(&manager.callbacks.OnToggleWork))

	manager.refreshMenu()
	manager.refreshIcon()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetRemaining updates the per-kind countdown lines.
func (manager *Manager) SetRemaining(sit, drink string) {
	manager.sitItem.Label = "Sit: " + sit
	manager.drinkItem.Label = "Drink: " + drink
	manager.refreshMenu()
}

// SetAmbient shows the ambient indicator for kind; an empty kind hides it.
func (manager *Manager) SetAmbient(kind model.ReminderKind) {
	manager.ambient = kind
	manager.refreshIcon()
	manager.refreshStatus()
}

// SetEscalation enables the Done and Snooze items while an escalation runs.
func (manager *Manager) SetEscalation(active bool) {
	manager.confirmItem.Disabled = !active
	manager.snoozeItem.Disabled = !active
	manager.refreshMenu()
}

// SetFocus updates the focus toggle.
func (manager *Manager) SetFocus(active bool) {
	manager.focus = active
	if active {
		manager.focusItem.Label = "End focus"
	} else {
		manager.focusItem.Label = "Start focus"
	}
	manager.refreshStatus()
}

// SetWorkPaused updates the work tracking toggle.
func (manager *Manager) SetWorkPaused(paused bool) {
	manager.workPaused = paused
	if paused {
		manager.workItem.Label = "Resume work tracking"
	} else {
		manager.workItem.Label = "Pause work tracking"
	}
	manager.refreshStatus()
}

// StatusLabel returns the current status line.
func (manager *Manager) StatusLabel() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.ambient != "" {
		status = fmt.Sprintf("time to %s", ambientVerb(manager.ambient))
	}
	if manager.focus {
		status = fmt.Sprintf("%s (focus)", status)
	}
	if manager.workPaused {
		status = fmt.Sprintf("%s (work paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshIcon() {
	if manager.app == nil {
		return
	}
	icon := manager.icons.Normal
	if manager.ambient != "" && manager.icons.Ambient != nil {
		icon = manager.icons.Ambient
	}
	if icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("MovedYet",
		manager.statusItem,
		manager.sitItem,
		manager.drinkItem,
		fyne.NewMenuItemSeparator(),
		manager.confirmItem,
		manager.snoozeItem,
		fyne.NewMenuItem("I'm here", call(&manager.callbacks.OnActivity)),
		fyne.NewMenuItemSeparator(),
		manager.focusItem,
		manager.workItem,
		fyne.NewMenuItem("Reset timers", call(&manager.callbacks.OnReset)),
		fyne.NewMenuItem("Yesterday's report", call(&manager.callbacks.OnReport)),
		fyne.NewMenuItem("Preferences", call(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", call(&manager.callbacks.OnQuit)),
	))
}

func call(fn *func()) func() {
	return func() {
		if *fn != nil {
			(*fn)()
		}
	}
}

func ambientVerb(kind model.ReminderKind) string {
	if kind == model.KindSit {
		return "stand up"
	}
	return "drink water"
}
