package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"movedyet/internal/config"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   config.Settings
	onSave     func(config.Settings)
	sitEvery   *widget.Entry
	sitOn      *widget.Check
	drinkEvery *widget.Entry
	drinkOn    *widget.Check
	escalate   *widget.Check
	level1     *widget.Entry
	level2     *widget.Entry
	idleOn     *widget.Check
	idleAfter  *widget.Entry
	historyOn  *widget.Check
	focusFor   *widget.Entry
	opacity    *widget.Slider
	fullscreen *widget.Check
	saveButton *widget.Button
}

// New creates a preferences window.
func New(app fyne.App, settings config.Settings, onSave func(config.Settings)) *Window {
	window := app.NewWindow("MovedYet Settings")

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		sitEvery:   widget.NewEntry(),
		sitOn:      widget.NewCheck("Sit reminders", nil),
		drinkEvery: widget.NewEntry(),
		drinkOn:    widget.NewCheck("Drink reminders", nil),
		escalate:   widget.NewCheck("Escalate reminders that are ignored", nil),
		level1:     widget.NewEntry(),
		level2:     widget.NewEntry(),
		idleOn:     widget.NewCheck("Restart timers after inactivity", nil),
		idleAfter:  widget.NewEntry(),
		historyOn:  widget.NewCheck("Keep history", nil),
		focusFor:   widget.NewEntry(),
		opacity:    widget.NewSlider(0.7, 0.95),
		fullscreen: widget.NewCheck("Fullscreen overlay", nil),
	}
	prefs.opacity.Step = 0.01

	form := container.NewVBox(
		widget.NewLabelWithStyle("Reminders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(prefs.sitOn, widget.NewLabel("every"), prefs.sitEvery, widget.NewLabel("min")),
		container.NewHBox(prefs.drinkOn, widget.NewLabel("every"), prefs.drinkEvery, widget.NewLabel("min")),
		prefs.escalate,
		container.NewHBox(widget.NewLabel("Prompt after"), prefs.level1, widget.NewLabel("min, block after"), prefs.level2, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Activity", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(prefs.idleOn, widget.NewLabel("after"), prefs.idleAfter, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Focus session"), prefs.focusFor, widget.NewLabel("min")),
		prefs.historyOn,
		widget.NewLabelWithStyle("Overlay", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Overlay opacity"),
		prefs.opacity,
		prefs.fullscreen,
	)

	prefs.saveButton = widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(prefs.saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(func() {
		window.Hide()
	})
	window.Resize(fyne.NewSize(480, 520))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings config.Settings) {
	prefs.settings = settings
	prefs.sitEvery.SetText(formatMinutes(settings.SitInterval))
	prefs.sitOn.SetChecked(settings.SitEnabled)
	prefs.drinkEvery.SetText(formatMinutes(settings.DrinkInterval))
	prefs.drinkOn.SetChecked(settings.DrinkEnabled)
	prefs.escalate.SetChecked(settings.EscalationEnabled)
	prefs.level1.SetText(formatMinutes(settings.Level1Duration))
	prefs.level2.SetText(formatMinutes(settings.Level2Duration))
	prefs.idleOn.SetChecked(settings.ActivityEnabled)
	prefs.idleAfter.SetText(formatMinutes(settings.InactivityThreshold))
	prefs.historyOn.SetChecked(settings.HistoryEnabled)
	prefs.focusFor.SetText(formatMinutes(settings.FocusDuration))
	prefs.opacity.Value = settings.OverlayOpacity
	prefs.opacity.Refresh()
	prefs.fullscreen.SetChecked(settings.Fullscreen)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	readMinutes(prefs.sitEvery, &settings.SitInterval)
	readMinutes(prefs.drinkEvery, &settings.DrinkInterval)
	readMinutes(prefs.level1, &settings.Level1Duration)
	readMinutes(prefs.level2, &settings.Level2Duration)
	readMinutes(prefs.idleAfter, &settings.InactivityThreshold)
	readMinutes(prefs.focusFor, &settings.FocusDuration)

	settings.SitEnabled = prefs.sitOn.Checked
	settings.DrinkEnabled = prefs.drinkOn.Checked
	settings.EscalationEnabled = prefs.escalate.Checked
	settings.ActivityEnabled = prefs.idleOn.Checked
	settings.HistoryEnabled = prefs.historyOn.Checked
	settings.OverlayOpacity = prefs.opacity.Value
	settings.Fullscreen = prefs.fullscreen.Checked

	settings = settings.Normalize()
	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func formatMinutes(value time.Duration) string {
	return fmt.Sprintf("%d", int(value/time.Minute))
}

// readMinutes keeps the current value when the entry is not a positive number.
func readMinutes(entry *widget.Entry, target *time.Duration) {
	if minutes, ok := parsePositiveInt(entry.Text); ok {
		*target = time.Duration(minutes) * time.Minute
	}
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
