package overlay

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"movedyet/internal/core/escalation"
	"movedyet/internal/core/model"
)

// Prompt is the interruptive reminder window offering Done and Snooze.
// Closing it counts as a dismissal.
type Prompt struct {
	window   fyne.Window
	title    *widget.Label
	subtitle *widget.Label
	reply    func(escalation.Choice)
}

// NewPrompt creates the prompt window. It is not shown until Show.
func NewPrompt(app fyne.App) *Prompt {
	window := app.NewWindow("MovedYet")
	prompt := &Prompt{
		window:   window,
		title:    widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		subtitle: widget.NewLabel(""),
	}

	confirmButton := widget.NewButton("Done", func() { prompt.answer(escalation.ChoiceConfirm) })
	confirmButton.Importance = widget.HighImportance
	snoozeButton := widget.NewButton("Snooze", func() { prompt.answer(escalation.ChoiceSnooze) })

	buttons := container.NewHBox(layout.NewSpacer(), snoozeButton, confirmButton)
	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVBox(prompt.title, prompt.subtitle)))
	window.SetCloseIntercept(func() { prompt.answer(escalation.ChoiceDismissed) })
	window.Resize(fyne.NewSize(360, 140))
	return prompt
}

// Show asks about kind. reply is called at most once.
func (prompt *Prompt) Show(kind model.ReminderKind, reply func(escalation.Choice)) {
	prompt.reply = reply
	title, subtitle, _ := Copy(kind)
	prompt.title.SetText(title)
	prompt.subtitle.SetText(subtitle)
	prompt.window.CenterOnScreen()
	prompt.window.Show()
	prompt.window.RequestFocus()
}

// Hide closes the prompt without answering.
func (prompt *Prompt) Hide() {
	prompt.reply = nil
	prompt.window.Hide()
}

func (prompt *Prompt) answer(choice escalation.Choice) {
	reply := prompt.reply
	prompt.Hide()
	if reply != nil {
		reply(choice)
	}
}
