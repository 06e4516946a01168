package overlay

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"movedyet/internal/core/escalation"
	"movedyet/internal/core/model"
)

func TestCopyCoversEveryKind(t *testing.T) {
	for _, kind := range model.Kinds() {
		title, subtitle, hint := Copy(kind)
		if title == "" || subtitle == "" || hint == "" {
			t.Fatalf("Copy(%s) = %q, %q, %q, want non-empty", kind, title, subtitle, hint)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got, want := formatDuration(95*time.Second), "waiting 01:35"; got != want {
		t.Fatalf("formatDuration = %q, want %q", got, want)
	}
	if got, want := formatDuration(-time.Second), "waiting 00:00"; got != want {
		t.Fatalf("formatDuration = %q, want %q", got, want)
	}
}

func TestConfirmRunsOnceAndHides(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	overlay := New(app, Config{Opacity: 200}, Icons{})
	confirmed := 0
	overlay.Show(model.KindSit, func() { confirmed++ })
	if !overlay.Showing() {
		t.Fatalf("overlay not showing")
	}

	test.Tap(overlay.confirmButton)
	test.Tap(overlay.confirmButton)
	if confirmed != 1 {
		t.Fatalf("confirmed = %d, want 1", confirmed)
	}
	if overlay.Showing() {
		t.Fatalf("overlay still showing after confirm")
	}
}

func TestPromptRepliesAtMostOnce(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	prompt := NewPrompt(app)
	var choices []escalation.Choice
	prompt.Show(model.KindDrink, func(choice escalation.Choice) { choices = append(choices, choice) })

	prompt.answer(escalation.ChoiceSnooze)
	prompt.answer(escalation.ChoiceConfirm)
	if len(choices) != 1 || choices[0] != escalation.ChoiceSnooze {
		t.Fatalf("choices = %v, want [snooze]", choices)
	}
}
