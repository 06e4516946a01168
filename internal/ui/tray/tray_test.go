package tray

import (
	"testing"

	"movedyet/internal/core/model"
)

func TestStatusLabelReflectsState(t *testing.T) {
	manager := New(nil, Icons{}, Callbacks{})

	manager.SetStatus("sit 12m, drink 30m")
	if got, want := manager.StatusLabel(), "Status: sit 12m, drink 30m"; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}

	manager.SetAmbient(model.KindDrink)
	manager.SetFocus(true)
	if got, want := manager.StatusLabel(), "Status: time to drink water (focus)"; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}

	manager.SetAmbient("")
	manager.SetFocus(false)
	manager.SetWorkPaused(true)
	if got, want := manager.StatusLabel(), "Status: sit 12m, drink 30m (work paused)"; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}
	if manager.workItem.Label != "Resume work tracking" {
		t.Fatalf("work item = %q", manager.workItem.Label)
	}
}

func TestEscalationTogglesActions(t *testing.T) {
	confirmed := 0
	manager := New(nil, Icons{}, Callbacks{OnConfirm: func() { confirmed++ }})
	if !manager.confirmItem.Disabled || !manager.snoozeItem.Disabled {
		t.Fatalf("actions enabled without an escalation")
	}

	manager.SetEscalation(true)
	if manager.confirmItem.Disabled || manager.snoozeItem.Disabled {
		t.Fatalf("actions disabled during an escalation")
	}
	manager.confirmItem.Action()
	manager.snoozeItem.Action()
	if confirmed != 1 {
		t.Fatalf("confirmed = %d, want 1", confirmed)
	}
}
