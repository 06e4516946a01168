package timekeeper

import (
	"time"

	"movedyet/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStarted       EventType = "started"
	EventCleared       EventType = "cleared"
	EventTriggered     EventType = "triggered"
	EventScheduleError EventType = "schedule_error"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type    EventType
	Kind    model.ReminderKind
	Message string
	At      time.Time
}
