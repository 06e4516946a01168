package model

import "fmt"

// ReminderKind identifies one of the two independent reminder tracks.
type ReminderKind string

const (
	KindSit   ReminderKind = "sit"
	KindDrink ReminderKind = "drink"
)

// Kinds lists every reminder kind in a stable order.
func Kinds() []ReminderKind {
	return []ReminderKind{KindSit, KindDrink}
}

// Valid reports whether kind is a known reminder kind.
func (kind ReminderKind) Valid() bool {
	return kind == KindSit || kind == KindDrink
}

// ParseKind converts user input into a ReminderKind.
func ParseKind(value string) (ReminderKind, error) {
	kind := ReminderKind(value)
	if !kind.Valid() {
		return "", fmt.Errorf("parse reminder kind: unknown kind %q", value)
	}
	return kind, nil
}
