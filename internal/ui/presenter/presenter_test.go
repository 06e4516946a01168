package presenter

import (
	"testing"

	"movedyet/internal/core/activity"
	"movedyet/internal/core/focus"
	"movedyet/internal/core/timekeeper"
	"movedyet/internal/core/worktime"
	"movedyet/internal/engine"
)

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		remaining timekeeper.Remaining
		want      string
	}{
		{timekeeper.Remaining{Enabled: false}, "off"},
		{timekeeper.Remaining{Enabled: true}, "paused"},
		{timekeeper.Remaining{Enabled: true, Running: true, Minutes: 12}, "12 min"},
	}
	for _, tc := range cases {
		if got := FormatRemaining(tc.remaining); got != tc.want {
			t.Errorf("FormatRemaining(%+v) = %q, want %q", tc.remaining, got, tc.want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	cases := []struct {
		name   string
		status engine.Status
		want   string
	}{
		{"focus wins", engine.Status{Focus: focus.Status{Active: true, RemainingMinutes: 7}, Activity: activity.Status{Idle: true}}, "focus, 7 min left"},
		{"away", engine.Status{Activity: activity.Status{Idle: true, InactiveMinutes: 9}}, "away 9 min"},
		{"working", engine.Status{Work: worktime.Status{TodayMinutes: 40, SessionMinutes: 5}}, "worked 45 min today"},
	}
	for _, tc := range cases {
		if got := StatusLine(tc.status); got != tc.want {
			t.Errorf("%s: StatusLine = %q, want %q", tc.name, got, tc.want)
		}
	}
}
