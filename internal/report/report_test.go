package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"movedyet/internal/core/model"
)

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name      string
		sit       int
		drink     int
		workHours float64
		want      int
	}{
		{name: "ideal day", sit: 8, drink: 12, workHours: 8, want: 100},
		{name: "nothing", sit: 0, drink: 0, workHours: 0, want: 0},
		{name: "short day", sit: 2, drink: 3, workHours: 2, want: 90},
		{name: "long day", sit: 10, drink: 15, workHours: 10, want: 96},
		{name: "half the sits", sit: 4, drink: 12, workHours: 8, want: 80},
		{name: "caps at forty", sit: 30, drink: 30, workHours: 6, want: 100},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := HealthScore(test.sit, test.drink, test.workHours); got != test.want {
				t.Fatalf("score = %d, want %d", got, test.want)
			}
		})
	}
}

func TestRatingBands(t *testing.T) {
	tests := []struct {
		score int
		want  Rating
	}{
		{100, RatingExcellent},
		{90, RatingExcellent},
		{89, RatingGood},
		{75, RatingGood},
		{74, RatingFair},
		{60, RatingFair},
		{59, RatingPoor},
		{0, RatingPoor},
	}
	for _, test := range tests {
		if got := RatingFor(test.score); got != test.want {
			t.Errorf("rating(%d) = %+v, want %+v", test.score, got, test.want)
		}
	}
}

func TestSuggestions(t *testing.T) {
	got := Suggestions(1, 1, 9)
	if len(got) != 3 {
		t.Fatalf("suggestions = %v, want sit, drink and long-day hints", got)
	}
	if got := Suggestions(8, 12, 8); len(got) != 1 || !strings.HasPrefix(got[0], "Great job") {
		t.Fatalf("suggestions = %v, want only praise", got)
	}
	if got := Suggestions(5, 5, 2); len(got) != 1 || !strings.HasPrefix(got[0], "Short work session") {
		t.Fatalf("suggestions = %v, want the short session hint", got)
	}
}

func TestShouldShow(t *testing.T) {
	morning := time.Date(2026, 3, 2, 8, 59, 0, 0, time.Local)
	nine := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

	if ShouldShow(morning, "2026-03-01") {
		t.Errorf("report due before 9AM")
	}
	if !ShouldShow(nine, "2026-03-01") {
		t.Errorf("report not due at 9AM")
	}
	if !ShouldShow(nine, "") {
		t.Errorf("report not due when never shown")
	}
	if ShouldShow(nine, "2026-03-02") {
		t.Errorf("report due twice on one day")
	}
}

type memorySource struct {
	stats   map[string]model.DailyStats
	last    string
	failSet bool
}

func (source *memorySource) DailyStats(day string) (model.DailyStats, error) {
	stats, ok := source.stats[day]
	if !ok {
		stats = model.DailyStats{Day: day}
	}
	return stats, nil
}

func (source *memorySource) LastReportDate() (string, error) {
	return source.last, nil
}

func (source *memorySource) SetLastReportDate(day string) error {
	if source.failSet {
		return errors.New("read-only")
	}
	source.last = day
	return nil
}

func TestDueShowsYesterdayOnce(t *testing.T) {
	source := &memorySource{stats: map[string]model.DailyStats{
		"2026-03-01": {Day: "2026-03-01", SitCount: 8, DrinkCount: 12, WorkMinutes: 480},
	}}
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)

	report, ok, err := Due(source, now)
	if err != nil || !ok {
		t.Fatalf("due = %v, %v; want a report", ok, err)
	}
	if report.Day != "2026-03-01" || report.Score != 100 || report.Rating != RatingExcellent {
		t.Fatalf("report = %+v", report)
	}
	if source.last != "2026-03-02" {
		t.Fatalf("last report date = %q, want 2026-03-02", source.last)
	}

	if _, ok, _ := Due(source, now.Add(time.Hour)); ok {
		t.Fatalf("report shown twice on the same day")
	}
}

func TestDueSkipsDaysWithoutReminders(t *testing.T) {
	source := &memorySource{stats: map[string]model.DailyStats{
		"2026-03-01": {Day: "2026-03-01", WorkMinutes: 300},
	}}
	if _, ok, err := Due(source, time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)); ok || err != nil {
		t.Fatalf("due = %v, %v; want no report", ok, err)
	}
	if source.last != "" {
		t.Fatalf("empty day marked as shown")
	}
}

func TestDueSurfacesMarkerFailure(t *testing.T) {
	source := &memorySource{
		stats:   map[string]model.DailyStats{"2026-03-01": {Day: "2026-03-01", SitCount: 1}},
		failSet: true,
	}
	if _, ok, err := Due(source, time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)); ok || err == nil {
		t.Fatalf("due = %v, %v; want error", ok, err)
	}
}

func TestRenderPlainText(t *testing.T) {
	var buffer bytes.Buffer
	output := termenv.NewOutput(&buffer, termenv.WithProfile(termenv.Ascii))

	Render(output, Build(model.DailyStats{Day: "2026-03-01", SitCount: 8, DrinkCount: 12, WorkMinutes: 480}))
	text := buffer.String()
	for _, want := range []string{"Daily health report 2026-03-01", "Stood up:   8", "Score:      100 (Excellent)", "- Great job"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	buffer.Reset()
	RenderHistory(output, []model.DailyStats{{Day: "2026-03-01", SitCount: 2, WorkMinutes: 45}})
	if !strings.Contains(buffer.String(), "2026-03-01      2      0     45m") {
		t.Errorf("history output:\n%s", buffer.String())
	}
}
