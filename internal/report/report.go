// Package report scores a day of reminder history.
package report

import (
	"math"
	"time"

	"movedyet/internal/core/model"
)

// ShowAfterHour is the local hour from which yesterday's report may be shown.
const ShowAfterHour = 9

// Rating is a labelled score band.
type Rating struct {
	Label string
	Color string
}

var (
	RatingExcellent = Rating{Label: "Excellent", Color: "#10b981"}
	RatingGood      = Rating{Label: "Good", Color: "#3b82f6"}
	RatingFair      = Rating{Label: "Fair", Color: "#f59e0b"}
	RatingPoor      = Rating{Label: "Needs improvement", Color: "#ef4444"}
)

// Report is the daily health summary.
type Report struct {
	Day         string
	SitCount    int
	DrinkCount  int
	WorkHours   float64
	Score       int
	Rating      Rating
	Suggestions []string
}

// Build scores one day of stats.
func Build(stats model.DailyStats) Report {
	workHours := float64(stats.WorkMinutes) / 60
	score := HealthScore(stats.SitCount, stats.DrinkCount, workHours)
	return Report{
		Day:         stats.Day,
		SitCount:    stats.SitCount,
		DrinkCount:  stats.DrinkCount,
		WorkHours:   workHours,
		Score:       score,
		Rating:      RatingFor(score),
		Suggestions: Suggestions(stats.SitCount, stats.DrinkCount, workHours),
	}
}

// HealthScore returns 0-100: up to 40 for standing up once per work hour, up to
// 40 for drinking 1.5 times per work hour, and up to 20 for a 4-8 hour day.
func HealthScore(sitCount, drinkCount int, workHours float64) int {
	idealSit, idealDrink := ideals(workHours)
	sitScore := math.Min(40, float64(sitCount)/float64(idealSit)*40)
	drinkScore := math.Min(40, float64(drinkCount)/float64(idealDrink)*40)

	var workScore float64
	switch {
	case workHours >= 4 && workHours <= 8:
		workScore = 20
	case workHours < 4:
		workScore = workHours / 4 * 20
	default:
		workScore = math.Max(0, 20-(workHours-8)*2)
	}
	return int(math.Round(sitScore + drinkScore + workScore))
}

// RatingFor maps a score onto its band.
func RatingFor(score int) Rating {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 75:
		return RatingGood
	case score >= 60:
		return RatingFair
	default:
		return RatingPoor
	}
}

// Suggestions lists habits to work on; it is never empty.
func Suggestions(sitCount, drinkCount int, workHours float64) []string {
	idealSit, idealDrink := ideals(workHours)
	var suggestions []string
	if sitCount < idealSit {
		suggestions = append(suggestions, "Try to stand up and stretch every hour")
	}
	if drinkCount < idealDrink {
		suggestions = append(suggestions, "Remember to drink water regularly")
	}
	if workHours > 8 {
		suggestions = append(suggestions, "Consider taking more breaks, you worked over 8 hours")
	}
	if workHours > 0 && workHours < 4 {
		suggestions = append(suggestions, "Short work session, keep up the healthy habits")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Great job, keep maintaining these healthy habits")
	}
	return suggestions
}

// ShouldShow reports whether the report is due: not shown today yet and past
// ShowAfterHour local time.
func ShouldShow(now time.Time, lastShown string) bool {
	return lastShown != model.DayKey(now) && now.Hour() >= ShowAfterHour
}

// Yesterday returns the day key before now.
func Yesterday(now time.Time) string {
	return model.DayKey(now.AddDate(0, 0, -1))
}

func ideals(workHours float64) (sit, drink int) {
	sit = int(math.Max(1, math.Floor(workHours)))
	drink = int(math.Max(1, math.Floor(workHours*1.5)))
	return sit, drink
}
