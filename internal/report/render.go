package report

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"movedyet/internal/core/model"
)

// Render writes report as text, coloring the rating when output supports it.
func Render(output *termenv.Output, report Report) {
	writer := io.Writer(output)
	title := output.String("Daily health report " + report.Day).Bold()
	fmt.Fprintln(writer, title)
	fmt.Fprintf(writer, "  Stood up:   %d\n", report.SitCount)
	fmt.Fprintf(writer, "  Drank:      %d\n", report.DrinkCount)
	fmt.Fprintf(writer, "  Work hours: %.1f\n", report.WorkHours)

	rating := output.String(report.Rating.Label).Foreground(output.Color(report.Rating.Color)).Bold()
	fmt.Fprintf(writer, "  Score:      %d (%s)\n", report.Score, rating)
	for _, suggestion := range report.Suggestions {
		fmt.Fprintf(writer, "  - %s\n", suggestion)
	}
}

// RenderHistory writes one line per day.
func RenderHistory(output *termenv.Output, days []model.DailyStats) {
	writer := io.Writer(output)
	fmt.Fprintln(writer, output.String(fmt.Sprintf("%-10s  %5s  %5s  %6s", "Day", "Sit", "Drink", "Work")).Bold())
	for _, stats := range days {
		line := fmt.Sprintf("%-10s  %5d  %5d  %5dm", stats.Day, stats.SitCount, stats.DrinkCount, stats.WorkMinutes)
		if stats.Empty() {
			line = output.String(line).Faint().String()
		}
		fmt.Fprintln(writer, line)
	}
}
