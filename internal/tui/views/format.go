package views

import "time"

// formatWhen renders a timestamp compactly: clock time for today, date
// otherwise.
func formatWhen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("2006-01-02")
}
