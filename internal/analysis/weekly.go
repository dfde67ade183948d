package analysis

import "time"

// WeekStart returns the Monday opening the last fully elapsed week before
// execDate. Running on a Monday therefore aggregates the week that ended
// the day before; running mid-week reaches back past the current partial
// week to the same Monday.
func WeekStart(execDate time.Time) time.Time {
	weekday := (int(execDate.Weekday()) + 6) % 7
	return execDate.AddDate(0, 0, -(weekday + 7))
}

// WeekDates lists the seven days of the week opened by weekStart.
func WeekDates(weekStart time.Time) []time.Time {
	out := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, weekStart.AddDate(0, 0, i))
	}
	return out
}
