package analysis

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	// 2026-08-17 and 2026-08-24 are Mondays.
	tests := []struct {
		exec time.Time
		want time.Time
	}{
		{time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := WeekStart(tt.exec)
		if !got.Equal(tt.want) {
			t.Fatalf("WeekStart(%v) = %v, want %v", tt.exec.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
		if got.Weekday() != time.Monday {
			t.Fatalf("WeekStart(%v) = %v is not a Monday", tt.exec, got)
		}
	}
}

func TestWeekDates(t *testing.T) {
	start := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	dates := WeekDates(start)
	if len(dates) != 7 {
		t.Fatalf("week has %d dates, want 7", len(dates))
	}
	for i, d := range dates {
		want := start.AddDate(0, 0, i)
		if !d.Equal(want) {
			t.Fatalf("dates[%d] = %v, want %v", i, d, want)
		}
	}
}
