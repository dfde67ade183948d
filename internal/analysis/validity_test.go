package analysis

import (
	"testing"
	"time"

	"termwatch/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestValidDates(t *testing.T) {
	runs := []models.PipelineRun{
		{TargetDate: day(10), Status: models.RunStatusSuccess},
		{TargetDate: day(11), Status: models.RunStatusFailed},
		{TargetDate: day(12), Status: models.RunStatusFailed, IsRecovered: true},
		{TargetDate: day(13), Status: models.RunStatusPartial},
	}
	dates := []time.Time{day(10), day(11), day(12), day(13), day(14)}

	valid, invalid := ValidDates(dates, runs)

	wantValid := []time.Time{day(10), day(12)}
	wantInvalid := []time.Time{day(11), day(13), day(14)}
	if len(valid) != len(wantValid) {
		t.Fatalf("valid = %v, want %v", valid, wantValid)
	}
	for i := range wantValid {
		if !valid[i].Equal(wantValid[i]) {
			t.Fatalf("valid[%d] = %v, want %v", i, valid[i], wantValid[i])
		}
	}
	if len(invalid) != len(wantInvalid) {
		t.Fatalf("invalid = %v, want %v", invalid, wantInvalid)
	}
	for i := range wantInvalid {
		if !invalid[i].Equal(wantInvalid[i]) {
			t.Fatalf("invalid[%d] = %v, want %v", i, invalid[i], wantInvalid[i])
		}
	}
}

func TestValidDatesEmptyRuns(t *testing.T) {
	dates := []time.Time{day(10), day(11)}
	valid, invalid := ValidDates(dates, nil)
	if len(valid) != 0 {
		t.Fatalf("valid = %v, want none", valid)
	}
	if len(invalid) != 2 {
		t.Fatalf("invalid = %v, want all dates", invalid)
	}
}
