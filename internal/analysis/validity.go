package analysis

import (
	"time"

	"termwatch/internal/models"
)

const dateKeyLayout = "2006-01-02"

// ValidDates splits dates into those whose pipeline run can feed weekly
// aggregation and those that cannot. A date counts only when a run record
// exists and either ended in success or was manually recovered; failed and
// still-partial runs stay invalid so a half-harvested day never skews a week.
func ValidDates(dates []time.Time, runs []models.PipelineRun) (valid, invalid []time.Time) {
	byDate := make(map[string]models.PipelineRun, len(runs))
	for _, run := range runs {
		byDate[run.TargetDate.Format(dateKeyLayout)] = run
	}
	valid = make([]time.Time, 0, len(dates))
	invalid = make([]time.Time, 0, len(dates))
	for _, d := range dates {
		run, ok := byDate[d.Format(dateKeyLayout)]
		if ok && (run.Status == models.RunStatusSuccess || run.IsRecovered) {
			valid = append(valid, d)
			continue
		}
		invalid = append(invalid, d)
	}
	return valid, invalid
}
