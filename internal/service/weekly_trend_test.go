package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"termwatch/internal/models"
	"termwatch/internal/repository"
)

var (
	weekStart = time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC) // a Monday
	execDate  = time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
)

func successRunsFor(dates []time.Time) []models.PipelineRun {
	runs := make([]models.PipelineRun, 0, len(dates))
	for _, d := range dates {
		runs = append(runs, models.PipelineRun{TargetDate: d, BoardKey: "prog", Status: models.RunStatusSuccess})
	}
	return runs
}

func weekDatesFrom(start time.Time) []time.Time {
	dates := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

func seedHistory(repo *stubRepo, termID uint64, weeks int, rate float64) {
	for k := weeks; k >= 1; k-- {
		repo.trends = append(repo.trends, models.WeeklyTermTrend{
			WeekStartDate:  weekStart.AddDate(0, 0, -7*k),
			BoardKey:       "prog",
			TermID:         termID,
			PostHits:       int(rate * 500),
			TotalPosts:     500,
			AppearanceRate: rate,
		})
	}
}

func TestWeeklyTrendRunFor(t *testing.T) {
	repo := newStubRepo()
	repo.runsByDate = successRunsFor(weekDatesFrom(weekStart))
	repo.aggregates = []repository.TermAggregate{{TermID: 1, PostHits: 50, ThreadHits: 10}}
	repo.totalPosts = 500
	seedHistory(repo, 1, 7, 0.1)

	svc := &WeeklyTrendService{Repo: repo, Logger: zap.NewNop(), BoardKey: "prog", Alpha: 0.05}
	report, err := svc.RunFor(context.Background(), execDate)
	if err != nil {
		t.Fatalf("RunFor: %v", err)
	}

	if !report.WeekStart.Equal(weekStart) {
		t.Fatalf("week start = %v, want %v", report.WeekStart, weekStart)
	}
	if report.TotalPosts != 500 {
		t.Fatalf("total posts = %d, want 500", report.TotalPosts)
	}
	if report.ProcessedTerms != 1 || report.SkippedTerms != 0 {
		t.Fatalf("processed = %d, skipped = %d", report.ProcessedTerms, report.SkippedTerms)
	}
	if len(report.ValidDates) != 7 || len(report.InvalidDates) != 0 {
		t.Fatalf("valid = %d, invalid = %d", len(report.ValidDates), len(report.InvalidDates))
	}

	var current *models.WeeklyTermTrend
	for i := range repo.trends {
		if repo.trends[i].WeekStartDate.Equal(weekStart) {
			current = &repo.trends[i]
		}
	}
	if current == nil {
		t.Fatalf("current week trend not written")
	}
	if current.PostHits != 50 || current.TotalPosts != 500 {
		t.Fatalf("trend counts = %+v", current)
	}
	if current.AppearanceRate != 0.1 {
		t.Fatalf("appearance rate = %v, want 0.1", current.AppearanceRate)
	}
	if current.AppearanceRateCILower == nil || current.AppearanceRateCIUpper == nil {
		t.Fatalf("confidence interval missing")
	}
	if !(*current.AppearanceRateCILower < 0.1 && 0.1 < *current.AppearanceRateCIUpper) {
		t.Fatalf("interval [%v, %v] does not bracket 0.1", *current.AppearanceRateCILower, *current.AppearanceRateCIUpper)
	}
	if current.ZScore == nil || *current.ZScore != 0 {
		t.Fatalf("z-score = %v, want 0 for a flat history", current.ZScore)
	}

	// Seven prior weeks plus the one just written completes the fit window.
	if report.Regressions != 1 {
		t.Fatalf("regressions = %d, want 1", report.Regressions)
	}
	reg := repo.regressions[1]
	if reg == nil {
		t.Fatalf("regression not written")
	}
	if reg.Slope != 0 {
		t.Fatalf("slope = %v, want 0 for a flat series", reg.Slope)
	}
	if reg.PValue == nil || *reg.PValue != 1 {
		t.Fatalf("p-value = %v, want 1", reg.PValue)
	}
	if !reg.AnalysisStartDate.Equal(weekStart.AddDate(0, 0, -49)) {
		t.Fatalf("analysis start = %v", reg.AnalysisStartDate)
	}
	if !reg.AnalysisEndDate.Equal(weekStart.AddDate(0, 0, 6)) {
		t.Fatalf("analysis end = %v", reg.AnalysisEndDate)
	}
}

func TestWeeklyTrendShortHistorySkipsScoreAndFit(t *testing.T) {
	repo := newStubRepo()
	repo.runsByDate = successRunsFor(weekDatesFrom(weekStart))
	repo.aggregates = []repository.TermAggregate{{TermID: 1, PostHits: 5, ThreadHits: 2}}
	repo.totalPosts = 500
	seedHistory(repo, 1, 3, 0.1)

	svc := &WeeklyTrendService{Repo: repo, Logger: zap.NewNop(), BoardKey: "prog"}
	report, err := svc.RunFor(context.Background(), execDate)
	if err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	if report.ProcessedTerms != 1 {
		t.Fatalf("processed = %d, want 1", report.ProcessedTerms)
	}
	var current *models.WeeklyTermTrend
	for i := range repo.trends {
		if repo.trends[i].WeekStartDate.Equal(weekStart) {
			current = &repo.trends[i]
		}
	}
	if current == nil {
		t.Fatalf("current week trend not written")
	}
	if current.ZScore != nil {
		t.Fatalf("z-score = %v, want nil for a short history", *current.ZScore)
	}
	if report.Regressions != 0 {
		t.Fatalf("regressions = %d, want 0", report.Regressions)
	}
	if repo.regressions[1] != nil {
		t.Fatalf("regression written for short history")
	}
}

func TestWeeklyTrendNoValidDates(t *testing.T) {
	repo := newStubRepo()
	repo.aggregates = []repository.TermAggregate{{TermID: 1, PostHits: 5}}

	svc := &WeeklyTrendService{Repo: repo, Logger: zap.NewNop(), BoardKey: "prog"}
	report, err := svc.RunFor(context.Background(), execDate)
	if err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	if report.ProcessedTerms != 0 {
		t.Fatalf("processed = %d, want 0", report.ProcessedTerms)
	}
	if len(report.InvalidDates) != 7 {
		t.Fatalf("invalid dates = %d, want 7", len(report.InvalidDates))
	}
	if len(repo.trends) != 0 {
		t.Fatalf("trends written with no valid dates")
	}
}

func TestWeeklyTrendTermFailureIsIsolated(t *testing.T) {
	repo := newStubRepo()
	repo.runsByDate = successRunsFor(weekDatesFrom(weekStart))
	repo.aggregates = []repository.TermAggregate{
		{TermID: 1, PostHits: 50},
		{TermID: 2, PostHits: 30},
	}
	repo.totalPosts = 500
	repo.trendsErrForTerm = 2
	repo.trendsErr = errors.New("history unavailable")

	svc := &WeeklyTrendService{Repo: repo, Logger: zap.NewNop(), BoardKey: "prog"}
	report, err := svc.RunFor(context.Background(), execDate)
	if err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	if report.ProcessedTerms != 1 {
		t.Fatalf("processed = %d, want 1", report.ProcessedTerms)
	}
	if report.SkippedTerms != 1 {
		t.Fatalf("skipped = %d, want 1", report.SkippedTerms)
	}
}
