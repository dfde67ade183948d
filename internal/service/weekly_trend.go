package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"termwatch/internal/analysis"
	"termwatch/internal/models"
	"termwatch/internal/repository"
)

// WeeklyTrendService aggregates daily term stats into Monday-anchored weekly
// trend rows and refits each term's eight-week regression. Only dates whose
// pipeline run succeeded (or was manually recovered) enter the aggregation.
type WeeklyTrendService struct {
	Repo     repository.Repository
	Logger   *zap.Logger
	BoardKey string
	Alpha    float64
	Location *time.Location
}

// WeeklyReport summarizes one aggregation pass.
type WeeklyReport struct {
	WeekStart      time.Time
	TotalPosts     int64
	ProcessedTerms int
	SkippedTerms   int
	Regressions    int
	ValidDates     []time.Time
	InvalidDates   []time.Time
	Duration       time.Duration
}

func (s *WeeklyTrendService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	execDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	report, err := s.RunFor(ctx, execDate)
	if err != nil {
		return err
	}
	s.Logger.Info("weekly trends processed",
		zap.String("week_start", report.WeekStart.Format("2006-01-02")),
		zap.Int64("total_posts", report.TotalPosts),
		zap.Int("terms", report.ProcessedTerms),
		zap.Int("skipped", report.SkippedTerms),
		zap.Int("regressions", report.Regressions),
		zap.Int("invalid_dates", len(report.InvalidDates)),
		zap.Duration("duration", report.Duration),
	)
	return nil
}

func (s *WeeklyTrendService) RunFor(ctx context.Context, execDate time.Time) (*WeeklyReport, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	started := time.Now()
	alpha := s.Alpha
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}
	execDate = truncateDate(execDate)
	if execDate.Weekday() != time.Monday {
		s.Logger.Warn("weekly aggregation expects a Monday execution",
			zap.String("exec_date", execDate.Format("2006-01-02")),
		)
	}
	weekStart := analysis.WeekStart(execDate)
	dates := analysis.WeekDates(weekStart)
	runs, err := s.Repo.ListRunsByDates(ctx, s.BoardKey, dates)
	if err != nil {
		return nil, err
	}
	valid, invalid := analysis.ValidDates(dates, runs)
	report := &WeeklyReport{WeekStart: weekStart, ValidDates: valid, InvalidDates: invalid}
	if len(invalid) > 0 {
		s.Logger.Warn("week has unusable dates",
			zap.String("week_start", weekStart.Format("2006-01-02")),
			zap.Int("invalid", len(invalid)),
		)
	}
	if len(valid) == 0 {
		s.Logger.Warn("no valid dates in week, nothing to aggregate",
			zap.String("week_start", weekStart.Format("2006-01-02")),
		)
		report.Duration = time.Since(started)
		return report, nil
	}

	aggregates, err := s.Repo.AggregateTermStats(ctx, s.BoardKey, valid)
	if err != nil {
		return nil, err
	}
	totalPosts, err := s.Repo.SumFetchedPosts(ctx, s.BoardKey, valid)
	if err != nil {
		return nil, err
	}
	report.TotalPosts = totalPosts

	sort.Slice(aggregates, func(i, j int) bool { return aggregates[i].TermID < aggregates[j].TermID })

	historySince := weekStart.AddDate(0, 0, -7*analysis.MinHistoryWeeks)
	historyUntil := weekStart.AddDate(0, 0, -7)
	trends := make([]models.WeeklyTermTrend, 0, len(aggregates))
	for _, agg := range aggregates {
		trend, err := s.buildTrend(ctx, weekStart, agg, totalPosts, alpha, historySince, historyUntil)
		if err != nil {
			// One term must not sink the week.
			s.Logger.Warn("term trend failed", zap.Uint64("term_id", agg.TermID), zap.Error(err))
			report.SkippedTerms++
			continue
		}
		trends = append(trends, *trend)
	}
	if err := s.Repo.UpsertWeeklyTrends(ctx, trends); err != nil {
		return nil, err
	}
	report.ProcessedTerms = len(trends)

	// The fit reads trend rows back so it sees the week just written.
	regressionSince := weekStart.AddDate(0, 0, -7*(analysis.RegressionWeeks-1))
	for _, agg := range aggregates {
		updated, err := s.updateRegression(ctx, agg.TermID, weekStart, regressionSince, alpha)
		if err != nil {
			s.Logger.Warn("term regression failed", zap.Uint64("term_id", agg.TermID), zap.Error(err))
			continue
		}
		if updated {
			report.Regressions++
		}
	}
	report.Duration = time.Since(started)
	return report, nil
}

func (s *WeeklyTrendService) buildTrend(ctx context.Context, weekStart time.Time, agg repository.TermAggregate, totalPosts int64, alpha float64, historySince, historyUntil time.Time) (*models.WeeklyTermTrend, error) {
	trend := &models.WeeklyTermTrend{
		WeekStartDate: weekStart,
		BoardKey:      s.BoardKey,
		TermID:        agg.TermID,
		PostHits:      int(agg.PostHits),
		TotalPosts:    int(totalPosts),
	}
	if totalPosts > 0 {
		trend.AppearanceRate = float64(agg.PostHits) / float64(totalPosts)
		lower, upper := analysis.JeffreysInterval(int(agg.PostHits), int(totalPosts), alpha)
		trend.AppearanceRateCILower = &lower
		trend.AppearanceRateCIUpper = &upper
	}

	board := s.BoardKey
	history, err := s.Repo.ListTermTrends(ctx, repository.ListTermTrendsParams{
		TermID:   agg.TermID,
		BoardKey: &board,
		Since:    &historySince,
		Until:    &historyUntil,
		Limit:    analysis.MinHistoryWeeks,
	})
	if err != nil {
		return nil, err
	}
	rates := make([]float64, 0, len(history))
	for _, h := range history {
		rates = append(rates, h.AppearanceRate)
	}
	trend.ZScore = analysis.ZScore(trend.AppearanceRate, rates)
	return trend, nil
}

// updateRegression refits one term's trend line over the trailing
// RegressionWeeks weeks. Terms with a shorter history keep whatever fit they
// already have.
func (s *WeeklyTrendService) updateRegression(ctx context.Context, termID uint64, weekStart, since time.Time, alpha float64) (bool, error) {
	board := s.BoardKey
	asc := true
	history, err := s.Repo.ListTermTrends(ctx, repository.ListTermTrendsParams{
		TermID:   termID,
		BoardKey: &board,
		Since:    &since,
		Until:    &weekStart,
		Asc:      &asc,
		Limit:    analysis.RegressionWeeks,
	})
	if err != nil {
		return false, err
	}
	if len(history) < analysis.RegressionWeeks {
		return false, nil
	}
	rates := make([]float64, 0, len(history))
	for _, h := range history {
		rates = append(rates, h.AppearanceRate)
	}
	fit, err := analysis.FitTrend(rates, alpha)
	if err != nil {
		return false, err
	}
	item := &models.TermRegressionResult{
		BoardKey:          s.BoardKey,
		TermID:            termID,
		Intercept:         fit.Intercept,
		Slope:             fit.Slope,
		InterceptCILower:  &fit.InterceptCILower,
		InterceptCIUpper:  &fit.InterceptCIUpper,
		SlopeCILower:      &fit.SlopeCILower,
		SlopeCIUpper:      &fit.SlopeCIUpper,
		PValue:            &fit.PValue,
		AnalysisStartDate: since,
		AnalysisEndDate:   weekStart.AddDate(0, 0, 6),
	}
	if err := s.Repo.UpsertRegressionResult(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}
