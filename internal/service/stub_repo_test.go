package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"termwatch/internal/models"
	"termwatch/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It implements the full interface but only the subset the pipeline services
// touch has real behavior.
type stubRepo struct {
	runs        map[string]*models.PipelineRun
	runsByDate  []models.PipelineRun
	blocked     []string
	terms       map[string]*models.Term
	nextTermID  uint64
	dailyStats  []models.DailyTermStat
	metrics     []models.PipelineMetricsDaily
	trends      []models.WeeklyTermTrend
	regressions map[uint64]*models.TermRegressionResult
	aggregates  []repository.TermAggregate
	totalPosts  int64

	upsertStatsErr   error
	trendsErrForTerm uint64
	trendsErr        error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		runs:        map[string]*models.PipelineRun{},
		terms:       map[string]*models.Term{},
		regressions: map[uint64]*models.TermRegressionResult{},
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) CreateRun(ctx context.Context, item *models.PipelineRun) error {
	cp := *item
	s.runs[item.RunID] = &cp
	return nil
}

func (s *stubRepo) UpdateRunStatus(ctx context.Context, runID string, status string, finishedAt *time.Time) error {
	if run, ok := s.runs[runID]; ok {
		run.Status = status
		run.FinishedAt = finishedAt
	}
	return nil
}

func (s *stubRepo) GetRunByID(ctx context.Context, runID string) (*models.PipelineRun, error) {
	return s.runs[runID], nil
}

func (s *stubRepo) GetRunByTarget(ctx context.Context, targetDate time.Time, boardKey string) (*models.PipelineRun, error) {
	for _, run := range s.runs {
		if run.TargetDate.Equal(targetDate) && run.BoardKey == boardKey {
			return run, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListRuns(ctx context.Context, params repository.ListRunsParams) ([]models.PipelineRun, error) {
	return nil, nil
}

func (s *stubRepo) CountRuns(ctx context.Context, params repository.ListRunsParams) (int64, error) {
	return 0, nil
}

func (s *stubRepo) ListRunsByDates(ctx context.Context, boardKey string, dates []time.Time) ([]models.PipelineRun, error) {
	return s.runsByDate, nil
}

func (s *stubRepo) MarkRunRecovered(ctx context.Context, runID string) error {
	if run, ok := s.runs[runID]; ok {
		run.IsRecovered = true
	}
	return nil
}

func (s *stubRepo) GetOrCreateTerm(ctx context.Context, normalized string, surface string) (*models.Term, error) {
	if term, ok := s.terms[normalized]; ok {
		return term, nil
	}
	s.nextTermID++
	term := &models.Term{TermID: s.nextTermID, Normalized: normalized}
	s.terms[normalized] = term
	return term, nil
}

func (s *stubRepo) GetTermByID(ctx context.Context, termID uint64) (*models.Term, error) {
	for _, term := range s.terms {
		if term.TermID == termID {
			return term, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetTermByNormalized(ctx context.Context, normalized string) (*models.Term, error) {
	return s.terms[normalized], nil
}

func (s *stubRepo) ListTermsByIDs(ctx context.Context, termIDs []uint64) ([]models.Term, error) {
	out := make([]models.Term, 0, len(termIDs))
	for _, id := range termIDs {
		for _, term := range s.terms {
			if term.TermID == id {
				out = append(out, *term)
			}
		}
	}
	return out, nil
}

func (s *stubRepo) ListBlockedNormalized(ctx context.Context) ([]string, error) {
	return s.blocked, nil
}

func (s *stubRepo) SetTermBlocked(ctx context.Context, termID uint64, blocked bool, reason *string) error {
	for _, term := range s.terms {
		if term.TermID == termID {
			term.IsBlocked = blocked
			term.BlockedReason = reason
		}
	}
	return nil
}

func (s *stubRepo) UpsertDailyTermStatsTx(ctx context.Context, tx *gorm.DB, items []models.DailyTermStat) error {
	if s.upsertStatsErr != nil {
		return s.upsertStatsErr
	}
	s.dailyStats = append(s.dailyStats, items...)
	return nil
}

func (s *stubRepo) ListDailyTermStats(ctx context.Context, params repository.ListDailyTermStatsParams) ([]models.DailyTermStat, error) {
	return nil, nil
}

func (s *stubRepo) CountDailyTermStats(ctx context.Context, params repository.ListDailyTermStatsParams) (int64, error) {
	return 0, nil
}

func (s *stubRepo) AggregateTermStats(ctx context.Context, boardKey string, dates []time.Time) ([]repository.TermAggregate, error) {
	return s.aggregates, nil
}

func (s *stubRepo) UpsertWeeklyTrends(ctx context.Context, items []models.WeeklyTermTrend) error {
	for _, item := range items {
		replaced := false
		for i := range s.trends {
			if s.trends[i].WeekStartDate.Equal(item.WeekStartDate) &&
				s.trends[i].BoardKey == item.BoardKey &&
				s.trends[i].TermID == item.TermID {
				s.trends[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			s.trends = append(s.trends, item)
		}
	}
	return nil
}

func (s *stubRepo) ListWeeklyTrends(ctx context.Context, params repository.ListWeeklyTrendsParams) ([]models.WeeklyTermTrend, error) {
	return nil, nil
}

func (s *stubRepo) CountWeeklyTrends(ctx context.Context, params repository.ListWeeklyTrendsParams) (int64, error) {
	return 0, nil
}

func (s *stubRepo) ListTermTrends(ctx context.Context, params repository.ListTermTrendsParams) ([]models.WeeklyTermTrend, error) {
	if s.trendsErr != nil && params.TermID == s.trendsErrForTerm {
		return nil, s.trendsErr
	}
	out := make([]models.WeeklyTermTrend, 0, len(s.trends))
	for _, trend := range s.trends {
		if trend.TermID != params.TermID {
			continue
		}
		if params.BoardKey != nil && trend.BoardKey != *params.BoardKey {
			continue
		}
		if params.Since != nil && trend.WeekStartDate.Before(*params.Since) {
			continue
		}
		if params.Until != nil && trend.WeekStartDate.After(*params.Until) {
			continue
		}
		out = append(out, trend)
	}
	asc := params.Asc != nil && *params.Asc
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].WeekStartDate.Before(out[j].WeekStartDate)
		}
		return out[i].WeekStartDate.After(out[j].WeekStartDate)
	})
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (s *stubRepo) UpsertRegressionResult(ctx context.Context, item *models.TermRegressionResult) error {
	cp := *item
	s.regressions[item.TermID] = &cp
	return nil
}

func (s *stubRepo) GetRegressionResult(ctx context.Context, boardKey string, termID uint64) (*models.TermRegressionResult, error) {
	return s.regressions[termID], nil
}

func (s *stubRepo) ListRegressionResults(ctx context.Context, params repository.ListRegressionsParams) ([]models.TermRegressionResult, error) {
	return nil, nil
}

func (s *stubRepo) CountRegressionResults(ctx context.Context, params repository.ListRegressionsParams) (int64, error) {
	return 0, nil
}

func (s *stubRepo) UpsertDailyMetricsTx(ctx context.Context, tx *gorm.DB, item *models.PipelineMetricsDaily) error {
	s.metrics = append(s.metrics, *item)
	return nil
}

func (s *stubRepo) GetDailyMetrics(ctx context.Context, date time.Time, boardKey string) (*models.PipelineMetricsDaily, error) {
	for i := range s.metrics {
		if s.metrics[i].Date.Equal(date) && s.metrics[i].BoardKey == boardKey {
			return &s.metrics[i], nil
		}
	}
	return nil, nil
}

func (s *stubRepo) SumFetchedPosts(ctx context.Context, boardKey string, dates []time.Time) (int64, error) {
	return s.totalPosts, nil
}
