package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"termwatch/internal/models"
)

type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Pipeline runs
	CreateRun(ctx context.Context, item *models.PipelineRun) error
	UpdateRunStatus(ctx context.Context, runID string, status string, finishedAt *time.Time) error
	GetRunByID(ctx context.Context, runID string) (*models.PipelineRun, error)
	GetRunByTarget(ctx context.Context, targetDate time.Time, boardKey string) (*models.PipelineRun, error)
	ListRuns(ctx context.Context, params ListRunsParams) ([]models.PipelineRun, error)
	CountRuns(ctx context.Context, params ListRunsParams) (int64, error)
	ListRunsByDates(ctx context.Context, boardKey string, dates []time.Time) ([]models.PipelineRun, error)
	MarkRunRecovered(ctx context.Context, runID string) error

	// Terms
	GetOrCreateTerm(ctx context.Context, normalized string, surface string) (*models.Term, error)
	GetTermByID(ctx context.Context, termID uint64) (*models.Term, error)
	GetTermByNormalized(ctx context.Context, normalized string) (*models.Term, error)
	ListTermsByIDs(ctx context.Context, termIDs []uint64) ([]models.Term, error)
	ListBlockedNormalized(ctx context.Context) ([]string, error)
	SetTermBlocked(ctx context.Context, termID uint64, blocked bool, reason *string) error

	// Daily stats
	UpsertDailyTermStatsTx(ctx context.Context, tx *gorm.DB, items []models.DailyTermStat) error
	ListDailyTermStats(ctx context.Context, params ListDailyTermStatsParams) ([]models.DailyTermStat, error)
	CountDailyTermStats(ctx context.Context, params ListDailyTermStatsParams) (int64, error)
	AggregateTermStats(ctx context.Context, boardKey string, dates []time.Time) ([]TermAggregate, error)

	// Weekly trends
	UpsertWeeklyTrends(ctx context.Context, items []models.WeeklyTermTrend) error
	ListWeeklyTrends(ctx context.Context, params ListWeeklyTrendsParams) ([]models.WeeklyTermTrend, error)
	CountWeeklyTrends(ctx context.Context, params ListWeeklyTrendsParams) (int64, error)
	ListTermTrends(ctx context.Context, params ListTermTrendsParams) ([]models.WeeklyTermTrend, error)

	// Regression results
	UpsertRegressionResult(ctx context.Context, item *models.TermRegressionResult) error
	GetRegressionResult(ctx context.Context, boardKey string, termID uint64) (*models.TermRegressionResult, error)
	ListRegressionResults(ctx context.Context, params ListRegressionsParams) ([]models.TermRegressionResult, error)
	CountRegressionResults(ctx context.Context, params ListRegressionsParams) (int64, error)

	// Daily metrics
	UpsertDailyMetricsTx(ctx context.Context, tx *gorm.DB, item *models.PipelineMetricsDaily) error
	GetDailyMetrics(ctx context.Context, date time.Time, boardKey string) (*models.PipelineMetricsDaily, error)
	SumFetchedPosts(ctx context.Context, boardKey string, dates []time.Time) (int64, error)
}

// TermAggregate is one term's summed daily stats over a set of dates.
type TermAggregate struct {
	TermID     uint64
	PostHits   int64
	ThreadHits int64
}

type ListRunsParams struct {
	Limit    int
	Offset   int
	BoardKey *string
	Status   *string
	Since    *time.Time
	Until    *time.Time
	OrderBy  string
	Asc      *bool
}

type ListDailyTermStatsParams struct {
	Limit    int
	Offset   int
	Date     *time.Time
	BoardKey *string
	TermID   *uint64
	OrderBy  string
	Asc      *bool
}

type ListWeeklyTrendsParams struct {
	Limit         int
	Offset        int
	WeekStartDate *time.Time
	BoardKey      *string
	OrderBy       string
	Asc           *bool
}

type ListTermTrendsParams struct {
	Limit    int
	TermID   uint64
	BoardKey *string
	Since    *time.Time
	Until    *time.Time
	Asc      *bool
}

type ListRegressionsParams struct {
	Limit    int
	Offset   int
	BoardKey *string
	OrderBy  string
	Asc      *bool
}
