package gormrepository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"termwatch/internal/models"
	"termwatch/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Pipeline runs ----------------------------------------------------------

func (s *Store) CreateRun(ctx context.Context, item *models.PipelineRun) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.RunID) == "" || strings.TrimSpace(item.BoardKey) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateRunStatus(ctx context.Context, runID string, status string, finishedAt *time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	runID = strings.TrimSpace(runID)
	if runID == "" || strings.TrimSpace(status) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.PipelineRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]any{"status": strings.TrimSpace(status), "finished_at": finishedAt}).
		Error
}

func (s *Store) GetRunByID(ctx context.Context, runID string) (*models.PipelineRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, nil
	}
	var item models.PipelineRun
	err := s.db.WithContext(ctx).Model(&models.PipelineRun{}).Where("run_id = ?", runID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetRunByTarget(ctx context.Context, targetDate time.Time, boardKey string) (*models.PipelineRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	boardKey = strings.TrimSpace(boardKey)
	if boardKey == "" || targetDate.IsZero() {
		return nil, nil
	}
	var item models.PipelineRun
	err := s.db.WithContext(ctx).
		Model(&models.PipelineRun{}).
		Where("target_date = ?", targetDate).
		Where("board_key = ?", boardKey).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListRuns(ctx context.Context, params repository.ListRunsParams) ([]models.PipelineRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyRunFilters(s.db.WithContext(ctx).Model(&models.PipelineRun{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "target_date")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.PipelineRun
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountRuns(ctx context.Context, params repository.ListRunsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyRunFilters(s.db.WithContext(ctx).Model(&models.PipelineRun{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyRunFilters(query *gorm.DB, params repository.ListRunsParams) *gorm.DB {
	if params.BoardKey != nil && strings.TrimSpace(*params.BoardKey) != "" {
		query = query.Where("board_key = ?", strings.TrimSpace(*params.BoardKey))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("target_date >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("target_date <= ?", *params.Until)
	}
	return query
}

func (s *Store) ListRunsByDates(ctx context.Context, boardKey string, dates []time.Time) ([]models.PipelineRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	boardKey = strings.TrimSpace(boardKey)
	if boardKey == "" || len(dates) == 0 {
		return nil, nil
	}
	var items []models.PipelineRun
	if err := s.db.WithContext(ctx).
		Model(&models.PipelineRun{}).
		Where("board_key = ?", boardKey).
		Where("target_date IN ?", dates).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) MarkRunRecovered(ctx context.Context, runID string) error {
	if s == nil || s.db == nil {
		return nil
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.PipelineRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]any{"is_recovered": true}).
		Error
}

// --- Terms ------------------------------------------------------------------

func (s *Store) GetOrCreateTerm(ctx context.Context, normalized string, surface string) (*models.Term, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return nil, nil
	}
	item := models.Term{Normalized: normalized}
	if surface != "" {
		if raw, err := json.Marshal([]string{surface}); err == nil {
			item.SurfaceExamples = datatypes.JSON(raw)
		}
	}
	// Concurrent creators race on the unique index; DoNothing makes the loser
	// fall through to the fetch below.
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "normalized"}},
		DoNothing: true,
	}).Create(&item).Error; err != nil {
		return nil, err
	}
	if item.TermID != 0 {
		return &item, nil
	}
	return s.GetTermByNormalized(ctx, normalized)
}

func (s *Store) GetTermByID(ctx context.Context, termID uint64) (*models.Term, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if termID == 0 {
		return nil, nil
	}
	var item models.Term
	err := s.db.WithContext(ctx).Model(&models.Term{}).Where("term_id = ?", termID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetTermByNormalized(ctx context.Context, normalized string) (*models.Term, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return nil, nil
	}
	var item models.Term
	err := s.db.WithContext(ctx).Model(&models.Term{}).Where("normalized = ?", normalized).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListTermsByIDs(ctx context.Context, termIDs []uint64) ([]models.Term, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if len(termIDs) == 0 {
		return nil, nil
	}
	var items []models.Term
	if err := s.db.WithContext(ctx).
		Model(&models.Term{}).
		Where("term_id IN ?", termIDs).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListBlockedNormalized(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []string
	err := s.db.WithContext(ctx).
		Model(&models.Term{}).
		Where("is_blocked = ?", true).
		Pluck("normalized", &items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetTermBlocked(ctx context.Context, termID uint64, blocked bool, reason *string) error {
	if s == nil || s.db == nil {
		return nil
	}
	if termID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Term{}).
		Where("term_id = ?", termID).
		Updates(map[string]any{"is_blocked": blocked, "blocked_reason": reason}).
		Error
}

// --- Daily stats ------------------------------------------------------------

func (s *Store) UpsertDailyTermStatsTx(ctx context.Context, tx *gorm.DB, items []models.DailyTermStat) error {
	if len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "board_key"}, {Name: "term_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"post_hits",
			"thread_hits",
		}),
	}), items, 200)
}

func (s *Store) ListDailyTermStats(ctx context.Context, params repository.ListDailyTermStatsParams) ([]models.DailyTermStat, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyDailyStatFilters(s.db.WithContext(ctx).Model(&models.DailyTermStat{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "post_hits")
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.DailyTermStat
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountDailyTermStats(ctx context.Context, params repository.ListDailyTermStatsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyDailyStatFilters(s.db.WithContext(ctx).Model(&models.DailyTermStat{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyDailyStatFilters(query *gorm.DB, params repository.ListDailyTermStatsParams) *gorm.DB {
	if params.Date != nil && !params.Date.IsZero() {
		query = query.Where("date = ?", *params.Date)
	}
	if params.BoardKey != nil && strings.TrimSpace(*params.BoardKey) != "" {
		query = query.Where("board_key = ?", strings.TrimSpace(*params.BoardKey))
	}
	if params.TermID != nil && *params.TermID != 0 {
		query = query.Where("term_id = ?", *params.TermID)
	}
	return query
}

func (s *Store) AggregateTermStats(ctx context.Context, boardKey string, dates []time.Time) ([]repository.TermAggregate, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	boardKey = strings.TrimSpace(boardKey)
	if boardKey == "" || len(dates) == 0 {
		return nil, nil
	}
	var rows []struct {
		TermID     uint64
		PostHits   int64
		ThreadHits int64
	}
	err := s.db.WithContext(ctx).
		Table("daily_term_stats").
		Select(`
			term_id,
			COALESCE(SUM(post_hits),0) AS post_hits,
			COALESCE(SUM(thread_hits),0) AS thread_hits
		`).
		Where("board_key = ?", boardKey).
		Where("date IN ?", dates).
		Group("term_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]repository.TermAggregate, 0, len(rows))
	for _, r := range rows {
		out = append(out, repository.TermAggregate{
			TermID:     r.TermID,
			PostHits:   r.PostHits,
			ThreadHits: r.ThreadHits,
		})
	}
	return out, nil
}

// --- Weekly trends ----------------------------------------------------------

func (s *Store) UpsertWeeklyTrends(ctx context.Context, items []models.WeeklyTermTrend) error {
	if s == nil || s.db == nil {
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	return createInBatches(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "week_start_date"}, {Name: "board_key"}, {Name: "term_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"post_hits",
			"total_posts",
			"appearance_rate",
			"appearance_rate_ci_lower",
			"appearance_rate_ci_upper",
			"zscore",
		}),
	}), items, 200)
}

func (s *Store) ListWeeklyTrends(ctx context.Context, params repository.ListWeeklyTrendsParams) ([]models.WeeklyTermTrend, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyWeeklyTrendFilters(s.db.WithContext(ctx).Model(&models.WeeklyTermTrend{}), params)
	if strings.TrimSpace(params.OrderBy) == "" {
		// Terms without enough history have no score; rank them last.
		query = query.Order("zscore desc nulls last")
	} else {
		query = applyOrder(query, params.OrderBy, params.Asc, "zscore")
	}
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.WeeklyTermTrend
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountWeeklyTrends(ctx context.Context, params repository.ListWeeklyTrendsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyWeeklyTrendFilters(s.db.WithContext(ctx).Model(&models.WeeklyTermTrend{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyWeeklyTrendFilters(query *gorm.DB, params repository.ListWeeklyTrendsParams) *gorm.DB {
	if params.WeekStartDate != nil && !params.WeekStartDate.IsZero() {
		query = query.Where("week_start_date = ?", *params.WeekStartDate)
	}
	if params.BoardKey != nil && strings.TrimSpace(*params.BoardKey) != "" {
		query = query.Where("board_key = ?", strings.TrimSpace(*params.BoardKey))
	}
	return query
}

func (s *Store) ListTermTrends(ctx context.Context, params repository.ListTermTrendsParams) ([]models.WeeklyTermTrend, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if params.TermID == 0 {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.WeeklyTermTrend{}).
		Where("term_id = ?", params.TermID)
	if params.BoardKey != nil && strings.TrimSpace(*params.BoardKey) != "" {
		query = query.Where("board_key = ?", strings.TrimSpace(*params.BoardKey))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("week_start_date >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("week_start_date <= ?", *params.Until)
	}
	direction := "desc"
	if params.Asc != nil && *params.Asc {
		direction = "asc"
	}
	limit := normalizeLimit(params.Limit, 200)
	var items []models.WeeklyTermTrend
	if err := query.Order("week_start_date " + direction).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Regression results -----------------------------------------------------

func (s *Store) UpsertRegressionResult(ctx context.Context, item *models.TermRegressionResult) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.BoardKey) == "" || item.TermID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "board_key"}, {Name: "term_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"intercept",
			"slope",
			"intercept_ci_lower",
			"intercept_ci_upper",
			"slope_ci_lower",
			"slope_ci_upper",
			"p_value",
			"analysis_start_date",
			"analysis_end_date",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetRegressionResult(ctx context.Context, boardKey string, termID uint64) (*models.TermRegressionResult, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	boardKey = strings.TrimSpace(boardKey)
	if boardKey == "" || termID == 0 {
		return nil, nil
	}
	var item models.TermRegressionResult
	err := s.db.WithContext(ctx).
		Model(&models.TermRegressionResult{}).
		Where("board_key = ?", boardKey).
		Where("term_id = ?", termID).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListRegressionResults(ctx context.Context, params repository.ListRegressionsParams) ([]models.TermRegressionResult, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.TermRegressionResult{})
	if params.BoardKey != nil && strings.TrimSpace(*params.BoardKey) != "" {
		query = query.Where("board_key = ?", strings.TrimSpace(*params.BoardKey))
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "slope")
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.TermRegressionResult
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountRegressionResults(ctx context.Context, params repository.ListRegressionsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.TermRegressionResult{})
	if params.BoardKey != nil && strings.TrimSpace(*params.BoardKey) != "" {
		query = query.Where("board_key = ?", strings.TrimSpace(*params.BoardKey))
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- Daily metrics ----------------------------------------------------------

func (s *Store) UpsertDailyMetricsTx(ctx context.Context, tx *gorm.DB, item *models.PipelineMetricsDaily) error {
	if item == nil {
		return nil
	}
	if strings.TrimSpace(item.BoardKey) == "" || item.Date.IsZero() {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "board_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"run_id",
			"fetched_threads",
			"fetched_posts",
			"parsed_posts",
			"parse_fail_posts",
			"tokenize_fail_posts",
			"filtered_tokens",
			"total_tokens",
			"filtered_rate",
			"duration_sec",
		}),
	}).Create(item).Error
}

func (s *Store) GetDailyMetrics(ctx context.Context, date time.Time, boardKey string) (*models.PipelineMetricsDaily, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	boardKey = strings.TrimSpace(boardKey)
	if boardKey == "" || date.IsZero() {
		return nil, nil
	}
	var item models.PipelineMetricsDaily
	err := s.db.WithContext(ctx).
		Model(&models.PipelineMetricsDaily{}).
		Where("date = ?", date).
		Where("board_key = ?", boardKey).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SumFetchedPosts(ctx context.Context, boardKey string, dates []time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	boardKey = strings.TrimSpace(boardKey)
	if boardKey == "" || len(dates) == 0 {
		return 0, nil
	}
	var out int64
	err := s.db.WithContext(ctx).
		Table("pipeline_metrics_daily").
		Select("COALESCE(SUM(fetched_posts),0)").
		Where("board_key = ?", boardKey).
		Where("date IN ?", dates).
		Scan(&out).Error
	if err != nil {
		return 0, err
	}
	return out, nil
}

// --- Helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func createInBatches[T any](db *gorm.DB, items []T, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		if err := db.CreateInBatches(items[i:end], batchSize).Error; err != nil {
			return err
		}
	}
	return nil
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

var _ repository.Repository = (*Store)(nil)
