package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"termwatch/internal/analysis"
	"termwatch/internal/crawler"
	"termwatch/internal/models"
	"termwatch/internal/repository"
)

// DailyHarvestService runs one board's daily pipeline: crawl the target
// date's posts, aggregate term hits, and persist stats plus the metrics row,
// all under a pipeline run record that tracks the outcome.
type DailyHarvestService struct {
	Repo      repository.Repository
	Crawler   *crawler.Crawler
	Tokenizer analysis.Tokenizer
	Logger    *zap.Logger

	BoardKey    string
	BaseURL     string
	BoardPath   string
	CodeVersion string
	Location    *time.Location
}

// RunOnce harvests yesterday in the service's local time, the day whose
// posts are complete by the time the overnight schedule fires.
func (s *DailyHarvestService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	target := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return s.RunFor(ctx, target)
}

func (s *DailyHarvestService) RunFor(ctx context.Context, targetDate time.Time) error {
	if s == nil || s.Repo == nil || s.Crawler == nil {
		return nil
	}
	targetDate = truncateDate(targetDate)
	started := time.Now()

	runCfg, err := json.Marshal(map[string]string{
		"base_url":   s.BaseURL,
		"board_path": s.BoardPath,
		"board_key":  s.BoardKey,
	})
	if err != nil {
		return err
	}
	run := &models.PipelineRun{
		RunID:      uuid.NewString(),
		TargetDate: targetDate,
		BoardKey:   s.BoardKey,
		Status:     models.RunStatusPartial,
		Config:     datatypes.JSON(runCfg),
	}
	if s.CodeVersion != "" {
		version := s.CodeVersion
		run.CodeVersion = &version
	}
	// One run row exists per date and board; a re-harvest reopens it and the
	// upserts below overwrite that day's stats.
	prior, err := s.Repo.GetRunByTarget(ctx, targetDate, s.BoardKey)
	if err != nil {
		return err
	}
	if prior != nil {
		run.RunID = prior.RunID
		if err := s.Repo.UpdateRunStatus(ctx, run.RunID, models.RunStatusPartial, nil); err != nil {
			return err
		}
		s.Logger.Info("re-harvesting target date",
			zap.String("run_id", run.RunID),
			zap.String("previous_status", prior.Status),
		)
	} else if err := s.Repo.CreateRun(ctx, run); err != nil {
		return err
	}
	s.Logger.Info("harvest started",
		zap.String("run_id", run.RunID),
		zap.String("board", s.BoardKey),
		zap.String("target_date", targetDate.Format("2006-01-02")),
	)

	result, err := s.Crawler.Harvest(ctx, targetDate)
	if err != nil {
		return s.fail(ctx, run.RunID, err)
	}

	blocked, err := s.Repo.ListBlockedNormalized(ctx)
	if err != nil {
		return s.fail(ctx, run.RunID, err)
	}
	blockedSet := make(map[string]struct{}, len(blocked))
	for _, term := range blocked {
		blockedSet[term] = struct{}{}
	}

	agg := analysis.Aggregator{Tokenizer: s.Tokenizer, Blocked: blockedSet}
	counts := agg.Aggregate(result.Threads)

	stats := make([]models.DailyTermStat, 0, len(counts.PostHits))
	for _, normalized := range counts.Terms() {
		term, err := s.Repo.GetOrCreateTerm(ctx, normalized, counts.Surfaces[normalized])
		if err != nil {
			return s.fail(ctx, run.RunID, err)
		}
		if term == nil {
			continue
		}
		stats = append(stats, models.DailyTermStat{
			Date:       targetDate,
			BoardKey:   s.BoardKey,
			TermID:     term.TermID,
			PostHits:   counts.PostHits[normalized],
			ThreadHits: counts.ThreadHits[normalized],
		})
	}
	// Thread and post counts are batch-relative: only the target date's posts
	// feed them, which keeps fetched_posts usable as the weekly rate
	// denominator. The parse-fail count is the one walk-sourced number.
	metrics := &models.PipelineMetricsDaily{
		Date:              targetDate,
		BoardKey:          s.BoardKey,
		RunID:             &run.RunID,
		FetchedThreads:    counts.FetchedThreads,
		FetchedPosts:      counts.FetchedPosts,
		ParsedPosts:       counts.ParsedPosts,
		ParseFailPosts:    result.ParseFailPosts,
		TokenizeFailPosts: counts.TokenizeFailPosts,
		FilteredTokens:    counts.FilteredTokens,
		TotalTokens:       counts.TotalTokens,
		FilteredRate:      counts.FilteredRate(),
		DurationSec:       int(time.Since(started).Seconds()),
	}
	// Stats and metrics for the day land together or not at all.
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.UpsertDailyTermStatsTx(ctx, tx, stats); err != nil {
			return err
		}
		return s.Repo.UpsertDailyMetricsTx(ctx, tx, metrics)
	})
	if err != nil {
		return s.fail(ctx, run.RunID, err)
	}

	finished := time.Now().UTC()
	if err := s.Repo.UpdateRunStatus(ctx, run.RunID, models.RunStatusSuccess, &finished); err != nil {
		return err
	}
	s.Logger.Info("harvest finished",
		zap.String("run_id", run.RunID),
		zap.Int("threads", counts.FetchedThreads),
		zap.Int("posts", counts.FetchedPosts),
		zap.Int("walked_threads", result.WalkedThreads),
		zap.Int("terms", len(stats)),
		zap.Float64("filtered_rate", counts.FilteredRate()),
	)
	return nil
}

// fail marks the run failed and hands the original error back to the caller.
func (s *DailyHarvestService) fail(ctx context.Context, runID string, cause error) error {
	finished := time.Now().UTC()
	if err := s.Repo.UpdateRunStatus(ctx, runID, models.RunStatusFailed, &finished); err != nil {
		s.Logger.Warn("failed to mark run failed", zap.String("run_id", runID), zap.Error(err))
	}
	return cause
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
