package models

import "time"

// PipelineMetricsDaily is one harvest's operational counters, keyed by the
// target date rather than the run so re-runs overwrite instead of duplicating.
type PipelineMetricsDaily struct {
	Date     time.Time `gorm:"primaryKey;type:date"`
	BoardKey string    `gorm:"primaryKey;type:text"`

	RunID *string `gorm:"type:uuid;index"`

	FetchedThreads    int `gorm:"not null"`
	FetchedPosts      int `gorm:"not null"`
	ParsedPosts       int `gorm:"not null"`
	ParseFailPosts    int `gorm:"not null"`
	TokenizeFailPosts int `gorm:"not null"`
	FilteredTokens    int `gorm:"not null"`
	TotalTokens       int `gorm:"not null"`

	FilteredRate float64 `gorm:"not null"`
	DurationSec  int     `gorm:"not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (PipelineMetricsDaily) TableName() string {
	return "pipeline_metrics_daily"
}
