package models

import "time"

// WeeklyTermTrend holds one term's aggregated appearance for a Monday-anchored
// week, with the interval estimate and the short-window anomaly score.
type WeeklyTermTrend struct {
	WeekStartDate time.Time `gorm:"primaryKey;type:date"`
	BoardKey      string    `gorm:"primaryKey;type:text"`
	TermID        uint64    `gorm:"primaryKey"`

	PostHits   int `gorm:"not null"`
	TotalPosts int `gorm:"not null"`

	AppearanceRate        float64 `gorm:"not null"`
	AppearanceRateCILower *float64
	AppearanceRateCIUpper *float64

	ZScore *float64 `gorm:"column:zscore;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (WeeklyTermTrend) TableName() string {
	return "weekly_term_trends"
}
