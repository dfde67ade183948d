package models

import "time"

// TermRegressionResult is the OLS fit of a term's weekly appearance rate over
// the trailing eight weeks. One row per (board, term), overwritten in place.
type TermRegressionResult struct {
	BoardKey string `gorm:"primaryKey;type:text"`
	TermID   uint64 `gorm:"primaryKey"`

	Intercept float64 `gorm:"not null"`
	Slope     float64 `gorm:"not null;index"`

	InterceptCILower *float64
	InterceptCIUpper *float64
	SlopeCILower     *float64
	SlopeCIUpper     *float64
	PValue           *float64

	AnalysisStartDate time.Time `gorm:"type:date;not null"`
	AnalysisEndDate   time.Time `gorm:"type:date;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (TermRegressionResult) TableName() string {
	return "term_regression_results"
}
