package db

import (
	"termwatch/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.PipelineRun{},
		&models.Term{},
		&models.DailyTermStat{},
		&models.WeeklyTermTrend{},
		&models.TermRegressionResult{},
		&models.PipelineMetricsDaily{},
	)
}
