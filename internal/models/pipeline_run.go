package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run statuses. A run is created as partial and flips to success or
// failed when the pipeline finishes.
const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
	RunStatusPartial = "partial"
)

type PipelineRun struct {
	RunID      string    `gorm:"primaryKey;type:uuid;comment:実行ID"`
	TargetDate time.Time `gorm:"type:date;not null;uniqueIndex:uniq_run_target_board;comment:収集対象日"`
	BoardKey   string    `gorm:"type:text;not null;uniqueIndex:uniq_run_target_board;comment:板キー"`
	Status     string    `gorm:"type:varchar(20);not null;comment:実行状態"`

	StartedAt  time.Time  `gorm:"type:timestamptz;not null;autoCreateTime;comment:開始時刻"`
	FinishedAt *time.Time `gorm:"type:timestamptz;comment:終了時刻"`

	Config      datatypes.JSON `gorm:"type:jsonb;not null;comment:実行時設定"`
	CodeVersion *string        `gorm:"type:text;comment:コードバージョン"`
	IsRecovered bool           `gorm:"not null;default:false;comment:手動復旧済み"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;comment:作成時刻"`
}

func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
