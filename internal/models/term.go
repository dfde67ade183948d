package models

import (
	"time"

	"gorm.io/datatypes"
)

type Term struct {
	TermID     uint64 `gorm:"primaryKey;autoIncrement;comment:用語ID"`
	Normalized string `gorm:"type:text;not null;uniqueIndex;comment:正規化済み表記"`

	NeedsReview   bool    `gorm:"not null;default:false;comment:要レビュー"`
	IsBlocked     bool    `gorm:"not null;default:false;comment:集計除外"`
	BlockedReason *string `gorm:"type:text;comment:除外理由"`

	SurfaceExamples datatypes.JSON `gorm:"type:jsonb;comment:表層形の例"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;comment:作成時刻"`
}

func (Term) TableName() string {
	return "terms"
}
