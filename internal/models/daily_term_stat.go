package models

import "time"

type DailyTermStat struct {
	Date     time.Time `gorm:"primaryKey;type:date;comment:集計日"`
	BoardKey string    `gorm:"primaryKey;type:text;comment:板キー"`
	TermID   uint64    `gorm:"primaryKey;comment:用語ID"`

	PostHits   int `gorm:"not null;comment:出現レス数"`
	ThreadHits int `gorm:"not null;comment:出現スレッド数"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;comment:作成時刻"`
}

func (DailyTermStat) TableName() string {
	return "daily_term_stats"
}
