package model

import (
	"time"

	"gorm.io/datatypes"
)

// NullJSON is stored in risk_check_log while a manuscript has no result.
// The column is never SQL NULL so datatypes.JSON can always scan it.
var NullJSON = datatypes.JSON("null")

type Manuscript struct {
	ID                 string         `gorm:"column:id;type:text;primaryKey"`
	CustomerID         string         `gorm:"column:customer_id;type:text;not null;uniqueIndex:ux_manuscripts_customer_chapter,priority:1"`
	ChapterNumber      int            `gorm:"column:chapter_number;not null;uniqueIndex:ux_manuscripts_customer_chapter,priority:2"`
	RawContent         *string        `gorm:"column:raw_content;type:text"`
	RiskCheckedContent *string        `gorm:"column:risk_checked_content;type:text"`
	RiskCheckLog       datatypes.JSON `gorm:"column:risk_check_log;type:text;not null;default:'null'"`
	Status             string         `gorm:"column:status;type:text;not null;index"`
	Version            int64          `gorm:"column:version;not null;default:1"`
	CreatedAt          time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;not null"`
}

func (Manuscript) TableName() string {
	return "manuscripts"
}
