package model

import "time"

type Interview struct {
	ID              string     `gorm:"column:id;type:text;primaryKey"`
	CustomerID      string     `gorm:"column:customer_id;type:text;not null;uniqueIndex:ux_interviews_customer_session,priority:1"`
	SessionNumber   int        `gorm:"column:session_number;not null;uniqueIndex:ux_interviews_customer_session,priority:2"`
	ScheduledAt     *time.Time `gorm:"column:scheduled_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
	AudioFileURL    *string    `gorm:"column:audio_file_url;type:text"`
	Transcription   *string    `gorm:"column:transcription;type:text"`
	ConsentAudioURL *string    `gorm:"column:consent_audio_url;type:text"`
	Status          string     `gorm:"column:status;type:text;not null"`
}

func (Interview) TableName() string {
	return "interviews"
}
