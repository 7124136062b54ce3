package model

import "time"

type Feedback struct {
	ID                  string    `gorm:"column:id;type:text;primaryKey"`
	CustomerID          string    `gorm:"column:customer_id;type:text;not null;index"`
	OverallSatisfaction *int      `gorm:"column:overall_satisfaction"`
	Accuracy            *int      `gorm:"column:accuracy"`
	Readability         *int      `gorm:"column:readability"`
	InterviewExperience *int      `gorm:"column:interview_experience"`
	NPS                 *int      `gorm:"column:nps"`
	Improvements        *string   `gorm:"column:improvements;type:text"`
	FairPrice           *string   `gorm:"column:fair_price;type:text"`
	DesiredFeatures     *string   `gorm:"column:desired_features;type:text"`
	CreatedAt           time.Time `gorm:"column:created_at;not null"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
