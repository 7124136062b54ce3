package model

import "time"

type Deliverable struct {
	ID             string    `gorm:"column:id;type:text;primaryKey"`
	CustomerID     string    `gorm:"column:customer_id;type:text;not null;index"`
	PDFURL         *string   `gorm:"column:pdf_url;type:text"`
	DeliveredAt    time.Time `gorm:"column:delivered_at;not null;index"`
	DisclaimerText string    `gorm:"column:disclaimer_text;type:text;not null"`
}

func (Deliverable) TableName() string {
	return "deliverables"
}
