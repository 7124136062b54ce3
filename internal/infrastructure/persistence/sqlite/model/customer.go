package model

import "time"

type Customer struct {
	ID                string    `gorm:"column:id;type:text;primaryKey"`
	Name              string    `gorm:"column:name;type:text;not null"`
	Age               *int      `gorm:"column:age"`
	Email             string    `gorm:"column:email;type:text;not null"`
	Phone             string    `gorm:"column:phone;type:text;not null"`
	ParentSituation   *string   `gorm:"column:parent_situation;type:text"`
	ApplicationReason *string   `gorm:"column:application_reason;type:text"`
	Status            string    `gorm:"column:status;type:text;not null;index"`
	CreatedAt         time.Time `gorm:"column:created_at;not null;index"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null"`
}

func (Customer) TableName() string {
	return "customers"
}
