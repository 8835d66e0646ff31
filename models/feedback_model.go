package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback represents the feedback table. Rows are append-only.
// VideoID references videos.id.
type Feedback struct {
	ID               string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	VideoID          string    `gorm:"column:video_id;type:varchar(36);index;not null" json:"video_id"`
	ClientCode       string    `gorm:"column:client_code;type:varchar(191) COLLATE utf8mb4_bin;index;not null" json:"client_code"`
	TimestampSeconds float64   `gorm:"column:timestamp_seconds;not null" json:"timestamp_seconds"`
	Comment          string    `gorm:"column:comment;type:text;not null" json:"comment"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the database table name for Feedback model.
func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
