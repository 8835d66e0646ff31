package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video represents the videos table.
// VideoID is the external identifier (hosting shortcode or VID_<millis>).
// A video with ExpiresAt at or before now is hidden from every listing even while IsActive.
type Video struct {
	ID              string     `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	VideoID         string     `gorm:"column:video_id;type:varchar(191);uniqueIndex;not null" json:"video_id"`
	Name            string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description     *string    `gorm:"column:description;type:text" json:"description"`
	Link            string     `gorm:"column:link;type:text;not null" json:"link"`
	ThumbnailURL    *string    `gorm:"column:thumbnail_url;type:text" json:"thumbnail_url"`
	DurationSeconds *float64   `gorm:"column:duration_seconds" json:"duration_seconds"`
	GroupID         string     `gorm:"column:group_id;type:varchar(36);index;not null" json:"group_id"`
	ExpiresAt       *time.Time `gorm:"column:expires_at" json:"expires_at"`
	IsActive        bool       `gorm:"column:is_active;not null" json:"is_active"`
	AddedBy         *string    `gorm:"column:added_by;type:varchar(32)" json:"added_by"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the database table name for Video model.
func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// ExpiredAt reports whether the video is expired at the given instant.
func (v Video) ExpiredAt(now time.Time) bool {
	return v.ExpiresAt != nil && !v.ExpiresAt.After(now)
}
