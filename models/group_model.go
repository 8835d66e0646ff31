package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group represents the groups table.
// A group owns videos and carries the shared access code that unlocks them.
type Group struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	AccessCode  string    `gorm:"column:access_code;type:varchar(191) COLLATE utf8mb4_bin;uniqueIndex;not null" json:"access_code,omitempty"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the database table name for Group model.
func (Group) TableName() string {
	return "groups"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
