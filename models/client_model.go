package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents the clients table: a named viewer with its own access code.
// GroupID is nullable; an unassigned client sees no videos.
type Client struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	ClientName string    `gorm:"column:client_name;type:varchar(255);not null" json:"client_name"`
	AccessCode string    `gorm:"column:access_code;type:varchar(191) COLLATE utf8mb4_bin;uniqueIndex;not null" json:"access_code"`
	GroupID    *string   `gorm:"column:group_id;type:varchar(36);index" json:"group_id"`
	IsActive   bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the database table name for Client model.
func (Client) TableName() string {
	return "clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
