package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessCode represents the access_codes table.
// Role is stored as a plain string so an unknown value can be detected and rejected on read.
type AccessCode struct {
	ID              string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Code            string    `gorm:"column:code;type:varchar(191) COLLATE utf8mb4_bin;uniqueIndex;not null" json:"code"`
	Role            string    `gorm:"column:role;type:varchar(32);not null" json:"role"`
	IsActive        bool      `gorm:"column:is_active;not null" json:"is_active"`
	AssignedToEmail *string   `gorm:"column:assigned_to_email;type:varchar(255)" json:"assigned_to_email"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the database table name for AccessCode model.
func (AccessCode) TableName() string {
	return "access_codes"
}

func (a *AccessCode) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
