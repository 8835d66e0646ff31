package models

import "time"

// SessionEntry represents the session_entries table: one key/value pair of a login session.
type SessionEntry struct {
	Token     string    `gorm:"primaryKey;column:token;type:varchar(36)" json:"token"`
	Key       string    `gorm:"primaryKey;column:entry_key;type:varchar(64)" json:"key"`
	Value     string    `gorm:"column:entry_value;type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the database table name for SessionEntry model.
func (SessionEntry) TableName() string {
	return "session_entries"
}
