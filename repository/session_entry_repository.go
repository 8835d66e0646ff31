package repository

import (
	"context"

	"videoportalapi/config"
	"videoportalapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionEntryRepository stores the key/value pairs of server-side login sessions.
type SessionEntryRepository interface {
	Put(ctx context.Context, tx *gorm.DB, token, key, value string) error
	Get(ctx context.Context, tx *gorm.DB, token, key string) (string, error)
	Delete(ctx context.Context, tx *gorm.DB, token, key string) error
}

type sessionEntryRepository struct {
	db *gorm.DB
}

// NewSessionEntryRepository creates a new session entry repository instance.
func NewSessionEntryRepository() SessionEntryRepository {
	return NewSessionEntryRepositoryWithDB(config.DB)
}

func NewSessionEntryRepositoryWithDB(db *gorm.DB) SessionEntryRepository {
	return &sessionEntryRepository{db: db}
}

// Put inserts or overwrites one entry.
func (r *sessionEntryRepository) Put(ctx context.Context, tx *gorm.DB, token, key, value string) error {
	entry := models.SessionEntry{Token: token, Key: key, Value: value}
	return conn(ctx, tx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
}

// Get returns gorm.ErrRecordNotFound when the entry does not exist.
func (r *sessionEntryRepository) Get(ctx context.Context, tx *gorm.DB, token, key string) (string, error) {
	var entry models.SessionEntry
	err := conn(ctx, tx, r.db).Where("token = ? AND entry_key = ?", token, key).First(&entry).Error
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// Delete removes one entry. Deleting a missing entry is not an error.
func (r *sessionEntryRepository) Delete(ctx context.Context, tx *gorm.DB, token, key string) error {
	return conn(ctx, tx, r.db).Where("token = ? AND entry_key = ?", token, key).Delete(&models.SessionEntry{}).Error
}
