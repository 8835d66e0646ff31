package bootstrap

import (
	"fmt"

	"videoportalapi/models"
	"videoportalapi/pkg/logger"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	logger.Infof("Starting schema migration...")

	if err := db.AutoMigrate(
		&models.Group{},
		&models.Client{},
		&models.AccessCode{},
		&models.Video{},
		&models.Feedback{},
		&models.SessionEntry{},
	); err != nil {
		logger.Errorf("Schema migration failed: %v", err)
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Infof("Schema migration completed successfully")
	return nil
}
