package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"videoportalapi/models"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"

	"gorm.io/gorm"
)

// SeedMainAdmin makes sure code exists as an active main_admin access code.
// An existing row is left untouched, even if it was deactivated. An empty code skips seeding.
func SeedMainAdmin(ctx context.Context, repo repository.AccessCodeRepository, code string) error {
	if code == "" {
		logger.Infof("No main admin code configured, skipping seed")
		return nil
	}

	_, err := repo.GetByCode(ctx, nil, code)
	if err == nil {
		logger.Debugf("Main admin code %s already present", logger.MaskCode(code))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Errorf("Failed to look up main admin code: %v", err)
		return fmt.Errorf("failed to look up main admin code: %w", err)
	}

	row := &models.AccessCode{
		Code:     code,
		Role:     string(models.RoleMainAdmin),
		IsActive: true,
	}
	if err := repo.Create(ctx, nil, row); err != nil {
		logger.Errorf("Failed to seed main admin code: %v", err)
		return fmt.Errorf("failed to seed main admin code: %w", err)
	}
	logger.Infof("Seeded main admin code %s", logger.MaskCode(code))
	return nil
}
