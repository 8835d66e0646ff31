package catalog

import (
	"context"
	"errors"

	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"

	"gorm.io/gorm"
)

// storeErr converts a repository error into the API error taxonomy.
// Errors already in the taxonomy pass through unchanged.
func storeErr(err error, notFoundMsg, unavailableMsg string) error {
	var appErr *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("Access code or video id already in use")
	default:
		logger.Errorf("%s: %v", unavailableMsg, err)
		return apperr.Unavailable(unavailableMsg, err)
	}
}

// ensureGroup fails with a validation error when groupID names no group.
func ensureGroup(ctx context.Context, groupRepo repository.GroupRepository, groupID string) error {
	_, err := groupRepo.GetByID(ctx, nil, groupID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Validation("group_id does not exist")
	default:
		return storeErr(err, "", "Could not load group")
	}
}
