package catalog

import (
	"context"
	"errors"

	"videoportalapi/pkg/apperr"
	"videoportalapi/repository"

	"gorm.io/gorm"
)

// codeRegistry checks an access code against all three credential tables.
// A code may exist in at most one of them, otherwise resolution precedence
// would silently shadow one of the holders.
type codeRegistry struct {
	accessCodeRepo repository.AccessCodeRepository
	clientRepo     repository.ClientRepository
	groupRepo      repository.GroupRepository
}

func (c codeRegistry) ensureFree(ctx context.Context, tx *gorm.DB, code string) error {
	if _, err := c.accessCodeRepo.GetByCode(ctx, tx, code); !errors.Is(err, gorm.ErrRecordNotFound) {
		return inUse(err)
	}
	if _, err := c.clientRepo.GetByAccessCode(ctx, tx, code); !errors.Is(err, gorm.ErrRecordNotFound) {
		return inUse(err)
	}
	if _, err := c.groupRepo.GetByAccessCode(ctx, tx, code); !errors.Is(err, gorm.ErrRecordNotFound) {
		return inUse(err)
	}
	return nil
}

func inUse(lookupErr error) error {
	if lookupErr != nil {
		return storeErr(lookupErr, "", "Could not check access code")
	}
	return apperr.Conflict("Access code already in use")
}
