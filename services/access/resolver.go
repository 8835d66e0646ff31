// Package access resolves a submitted access code to a role and a group scope.
package access

import (
	"context"
	"errors"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"

	"gorm.io/gorm"
)

// InvalidCodeMessage is the only message a failed resolution ever shows,
// whatever the reason.
const InvalidCodeMessage = "Invalid access code"

// Resolver maps a submitted code to an Identity.
type Resolver interface {
	Resolve(ctx context.Context, code string) (models.Identity, error)
}

type resolver struct {
	accessCodeRepo repository.AccessCodeRepository
	clientRepo     repository.ClientRepository
	groupRepo      repository.GroupRepository
}

// NewResolver creates a resolver on the default database connection.
func NewResolver() Resolver {
	return NewResolverWithDeps(
		repository.NewAccessCodeRepository(),
		repository.NewClientRepository(),
		repository.NewGroupRepository(),
	)
}

// NewResolverWithDeps creates a resolver with explicit repositories.
func NewResolverWithDeps(accessCodeRepo repository.AccessCodeRepository, clientRepo repository.ClientRepository, groupRepo repository.GroupRepository) Resolver {
	return &resolver{
		accessCodeRepo: accessCodeRepo,
		clientRepo:     clientRepo,
		groupRepo:      groupRepo,
	}
}

// Resolve checks the code against access_codes, then clients, then groups; first match wins.
// Unknown, inactive and unparseable codes all fail with apperr.ErrInvalidCredential.
// A store failure fails with apperr.ErrUnavailable carrying the same user message.
func (r *resolver) Resolve(ctx context.Context, code string) (models.Identity, error) {
	if code == "" {
		return models.Identity{}, apperr.Validation("code is required")
	}
	masked := logger.MaskCode(code)

	ac, err := r.accessCodeRepo.GetByCode(ctx, nil, code)
	switch {
	case err == nil:
		if ac.IsActive {
			role, perr := models.ParseRole(ac.Role)
			if perr == nil {
				logger.Infof("Access code %s resolved to role %s", masked, role)
				return elevatedOrClient(role, code), nil
			}
			logger.Warnf("Access code %s carries unknown role %q, treating as no match", masked, ac.Role)
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return models.Identity{}, unavailable(masked, err)
	}

	client, err := r.clientRepo.GetByAccessCode(ctx, nil, code)
	switch {
	case err == nil:
		if client.IsActive {
			logger.Infof("Access code %s resolved to client %s", masked, client.ID)
			return models.Identity{Role: models.RoleClient, Code: code, GroupID: client.GroupID}, nil
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return models.Identity{}, unavailable(masked, err)
	}

	group, err := r.groupRepo.GetByAccessCode(ctx, nil, code)
	switch {
	case err == nil:
		groupID := group.ID
		logger.Infof("Access code %s resolved to group %s", masked, groupID)
		return models.Identity{Role: models.RoleClient, Code: code, GroupID: &groupID}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return models.Identity{}, unavailable(masked, err)
	}

	logger.Infof("Access code %s did not resolve", masked)
	return models.Identity{}, apperr.InvalidCredential(InvalidCodeMessage)
}

// elevatedOrClient builds the identity for an access_codes match.
// Elevated roles get global scope. ParseRole admits only one other role,
// client, and a client-role row grants client access with no group.
func elevatedOrClient(role models.Role, code string) models.Identity {
	if role.IsElevated() {
		return models.Identity{Role: role, Code: code}
	}
	return models.Identity{Role: models.RoleClient, Code: code}
}

func unavailable(masked string, err error) error {
	logger.Errorf("Credential lookup for %s failed: %v", masked, err)
	return apperr.Unavailable(InvalidCodeMessage, err)
}
