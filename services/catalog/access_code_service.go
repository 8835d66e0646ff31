package catalog

import (
	"context"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"
)

// AccessCodeService manages elevated access codes.
type AccessCodeService interface {
	Create(ctx context.Context, req models.AccessCodeCreateRequest) (*models.AccessCode, error)
	List(ctx context.Context) ([]models.AccessCode, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type accessCodeService struct {
	accessCodeRepo repository.AccessCodeRepository
	codes          codeRegistry
}

// NewAccessCodeService creates an access code service on the default database connection.
func NewAccessCodeService() AccessCodeService {
	return NewAccessCodeServiceWithDeps(DefaultRepos())
}

func NewAccessCodeServiceWithDeps(repos Repos) AccessCodeService {
	return &accessCodeService{
		accessCodeRepo: repos.AccessCode,
		codes:          repos.codeRegistry(),
	}
}

func (s *accessCodeService) Create(ctx context.Context, req models.AccessCodeCreateRequest) (*models.AccessCode, error) {
	if req.Code == "" {
		return nil, apperr.Validation("code is required")
	}
	if !req.Role.IsElevated() {
		return nil, apperr.Validation("role must be one of main_admin, admin, moderator")
	}
	if err := s.codes.ensureFree(ctx, nil, req.Code); err != nil {
		return nil, err
	}

	row := &models.AccessCode{
		Code:            req.Code,
		Role:            string(req.Role),
		IsActive:        true,
		AssignedToEmail: req.AssignedToEmail,
	}
	if err := s.accessCodeRepo.Create(ctx, nil, row); err != nil {
		return nil, storeErr(err, "", "Could not create access code")
	}

	logger.Infof("Created %s access code %s", row.Role, logger.MaskCode(row.Code))
	return row, nil
}

func (s *accessCodeService) List(ctx context.Context) ([]models.AccessCode, error) {
	rows, err := s.accessCodeRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "", "Could not load access codes")
	}
	return rows, nil
}

func (s *accessCodeService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.accessCodeRepo.SetActive(ctx, nil, id, active); err != nil {
		return storeErr(err, "Access code not found", "Could not update access code")
	}
	logger.Infof("Access code %s active=%v", id, active)
	return nil
}
