package catalog

import (
	"context"
	"strings"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"
)

// ClientService manages named viewers.
type ClientService interface {
	Create(ctx context.Context, req models.ClientCreateRequest) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	groupRepo  repository.GroupRepository
	codes      codeRegistry
}

// NewClientService creates a client service on the default database connection.
func NewClientService() ClientService {
	return NewClientServiceWithDeps(DefaultRepos())
}

func NewClientServiceWithDeps(repos Repos) ClientService {
	return &clientService{
		clientRepo: repos.Clients,
		groupRepo:  repos.Groups,
		codes:      repos.codeRegistry(),
	}
}

func (s *clientService) Create(ctx context.Context, req models.ClientCreateRequest) (*models.Client, error) {
	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return nil, apperr.Validation("client_name is required")
	}
	if req.AccessCode == "" {
		return nil, apperr.Validation("access_code is required")
	}

	groupID := req.GroupID
	if groupID != nil && *groupID == "" {
		groupID = nil
	}
	if groupID != nil {
		if err := ensureGroup(ctx, s.groupRepo, *groupID); err != nil {
			return nil, err
		}
	}
	if err := s.codes.ensureFree(ctx, nil, req.AccessCode); err != nil {
		return nil, err
	}

	client := &models.Client{
		ClientName: name,
		AccessCode: req.AccessCode,
		GroupID:    groupID,
		IsActive:   true,
	}
	if err := s.clientRepo.Create(ctx, nil, client); err != nil {
		return nil, storeErr(err, "", "Could not create client")
	}

	logger.Infof("Created client id=%s name=%s code=%s", client.ID, client.ClientName, logger.MaskCode(client.AccessCode))
	return client, nil
}

func (s *clientService) List(ctx context.Context) ([]models.Client, error) {
	clients, err := s.clientRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "", "Could not load clients")
	}
	return clients, nil
}

// SetActive toggles a client. A deactivated client can no longer sign in,
// but sessions it already opened stay valid until signed out.
func (s *clientService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.clientRepo.SetActive(ctx, nil, id, active); err != nil {
		return storeErr(err, "Client not found", "Could not update client")
	}
	logger.Infof("Client %s active=%v", id, active)
	return nil
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	if err := s.clientRepo.Delete(ctx, nil, id); err != nil {
		return storeErr(err, "Client not found", "Could not delete client")
	}
	logger.Infof("Deleted client %s", id)
	return nil
}
