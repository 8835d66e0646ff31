package catalog

import (
	"context"
	"strings"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"

	"gorm.io/gorm"
)

// GroupService manages video groups.
type GroupService interface {
	Create(ctx context.Context, req models.GroupCreateRequest) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	// Delete removes a group. A group that still has videos is refused unless force is set,
	// in which case its videos and their feedback go with it. Clients of the group are unassigned.
	Delete(ctx context.Context, id string, force bool) error
}

type groupService struct {
	baseRepo     repository.BaseRepository
	groupRepo    repository.GroupRepository
	videoRepo    repository.VideoRepository
	clientRepo   repository.ClientRepository
	feedbackRepo repository.FeedbackRepository
	codes        codeRegistry
	broker       *Broker
}

// NewGroupService creates a group service on the default database connection.
func NewGroupService(broker *Broker) GroupService {
	return NewGroupServiceWithDeps(DefaultRepos(), broker)
}

// NewGroupServiceWithDeps creates a group service with explicit repositories.
func NewGroupServiceWithDeps(repos Repos, broker *Broker) GroupService {
	return &groupService{
		baseRepo:     repos.Base,
		groupRepo:    repos.Groups,
		videoRepo:    repos.Videos,
		clientRepo:   repos.Clients,
		feedbackRepo: repos.Feedback,
		codes:        repos.codeRegistry(),
		broker:       broker,
	}
}

func (s *groupService) Create(ctx context.Context, req models.GroupCreateRequest) (*models.Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.AccessCode == "" {
		return nil, apperr.Validation("access_code is required")
	}
	if err := s.codes.ensureFree(ctx, nil, req.AccessCode); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        name,
		AccessCode:  req.AccessCode,
		Description: req.Description,
	}
	if err := s.groupRepo.Create(ctx, nil, group); err != nil {
		return nil, storeErr(err, "", "Could not create group")
	}

	logger.Infof("Created group id=%s name=%s code=%s", group.ID, group.Name, logger.MaskCode(group.AccessCode))
	s.broker.Publish(Event{Kind: EventGroupCreated, ID: group.ID})
	return group, nil
}

func (s *groupService) List(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groupRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "", "Could not load groups")
	}
	return groups, nil
}

func (s *groupService) Delete(ctx context.Context, id string, force bool) error {
	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.groupRepo.GetByID(ctx, tx, id); err != nil {
			return storeErr(err, "Group not found", "Could not delete group")
		}

		videoIDs, err := s.videoRepo.GetIDsByGroup(ctx, tx, id)
		if err != nil {
			return storeErr(err, "", "Could not delete group")
		}
		if len(videoIDs) > 0 && !force {
			return apperr.Conflict("Group still has videos")
		}
		if len(videoIDs) > 0 {
			if err := s.feedbackRepo.DeleteByVideoIDs(ctx, tx, videoIDs); err != nil {
				return storeErr(err, "", "Could not delete group")
			}
			if _, err := s.videoRepo.DeleteByIDs(ctx, tx, videoIDs); err != nil {
				return storeErr(err, "", "Could not delete group")
			}
		}
		if err := s.clientRepo.UnassignGroup(ctx, tx, id); err != nil {
			return storeErr(err, "", "Could not delete group")
		}
		if err := s.groupRepo.Delete(ctx, tx, id); err != nil {
			return storeErr(err, "Group not found", "Could not delete group")
		}
		logger.Infof("Deleted group id=%s with %d videos", id, len(videoIDs))
		return nil
	})
	if err != nil {
		return storeErr(err, "Group not found", "Could not delete group")
	}

	s.broker.Publish(Event{Kind: EventGroupDeleted, ID: id})
	return nil
}
