package catalog

import (
	"context"
	"strings"
	"time"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"
	"videoportalapi/services/visibility"
)

// FeedbackService records and lists timestamped comments on videos.
type FeedbackService interface {
	// Add appends a comment. Only clients may comment, and only on videos they can see.
	Add(ctx context.Context, by models.Identity, videoID string, req models.FeedbackCreateRequest) (*models.Feedback, error)
	// List returns every comment to elevated roles and a client's own comments to that client.
	List(ctx context.Context, by models.Identity, videoID string) ([]models.Feedback, error)
}

type feedbackService struct {
	videoRepo    repository.VideoRepository
	feedbackRepo repository.FeedbackRepository
	policy       visibility.Policy
	now          func() time.Time
}

// NewFeedbackService creates a feedback service on the default database connection.
func NewFeedbackService(policy visibility.Policy) FeedbackService {
	return NewFeedbackServiceWithDeps(DefaultRepos(), policy, time.Now)
}

func NewFeedbackServiceWithDeps(repos Repos, policy visibility.Policy, now func() time.Time) FeedbackService {
	return &feedbackService{
		videoRepo:    repos.Videos,
		feedbackRepo: repos.Feedback,
		policy:       policy,
		now:          now,
	}
}

func (s *feedbackService) Add(ctx context.Context, by models.Identity, videoID string, req models.FeedbackCreateRequest) (*models.Feedback, error) {
	if !by.Role.CanLeaveFeedback() {
		return nil, apperr.Forbidden("Only clients can leave feedback")
	}
	if req.TimestampSeconds == nil || *req.TimestampSeconds < 0 {
		return nil, apperr.Validation("timestamp_seconds must be zero or more")
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, apperr.Validation("comment is required")
	}
	if err := s.ensureVisible(ctx, by, videoID); err != nil {
		return nil, err
	}

	fb := &models.Feedback{
		VideoID:          videoID,
		ClientCode:       by.Code,
		TimestampSeconds: *req.TimestampSeconds,
		Comment:          comment,
	}
	if err := s.feedbackRepo.Create(ctx, nil, fb); err != nil {
		return nil, storeErr(err, "", "Could not save feedback")
	}

	logger.Infof("Feedback %s added on video %s at %.1fs by %s", fb.ID, videoID, fb.TimestampSeconds, logger.MaskCode(by.Code))
	return fb, nil
}

func (s *feedbackService) List(ctx context.Context, by models.Identity, videoID string) ([]models.Feedback, error) {
	var clientCode string
	switch {
	case by.Role.CanReadAllFeedback():
		if _, err := s.videoRepo.GetByID(ctx, nil, videoID); err != nil {
			return nil, storeErr(err, "Video not found", "Could not load feedback")
		}
	case by.Role.CanLeaveFeedback():
		if err := s.ensureVisible(ctx, by, videoID); err != nil {
			return nil, err
		}
		clientCode = by.Code
	default:
		return nil, apperr.Forbidden("Not allowed to read feedback")
	}

	rows, err := s.feedbackRepo.GetByVideo(ctx, nil, videoID, clientCode)
	if err != nil {
		return nil, storeErr(err, "", "Could not load feedback")
	}
	return rows, nil
}

// ensureVisible reports a video the identity cannot see as not found.
func (s *feedbackService) ensureVisible(ctx context.Context, by models.Identity, videoID string) error {
	video, err := s.videoRepo.GetByID(ctx, nil, videoID)
	if err != nil {
		return storeErr(err, "Video not found", "Could not load video")
	}
	if len(s.policy.ListVisible([]models.Video{*video}, by, visibility.Query{}, s.now())) == 0 {
		return apperr.NotFound("Video not found")
	}
	return nil
}
