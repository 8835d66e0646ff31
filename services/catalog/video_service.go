package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"
	"videoportalapi/services/streamable"
	"videoportalapi/services/visibility"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Uploader imports a remote video into the hosting service.
type Uploader interface {
	Import(ctx context.Context, sourceURL, title string) (*streamable.ImportResult, error)
}

// VideoItem is a visible video as listed to a viewer.
type VideoItem struct {
	models.Video
	GroupName string `json:"group_name"`
	// DaysLeft is the number of started days until expiry; nil when the video never expires.
	DaysLeft *int `json:"days_left,omitempty"`
}

// VideoService manages the catalog and lists it per identity.
type VideoService interface {
	Create(ctx context.Context, by models.Identity, req models.VideoCreateRequest) (*models.Video, error)
	// Import uploads through the hosting service and inserts the row only when the upload succeeded.
	Import(ctx context.Context, by models.Identity, req models.VideoImportRequest) (*models.Video, error)
	ListVisible(ctx context.Context, id models.Identity, q visibility.Query) ([]VideoItem, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type videoService struct {
	baseRepo     repository.BaseRepository
	videoRepo    repository.VideoRepository
	groupRepo    repository.GroupRepository
	feedbackRepo repository.FeedbackRepository
	uploader     Uploader
	broker       *Broker
	policy       visibility.Policy
	now          func() time.Time
}

// NewVideoService creates a video service on the default database connection.
func NewVideoService(uploader Uploader, broker *Broker, policy visibility.Policy) VideoService {
	return NewVideoServiceWithDeps(DefaultRepos(), uploader, broker, policy, time.Now)
}

// NewVideoServiceWithDeps creates a video service with explicit repositories and clock.
func NewVideoServiceWithDeps(repos Repos, uploader Uploader, broker *Broker, policy visibility.Policy, now func() time.Time) VideoService {
	return &videoService{
		baseRepo:     repos.Base,
		videoRepo:    repos.Videos,
		groupRepo:    repos.Groups,
		feedbackRepo: repos.Feedback,
		uploader:     uploader,
		broker:       broker,
		policy:       policy,
		now:          now,
	}
}

func (s *videoService) Create(ctx context.Context, by models.Identity, req models.VideoCreateRequest) (*models.Video, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if strings.TrimSpace(req.Link) == "" {
		return nil, apperr.Validation("link is required")
	}
	now := s.now()
	expiresAt, err := expiry(req.ExpiresInDays, now)
	if err != nil {
		return nil, err
	}
	if err := ensureGroup(ctx, s.groupRepo, req.GroupID); err != nil {
		return nil, err
	}

	videoID := req.VideoID
	if videoID == "" {
		videoID = defaultVideoID(now)
	}
	video := &models.Video{
		VideoID:     videoID,
		Name:        name,
		Description: req.Description,
		Link:        req.Link,
		GroupID:     req.GroupID,
		ExpiresAt:   expiresAt,
		IsActive:    true,
		AddedBy:     addedBy(by),
	}
	if err := s.videoRepo.Create(ctx, nil, video); err != nil {
		return nil, storeErr(err, "", "Could not save video")
	}

	logger.Infof("Created video id=%s video_id=%s group=%s", video.ID, video.VideoID, video.GroupID)
	s.broker.Publish(Event{Kind: EventVideoCreated, ID: video.ID})
	return video, nil
}

func (s *videoService) Import(ctx context.Context, by models.Identity, req models.VideoImportRequest) (*models.Video, error) {
	if strings.TrimSpace(req.SourceURL) == "" {
		return nil, apperr.Validation("source_url is required")
	}
	expiresAt, err := expiry(req.ExpiresInDays, s.now())
	if err != nil {
		return nil, err
	}
	if err := ensureGroup(ctx, s.groupRepo, req.GroupID); err != nil {
		return nil, err
	}

	res, err := s.uploader.Import(ctx, req.SourceURL, req.Name)
	if err != nil {
		logger.Warnf("Video import of %s failed, nothing saved: %v", req.SourceURL, err)
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = res.Title
	}
	if name == "" {
		name = streamable.DefaultTitle
	}
	video := &models.Video{
		VideoID:         res.Shortcode,
		Name:            name,
		Description:     req.Description,
		Link:            res.URL,
		ThumbnailURL:    optional(res.ThumbnailURL),
		DurationSeconds: res.Duration,
		GroupID:         req.GroupID,
		ExpiresAt:       expiresAt,
		IsActive:        true,
		AddedBy:         addedBy(by),
	}
	if err := s.videoRepo.Create(ctx, nil, video); err != nil {
		logger.Errorf("Video %s was uploaded but could not be saved: %v", res.Shortcode, err)
		return nil, storeErr(err, "", "Could not save video")
	}

	logger.Infof("Imported video id=%s shortcode=%s group=%s", video.ID, video.VideoID, video.GroupID)
	s.broker.Publish(Event{Kind: EventVideoCreated, ID: video.ID})
	return video, nil
}

// ListVisible reads videos and groups together, then applies the visibility rule.
func (s *videoService) ListVisible(ctx context.Context, id models.Identity, q visibility.Query) ([]VideoItem, error) {
	var (
		videos []models.Video
		groups []models.Group
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		videos, err = s.videoRepo.GetAll(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.groupRepo.GetAll(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr(err, "", "Could not load videos")
	}

	groupNames := make(map[string]string, len(groups))
	for _, grp := range groups {
		groupNames[grp.ID] = grp.Name
	}

	now := s.now()
	visible := s.policy.ListVisible(videos, id, q, now)
	items := make([]VideoItem, 0, len(visible))
	for _, v := range visible {
		items = append(items, VideoItem{
			Video:     v,
			GroupName: groupNames[v.GroupID],
			DaysLeft:  daysLeft(v.ExpiresAt, now),
		})
	}
	return items, nil
}

func (s *videoService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.videoRepo.SetActive(ctx, nil, id, active); err != nil {
		return storeErr(err, "Video not found", "Could not update video")
	}
	logger.Infof("Video %s active=%v", id, active)
	s.broker.Publish(Event{Kind: EventVideoUpdated, ID: id})
	return nil
}

// Delete removes the video and its feedback.
func (s *videoService) Delete(ctx context.Context, id string) error {
	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.feedbackRepo.DeleteByVideoIDs(ctx, tx, []string{id}); err != nil {
			return err
		}
		return s.videoRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return storeErr(err, "Video not found", "Could not delete video")
	}
	logger.Infof("Deleted video %s", id)
	s.broker.Publish(Event{Kind: EventVideoDeleted, ID: id})
	return nil
}

// defaultVideoID is VID_<unix millis>_<random hex>. The suffix keeps
// creates within the same millisecond apart.
func defaultVideoID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("VID_%d_%s", now.UnixMilli(), suffix)
}

func expiry(days *int, now time.Time) (*time.Time, error) {
	if days == nil || *days == 0 {
		return nil, nil
	}
	if *days < 0 {
		return nil, apperr.Validation("expires_in_days must not be negative")
	}
	t := now.Add(time.Duration(*days) * 24 * time.Hour)
	return &t, nil
}

func daysLeft(expiresAt *time.Time, now time.Time) *int {
	if expiresAt == nil {
		return nil
	}
	d := int(math.Ceil(expiresAt.Sub(now).Hours() / 24))
	if d < 0 {
		d = 0
	}
	return &d
}

func addedBy(by models.Identity) *string {
	if by.Role == "" {
		return nil
	}
	r := string(by.Role)
	return &r
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
