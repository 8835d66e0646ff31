package repository

import (
	"context"

	"videoportalapi/config"
	"videoportalapi/models"

	"gorm.io/gorm"
)

// FeedbackRepository provides data access operations for timestamped video feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, tx *gorm.DB, fb *models.Feedback) error
	// GetByVideo lists a video's feedback by position. A non-empty clientCode limits it to that client.
	GetByVideo(ctx context.Context, tx *gorm.DB, videoID, clientCode string) ([]models.Feedback, error)
	DeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []string) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository instance.
func NewFeedbackRepository() FeedbackRepository {
	return NewFeedbackRepositoryWithDB(config.DB)
}

func NewFeedbackRepositoryWithDB(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, tx *gorm.DB, fb *models.Feedback) error {
	return conn(ctx, tx, r.db).Create(fb).Error
}

func (r *feedbackRepository) GetByVideo(ctx context.Context, tx *gorm.DB, videoID, clientCode string) ([]models.Feedback, error) {
	q := conn(ctx, tx, r.db).Where("video_id = ?", videoID)
	if clientCode != "" {
		q = q.Where("client_code = ?", clientCode)
	}
	var rows []models.Feedback
	if err := q.Order("timestamp_seconds ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if clientCode == "" {
		return rows, nil
	}
	// client_code collation may be case-insensitive; keep exact matches only
	own := rows[:0]
	for _, fb := range rows {
		if fb.ClientCode == clientCode {
			own = append(own, fb)
		}
	}
	return own, nil
}

func (r *feedbackRepository) DeleteByVideoIDs(ctx context.Context, tx *gorm.DB, videoIDs []string) error {
	if len(videoIDs) == 0 {
		return nil
	}
	return conn(ctx, tx, r.db).Where("video_id IN ?", videoIDs).Delete(&models.Feedback{}).Error
}
