package repository

import (
	"context"
	"time"

	"videoportalapi/config"
	"videoportalapi/models"

	"gorm.io/gorm"
)

// VideoRepository provides data access operations for the video catalog.
type VideoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, video *models.Video) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Video, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]models.Video, error)
	GetIDsByGroup(ctx context.Context, tx *gorm.DB, groupID string) ([]string, error)
	GetIDsExpired(ctx context.Context, tx *gorm.DB, now time.Time) ([]string, error)
	CountByGroup(ctx context.Context, tx *gorm.DB, groupID string) (int64, error)
	SetActive(ctx context.Context, tx *gorm.DB, id string, active bool) error
	DeactivateExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) (int64, error)
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository instance.
func NewVideoRepository() VideoRepository {
	return NewVideoRepositoryWithDB(config.DB)
}

func NewVideoRepositoryWithDB(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, tx *gorm.DB, video *models.Video) error {
	return conn(ctx, tx, r.db).Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Video, error) {
	var video models.Video
	if err := conn(ctx, tx, r.db).Where("id = ?", id).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// GetAll returns the whole catalog oldest first. Visibility rules are applied by the caller.
func (r *videoRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]models.Video, error) {
	var videos []models.Video
	if err := conn(ctx, tx, r.db).Order("created_at ASC").Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *videoRepository) GetIDsByGroup(ctx context.Context, tx *gorm.DB, groupID string) ([]string, error) {
	var ids []string
	if err := conn(ctx, tx, r.db).Model(&models.Video{}).Where("group_id = ?", groupID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *videoRepository) GetIDsExpired(ctx context.Context, tx *gorm.DB, now time.Time) ([]string, error) {
	var ids []string
	err := conn(ctx, tx, r.db).Model(&models.Video{}).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *videoRepository) CountByGroup(ctx context.Context, tx *gorm.DB, groupID string) (int64, error) {
	var count int64
	err := conn(ctx, tx, r.db).Model(&models.Video{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

func (r *videoRepository) SetActive(ctx context.Context, tx *gorm.DB, id string, active bool) error {
	res := conn(ctx, tx, r.db).Model(&models.Video{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeactivateExpired clears is_active on active videos whose expires_at is at or before now.
func (r *videoRepository) DeactivateExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	res := conn(ctx, tx, r.db).Model(&models.Video{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (r *videoRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	res := conn(ctx, tx, r.db).Where("id = ?", id).Delete(&models.Video{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *videoRepository) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := conn(ctx, tx, r.db).Where("id IN ?", ids).Delete(&models.Video{})
	return res.RowsAffected, res.Error
}
