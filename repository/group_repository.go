package repository

import (
	"context"

	"videoportalapi/config"
	"videoportalapi/models"

	"gorm.io/gorm"
)

// GroupRepository provides data access operations for video groups.
type GroupRepository interface {
	Create(ctx context.Context, tx *gorm.DB, group *models.Group) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Group, error)
	GetByAccessCode(ctx context.Context, tx *gorm.DB, code string) (*models.Group, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]models.Group, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository instance.
func NewGroupRepository() GroupRepository {
	return NewGroupRepositoryWithDB(config.DB)
}

func NewGroupRepositoryWithDB(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, tx *gorm.DB, group *models.Group) error {
	return conn(ctx, tx, r.db).Create(group).Error
}

func (r *groupRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Group, error) {
	var group models.Group
	if err := conn(ctx, tx, r.db).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetByAccessCode returns the group whose access code equals code byte for byte.
func (r *groupRepository) GetByAccessCode(ctx context.Context, tx *gorm.DB, code string) (*models.Group, error) {
	var groups []models.Group
	if err := conn(ctx, tx, r.db).Where("access_code = ?", code).Find(&groups).Error; err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].AccessCode == code {
			return &groups[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *groupRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]models.Group, error) {
	var groups []models.Group
	if err := conn(ctx, tx, r.db).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	res := conn(ctx, tx, r.db).Where("id = ?", id).Delete(&models.Group{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
