package repository

import (
	"context"

	"videoportalapi/config"
	"videoportalapi/models"

	"gorm.io/gorm"
)

// AccessCodeRepository provides data access operations for role-granting access codes.
type AccessCodeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, code *models.AccessCode) error
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.AccessCode, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]models.AccessCode, error)
	SetActive(ctx context.Context, tx *gorm.DB, id string, active bool) error
}

type accessCodeRepository struct {
	db *gorm.DB
}

// NewAccessCodeRepository creates a new access code repository instance.
func NewAccessCodeRepository() AccessCodeRepository {
	return NewAccessCodeRepositoryWithDB(config.DB)
}

func NewAccessCodeRepositoryWithDB(db *gorm.DB) AccessCodeRepository {
	return &accessCodeRepository{db: db}
}

func (r *accessCodeRepository) Create(ctx context.Context, tx *gorm.DB, code *models.AccessCode) error {
	return conn(ctx, tx, r.db).Create(code).Error
}

// GetByCode returns the row whose code equals code byte for byte, active or not.
func (r *accessCodeRepository) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.AccessCode, error) {
	var rows []models.AccessCode
	if err := conn(ctx, tx, r.db).Where("code = ?", code).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Code == code {
			return &rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *accessCodeRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]models.AccessCode, error) {
	var rows []models.AccessCode
	if err := conn(ctx, tx, r.db).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *accessCodeRepository) SetActive(ctx context.Context, tx *gorm.DB, id string, active bool) error {
	res := conn(ctx, tx, r.db).Model(&models.AccessCode{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
