package repository

import (
	"context"

	"videoportalapi/config"
	"videoportalapi/models"

	"gorm.io/gorm"
)

// ClientRepository provides data access operations for named viewer clients.
type ClientRepository interface {
	Create(ctx context.Context, tx *gorm.DB, client *models.Client) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Client, error)
	GetByAccessCode(ctx context.Context, tx *gorm.DB, code string) (*models.Client, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]models.Client, error)
	SetActive(ctx context.Context, tx *gorm.DB, id string, active bool) error
	UnassignGroup(ctx context.Context, tx *gorm.DB, groupID string) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance.
func NewClientRepository() ClientRepository {
	return NewClientRepositoryWithDB(config.DB)
}

func NewClientRepositoryWithDB(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, tx *gorm.DB, client *models.Client) error {
	return conn(ctx, tx, r.db).Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Client, error) {
	var client models.Client
	if err := conn(ctx, tx, r.db).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByAccessCode returns the client whose access code equals code byte for byte,
// active or not.
func (r *clientRepository) GetByAccessCode(ctx context.Context, tx *gorm.DB, code string) (*models.Client, error) {
	var clients []models.Client
	if err := conn(ctx, tx, r.db).Where("access_code = ?", code).Find(&clients).Error; err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].AccessCode == code {
			return &clients[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *clientRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]models.Client, error) {
	var clients []models.Client
	if err := conn(ctx, tx, r.db).Order("client_name ASC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) SetActive(ctx context.Context, tx *gorm.DB, id string, active bool) error {
	res := conn(ctx, tx, r.db).Model(&models.Client{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UnassignGroup clears group_id on every client of the group.
func (r *clientRepository) UnassignGroup(ctx context.Context, tx *gorm.DB, groupID string) error {
	return conn(ctx, tx, r.db).Model(&models.Client{}).
		Where("group_id = ?", groupID).
		Update("group_id", gorm.Expr("NULL")).Error
}

func (r *clientRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	res := conn(ctx, tx, r.db).Where("id = ?", id).Delete(&models.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
