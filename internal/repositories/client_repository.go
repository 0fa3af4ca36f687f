package repositories

import (
	"context"

	"fieldserve_backend/internal/models"

	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id string) (*models.Client, error)
	FindAll(ctx context.Context, offset, limit int) ([]models.Client, int64, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) FindAll(ctx context.Context, offset, limit int) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Client{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&clients).Error
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id).Error
}
