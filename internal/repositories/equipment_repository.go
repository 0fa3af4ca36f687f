package repositories

import (
	"context"

	"fieldserve_backend/internal/models"

	"gorm.io/gorm"
)

type EquipmentRepository interface {
	Create(ctx context.Context, equipment *models.Equipment) error
	FindByID(ctx context.Context, id string) (*models.Equipment, error)
	FindByClient(ctx context.Context, clientID string) ([]models.Equipment, error)
	Update(ctx context.Context, equipment *models.Equipment) error
	Delete(ctx context.Context, id string) error
}

type equipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	return r.db.WithContext(ctx).Create(equipment).Error
}

func (r *equipmentRepository) FindByID(ctx context.Context, id string) (*models.Equipment, error) {
	var equipment models.Equipment
	err := r.db.WithContext(ctx).Preload("Client").First(&equipment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *equipmentRepository) FindByClient(ctx context.Context, clientID string) ([]models.Equipment, error) {
	var equipment []models.Equipment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("name ASC").
		Find(&equipment).Error
	if err != nil {
		return nil, err
	}
	return equipment, nil
}

func (r *equipmentRepository) Update(ctx context.Context, equipment *models.Equipment) error {
	return r.db.WithContext(ctx).Save(equipment).Error
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Equipment{}, "id = ?", id).Error
}
