package repositories

import (
	"context"

	"fieldserve_backend/internal/models"

	"gorm.io/gorm"
)

// OrderFilters narrows FindAll results. Zero values mean "no filter".
type OrderFilters struct {
	ClientID    string
	EquipmentID string
	AssignedTo  string
	Status      models.OrderStatus
}

type ServiceOrderRepository interface {
	Create(ctx context.Context, order *models.ServiceOrder) error
	FindByID(ctx context.Context, id string) (*models.ServiceOrder, error)
	FindAll(ctx context.Context, filters OrderFilters, offset, limit int) ([]models.ServiceOrder, int64, error)
	Update(ctx context.Context, order *models.ServiceOrder) error
	Delete(ctx context.Context, id string) error
}

type serviceOrderRepository struct {
	db *gorm.DB
}

func NewServiceOrderRepository(db *gorm.DB) ServiceOrderRepository {
	return &serviceOrderRepository{db: db}
}

func (r *serviceOrderRepository) Create(ctx context.Context, order *models.ServiceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *serviceOrderRepository) FindByID(ctx context.Context, id string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Equipment").
		Preload("AssignedTo").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *serviceOrderRepository) FindAll(ctx context.Context, filters OrderFilters, offset, limit int) ([]models.ServiceOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ServiceOrder{})

	if filters.ClientID != "" {
		query = query.Where("client_id = ?", filters.ClientID)
	}
	if filters.EquipmentID != "" {
		query = query.Where("equipment_id = ?", filters.EquipmentID)
	}
	if filters.AssignedTo != "" {
		query = query.Where("assigned_to_id = ?", filters.AssignedTo)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.ServiceOrder
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *serviceOrderRepository) Update(ctx context.Context, order *models.ServiceOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *serviceOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ServiceOrder{}, "id = ?", id).Error
}
