package services

import (
	"context"
	"time"

	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/repositories"
	"fieldserve_backend/pkg/apperrors"
)

type ServiceOrderService interface {
	Create(ctx context.Context, order *models.ServiceOrder) error
	Get(ctx context.Context, id string) (*models.ServiceOrder, error)
	List(ctx context.Context, filters repositories.OrderFilters, page, pageSize int) ([]models.ServiceOrder, int64, error)
	Update(ctx context.Context, order *models.ServiceOrder) error
	Transition(ctx context.Context, id string, status models.OrderStatus) (*models.ServiceOrder, error)
	Delete(ctx context.Context, id string) error
}

type serviceOrderService struct {
	repo       repositories.ServiceOrderRepository
	clientRepo repositories.ClientRepository
}

func NewServiceOrderService(repo repositories.ServiceOrderRepository, clientRepo repositories.ClientRepository) ServiceOrderService {
	return &serviceOrderService{repo: repo, clientRepo: clientRepo}
}

func (s *serviceOrderService) Create(ctx context.Context, order *models.ServiceOrder) error {
	if _, err := s.clientRepo.FindByID(ctx, order.ClientID); err != nil {
		return handleRepoError(err)
	}
	if order.Status == "" {
		order.Status = models.OrderStatusOpen
	}
	if !order.Status.Valid() {
		return apperrors.ErrInvalidOrderStatus
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *serviceOrderService) Get(ctx context.Context, id string) (*models.ServiceOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return order, nil
}

func (s *serviceOrderService) List(ctx context.Context, filters repositories.OrderFilters, page, pageSize int) ([]models.ServiceOrder, int64, error) {
	offset := (page - 1) * pageSize
	orders, total, err := s.repo.FindAll(ctx, filters, offset, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return orders, total, nil
}

func (s *serviceOrderService) Update(ctx context.Context, order *models.ServiceOrder) error {
	if _, err := s.repo.FindByID(ctx, order.ID); err != nil {
		return handleRepoError(err)
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Transition moves an order through its status lifecycle. Completed and
// cancelled orders are terminal.
func (s *serviceOrderService) Transition(ctx context.Context, id string, status models.OrderStatus) (*models.ServiceOrder, error) {
	if !status.Valid() {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if order.Status == models.OrderStatusCompleted || order.Status == models.OrderStatusCancelled {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	order.Status = status
	if status == models.OrderStatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return order, nil
}

func (s *serviceOrderService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
