package services

import (
	"context"

	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/repositories"
	"fieldserve_backend/pkg/apperrors"
)

type EquipmentService interface {
	Create(ctx context.Context, equipment *models.Equipment) error
	Get(ctx context.Context, id string) (*models.Equipment, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Equipment, error)
	Update(ctx context.Context, equipment *models.Equipment) error
	Delete(ctx context.Context, id string) error
}

type equipmentService struct {
	repo       repositories.EquipmentRepository
	clientRepo repositories.ClientRepository
}

func NewEquipmentService(repo repositories.EquipmentRepository, clientRepo repositories.ClientRepository) EquipmentService {
	return &equipmentService{repo: repo, clientRepo: clientRepo}
}

func (s *equipmentService) Create(ctx context.Context, equipment *models.Equipment) error {
	// the owning client must exist
	if _, err := s.clientRepo.FindByID(ctx, equipment.ClientID); err != nil {
		return handleRepoError(err)
	}
	if err := s.repo.Create(ctx, equipment); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *equipmentService) Get(ctx context.Context, id string) (*models.Equipment, error) {
	equipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return equipment, nil
}

func (s *equipmentService) ListByClient(ctx context.Context, clientID string) ([]models.Equipment, error) {
	equipment, err := s.repo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return equipment, nil
}

func (s *equipmentService) Update(ctx context.Context, equipment *models.Equipment) error {
	if _, err := s.repo.FindByID(ctx, equipment.ID); err != nil {
		return handleRepoError(err)
	}
	if err := s.repo.Update(ctx, equipment); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *equipmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
