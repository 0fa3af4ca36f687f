package services

import (
	"context"

	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/repositories"
	"fieldserve_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ClientService interface {
	Create(ctx context.Context, client *models.Client) error
	Get(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, page, pageSize int) ([]models.Client, int64, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

type clientService struct {
	repo repositories.ClientRepository
}

func NewClientService(repo repositories.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) Create(ctx context.Context, client *models.Client) error {
	if err := s.repo.Create(ctx, client); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *clientService) Get(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, page, pageSize int) ([]models.Client, int64, error) {
	offset := (page - 1) * pageSize
	clients, total, err := s.repo.FindAll(ctx, offset, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return clients, total, nil
}

func (s *clientService) Update(ctx context.Context, client *models.Client) error {
	if _, err := s.repo.FindByID(ctx, client.ID); err != nil {
		return handleRepoError(err)
	}
	if err := s.repo.Update(ctx, client); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func handleRepoError(err error) error {
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
