package services

import (
	"context"
	"errors"

	"fieldserve_backend/internal/auth"
	"fieldserve_backend/internal/logger"
	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/repositories"
	"fieldserve_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string, role models.UserRole) (*models.User, error)
}

type authService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.Active {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		logger.CtxError(ctx, "token generation failed", "error", err)
		return nil, apperrors.InternalError(err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

func (s *authService) Register(ctx context.Context, name, email, password string, role models.UserRole) (*models.User, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	if !role.Valid() {
		return nil, apperrors.ValidationError("unknown role")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}
