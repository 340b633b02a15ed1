package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
)

const (
	minPasswordLength = 8
	tokenLifetime     = 12 * time.Hour
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *models.Admin, error)
	ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error
	CreateAdmin(ctx context.Context, username, password string, role models.AdminRole) (*models.Admin, error)
}

type authService struct {
	adminRepo repositories.AdminRepository
	jwtSecret []byte
}

func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string) AuthService {
	return &authService{
		adminRepo: adminRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *models.Admin, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return "", nil, ErrAuthInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", nil, ErrAuthInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"role":     string(admin.Role),
		"exp":      time.Now().Add(tokenLifetime).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	admin.PasswordHash = ""
	return token, admin, nil
}

func (s *authService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return ErrAuthInvalidCredentials
		}
		return fmt.Errorf("failed to load admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrAuthInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.adminRepo.UpdatePasswordHash(ctx, adminID, string(hash))
}

func (s *authService) CreateAdmin(ctx context.Context, username, password string, role models.AdminRole) (*models.Admin, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidationFailed)
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrAdminUsernameConflict) {
			return nil, ErrUsernameConflict
		}
		return nil, err
	}
	admin.PasswordHash = ""
	return admin, nil
}
