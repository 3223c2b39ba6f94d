// Package services contains server-side business logic. This file implements
// UserService: registration, login, and the profile updates that re-check
// credentials before changing them.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/server/auth"
	"github.com/dmitrijs2005/tutorhub/internal/server/config"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/users"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72,bcryptlen"`
	Role     string `json:"role" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,bdphone"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdatePhoneInput struct {
	Phone string `json:"phone" validate:"required,bdphone"`
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72,bcryptlen"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  models.UserSummary `json:"user"`
	Token string             `json:"token"`
}

// UserService provides authentication and profile operations:
// - Register / Login: verify credentials and mint a bearer token
// - UpdatePhone / UpdatePassword: profile changes for the caller
type UserService struct {
	users                 users.Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
	dummyHash             string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		users:                 m.Users(),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
		dummyHash:             auth.NewDummyHash(cfg.BcryptCost),
	}
}

// Register creates an account and signs the user in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Phone:        in.Phone,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login verifies email and password. Unknown emails and wrong passwords
// yield the same common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPasswordCheck(s.dummyHash, in.Password)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, in.Password); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// GetProfile returns the caller's public profile.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) UpdatePhone(ctx context.Context, userID string, in UpdatePhoneInput) (*models.UserSummary, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.UpdatePhone(ctx, userID, in.Phone)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

// UpdatePassword replaces the password after re-verifying the current one.
// The swap only succeeds if the stored hash did not change in between.
func (s *UserService) UpdatePassword(ctx context.Context, userID string, in UpdatePasswordInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := auth.CheckPassword(user.PasswordHash, in.CurrentPassword); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return common.ErrIncorrectPassword
		}
		return err
	}

	hash, err := auth.HashPassword(in.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.ReplacePasswordHash(ctx, userID, user.PasswordHash, hash); err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return common.ErrIncorrectPassword
		}
		return err
	}
	return nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{User: user.Summary(), Token: token}, nil
}
