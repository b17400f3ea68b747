package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService exposes the administrative view over the user directory:
// listing accounts and approving or rejecting engineer and admin signups.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// UserUpdateInput is a partial update; nil fields are untouched.
type UserUpdateInput struct {
	Name   *string
	Type   *domain.UserType
	Status *domain.UserStatus
}

// List returns users matching the filter.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get fetches one user by userId.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Update applies name, role, or approval changes to a user. This is the
// external approval step for PENDING engineer and admin accounts.
func (s *UserService) Update(ctx context.Context, userID string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}
	if input.Type != nil {
		switch *input.Type {
		case domain.UserTypeCustomer, domain.UserTypeEngineer, domain.UserTypeAdmin:
			user.Type = *input.Type
		default:
			return nil, apperrors.NewValidationError("unknown userType", map[string]any{"user_type": *input.Type})
		}
	}
	if input.Status != nil {
		switch *input.Status {
		case domain.UserStatusPending, domain.UserStatusApproved, domain.UserStatusRejected:
			user.Status = *input.Status
		default:
			return nil, apperrors.NewValidationError("unknown userStatus", map[string]any{"user_status": *input.Status})
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
