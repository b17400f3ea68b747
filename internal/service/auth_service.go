package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// SignupInput describes a registration payload. Type defaults to CUSTOMER.
type SignupInput struct {
	UserID   string
	Name     string
	Email    string
	Password string
	Type     domain.UserType
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Signup creates a new account. Customers are approved immediately;
// engineer and admin signups start PENDING and wait for an admin, unless
// the directory's first-admin rule upgrades them at insert time.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	userID := strings.TrimSpace(input.UserID)
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if userID == "" || name == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("userId, name, email, password required", nil)
	}

	userType := input.Type
	if userType == "" {
		userType = domain.UserTypeCustomer
	}
	switch userType {
	case domain.UserTypeCustomer, domain.UserTypeEngineer, domain.UserTypeAdmin:
	default:
		return nil, apperrors.NewValidationError("unknown userType", map[string]any{"user_type": userType})
	}

	// the unique constraint still catches concurrent signups
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("email already in use", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		UserID:       userID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Type:         userType,
		Status:       domain.DefaultStatusFor(userType),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishRegistered(ctx, user)
	return user, nil
}

// Signin authenticates by userId and password and mints an access token.
// Accounts that are not APPROVED cannot sign in.
func (s *AuthService) Signin(ctx context.Context, userID, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusApproved {
		return nil, "", time.Time{}, apperrors.NewForbidden("account pending approval")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.UserID, user.Type)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishRegistered(ctx context.Context, user *domain.User) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		Actor:     events.Actor{UserID: user.UserID, Type: user.Type},
		Timestamp: time.Now(),
		Payload: events.UserRegisteredPayload{
			UserID: user.UserID,
			Type:   user.Type,
			Status: user.Status,
		},
	})
}
