package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SignupRequest payload for new accounts.
type SignupRequest struct {
	UserID   string          `json:"userId"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	UserType domain.UserType `json:"userType"`
}

// SigninRequest payload for login.
type SigninRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse is the external projection of a user; the password hash is
// never exposed.
type UserResponse struct {
	UserID          string            `json:"userId"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	UserType        domain.UserType   `json:"userType"`
	UserStatus      domain.UserStatus `json:"userStatus"`
	TicketsCreated  []string          `json:"ticketsCreated,omitempty"`
	TicketsAssigned []string          `json:"ticketsAssigned,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// UpdateUserRequest is the admin-side partial update for a user.
type UpdateUserRequest struct {
	Name       *string            `json:"name"`
	UserType   *domain.UserType   `json:"userType"`
	UserStatus *domain.UserStatus `json:"userStatus"`
}
