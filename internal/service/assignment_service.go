package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AssignmentService selects the engineer responsible for a new ticket.
type AssignmentService struct {
	users repository.UserRepository
}

// NewAssignmentService creates the service.
func NewAssignmentService(users repository.UserRepository) *AssignmentService {
	return &AssignmentService{users: users}
}

// PickEngineer returns an approved engineer to take a new ticket. There is
// no load balancing: any approved engineer qualifies, and which one the
// directory returns is unspecified. When none exists the error carries the
// ASSIGNMENT_UNAVAILABLE code so ticket creation can abort cleanly instead
// of persisting an unassigned ticket.
func (s *AssignmentService) PickEngineer(ctx context.Context) (*domain.User, error) {
	engineer, err := s.users.FindAssignableEngineer(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAssignmentUnavailable(nil)
		}
		return nil, apperrors.MapError(err)
	}
	return engineer, nil
}
