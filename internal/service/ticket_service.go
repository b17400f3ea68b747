package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle: create, update, single
// read, and list, combining the user directory, the ticket store, the
// assignment service, and the authorization policy.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	history    repository.TicketHistoryRepository
	assigner   *AssignmentService
	policy     TicketPolicy
	cache      repository.TicketCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	HistoryRepo repository.TicketHistoryRepository
	Assigner    *AssignmentService
	Cache       repository.TicketCache
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Status      domain.TicketStatus
}

// TicketPatch describes a partial update. Nil fields are left untouched;
// non-nil fields overwrite, including explicit empty values.
type TicketPatch struct {
	Title       *string
	Description *string
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
	Assignee    *string
}

// IsEmpty reports whether the patch carries no fields.
func (p TicketPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil && p.Assignee == nil
}

// TicketListFilter describes listing filters available to callers; the
// role scope is applied on top of it.
type TicketListFilter struct {
	Status *domain.TicketStatus
	Limit  int
	Offset int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		history:    deps.HistoryRepo,
		assigner:   deps.Assigner,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateTicket files a new ticket for the caller. An engineer is selected
// before anything is persisted; when none is available the whole operation
// fails and no ticket exists afterward. The ticket row is the source of
// truth; the back-reference appends on reporter and assignee are
// idempotent follow-up writes that must not fail the operation.
func (s *TicketService) CreateTicket(ctx context.Context, caller *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("caller required")
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	engineer, err := s.assigner.PickEngineer(ctx)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		Title:       title,
		Description: description,
		Priority:    input.Priority,
		Status:      input.Status,
		Reporter:    caller.UserID,
		Assignee:    engineer.UserID,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.users.AppendTicketCreated(ctx, caller.UserID, ticket.ID); err != nil {
		s.logger.Warn("reporter back-reference write failed",
			zap.String("ticket_id", ticket.ID), zap.String("user_id", caller.UserID), zap.Error(err))
	}
	if err := s.users.AppendTicketAssigned(ctx, engineer.UserID, ticket.ID); err != nil {
		s.logger.Warn("assignee back-reference write failed",
			zap.String("ticket_id", ticket.ID), zap.String("user_id", engineer.UserID), zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorFor(caller),
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Reporter: ticket.Reporter,
			Assignee: ticket.Assignee,
		},
	})
	return ticket, nil
}

// UpdateTicket applies a partial update after the authorization check.
// Denied callers get a FORBIDDEN error and the ticket stays unmodified. An
// all-absent patch is a no-op and returns the ticket unchanged.
func (s *TicketService) UpdateTicket(ctx context.Context, caller *domain.User, ticketID string, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !s.policy.CanModify(caller, ticket) {
		return nil, apperrors.NewForbidden("ticket can be updated only by its reporter, assignee, or an admin")
	}
	if patch.IsEmpty() {
		return ticket, nil
	}

	oldStatus := ticket.Status
	oldPriority := ticket.Priority
	oldAssignee := ticket.Assignee
	var fields []string

	if patch.Title != nil && *patch.Title != ticket.Title {
		ticket.Title = *patch.Title
		fields = append(fields, "title")
	}
	if patch.Description != nil && *patch.Description != ticket.Description {
		ticket.Description = *patch.Description
		fields = append(fields, "description")
	}
	if patch.Priority != nil && *patch.Priority != ticket.Priority {
		ticket.Priority = *patch.Priority
		fields = append(fields, "priority")
	}
	if patch.Status != nil && *patch.Status != ticket.Status {
		ticket.Status = *patch.Status
		fields = append(fields, "status")
	}
	if patch.Assignee != nil && *patch.Assignee != ticket.Assignee {
		ticket.Assignee = *patch.Assignee
		fields = append(fields, "assignee")
	}
	if len(fields) == 0 {
		return ticket, nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, ticket.ID); err != nil {
			s.logger.Warn("ticket cache invalidation failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	}

	if ticket.Status != oldStatus {
		if err := s.recordChange(ctx, caller, ticket.ID, domain.ChangeTypeStatus,
			map[string]any{"status": oldStatus}, map[string]any{"status": ticket.Status}); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	if ticket.Priority != oldPriority {
		if err := s.recordChange(ctx, caller, ticket.ID, domain.ChangeTypePriority,
			map[string]any{"priority": oldPriority}, map[string]any{"priority": ticket.Priority}); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	if ticket.Assignee != oldAssignee {
		if err := s.recordChange(ctx, caller, ticket.ID, domain.ChangeTypeAssignee,
			map[string]any{"assignee": oldAssignee}, map[string]any{"assignee": ticket.Assignee}); err != nil {
			return nil, apperrors.MapError(err)
		}
		if err := s.users.AppendTicketAssigned(ctx, ticket.Assignee, ticket.ID); err != nil {
			s.logger.Warn("assignee back-reference write failed",
				zap.String("ticket_id", ticket.ID), zap.String("user_id", ticket.Assignee), zap.Error(err))
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    actorFor(caller),
			Payload: events.TicketAssignedPayload{
				OldAssignee: oldAssignee,
				NewAssignee: ticket.Assignee,
			},
		})
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Actor:    actorFor(caller),
		Payload: events.TicketUpdatedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			Fields:    fields,
		},
	})
	return ticket, nil
}

// GetOneTicket returns the ticket when the caller may view it. A caller
// outside the allowed set gets (nil, nil): the read is answered with an
// empty payload rather than a denial, matching the service's long-standing
// external contract.
func (s *TicketService) GetOneTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, ticketID)
		if err != nil {
			s.logger.Warn("ticket cache read failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
		ticket = cached
	}
	if ticket == nil {
		stored, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return nil, apperrors.MapError(err)
		}
		ticket = stored
		if s.cache != nil {
			if err := s.cache.Set(ctx, ticket); err != nil {
				s.logger.Warn("ticket cache write failed", zap.String("ticket_id", ticketID), zap.Error(err))
			}
		}
	}

	if !s.policy.CanView(caller, ticket) {
		return nil, nil
	}
	return ticket, nil
}

// ListTickets returns the tickets visible to the caller, newest first,
// optionally narrowed by status.
func (s *TicketService) ListTickets(ctx context.Context, caller *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("caller required")
	}
	repoFilter := repository.TicketFilter{
		Status: filter.Status,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	s.policy.ScopeFilter(caller, &repoFilter)
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListHistory returns audit entries for a ticket the caller may view.
func (s *TicketService) ListHistory(ctx context.Context, caller *domain.User, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	ticket, err := s.GetOneTicket(ctx, caller, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return []domain.TicketHistory{}, nil
	}
	return s.history.ListByTicket(ctx, ticketID, limit, offset)
}

func (s *TicketService) recordChange(ctx context.Context, caller *domain.User, ticketID string, changeType domain.TicketChangeType, oldValue, newValue map[string]any) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.TicketHistory{
		TicketID:        ticketID,
		ChangedByUserID: caller.UserID,
		ChangeType:      changeType,
		OldValue:        oldValue,
		NewValue:        newValue,
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failure",
			zap.String("event_type", string(event.Type)), zap.String("ticket_id", event.TicketID), zap.Error(err))
	}
}

func actorFor(caller *domain.User) events.Actor {
	if caller == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: caller.UserID, Type: caller.Type}
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
