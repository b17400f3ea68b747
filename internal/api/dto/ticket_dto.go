package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"ticketPriority"`
	Status      domain.TicketStatus   `json:"status"`
}

// UpdateTicketRequest is a partial update; absent fields leave the ticket
// untouched, present fields overwrite even when empty.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Priority    *domain.TicketPriority `json:"ticketPriority"`
	Status      *domain.TicketStatus   `json:"status"`
	Assignee    *string                `json:"assignee"`
}

// TicketResponse is the external projection of a ticket. Reporter and
// assignee are userId strings; the only storage identifier exposed is the
// stable ticket id.
type TicketResponse struct {
	ID          string                `json:"id"`
	ExternalKey string                `json:"externalKey"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"ticketPriority"`
	Status      domain.TicketStatus   `json:"status"`
	Reporter    string                `json:"reporter"`
	Assignee    string                `json:"assignee"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID              string                  `json:"id"`
	ChangeType      domain.TicketChangeType `json:"changeType"`
	ChangedByUserID string                  `json:"changedBy"`
	OldValue        map[string]any          `json:"oldValue"`
	NewValue        map[string]any          `json:"newValue"`
	CreatedAt       time.Time               `json:"createdAt"`
}
