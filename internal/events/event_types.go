package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketAssigned EventType = "ticket_assigned"
	EventUserRegistered EventType = "user_registered"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Type   domain.UserType `json:"user_type"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	Reporter string                `json:"reporter"`
	Assignee string                `json:"assignee"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Fields    []string            `json:"fields"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldAssignee string `json:"old_assignee,omitempty"`
	NewAssignee string `json:"new_assignee"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string            `json:"user_id"`
	Type   domain.UserType   `json:"user_type"`
	Status domain.UserStatus `json:"user_status"`
}
