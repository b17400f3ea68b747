package domain

import "time"

// TicketStatus labels the lifecycle state of a ticket. Values are supplied
// by callers and stored as-is; the core validates presence only.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusBlocked  TicketStatus = "BLOCKED"
	TicketStatusClosed   TicketStatus = "CLOSED"
	TicketStatusRejected TicketStatus = "REJECTED"
)

// TicketPriority labels urgency. Like status, values are free-form.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// Ticket is the aggregate for a support request. Reporter is the userId of
// the customer who filed it and never changes; Assignee is the userId of
// the responsible engineer, set at creation and reassignable via update.
type Ticket struct {
	ID          string
	ExternalKey string
	Title       string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	Reporter    string
	Assignee    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
