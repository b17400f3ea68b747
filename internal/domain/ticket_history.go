package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus   TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee TicketChangeType = "ASSIGNEE_CHANGE"
	ChangeTypePriority TicketChangeType = "PRIORITY_CHANGE"
)

// TicketHistory is an immutable audit trail entry recorded when a ticket
// field is changed through the update operation.
type TicketHistory struct {
	ID              string
	TicketID        string
	ChangedByUserID string
	ChangeType      TicketChangeType
	OldValue        map[string]any
	NewValue        map[string]any
	CreatedAt       time.Time
}
