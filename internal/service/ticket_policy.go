package service

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// TicketPolicy decides, per operation, whether a caller may act on a ticket
// and which tickets a caller sees. It is a pure function of the caller and
// the ticket; it never touches storage.
type TicketPolicy struct{}

// CanModify reports whether the caller may update the ticket: the
// reporter, the current assignee, or any admin.
func (TicketPolicy) CanModify(caller *domain.User, ticket *domain.Ticket) bool {
	if caller == nil || ticket == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	return ticket.Reporter == caller.UserID || ticket.Assignee == caller.UserID
}

// CanView reports whether the caller may read the ticket. The allowed set
// matches CanModify; callers outside it receive an empty result rather
// than a denial (see GetOneTicket).
func (p TicketPolicy) CanView(caller *domain.User, ticket *domain.Ticket) bool {
	return p.CanModify(caller, ticket)
}

// ScopeFilter narrows a listing filter to the caller's visibility: admins
// see everything, engineers their assigned tickets, customers the tickets
// they reported.
func (TicketPolicy) ScopeFilter(caller *domain.User, filter *repository.TicketFilter) {
	if caller == nil || filter == nil {
		return
	}
	switch caller.Type {
	case domain.UserTypeAdmin:
		// unrestricted
	case domain.UserTypeEngineer:
		assignee := caller.UserID
		filter.Assignee = &assignee
	default:
		reporter := caller.UserID
		filter.Reporter = &reporter
	}
}
