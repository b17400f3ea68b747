package service

import (
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

func TestTicketPolicyCanModify(t *testing.T) {
	ticket := &domain.Ticket{ID: "t-1", Reporter: "c1", Assignee: "e1"}

	cases := []struct {
		name   string
		caller *domain.User
		want   bool
	}{
		{"nil caller", nil, false},
		{"reporter", &domain.User{UserID: "c1", Type: domain.UserTypeCustomer}, true},
		{"assignee", &domain.User{UserID: "e1", Type: domain.UserTypeEngineer}, true},
		{"admin", &domain.User{UserID: "a1", Type: domain.UserTypeAdmin}, true},
		{"unrelated customer", &domain.User{UserID: "c2", Type: domain.UserTypeCustomer}, false},
		{"unrelated engineer", &domain.User{UserID: "e2", Type: domain.UserTypeEngineer}, false},
	}

	var policy TicketPolicy
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.CanModify(tc.caller, ticket); got != tc.want {
				t.Errorf("CanModify = %v, want %v", got, tc.want)
			}
			if got := policy.CanView(tc.caller, ticket); got != tc.want {
				t.Errorf("CanView = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTicketPolicyScopeFilter(t *testing.T) {
	cases := []struct {
		name         string
		caller       *domain.User
		wantAssignee *string
		wantReporter *string
	}{
		{
			name:   "admin unrestricted",
			caller: &domain.User{UserID: "a1", Type: domain.UserTypeAdmin},
		},
		{
			name:         "engineer scoped to assigned",
			caller:       &domain.User{UserID: "e1", Type: domain.UserTypeEngineer},
			wantAssignee: strPtr("e1"),
		},
		{
			name:         "customer scoped to reported",
			caller:       &domain.User{UserID: "c1", Type: domain.UserTypeCustomer},
			wantReporter: strPtr("c1"),
		},
	}

	var policy TicketPolicy
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var filter repository.TicketFilter
			policy.ScopeFilter(tc.caller, &filter)

			if !equalStrPtr(filter.Assignee, tc.wantAssignee) {
				t.Errorf("assignee scope = %v, want %v", deref(filter.Assignee), deref(tc.wantAssignee))
			}
			if !equalStrPtr(filter.Reporter, tc.wantReporter) {
				t.Errorf("reporter scope = %v, want %v", deref(filter.Reporter), deref(tc.wantReporter))
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
