package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func TestUserServiceApprovePendingEngineer(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "e1", domain.UserTypeEngineer, domain.UserStatusPending)

	svc := NewUserService(users)
	approved := domain.UserStatusApproved
	user, err := svc.Update(context.Background(), "e1", UserUpdateInput{Status: &approved})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if user.Status != domain.UserStatusApproved {
		t.Errorf("status = %q, want APPROVED", user.Status)
	}

	stored, _ := users.GetByUserID(context.Background(), "e1")
	if !stored.IsAssignable() {
		t.Errorf("approved engineer should be assignable")
	}
}

func TestUserServiceUpdateValidation(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "u1", domain.UserTypeCustomer, domain.UserStatusApproved)
	svc := NewUserService(users)

	badType := domain.UserType("MANAGER")
	badStatus := domain.UserStatus("ON_HOLD")
	emptyName := "   "

	cases := []struct {
		name  string
		input UserUpdateInput
	}{
		{"unknown type", UserUpdateInput{Type: &badType}},
		{"unknown status", UserUpdateInput{Status: &badStatus}},
		{"blank name", UserUpdateInput{Name: &emptyName}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), "u1", tc.input); !apperrors.IsCode(err, "VALIDATION_FAILED") {
				t.Fatalf("expected VALIDATION_FAILED, got %v", err)
			}
		})
	}
}

func TestUserServiceGetNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	if _, err := svc.Get(context.Background(), "ghost"); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUserServiceListFiltering(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "admin", domain.UserTypeAdmin, domain.UserStatusApproved)
	seedUser(t, users, "e1", domain.UserTypeEngineer, domain.UserStatusPending)
	seedUser(t, users, "e2", domain.UserTypeEngineer, domain.UserStatusApproved)
	seedUser(t, users, "c1", domain.UserTypeCustomer, domain.UserStatusApproved)

	svc := NewUserService(users)
	engineer := domain.UserTypeEngineer
	pending := domain.UserStatusPending

	result, err := svc.List(context.Background(), repository.UserFilter{Type: &engineer, Status: &pending})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result) != 1 || result[0].UserID != "e1" {
		t.Errorf("filtered users = %+v, want only e1", result)
	}
}
