package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func seedAdminConfig() config.SeedAdminConfig {
	return config.SeedAdminConfig{
		UserID:   "admin",
		Name:     "Administrator",
		Email:    "admin@helpdesk.local",
		Password: "Admin@123",
	}
}

func TestEnsureSeedAdminCreatesApprovedAdmin(t *testing.T) {
	users := newFakeUserRepo()
	b := NewBootstrapper(users, seedAdminConfig(), 4, nil)

	b.EnsureSeedAdmin(context.Background())

	admin, err := users.GetByUserID(context.Background(), "admin")
	if err != nil {
		t.Fatalf("seed admin not created: %v", err)
	}
	if admin.Type != domain.UserTypeAdmin {
		t.Errorf("type = %q, want ADMIN", admin.Type)
	}
	if admin.Status != domain.UserStatusApproved {
		t.Errorf("status = %q, want APPROVED", admin.Status)
	}
	if err := auth.ComparePassword(admin.PasswordHash, "Admin@123"); err != nil {
		t.Errorf("seed password does not verify: %v", err)
	}
}

func TestEnsureSeedAdminIdempotent(t *testing.T) {
	users := newFakeUserRepo()
	b := NewBootstrapper(users, seedAdminConfig(), 4, nil)

	b.EnsureSeedAdmin(context.Background())
	first, _ := users.GetByUserID(context.Background(), "admin")

	b.EnsureSeedAdmin(context.Background())
	second, _ := users.GetByUserID(context.Background(), "admin")

	if first.ID != second.ID || first.PasswordHash != second.PasswordHash {
		t.Errorf("second run modified the existing seed admin")
	}
}

func TestEnsureSeedAdminKeepsExistingAccount(t *testing.T) {
	users := newFakeUserRepo()
	existing := seedUser(t, users, "admin", domain.UserTypeAdmin, domain.UserStatusApproved)

	b := NewBootstrapper(users, seedAdminConfig(), 4, nil)
	b.EnsureSeedAdmin(context.Background())

	stored, err := users.GetByUserID(context.Background(), "admin")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if stored.PasswordHash != existing.PasswordHash {
		t.Errorf("existing admin credentials were overwritten")
	}
}

func TestEnsureSeedAdminSwallowsCreateFailure(t *testing.T) {
	users := newFakeUserRepo()
	users.createErr = errors.New("connection refused")

	b := NewBootstrapper(users, seedAdminConfig(), 4, nil)
	// must not panic or abort; it only logs
	b.EnsureSeedAdmin(context.Background())

	if len(users.users) != 0 {
		t.Errorf("unexpected user created despite failure")
	}
}
