package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Bootstrapper makes sure an administrative account exists at process
// start. It is invoked once from main after the persistence layer is up.
type Bootstrapper struct {
	users      repository.UserRepository
	cfg        config.SeedAdminConfig
	bcryptCost int
	logger     *zap.Logger
}

// NewBootstrapper constructs the initializer.
func NewBootstrapper(users repository.UserRepository, cfg config.SeedAdminConfig, bcryptCost int, logger *zap.Logger) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{users: users, cfg: cfg, bcryptCost: bcryptCost, logger: logger}
}

// EnsureSeedAdmin creates the seed admin account when absent. Idempotent:
// an existing account with the configured userId makes it a no-op. The
// first-admin rule in the directory guarantees the seed account is born
// APPROVED on a fresh database. Failures are logged and swallowed so a
// broken seed never prevents startup.
func (b *Bootstrapper) EnsureSeedAdmin(ctx context.Context) {
	if _, err := b.users.GetByUserID(ctx, b.cfg.UserID); err == nil {
		b.logger.Info("seed admin already present", zap.String("user_id", b.cfg.UserID))
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		b.logger.Warn("seed admin lookup failed", zap.Error(err))
		return
	}

	hash, err := auth.HashPassword(b.cfg.Password, b.bcryptCost)
	if err != nil {
		b.logger.Warn("seed admin password hash failed", zap.Error(err))
		return
	}

	admin := &domain.User{
		UserID:       b.cfg.UserID,
		Name:         b.cfg.Name,
		Email:        b.cfg.Email,
		PasswordHash: hash,
		Type:         domain.UserTypeAdmin,
		Status:       domain.DefaultStatusFor(domain.UserTypeAdmin),
	}
	if err := b.users.Create(ctx, admin); err != nil {
		b.logger.Warn("seed admin creation failed", zap.Error(err))
		return
	}
	b.logger.Info("seed admin created",
		zap.String("user_id", admin.UserID), zap.String("user_status", string(admin.Status)))
}
