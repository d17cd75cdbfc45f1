package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mulearn-geci/community-api/internal/config"
	"github.com/mulearn-geci/community-api/internal/domain/user"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// EnsureAdmin creates the default admin account when no user with the
// configured email exists yet. Safe to run on every boot.
func EnsureAdmin(ctx context.Context, users storage.UserRepository, cfg *config.Config) error {
	log := logger.Service("bootstrap")

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Debug("Admin bootstrap skipped, no credentials configured")
		return nil
	}

	_, err := users.GetByEmail(ctx, cfg.Admin.Email)
	if err == nil {
		log.Debug("Admin account already exists", "email", cfg.Admin.Email)
		return nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}

	admin, err := user.New(cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password, user.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to build admin account: %w", err)
	}
	if err := users.Create(ctx, admin); err != nil {
		// Lost a race with a concurrent boot, the account exists
		if errors.Is(err, user.ErrEmailTaken) {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Info("Default admin account created", "email", cfg.Admin.Email)
	return nil
}
