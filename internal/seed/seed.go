package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/app/repositories"
	"github.com/learnhub/backend/internal/config"
	"github.com/learnhub/backend/internal/pkg/apperrors"
	"github.com/learnhub/backend/internal/pkg/auth"
)

// CreateDefaultData makes sure the configured admin account exists.
// It works against the repository interfaces so both storage backends
// get the same bootstrap state.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		lgr.Warn().Msg("Admin credentials not configured, skipping default admin creation")
		return nil
	}

	_, err := repos.Users.GetByUsername(ctx, cfg.Admin.Username)
	if err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	lgr.Info().Msg("Creating default admin user...")

	hashedPassword, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &models.User{
		Username: cfg.Admin.Username,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
	}

	if err := repos.Users.Create(ctx, admin); err != nil {
		// A concurrent instance may have created it first
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			lgr.Info().Msg("Admin user created by another instance, skipping")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
