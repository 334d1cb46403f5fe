package seed

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/devansh/fms/internal/app/models"
	appRepos "github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/config"
	pkgAuth "github.com/devansh/fms/internal/pkg/auth"
)

// CreateDefaultAdmin creates the configured admin account if it does not
// exist yet. The admin is the only account that is never self-registered.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	accountRepo := appRepos.NewAccountRepository(dbPool)

	exists, err := accountRepo.ExistsByEmail(ctx, cfg.Auth.AdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin account exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin account already exists, skipping creation")
		return nil
	}

	if cfg.Auth.AdminPassword == "" {
		lgr.Warn().Msg("No admin password configured, skipping admin creation")
		return nil
	}

	lgr.Info().Str("email", cfg.Auth.AdminEmail).Msg("Creating default admin account...")

	hashedPassword, err := pkgAuth.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.Account{
		Role:      appModels.RoleAdmin,
		Status:    appModels.StatusApproved,
		Name:      "System Administrator",
		Email:     cfg.Auth.AdminEmail,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := accountRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin account created")
	return nil
}
