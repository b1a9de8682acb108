package seed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/repositories"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/auth"
)

// defaultInstitutionID is the institution seeded for local development
const defaultInstitutionID = 1

// CreateDefaultData seeds a default administrator so a fresh database is
// usable immediately. Existing data is left untouched.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(database)

	admins, err := userRepo.CountByRole(ctx, defaultInstitutionID, models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins > 0 {
		lgr.Debug().Msg("Default administrator already present, skipping seed")
		return nil
	}

	hashed, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	admin := &models.User{
		InstitutionID: defaultInstitutionID,
		Email:         "admin@school.edu",
		Password:      hashed,
		FirstName:     "Default",
		LastName:      "Administrator",
		RoleType:      models.RoleAdmin,
		IsActive:      true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Str("email", admin.Email).Msg("Default administrator created")
	return nil
}
