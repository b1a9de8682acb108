package auth

import (
	"context"
	"errors"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/repositories"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/logger"
)

// AuthorizationService handles authorization checks for exam operations
type AuthorizationService struct {
	userRepo *repositories.UserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo *repositories.UserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// ValidateAdmin ensures the actor holds the admin role
func (s *AuthorizationService) ValidateAdmin(actor models.Actor) error {
	if actor.Role != models.RoleAdmin {
		return apperrors.NewForbiddenError("only administrators can perform this action")
	}
	return nil
}

// ValidateStaff ensures the actor is an admin or a teacher
func (s *AuthorizationService) ValidateStaff(actor models.Actor) error {
	if !actor.Role.IsStaff() {
		return apperrors.NewForbiddenError("only staff members can perform this action")
	}
	return nil
}

// ValidateInstitution ensures a resource belongs to the actor's institution
func (s *AuthorizationService) ValidateInstitution(actor models.Actor, institutionID int64) error {
	if actor.InstitutionID != institutionID {
		return apperrors.NewResourceNotFoundError("resource not found")
	}
	return nil
}

// CanViewResults reports whether the actor may read results of an exam in the
// given status. Staff see everything; students and parents only see results
// after publication.
func (s *AuthorizationService) CanViewResults(actor models.Actor, status models.ExamStatus) bool {
	if actor.Role.IsStaff() {
		return true
	}
	return status == models.ExamStatusResultsPublished
}

// ValidateResultsVisible validates result visibility or returns an error
func (s *AuthorizationService) ValidateResultsVisible(actor models.Actor, status models.ExamStatus) error {
	if !s.CanViewResults(actor, status) {
		return apperrors.NewCustomError(apperrors.ErrExamNotPublished, "results have not been published yet")
	}
	return nil
}

// GetUserInfo returns user information
func (s *AuthorizationService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in GetUserInfo")
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}
