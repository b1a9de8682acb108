package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/logger"
)

// errorDetail builds the response detail, preferring the wrapped message
// and structured details when the error is a CustomError
func errorDetail(err error, code dto.ErrorCode, fallback string) *dto.ErrorDetail {
	message := fallback
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if custom.Message != "" {
			message = custom.Message
		}
		detail := dto.NewErrorDetail(code, message)
		if custom.Details != nil {
			detail = detail.WithDetails(custom.Details)
		}
		return detail
	}
	return dto.NewErrorDetail(code, message)
}

// HandleAPIError maps application errors onto HTTP status codes and the
// standard error envelope
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeUnauthorized, "Authentication required")))

	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeInvalidCredentials, "Invalid credentials")))

	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeExpiredToken, "Token expired")))

	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeInvalidToken, "Invalid token")))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeForbidden, "Permission denied")))

	case errors.Is(err, apperrors.ErrExamNotFound),
		errors.Is(err, apperrors.ErrScheduleNotFound),
		errors.Is(err, apperrors.ErrResultNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeResourceNotFound, "Resource not found")))

	case errors.Is(err, apperrors.ErrScheduleExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeResourceAlreadyExists, "Resource already exists")))

	case errors.Is(err, apperrors.ErrScheduleConflict),
		errors.Is(err, apperrors.ErrDraftsRemain),
		errors.Is(err, apperrors.ErrExamAlreadyPublished),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeConflict, "Conflict")))

	case errors.Is(err, apperrors.ErrNoSchedules),
		errors.Is(err, apperrors.ErrExamNotScheduled),
		errors.Is(err, apperrors.ErrExamNotPublished),
		errors.Is(err, apperrors.ErrExamHasResults),
		errors.Is(err, apperrors.ErrPreconditionFailed):
		c.JSON(http.StatusPreconditionFailed, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodePreconditionFailed, "Precondition failed")))

	case errors.Is(err, apperrors.ErrMarksExceedMax),
		errors.Is(err, apperrors.ErrClassNotTargeted),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeValidationFailed, "Validation failed")))

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
