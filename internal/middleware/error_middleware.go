package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/learnhub/backend/internal/app/models/dto"
	"github.com/learnhub/backend/internal/pkg/apperrors"
)

// HandleAPIError resolves a service-layer error at the request boundary.
// Every failure maps to exactly one response; nothing is partially
// successful and nothing is retried here.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Course not found", err)
	case errors.Is(err, apperrors.ErrEnrollmentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Enrollment not found", err)
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found", err)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found", err)

	case errors.Is(err, apperrors.ErrDuplicateEnrollment):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Already enrolled in this course", err)
	case errors.Is(err, apperrors.ErrUsernameTaken):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Username already exists", err)
	case errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Conflict", err)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", err)
	case errors.Is(err, apperrors.ErrUnauthenticated):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", err)

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", err)

	case errors.Is(err, apperrors.ErrMissingCourseMedia):
		respondValidation(c, dto.ErrorCodeMissingFile, "Required file is missing", err)
	case errors.Is(err, apperrors.ErrInvalidCourseLevel),
		errors.Is(err, apperrors.ErrInvalidPassword),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respondValidation(c, dto.ErrorCodeValidationFailed, "Validation failed", err)

	default:
		// Unexpected storage or internal failure: log it, hide the detail
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error in request handler")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string, err error) {
	errorDetail := dto.NewErrorDetail(code, message)

	// Surface the wrapped message when the service attached one
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		errorDetail = errorDetail.WithDetails(customErr.Message)
	}

	c.JSON(status, dto.NewErrorResponse(errorDetail))
}

func respondValidation(c *gin.Context, code dto.ErrorCode, message string, err error) {
	errorDetail := dto.NewErrorDetail(code, message).WithDetails(err.Error())
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
