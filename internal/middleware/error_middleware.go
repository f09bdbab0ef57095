package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/logger"
)

type errorMapping struct {
	target   error
	status   int
	code     dto.ErrorCode
	message  string
	severity dto.ErrorSeverity
}

// errorMappings are tried in order; the first errors.Is match wins
var errorMappings = []errorMapping{
	{apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Course not found", dto.ErrorSeverityError},
	{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found", dto.ErrorSeverityError},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found", dto.ErrorSeverityError},

	{apperrors.ErrDuplicateSelection, http.StatusConflict, dto.ErrorCodeDuplicateSelection, "Course already selected", dto.ErrorSeverityError},
	{apperrors.ErrCourseFull, http.StatusConflict, dto.ErrorCodeCourseFull, "Course is full", dto.ErrorSeverityError},
	{apperrors.ErrCourseNotOffered, http.StatusConflict, dto.ErrorCodeCourseNotOffered, "Course is not offered", dto.ErrorSeverityError},
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Invalid registration step", dto.ErrorSeverityError},
	{apperrors.ErrStudentNumberAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Student number already exists", dto.ErrorSeverityError},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists", dto.ErrorSeverityError},

	{apperrors.ErrUnitLimitExceeded, http.StatusUnprocessableEntity, dto.ErrorCodeUnitLimitExceeded, "Unit limit exceeded", dto.ErrorSeverityError},
	{apperrors.ErrPaymentFailed, http.StatusPaymentRequired, dto.ErrorCodePaymentFailed, "Payment failed, please try again", dto.ErrorSeverityError},
	{apperrors.ErrFinalizationFailed, http.StatusBadGateway, dto.ErrorCodeFinalizationFailed, "Finalization failed, please try again", dto.ErrorSeverityError},
	{apperrors.ErrEmptyCart, http.StatusBadRequest, dto.ErrorCodeEmptyCart, "Cart is empty", dto.ErrorSeverityWarning},
	{apperrors.ErrNoSession, http.StatusNotFound, dto.ErrorCodeNoSession, "No registration in progress", dto.ErrorSeverityInfo},
	{apperrors.ErrInvalidCourse, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Invalid course", dto.ErrorSeverityError},

	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", dto.ErrorSeverityError},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", dto.ErrorSeverityError},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", dto.ErrorSeverityError},
	{apperrors.ErrNotLoggedIn, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Not logged in", dto.ErrorSeverityError},
	{apperrors.ErrInvalidPassword, http.StatusBadRequest, dto.ErrorCodeInvalidPassword, "Invalid password", dto.ErrorSeverityError},
	{apperrors.ErrPasswordMismatch, http.StatusBadRequest, dto.ErrorCodeInvalidPassword, "Passwords do not match", dto.ErrorSeverityError},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request", dto.ErrorSeverityError},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	var conflict *apperrors.TimeConflictError
	if errors.As(err, &conflict) {
		detail := dto.NewErrorDetail(dto.ErrorCodeTimeConflict, conflict.Error()).
			WithDetails(gin.H{"existing": conflict.Existing, "incoming": conflict.Incoming})
		respond(c, http.StatusConflict, detail)
		return
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		detail := dto.NewErrorDetail(dto.ErrorCodeRegistrationInvalid, verr.Message).
			WithDetails(gin.H{"reason": verr.Reason, "details": verr.Details})
		respond(c, http.StatusUnprocessableEntity, detail)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			message := m.message
			var custom *apperrors.CustomError
			if errors.As(err, &custom) && custom.Message != "" {
				message = custom.Message
			}
			respond(c, m.status, dto.NewErrorDetail(m.code, message).WithSeverity(m.severity))
			return
		}
	}

	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
	respond(c, http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
}

func respond(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	})
}
