package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrNotLoggedIn        = errors.New("not logged in")

	// Validation errors
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Student errors
var (
	ErrStudentNotFound            = errors.New("student not found")
	ErrStudentNumberAlreadyExists = errors.New("student number already exists")
)

// Catalog errors
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrCourseFull       = errors.New("course is full")
	ErrCourseNotOffered = errors.New("course is not offered this term")
	ErrInvalidCourse    = errors.New("invalid course record")
)

// Cart errors
var (
	ErrDuplicateSelection = errors.New("course already selected")
	ErrTimeConflict       = errors.New("time conflict")
	ErrUnitLimitExceeded  = errors.New("unit limit exceeded")
	ErrEmptyCart          = errors.New("cart is empty")
)

// Registration errors
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrFinalizationFailed = errors.New("finalization failed")
	ErrInvalidTransition  = errors.New("invalid registration step")
	ErrNoSession          = errors.New("no registration in progress")
)

// CourseRef identifies a course inside an error without importing models
type CourseRef struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Time string `json:"time"`
}

// TimeConflictError reports the cart member that blocks the incoming course
type TimeConflictError struct {
	Existing CourseRef
	Incoming CourseRef
}

func (e *TimeConflictError) Error() string {
	return fmt.Sprintf("time conflict: %s (%s) overlaps %s (%s)",
		e.Incoming.Name, e.Incoming.Time, e.Existing.Name, e.Existing.Time)
}

// Is makes errors.Is(err, ErrTimeConflict) match
func (e *TimeConflictError) Is(target error) bool {
	return target == ErrTimeConflict
}

// ValidationReason names the first check a registration validation failed
type ValidationReason string

const (
	ReasonCartEmpty           ValidationReason = "cart_empty"
	ReasonBelowMinimum        ValidationReason = "below_minimum"
	ReasonAboveMaximum        ValidationReason = "above_maximum"
	ReasonTimeConflict        ValidationReason = "time_conflict"
	ReasonMissingPrerequisite ValidationReason = "missing_prerequisite"
)

// ValidationError is the outcome of a failed registration validation
type ValidationError struct {
	Reason  ValidationReason
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// Is makes errors.Is(err, ErrValidationFailed) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError builds a ValidationError
func NewValidationError(reason ValidationReason, message string, details ...string) *ValidationError {
	return &ValidationError{
		Reason:  reason,
		Message: message,
		Details: details,
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
