package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeConflictError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("add course: %w", &TimeConflictError{
		Existing: CourseRef{ID: 1, Name: "Web Programming", Time: "Saturday 10-12"},
		Incoming: CourseRef{ID: 2, Name: "Networks", Time: "Saturday 11-13"},
	})

	assert.ErrorIs(t, err, ErrTimeConflict)
	assert.NotErrorIs(t, err, ErrDuplicateSelection)

	var conflict *TimeConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(1), conflict.Existing.ID)
	assert.Contains(t, err.Error(), "Saturday 11-13")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(ReasonMissingPrerequisite, "missing prerequisites", "AI requires Data Structures")

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, "missing prerequisites: AI requires Data Structures", err.Error())
	assert.Equal(t, "cart is empty", NewValidationError(ReasonCartEmpty, "cart is empty").Error())
}

func TestIs(t *testing.T) {
	err := NewCustomError(ErrCourseFull, "CE201 has no seats left")

	assert.True(t, Is(err, ErrCourseNotFound, ErrCourseFull))
	assert.False(t, Is(err, ErrCourseNotFound))
	assert.Equal(t, "CE201 has no seats left", err.Error())
}
