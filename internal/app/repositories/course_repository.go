package repositories

import (
	"context"

	"github.com/yigit/unireg/internal/app/models"
)

// CourseRepository stores the catalog. Implementations return
// apperrors.ErrCourseNotFound for unknown ids.
type CourseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	// ReplaceAll overwrites the catalog, used when seeding
	ReplaceAll(ctx context.Context, courses []models.Course) error
	// IncrementEnrolled takes one seat, failing with apperrors.ErrCourseFull
	IncrementEnrolled(ctx context.Context, id int64) (*models.Course, error)
	UpdateStatus(ctx context.Context, id int64, status models.CourseStatus) error
}
