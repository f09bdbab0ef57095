package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// KVCourseRepository keeps the catalog as the "courses" table of the KV store
type KVCourseRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewKVCourseRepository creates a new KVCourseRepository
func NewKVCourseRepository(store kvstore.Store) *KVCourseRepository {
	return &KVCourseRepository{store: store}
}

// List returns every course in stored order
func (r *KVCourseRepository) List(ctx context.Context) ([]models.Course, error) {
	courses, err := loadTable[models.Course](ctx, r.store, kvstore.KeyCourses)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	return courses, nil
}

// GetByID retrieves a course by ID
func (r *KVCourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	courses, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

// Create appends a course, assigning the next id
func (r *KVCourseRepository) Create(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.List(ctx)
	if err != nil {
		return err
	}

	var maxID int64
	for _, c := range courses {
		if c.Code == course.Code {
			return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, fmt.Sprintf("course code %s already exists", course.Code))
		}
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	course.ID = maxID + 1

	courses = append(courses, *course)
	return r.save(ctx, courses)
}

// ReplaceAll overwrites the catalog
func (r *KVCourseRepository) ReplaceAll(ctx context.Context, courses []models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, courses)
}

// IncrementEnrolled takes one seat in the course
func (r *KVCourseRepository) IncrementEnrolled(ctx context.Context, id int64) (*models.Course, error) {
	var updated *models.Course
	err := r.mutate(ctx, id, func(c *models.Course) error {
		if c.IsFull() {
			return apperrors.ErrCourseFull
		}
		c.Enrolled++
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus sets the approval status
func (r *KVCourseRepository) UpdateStatus(ctx context.Context, id int64, status models.CourseStatus) error {
	return r.mutate(ctx, id, func(c *models.Course) error {
		c.Status = status
		return nil
	})
}

func (r *KVCourseRepository) mutate(ctx context.Context, id int64, fn func(*models.Course) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range courses {
		if courses[i].ID != id {
			continue
		}
		if err := fn(&courses[i]); err != nil {
			return err
		}
		return r.save(ctx, courses)
	}
	return apperrors.ErrCourseNotFound
}

func (r *KVCourseRepository) save(ctx context.Context, courses []models.Course) error {
	if err := r.store.Set(ctx, kvstore.KeyCourses, courses); err != nil {
		return fmt.Errorf("failed to save courses: %w", err)
	}
	return nil
}
