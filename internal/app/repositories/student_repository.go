package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// StudentRepository keeps accounts in the "students" table
type StudentRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(store kvstore.Store) *StudentRepository {
	return &StudentRepository{store: store}
}

// List returns every student
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	students, err := loadTable[models.Student](ctx, r.store, kvstore.KeyStudents)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	return students, nil
}

// GetByID retrieves a student by id
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.find(ctx, func(s models.Student) bool { return s.ID == id })
}

// GetByStudentNumber retrieves a student by number or username
func (r *StudentRepository) GetByStudentNumber(ctx context.Context, number string) (*models.Student, error) {
	return r.find(ctx, func(s models.Student) bool {
		return s.StudentNumber == number || s.Username == number
	})
}

func (r *StudentRepository) find(ctx context.Context, match func(models.Student) bool) (*models.Student, error) {
	students, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if match(students[i]) {
			return &students[i], nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

// Create stores a new student with the next id
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	students, err := r.List(ctx)
	if err != nil {
		return err
	}

	var maxID int64
	for _, s := range students {
		if s.StudentNumber == student.StudentNumber {
			return apperrors.ErrStudentNumberAlreadyExists
		}
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	student.ID = maxID + 1
	if student.Username == "" {
		student.Username = student.StudentNumber
	}

	return r.save(ctx, append(students, *student))
}

// Update replaces the stored record with the same id
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	students, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range students {
		if students[i].ID == student.ID {
			students[i] = *student
			return r.save(ctx, students)
		}
	}
	return apperrors.ErrStudentNotFound
}

func (r *StudentRepository) save(ctx context.Context, students []models.Student) error {
	if err := r.store.Set(ctx, kvstore.KeyStudents, students); err != nil {
		return fmt.Errorf("failed to save students: %w", err)
	}
	return nil
}

// CurrentUser returns the student logged in on this machine
func (r *StudentRepository) CurrentUser(ctx context.Context) (*models.Student, error) {
	var s models.Student
	err := r.store.Get(ctx, kvstore.KeyCurrentUser, &s)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, apperrors.ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	return &s, nil
}

// SetCurrentUser stores the public profile of the logged in student
func (r *StudentRepository) SetCurrentUser(ctx context.Context, student *models.Student) error {
	return r.store.Set(ctx, kvstore.KeyCurrentUser, student.Public())
}

// ClearCurrentUser logs out
func (r *StudentRepository) ClearCurrentUser(ctx context.Context) error {
	return r.store.Delete(ctx, kvstore.KeyCurrentUser)
}
