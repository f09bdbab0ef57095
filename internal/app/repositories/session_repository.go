package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// SessionRepository persists checkout sessions under registrationData:<id>
type SessionRepository struct {
	store kvstore.Store
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(store kvstore.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Get returns apperrors.ErrNoSession when the student has no checkout
func (r *SessionRepository) Get(ctx context.Context, studentID int64) (*models.Session, error) {
	var s models.Session
	err := r.store.Get(ctx, kvstore.RegistrationDataKey(studentID), &s)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, apperrors.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load registration data for student %d: %w", studentID, err)
	}
	return &s, nil
}

// Save stores the session
func (r *SessionRepository) Save(ctx context.Context, s *models.Session) error {
	if err := r.store.Set(ctx, kvstore.RegistrationDataKey(s.StudentID), s); err != nil {
		return fmt.Errorf("failed to save registration data for student %d: %w", s.StudentID, err)
	}
	return nil
}

// Delete drops the session
func (r *SessionRepository) Delete(ctx context.Context, studentID int64) error {
	return r.store.Delete(ctx, kvstore.RegistrationDataKey(studentID))
}
