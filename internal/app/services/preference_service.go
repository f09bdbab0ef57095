package services

import (
	"context"
	"fmt"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// PreferenceService reads and writes the dark mode flag.
// Student id 0 is the local CLI user, stored under the plain "darkMode" key.
type PreferenceService struct {
	preferenceRepo *repositories.PreferenceRepository
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(preferenceRepo *repositories.PreferenceRepository) *PreferenceService {
	return &PreferenceService{preferenceRepo: preferenceRepo}
}

func darkModeKey(studentID int64) string {
	if studentID == 0 {
		return kvstore.KeyDarkMode
	}
	return kvstore.DarkModeKey(studentID)
}

// DarkMode returns the stored flag
func (s *PreferenceService) DarkMode(ctx context.Context, studentID int64) (models.DarkMode, error) {
	return s.preferenceRepo.DarkMode(ctx, darkModeKey(studentID))
}

// SetDarkMode stores the flag
func (s *PreferenceService) SetDarkMode(ctx context.Context, studentID int64, mode models.DarkMode) error {
	if !mode.Valid() {
		return apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("dark mode must be %q or %q", models.DarkModeEnabled, models.DarkModeDisabled))
	}
	return s.preferenceRepo.SetDarkMode(ctx, darkModeKey(studentID), mode)
}

// ToggleDarkMode flips and stores the flag
func (s *PreferenceService) ToggleDarkMode(ctx context.Context, studentID int64) (models.DarkMode, error) {
	mode, err := s.DarkMode(ctx, studentID)
	if err != nil {
		return "", err
	}
	next := mode.Toggle()
	if err := s.SetDarkMode(ctx, studentID, next); err != nil {
		return "", err
	}
	return next, nil
}
