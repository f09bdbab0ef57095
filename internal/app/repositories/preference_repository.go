package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// PreferenceRepository stores the dark mode flag
type PreferenceRepository struct {
	store kvstore.Store
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(store kvstore.Store) *PreferenceRepository {
	return &PreferenceRepository{store: store}
}

// DarkMode reads the flag under key, "disabled" when unset
func (r *PreferenceRepository) DarkMode(ctx context.Context, key string) (models.DarkMode, error) {
	var mode models.DarkMode
	err := r.store.Get(ctx, key, &mode)
	if errors.Is(err, kvstore.ErrNotFound) {
		return models.DarkModeDisabled, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return mode, nil
}

// SetDarkMode stores the flag under key
func (r *PreferenceRepository) SetDarkMode(ctx context.Context, key string, mode models.DarkMode) error {
	return r.store.Set(ctx, key, mode)
}
