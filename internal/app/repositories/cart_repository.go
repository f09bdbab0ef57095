package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// CartRepository persists each student's selection under courseCart:<id>
type CartRepository struct {
	store kvstore.Store
}

// NewCartRepository creates a new CartRepository
func NewCartRepository(store kvstore.Store) *CartRepository {
	return &CartRepository{store: store}
}

// Load returns the saved cart in insertion order, empty when none was saved
func (r *CartRepository) Load(ctx context.Context, studentID int64) ([]models.Course, error) {
	var items []models.Course
	err := r.store.Get(ctx, kvstore.CartKey(studentID), &items)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []models.Course{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for student %d: %w", studentID, err)
	}
	if items == nil {
		items = []models.Course{}
	}
	return items, nil
}

// Save stores the full cart
func (r *CartRepository) Save(ctx context.Context, studentID int64, items []models.Course) error {
	if items == nil {
		items = []models.Course{}
	}
	if err := r.store.Set(ctx, kvstore.CartKey(studentID), items); err != nil {
		return fmt.Errorf("failed to save cart for student %d: %w", studentID, err)
	}
	return nil
}
