package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// RegistrationRepository is the ledger of finalized registrations
type RegistrationRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(store kvstore.Store) *RegistrationRepository {
	return &RegistrationRepository{store: store}
}

// List returns every registration in creation order
func (r *RegistrationRepository) List(ctx context.Context) ([]models.Registration, error) {
	rows, err := loadTable[models.Registration](ctx, r.store, kvstore.KeyRegistrations)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}
	return rows, nil
}

// ListByStudent filters the ledger to one student
func (r *RegistrationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Registration, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Registration{}
	for _, reg := range rows {
		if reg.StudentID == studentID {
			out = append(out, reg)
		}
	}
	return out, nil
}

// Append adds a row. A row whose receipt is already recorded is skipped.
func (r *RegistrationRepository) Append(ctx context.Context, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.List(ctx)
	if err != nil {
		return err
	}
	if reg.ReceiptID != "" {
		for _, row := range rows {
			if row.ReceiptID == reg.ReceiptID {
				return nil
			}
		}
	}
	if err := r.store.Set(ctx, kvstore.KeyRegistrations, append(rows, *reg)); err != nil {
		return fmt.Errorf("failed to save registrations: %w", err)
	}
	return nil
}
