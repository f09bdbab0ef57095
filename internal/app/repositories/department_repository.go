package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// DepartmentRepository keeps the "departments" table
type DepartmentRepository struct {
	store kvstore.Store
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(store kvstore.Store) *DepartmentRepository {
	return &DepartmentRepository{store: store}
}

// GetAll retrieves all departments
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]models.Department, error) {
	departments, err := loadTable[models.Department](ctx, r.store, kvstore.KeyDepartments)
	if err != nil {
		return nil, fmt.Errorf("failed to load departments: %w", err)
	}
	return departments, nil
}

// ReplaceAll overwrites the table
func (r *DepartmentRepository) ReplaceAll(ctx context.Context, departments []models.Department) error {
	if err := r.store.Set(ctx, kvstore.KeyDepartments, departments); err != nil {
		return fmt.Errorf("failed to save departments: %w", err)
	}
	return nil
}
