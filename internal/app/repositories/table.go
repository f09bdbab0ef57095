package repositories

import (
	"context"
	"errors"

	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// loadTable reads a JSON array stored under key; a missing key is an empty table
func loadTable[T any](ctx context.Context, store kvstore.Store, key string) ([]T, error) {
	var rows []T
	err := store.Get(ctx, key, &rows)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}
