package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "courses_code_key"})

	assert.True(t, IsDuplicateConstraintError(err, "courses_code_key"))
	assert.False(t, IsDuplicateConstraintError(err, "other_key"))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), "courses_code_key"))
}

func TestIsCheckViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23514", ConstraintName: "courses_status_check"}

	assert.True(t, IsCheckViolation(err, ""))
	assert.True(t, IsCheckViolation(err, "courses_status_check"))
	assert.False(t, IsCheckViolation(&pgconn.PgError{Code: "23505"}, ""))
}
