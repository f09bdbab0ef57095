package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/logger"
	"github.com/yigit/unireg/internal/pkg/websocket"
)

func TestCartService_AddAccumulatesUnits(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 3, 4)

	total, err := f.cart.TotalUnits(f.ctx, studentID)
	require.NoError(t, err)
	require.Equal(t, 9, total)

	items, err := f.cart.Add(f.ctx, studentID, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4, 5}, ids(items))
	assert.Equal(t, 12, sumUnits(items))
}

func TestCartService_AddRejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   []int64
		add     int64
		wantErr error
	}{
		{"unknown course", nil, 404, apperrors.ErrCourseNotFound},
		{"pending course", nil, 8, apperrors.ErrCourseNotOffered},
		{"duplicate", []int64{1}, 1, apperrors.ErrDuplicateSelection},
		{"time conflict", []int64{1}, 2, apperrors.ErrTimeConflict},
		{"unit limit", []int64{1, 3, 4, 5, 6}, 9, apperrors.ErrUnitLimitExceeded},
		{"full course", nil, 7, apperrors.ErrCourseFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.add(t, tt.setup...)

			_, err := f.cart.Add(f.ctx, studentID, tt.add)
			assert.ErrorIs(t, err, tt.wantErr)

			items, err := f.cart.Items(f.ctx, studentID)
			require.NoError(t, err)
			assert.Equal(t, tt.setup, nilIfEmpty(ids(items)), "cart unchanged")
		})
	}
}

func nilIfEmpty(in []int64) []int64 {
	if len(in) == 0 {
		return nil
	}
	return in
}

func TestCartService_TimeConflictNamesExistingCourse(t *testing.T) {
	f := newFixture(t)
	f.add(t, 3, 1)

	_, err := f.cart.Add(f.ctx, studentID, 2)

	var conflict *apperrors.TimeConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(1), conflict.Existing.ID)
	assert.Equal(t, int64(2), conflict.Incoming.ID)
}

func TestCartService_DuplicateCheckedBeforeConflict(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1)

	// Course 1 conflicts with itself too; duplicate must win
	_, err := f.cart.Add(f.ctx, studentID, 1)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSelection)
	assert.NotErrorIs(t, err, apperrors.ErrTimeConflict)
}

func TestCartService_RemoveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 3)

	items, err := f.cart.Remove(f.ctx, studentID, 42)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(items))

	items, err = f.cart.Remove(f.ctx, studentID, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(items))

	items, err = f.cart.Remove(f.ctx, studentID, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(items))
}

func TestCartService_ResolveConflictSwaps(t *testing.T) {
	f := newFixture(t)
	f.add(t, 3, 1, 4)

	items, err := f.cart.ResolveConflict(f.ctx, studentID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 2}, ids(items))

	contains, err := f.cart.Contains(f.ctx, studentID, 1)
	require.NoError(t, err)
	assert.False(t, contains)
}

func TestCartService_ResolveConflictLeavesCartOnFailure(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 3)

	_, err := f.cart.ResolveConflict(f.ctx, studentID, 1, 404)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	// Removing course 3 does not clear the conflict with course 1
	_, err = f.cart.ResolveConflict(f.ctx, studentID, 3, 2)
	assert.ErrorIs(t, err, apperrors.ErrTimeConflict)

	items, err := f.cart.Items(f.ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(items))
}

func TestCartService_Clear(t *testing.T) {
	f := newFixture(t)

	err := f.cart.Clear(f.ctx, studentID)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)

	f.add(t, 1, 3)
	require.NoError(t, f.cart.Clear(f.ctx, studentID))

	items, err := f.cart.Items(f.ctx, studentID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_ReleaseKeepsLaterSelections(t *testing.T) {
	f := newFixture(t)

	rest, err := f.cart.Release(f.ctx, studentID, nil)
	require.NoError(t, err, "release never fails on an empty cart")
	assert.Empty(t, rest)

	f.add(t, 1, 3)
	registered, err := f.cart.Items(f.ctx, studentID)
	require.NoError(t, err)

	rest, err = f.cart.Release(f.ctx, studentID, registered[:1])
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(rest))

	items, err := f.cart.Items(f.ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(items))
}

func TestCartService_PersistsInOrder(t *testing.T) {
	f := newFixture(t)
	f.add(t, 6, 1, 4, 3)

	reopened := NewCartService(f.catalog, f.repos.CartRepository, 0, logger.Nop())
	items, err := reopened.Items(f.ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 1, 4, 3}, ids(items))
	assert.Equal(t, DefaultMaxUnits, reopened.MaxUnits())
}

func TestCartService_CartsArePerStudent(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1)

	items, err := f.cart.Add(f.ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(items))

	mine, err := f.cart.Items(f.ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(mine))
}

func TestCartService_PublishesScheduleOnMutation(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1)

	msg := f.publisher.last()
	assert.Equal(t, studentID, msg.studentID)
	assert.Equal(t, websocket.MessageSchedule, msg.msgType)

	grid, ok := msg.payload.(models.ScheduleGrid)
	require.True(t, ok)
	assert.Equal(t, 3, grid.TotalUnits)
	require.Len(t, grid.Cell("10-12", models.Saturday), 1)
	assert.Equal(t, "CE201", grid.Cell("10-12", models.Saturday)[0].Code)

	_, err := f.cart.Remove(f.ctx, studentID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, f.publisher.last().payload.(models.ScheduleGrid).TotalUnits)
}

func TestCartService_Summary(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 3, 4, 5)

	resp, err := f.cart.Summary(f.ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Summary.Count)
	assert.Equal(t, 12, resp.Summary.TotalUnits)
	assert.Equal(t, 8, resp.Summary.RemainingUnits)
	assert.InDelta(t, 60.0, resp.Summary.Progress, 1e-9)
}
