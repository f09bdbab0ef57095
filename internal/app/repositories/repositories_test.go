package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

func newRepos(t *testing.T) *Repositories {
	t.Helper()
	return NewRepositories(kvstore.NewMemoryStore(), nil)
}

func TestCartRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	empty, err := repos.CartRepository.Load(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)

	cart := []models.Course{
		{ID: 6, Name: "Advanced Algorithms", Units: 3, Time: "Saturday 14-16", Prerequisites: []string{"Data Structures", "Discrete Mathematics"}},
		{ID: 1, Name: "Web Programming", Units: 3, Time: "Saturday 10-12", Prerequisites: []string{"Computer Fundamentals"}},
		{ID: 4, Name: "Computer Networks", Units: 3, Time: "Tuesday 10-12", Prerequisites: []string{"Computer Fundamentals"}},
	}
	require.NoError(t, repos.CartRepository.Save(ctx, 1, cart))

	loaded, err := repos.CartRepository.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, cart, loaded)

	other, err := repos.CartRepository.Load(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other, "carts are per student")
}

func TestKVCourseRepository(t *testing.T) {
	ctx := context.Background()
	repo := newRepos(t).CourseRepository

	require.NoError(t, repo.ReplaceAll(ctx, []models.Course{
		{ID: 1, Code: "CE201", Units: 3, Capacity: 2, Enrolled: 1},
		{ID: 2, Code: "CE202", Units: 3, Capacity: 25},
	}))

	c, err := repo.IncrementEnrolled(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Enrolled)

	_, err = repo.IncrementEnrolled(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrCourseFull)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	created := &models.Course{Code: "CE301", Units: 3}
	require.NoError(t, repo.Create(ctx, created))
	assert.Equal(t, int64(3), created.ID)
	assert.ErrorIs(t, repo.Create(ctx, &models.Course{Code: "CE301"}), apperrors.ErrResourceAlreadyExists)

	require.NoError(t, repo.UpdateStatus(ctx, 3, models.CourseRejected))
	got, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, models.CourseRejected, got.Status)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 42, models.CourseApproved), apperrors.ErrCourseNotFound)
}

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()
	repo := newRepos(t).StudentRepository

	s := &models.Student{StudentNumber: "401234567", FullName: "Sample Student", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, s))
	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, "401234567", s.Username)

	assert.ErrorIs(t, repo.Create(ctx, &models.Student{StudentNumber: "401234567"}), apperrors.ErrStudentNumberAlreadyExists)

	found, err := repo.GetByStudentNumber(ctx, "401234567")
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)

	_, err = repo.CurrentUser(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotLoggedIn)

	require.NoError(t, repo.SetCurrentUser(ctx, found))
	current, err := repo.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Empty(t, current.PasswordHash, "hash never leaves the students table")

	require.NoError(t, repo.ClearCurrentUser(ctx))
	_, err = repo.CurrentUser(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotLoggedIn)
}

func TestSessionAndLedger(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	_, err := repos.SessionRepository.Get(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrNoSession)

	require.NoError(t, repos.SessionRepository.Save(ctx, &models.Session{StudentID: 5, State: models.StatePaying}))
	s, err := repos.SessionRepository.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.StatePaying, s.State)

	require.NoError(t, repos.SessionRepository.Delete(ctx, 5))
	_, err = repos.SessionRepository.Get(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrNoSession)

	require.NoError(t, repos.RegistrationRepository.Append(ctx, &models.Registration{ID: "a", StudentID: 5}))
	require.NoError(t, repos.RegistrationRepository.Append(ctx, &models.Registration{ID: "b", StudentID: 6}))
	mine, err := repos.RegistrationRepository.ListByStudent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].ID)
}

func TestRegistrationRepository_AppendSkipsRecordedReceipt(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	require.NoError(t, repos.RegistrationRepository.Append(ctx, &models.Registration{ID: "a", StudentID: 5, ReceiptID: "RCP1"}))
	require.NoError(t, repos.RegistrationRepository.Append(ctx, &models.Registration{ID: "b", StudentID: 5, ReceiptID: "RCP1"}))
	require.NoError(t, repos.RegistrationRepository.Append(ctx, &models.Registration{ID: "c", StudentID: 5, ReceiptID: "RCP2"}))

	rows, err := repos.RegistrationRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, "c", rows[1].ID)
}

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	repo := newRepos(t).PreferenceRepository

	mode, err := repo.DarkMode(ctx, kvstore.DarkModeKey(1))
	require.NoError(t, err)
	assert.Equal(t, models.DarkModeDisabled, mode)

	require.NoError(t, repo.SetDarkMode(ctx, kvstore.DarkModeKey(1), models.DarkModeEnabled))
	mode, err = repo.DarkMode(ctx, kvstore.DarkModeKey(1))
	require.NoError(t, err)
	assert.Equal(t, models.DarkModeEnabled, mode)
}
