package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/kvstore"
	"github.com/yigit/unireg/internal/pkg/logger"
)

func newCatalog() (*CatalogService, *repositories.Repositories) {
	repos := repositories.NewRepositories(kvstore.NewMemoryStore(), nil)
	return NewCatalogService(repos.CourseRepository, repos.DepartmentRepository, repos.RegistrationRepository, logger.Nop()), repos
}

func TestCatalogService_LoadFallbackSkipsInvalid(t *testing.T) {
	svc, _ := newCatalog()
	ctx := context.Background()

	courses := append(testCourses(),
		models.Course{ID: 20, Name: "Broken Time", Units: 3, Time: "sometime"},
		models.Course{ID: 21, Name: "No Units", Units: 0, Time: "Sunday 8-10"},
	)
	n, err := svc.Load(ctx, filepath.Join(t.TempDir(), "missing.json"), courses)
	require.NoError(t, err)
	assert.Equal(t, len(testCourses()), n)

	_, err = svc.Get(ctx, 20)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	web, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.CourseApproved, web.Status, "missing status defaults to approved")
}

func TestCatalogService_LoadPrefersStoredThenFile(t *testing.T) {
	svc, _ := newCatalog()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "courses.json")
	raw, err := json.Marshal([]models.Course{
		{Name: "From File", Code: "FF100", Units: 2, Time: "Monday 8-10", Capacity: 5},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	n, err := svc.Load(ctx, path, testCourses())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "From File", c.Name, "ids are assigned to file records without one")

	n, err = svc.Load(ctx, "", testCourses())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a stored catalog is never replaced")
}

func TestCatalogService_List(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		filter models.CourseFilter
		want   []int64
	}{
		{"everything", models.CourseFilter{}, []int64{1, 2, 3, 4, 5, 6}},
		{"search name", models.CourseFilter{Search: "data"}, []int64{2}},
		{"search instructor", models.CourseFilter{Search: "ahmadi"}, []int64{1, 4, 9}},
		{"department", models.CourseFilter{Department: "Mathematics"}, []int64{6}},
		{"day", models.CourseFilter{Day: models.Saturday}, []int64{1, 2}},
		{"units", models.CourseFilter{Units: 6}, []int64{9}},
		{"type", models.CourseFilter{Type: "elective"}, []int64{4}},
		{"combined", models.CourseFilter{Instructor: "Dr. Karimi", Day: models.Tuesday}, []int64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.catalog.List(f.ctx, tt.filter, 1, 6)
			require.NoError(t, err)

			got := make([]int64, 0, len(resp.Courses))
			for _, c := range resp.Courses {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogService_ListPagination(t *testing.T) {
	f := newFixture(t)

	resp, err := f.catalog.List(f.ctx, models.CourseFilter{}, 2, 6)
	require.NoError(t, err)
	require.Len(t, resp.Courses, 3)
	assert.Equal(t, int64(7), resp.Courses[0].ID)
	assert.True(t, resp.Courses[0].IsFull)
	assert.Equal(t, 0, resp.Courses[0].RemainingSeats)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.Equal(t, int64(9), resp.Pagination.TotalItems)

	resp, err = f.catalog.List(f.ctx, models.CourseFilter{}, 5, 6)
	require.NoError(t, err)
	assert.Empty(t, resp.Courses)
}

func TestCatalogService_Options(t *testing.T) {
	f := newFixture(t)

	opts, err := f.catalog.Options(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Computer Engineering", "Mathematics"}, opts.Departments)
	assert.Equal(t, []string{"Dr. Ahmadi", "Dr. Hosseini", "Dr. Karimi", "Dr. Rahimi"}, opts.Instructors)
	assert.Equal(t, []string{"core", "elective"}, opts.Types)
	assert.Len(t, opts.Days, 5)
}

func TestCatalogService_CreateAndApprove(t *testing.T) {
	f := newFixture(t)

	bad := &models.Course{Name: "Bad", Code: "BAD1", Units: 3, Time: "whenever", Capacity: 10}
	assert.ErrorIs(t, f.catalog.Create(f.ctx, bad), apperrors.ErrInvalidCourse)

	c := &models.Course{Name: "Cloud Computing", Code: "CE410", Units: 3, Time: "Sunday 14-16", Capacity: 25}
	require.NoError(t, f.catalog.Create(f.ctx, c))
	assert.Equal(t, int64(10), c.ID)
	assert.Equal(t, models.CoursePending, c.Status)

	_, err := f.cart.Add(f.ctx, studentID, c.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotOffered)

	require.NoError(t, f.catalog.UpdateStatus(f.ctx, c.ID, models.CourseApproved))
	_, err = f.cart.Add(f.ctx, studentID, c.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.catalog.UpdateStatus(f.ctx, c.ID, "ARCHIVED"), apperrors.ErrBadRequest)
	assert.ErrorIs(t, f.catalog.Create(f.ctx, &models.Course{Name: "Dup", Code: "CE410", Units: 3, Time: "Sunday 8-10", Capacity: 1}), apperrors.ErrResourceAlreadyExists)
}

func TestCatalogService_Statistics(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx

	require.NoError(t, f.repos.RegistrationRepository.Append(ctx, &models.Registration{ID: "r1", Semester: "2-1403", Courses: testCourses()[:2], TotalUnits: 12}))
	require.NoError(t, f.repos.RegistrationRepository.Append(ctx, &models.Registration{ID: "r2", Semester: "1-1403", Courses: testCourses()[:1], TotalUnits: 16}))

	stats, err := f.catalog.CourseStatistics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRegistrations)
	assert.Equal(t, 5, stats.Remaining)
	assert.InDelta(t, 83.33, stats.FillPercentage, 0.01)

	sem, err := f.catalog.RegistrationStatistics(ctx, "2-1403")
	require.NoError(t, err)
	assert.Equal(t, 1, sem.TotalRegistrations)
	assert.Equal(t, 12, sem.TotalUnits)

	all, err := f.catalog.RegistrationStatistics(ctx, "")
	require.NoError(t, err)
	assert.InDelta(t, 14.0, all.AverageUnits, 1e-9)
}

func TestCatalogService_IncrementEnrolledStopsAtCapacity(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.IncrementEnrolled(f.ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrCourseFull)

	c, err := f.catalog.IncrementEnrolled(f.ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 11, c.Enrolled)
}

func TestCatalogService_SeedDepartments(t *testing.T) {
	svc, _ := newCatalog()
	ctx := context.Background()

	require.NoError(t, svc.SeedDepartments(ctx, []models.Department{{ID: 1, Name: "Computer Engineering", Code: "CE"}}))
	require.NoError(t, svc.SeedDepartments(ctx, []models.Department{{ID: 9, Name: "Ignored", Code: "XX"}}))

	deps, err := svc.Departments(ctx)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "CE", deps[0].Code)
}
