package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/helpers"
)

// CatalogService serves the course catalog
type CatalogService struct {
	courseRepo       repositories.CourseRepository
	departmentRepo   *repositories.DepartmentRepository
	registrationRepo *repositories.RegistrationRepository
	logger           zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	courseRepo repositories.CourseRepository,
	departmentRepo *repositories.DepartmentRepository,
	registrationRepo *repositories.RegistrationRepository,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		courseRepo:       courseRepo,
		departmentRepo:   departmentRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

// Load fills an empty catalog. The stored table wins; otherwise dataFile is
// read, and when it is missing or yields nothing usable the fallback set is used.
// Courses failing Validate are skipped.
func (s *CatalogService) Load(ctx context.Context, dataFile string, fallback []models.Course) (int, error) {
	existing, err := s.courseRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read stored catalog: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info().Int("courses", len(existing)).Msg("Using stored catalog")
		return len(existing), nil
	}

	var courses []models.Course
	if dataFile != "" {
		fromFile, err := readCatalogFile(dataFile)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", dataFile).Msg("Catalog file unavailable, using sample courses")
		} else {
			courses = s.usable(fromFile)
		}
	}
	if len(courses) == 0 {
		courses = s.usable(fallback)
	}

	if err := s.courseRepo.ReplaceAll(ctx, courses); err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}
	s.logger.Info().Int("courses", len(courses)).Msg("Catalog loaded")
	return len(courses), nil
}

func readCatalogFile(path string) ([]models.Course, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var courses []models.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return courses, nil
}

// usable drops invalid records and duplicate ids, assigning ids where missing
func (s *CatalogService) usable(in []models.Course) []models.Course {
	out := make([]models.Course, 0, len(in))
	seen := make(map[int64]bool, len(in))
	var maxID int64
	for _, c := range in {
		if c.ID > maxID {
			maxID = c.ID
		}
	}

	for _, c := range in {
		if err := c.Validate(); err != nil {
			s.logger.Warn().Err(err).Int64("courseID", c.ID).Str("code", c.Code).Msg("Skipping invalid course")
			continue
		}
		if c.ID == 0 {
			maxID++
			c.ID = maxID
		}
		if seen[c.ID] {
			s.logger.Warn().Int64("courseID", c.ID).Msg("Skipping duplicate course id")
			continue
		}
		seen[c.ID] = true
		if c.Prerequisites == nil {
			c.Prerequisites = []string{}
		}
		if c.Status == "" {
			c.Status = models.CourseApproved
		}
		out = append(out, c)
	}
	return out
}

// SeedDepartments stores departments when the table is empty
func (s *CatalogService) SeedDepartments(ctx context.Context, departments []models.Department) error {
	existing, err := s.departmentRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return s.departmentRepo.ReplaceAll(ctx, departments)
}

// Departments lists the departments table
func (s *CatalogService) Departments(ctx context.Context) ([]models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// All returns the whole catalog in id order
func (s *CatalogService) All(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

// List returns one page of the courses matching filter
func (s *CatalogService) List(ctx context.Context, filter models.CourseFilter, page, size int) (*dto.CourseListResponse, error) {
	courses, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if matchesFilter(c, filter) {
			matched = append(matched, c)
		}
	}

	page, size = helpers.NormalizePage(page, size)
	start, end := helpers.CalculateSliceIndices(page, size, len(matched))

	resp := &dto.CourseListResponse{
		Courses:    make([]dto.CourseResponse, 0, end-start),
		Pagination: helpers.NewPaginationInfo(int64(len(matched)), page, size),
	}
	for _, c := range matched[start:end] {
		resp.Courses = append(resp.Courses, dto.NewCourseResponse(c))
	}
	return resp, nil
}

func matchesFilter(c models.Course, f models.CourseFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hit := false
		for _, field := range []string{c.Name, c.Code, c.Instructor, c.Department} {
			if strings.Contains(strings.ToLower(field), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Department != "" && !strings.EqualFold(c.Department, f.Department) {
		return false
	}
	if f.Instructor != "" && !strings.EqualFold(c.Instructor, f.Instructor) {
		return false
	}
	if f.Units > 0 && c.Units != f.Units {
		return false
	}
	if f.Type != "" && !strings.EqualFold(c.Type, f.Type) {
		return false
	}
	if f.Day != "" {
		slot, err := c.Slot()
		if err != nil || slot.Day != f.Day {
			return false
		}
	}
	return true
}

// Get retrieves a course by id
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// Options lists the distinct values of each filter
func (s *CatalogService) Options(ctx context.Context) (*dto.CatalogOptionsResponse, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	departments := map[string]bool{}
	instructors := map[string]bool{}
	types := map[string]bool{}
	for _, c := range courses {
		departments[c.Department] = true
		instructors[c.Instructor] = true
		types[c.Type] = true
	}

	return &dto.CatalogOptionsResponse{
		Departments: sortedKeys(departments),
		Instructors: sortedKeys(instructors),
		Days:        append([]models.Weekday(nil), models.Weekdays...),
		Types:       sortedKeys(types),
	}, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Create adds a course after validating it
func (s *CatalogService) Create(ctx context.Context, course *models.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	if course.Capacity <= 0 {
		return apperrors.NewCustomError(apperrors.ErrInvalidCourse, "capacity must be positive")
	}
	if course.Prerequisites == nil {
		course.Prerequisites = []string{}
	}
	if course.Status == "" {
		course.Status = models.CoursePending
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", course.ID).Str("code", course.Code).Str("status", string(course.Status)).Msg("Course created")
	return nil
}

// UpdateStatus approves or rejects a course
func (s *CatalogService) UpdateStatus(ctx context.Context, id int64, status models.CourseStatus) error {
	switch status {
	case models.CourseApproved, models.CoursePending, models.CourseRejected:
	default:
		return apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("invalid course status %q", status))
	}
	if err := s.courseRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", id).Str("status", string(status)).Msg("Course status updated")
	return nil
}

// IncrementEnrolled takes one seat
func (s *CatalogService) IncrementEnrolled(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.IncrementEnrolled(ctx, id)
}

// CourseStatistics reports capacity usage and how often a course was registered
func (s *CatalogService) CourseStatistics(ctx context.Context, id int64) (*dto.CourseStatisticsResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	registrations, err := s.registrationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, r := range registrations {
		if r.HasCourse(id) {
			count++
		}
	}

	return &dto.CourseStatisticsResponse{
		Course:             *course,
		TotalRegistrations: count,
		Capacity:           course.Capacity,
		Enrolled:           course.Enrolled,
		Remaining:          course.RemainingSeats(),
		FillPercentage:     helpers.Percent(course.Enrolled, course.Capacity),
	}, nil
}

// RegistrationStatistics summarizes the ledger, all semesters when semester is empty
func (s *CatalogService) RegistrationStatistics(ctx context.Context, semester string) (*dto.RegistrationStatisticsResponse, error) {
	registrations, err := s.registrationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.RegistrationStatisticsResponse{Semester: semester}
	for _, r := range registrations {
		if semester != "" && r.Semester != semester {
			continue
		}
		stats.TotalRegistrations++
		stats.TotalUnits += r.TotalUnits
	}
	if stats.TotalRegistrations > 0 {
		stats.AverageUnits = float64(stats.TotalUnits) / float64(stats.TotalRegistrations)
	}
	return stats, nil
}

