package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/db"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/dberrors"
)

const (
	courseCodeConstraint   = "courses_code_key"
	courseStatusConstraint = "courses_status_check"
)

var courseColumns = []string{
	"id", "name", "code", "units", "instructor", "time_slot", "location",
	"capacity", "enrolled", "department", "course_type", "description",
	"prerequisites", "color", "exam_date", "status",
}

// PostgresCourseRepository serves the catalog from PostgreSQL
type PostgresCourseRepository struct {
	db     *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	logger zerolog.Logger
}

// NewPostgresCourseRepository creates a new PostgresCourseRepository
func NewPostgresCourseRepository(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresCourseRepository {
	return &PostgresCourseRepository{
		db:     pool,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger: logger,
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	var status string
	err := row.Scan(
		&c.ID, &c.Name, &c.Code, &c.Units, &c.Instructor, &c.Time, &c.Location,
		&c.Capacity, &c.Enrolled, &c.Department, &c.Type, &c.Description,
		&c.Prerequisites, &c.Color, &c.ExamDate, &status,
	)
	if err != nil {
		return nil, err
	}
	c.Status = models.CourseStatus(status)
	return &c, nil
}

func (r *PostgresCourseRepository) selectCourses() squirrel.SelectBuilder {
	return r.sb.Select(courseColumns...).From("courses")
}

// List returns every course ordered by id
func (r *PostgresCourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query, args, err := r.selectCourses().OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// GetByID retrieves a course by ID
func (r *PostgresCourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query, args, err := r.selectCourses().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	c, err := scanCourse(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course %d: %w", id, err)
	}
	return c, nil
}

func (r *PostgresCourseRepository) insertQuery(c *models.Course, withID bool) squirrel.InsertBuilder {
	columns := courseColumns[1:]
	values := []interface{}{
		c.Name, c.Code, c.Units, c.Instructor, c.Time, c.Location,
		c.Capacity, c.Enrolled, c.Department, c.Type, c.Description,
		prerequisitesOrEmpty(c.Prerequisites), c.Color, c.ExamDate, string(statusOrDefault(c.Status)),
	}
	if withID {
		columns = courseColumns
		values = append([]interface{}{c.ID}, values...)
	}
	return r.sb.Insert("courses").Columns(columns...).Values(values...)
}

// Create inserts a course and fills in its id
func (r *PostgresCourseRepository) Create(ctx context.Context, course *models.Course) error {
	query, args, err := r.insertQuery(course, false).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&course.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, courseCodeConstraint) {
			return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, fmt.Sprintf("course code %s already exists", course.Code))
		}
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

// ReplaceAll truncates the table and inserts courses with their ids
func (r *PostgresCourseRepository) ReplaceAll(ctx context.Context, courses []models.Course) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "TRUNCATE courses RESTART IDENTITY"); err != nil {
			return fmt.Errorf("failed to clear courses: %w", err)
		}

		for i := range courses {
			query, args, err := r.insertQuery(&courses[i], true).ToSql()
			if err != nil {
				return fmt.Errorf("failed to build insert course query: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert course %s: %w", courses[i].Code, err)
			}
		}

		_, err := tx.Exec(ctx, "SELECT setval(pg_get_serial_sequence('courses', 'id'), COALESCE(MAX(id), 1)) FROM courses")
		return err
	})
}

// incrementEnrolledQuery only matches while a seat is left
func (r *PostgresCourseRepository) incrementEnrolledQuery(id int64) squirrel.UpdateBuilder {
	return r.sb.Update("courses").
		Set("enrolled", squirrel.Expr("enrolled + 1")).
		Where(squirrel.Eq{"id": id}).
		Where("enrolled < capacity").
		Suffix("RETURNING " + strings.Join(courseColumns, ", "))
}

// IncrementEnrolled takes one seat atomically
func (r *PostgresCourseRepository) IncrementEnrolled(ctx context.Context, id int64) (*models.Course, error) {
	query, args, err := r.incrementEnrolledQuery(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build increment enrolled query: %w", err)
	}

	c, err := scanCourse(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the course is gone or it is full
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, apperrors.ErrCourseFull
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment enrolled for course %d: %w", id, err)
	}
	return c, nil
}

// UpdateStatus sets the approval status
func (r *PostgresCourseRepository) UpdateStatus(ctx context.Context, id int64, status models.CourseStatus) error {
	query, args, err := r.sb.Update("courses").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err, courseStatusConstraint) {
			return apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("invalid course status %q", status))
		}
		return fmt.Errorf("failed to update course status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func prerequisitesOrEmpty(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}

func statusOrDefault(s models.CourseStatus) models.CourseStatus {
	if s == "" {
		return models.CourseApproved
	}
	return s
}
