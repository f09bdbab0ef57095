package models

import "github.com/yigit/unireg/internal/pkg/apperrors"

// CourseStatus is the approval state of an offered course
type CourseStatus string

const (
	CourseApproved CourseStatus = "APPROVED"
	CoursePending  CourseStatus = "PENDING"
	CourseRejected CourseStatus = "REJECTED"
)

// Course is one offering in the catalog
type Course struct {
	ID            int64        `json:"id" db:"id" example:"1"`
	Name          string       `json:"name" db:"name" example:"Web Programming"`
	Code          string       `json:"code" db:"code" example:"CE201"`
	Units         int          `json:"units" db:"units" example:"3"`
	Instructor    string       `json:"instructor" db:"instructor" example:"Dr. Ahmadi"`
	Time          string       `json:"time" db:"time_slot" example:"Saturday 10-12"`
	Location      string       `json:"location" db:"location" example:"Room 101"`
	Capacity      int          `json:"capacity" db:"capacity" example:"30"`
	Enrolled      int          `json:"enrolled" db:"enrolled" example:"25"`
	Department    string       `json:"department" db:"department" example:"Computer Engineering"`
	Type          string       `json:"type,omitempty" db:"course_type" example:"core"`
	Description   string       `json:"description,omitempty" db:"description"`
	Prerequisites []string     `json:"prerequisites" db:"prerequisites"`
	Color         string       `json:"color,omitempty" db:"color" example:"#4361ee"`
	ExamDate      string       `json:"examDate,omitempty" db:"exam_date" example:"1403/01/20"`
	Status        CourseStatus `json:"status,omitempty" db:"status" example:"APPROVED"`
}

// IsFull reports whether no seat is left
func (c Course) IsFull() bool {
	return c.Enrolled >= c.Capacity
}

// RemainingSeats never goes below zero
func (c Course) RemainingSeats() int {
	if c.Enrolled >= c.Capacity {
		return 0
	}
	return c.Capacity - c.Enrolled
}

// IsOffered reports whether the course may be selected.
// Records without a status predate approval and count as approved.
func (c Course) IsOffered() bool {
	return c.Status == "" || c.Status == CourseApproved
}

// Slot parses the time descriptor
func (c Course) Slot() (TimeSlot, error) {
	return ParseTimeSlot(c.Time)
}

// Ref is the short form used in error payloads
func (c Course) Ref() apperrors.CourseRef {
	return apperrors.CourseRef{
		ID:   c.ID,
		Code: c.Code,
		Name: c.Name,
		Time: c.Time,
	}
}

// Validate checks the fields the engine relies on
func (c Course) Validate() error {
	if c.Units <= 0 {
		return apperrors.NewCustomError(apperrors.ErrInvalidCourse, "units must be positive")
	}
	if _, err := c.Slot(); err != nil {
		return apperrors.NewCustomError(apperrors.ErrInvalidCourse, err.Error())
	}
	return nil
}

// CourseFilter narrows a catalog listing. Zero values match everything.
type CourseFilter struct {
	Search     string
	Department string
	Day        Weekday
	Instructor string
	Units      int
	Type       string
}
