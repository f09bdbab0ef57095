package dto

import "github.com/yigit/unireg/internal/app/models"

// CourseListQuery holds the catalog filters taken from the query string
type CourseListQuery struct {
	Search     string `form:"search"`
	Department string `form:"department"`
	Day        string `form:"day"`
	Instructor string `form:"instructor"`
	Units      int    `form:"units" binding:"omitempty,min=1,max=6"`
	Type       string `form:"type"`
}

// CourseResponse is a catalog course plus its seat state
type CourseResponse struct {
	models.Course
	RemainingSeats int  `json:"remainingSeats" example:"5"`
	IsFull         bool `json:"isFull" example:"false"`
}

// NewCourseResponse builds a CourseResponse
func NewCourseResponse(c models.Course) CourseResponse {
	return CourseResponse{
		Course:         c,
		RemainingSeats: c.RemainingSeats(),
		IsFull:         c.IsFull(),
	}
}

// CourseListResponse is one page of the catalog
type CourseListResponse struct {
	Courses    []CourseResponse `json:"courses"`
	Pagination PaginationInfo   `json:"pagination"`
}

// CatalogOptionsResponse lists the values the filters accept
type CatalogOptionsResponse struct {
	Departments []string         `json:"departments"`
	Instructors []string         `json:"instructors"`
	Days        []models.Weekday `json:"days"`
	Types       []string         `json:"types"`
}

// CourseStatisticsResponse describes how full a course is
type CourseStatisticsResponse struct {
	Course             models.Course `json:"course"`
	TotalRegistrations int           `json:"totalRegistrations"`
	Capacity           int           `json:"capacity"`
	Enrolled           int           `json:"enrolled"`
	Remaining          int           `json:"remaining"`
	FillPercentage     float64       `json:"fillPercentage"`
}

// RegistrationStatisticsResponse summarizes a semester
type RegistrationStatisticsResponse struct {
	Semester           string  `json:"semester"`
	TotalRegistrations int     `json:"totalRegistrations"`
	TotalUnits         int     `json:"totalUnits"`
	AverageUnits       float64 `json:"averageUnits"`
}

// CreateCourseRequest adds a course to the catalog
type CreateCourseRequest struct {
	Name          string   `json:"name" binding:"required"`
	Code          string   `json:"code" binding:"required"`
	Units         int      `json:"units" binding:"required,min=1,max=6"`
	Instructor    string   `json:"instructor" binding:"required"`
	Time          string   `json:"time" binding:"required,timeslot"`
	Location      string   `json:"location"`
	Capacity      int      `json:"capacity" binding:"required,min=1"`
	Department    string   `json:"department" binding:"required"`
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	Prerequisites []string `json:"prerequisites"`
	Color         string   `json:"color"`
	ExamDate      string   `json:"examDate"`
}

// ToModel converts the request into a pending course
func (r CreateCourseRequest) ToModel() models.Course {
	return models.Course{
		Name:          r.Name,
		Code:          r.Code,
		Units:         r.Units,
		Instructor:    r.Instructor,
		Time:          r.Time,
		Location:      r.Location,
		Capacity:      r.Capacity,
		Department:    r.Department,
		Type:          r.Type,
		Description:   r.Description,
		Prerequisites: r.Prerequisites,
		Color:         r.Color,
		ExamDate:      r.ExamDate,
		Status:        models.CoursePending,
	}
}

// UpdateCourseStatusRequest approves or rejects a course
type UpdateCourseStatusRequest struct {
	Status models.CourseStatus `json:"status" binding:"required,oneof=APPROVED PENDING REJECTED"`
}
