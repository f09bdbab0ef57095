package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/services"
	"github.com/yigit/unireg/internal/middleware"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/helpers"
)

// CatalogController handles course catalog operations
type CatalogController struct {
	catalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// ListCourses returns a filtered page of the catalog
// @Summary List courses
// @Description Lists catalog courses with optional search and filters
// @Tags courses
// @Produce json
// @Param search query string false "Substring of name, code, instructor or department"
// @Param department query string false "Department"
// @Param day query string false "Weekday, English or Persian"
// @Param instructor query string false "Instructor"
// @Param units query int false "Units"
// @Param type query string false "Course type"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	query, ok := middleware.BindQuery[dto.CourseListQuery](ctx)
	if !ok {
		return
	}

	filter := models.CourseFilter{
		Search:     query.Search,
		Department: query.Department,
		Instructor: query.Instructor,
		Units:      query.Units,
		Type:       query.Type,
	}
	if query.Day != "" {
		day, known := models.ParseWeekday(query.Day)
		if !known {
			middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrBadRequest, "Unknown day: "+query.Day))
			return
		}
		filter.Day = day
	}

	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.catalogService.List(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result)
}

// GetCourse returns a single course
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CatalogController) GetCourse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	course, err := c.catalogService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.NewCourseResponse(*course))
}

// GetOptions lists the values accepted by the catalog filters
// @Summary Catalog filter options
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CatalogOptionsResponse}
// @Router /courses/options [get]
func (c *CatalogController) GetOptions(ctx *gin.Context) {
	options, err := c.catalogService.Options(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, options)
}

// ListDepartments lists the departments
// @Summary List departments
// @Tags departments
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Department}
// @Router /departments [get]
func (c *CatalogController) ListDepartments(ctx *gin.Context) {
	departments, err := c.catalogService.Departments(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, departments)
}

// CreateCourse offers a new course, pending approval
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse "Invalid course"
// @Failure 409 {object} dto.ErrorResponse "Course code exists"
// @Router /courses [post]
func (c *CatalogController) CreateCourse(ctx *gin.Context) {
	req, ok := middleware.BindJSON[dto.CreateCourseRequest](ctx)
	if !ok {
		return
	}

	course := req.ToModel()
	if err := c.catalogService.Create(ctx, &course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, course)
}

// UpdateCourseStatus approves or rejects a course
// @Summary Update course status
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseStatusRequest true "Status"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/status [patch]
func (c *CatalogController) UpdateCourseStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	req, ok := middleware.BindJSON[dto.UpdateCourseStatusRequest](ctx)
	if !ok {
		return
	}

	if err := c.catalogService.UpdateStatus(ctx, id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.catalogService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.NewCourseResponse(*course))
}

// GetCourseStatistics reports how full a course is
// @Summary Course statistics
// @Tags statistics
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseStatisticsResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/statistics [get]
func (c *CatalogController) GetCourseStatistics(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	stats, err := c.catalogService.CourseStatistics(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, stats)
}

// GetRegistrationStatistics summarizes finalized registrations
// @Summary Registration statistics
// @Tags statistics
// @Produce json
// @Param semester query string false "Semester, all when empty"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationStatisticsResponse}
// @Router /statistics/registrations [get]
func (c *CatalogController) GetRegistrationStatistics(ctx *gin.Context) {
	stats, err := c.catalogService.RegistrationStatistics(ctx, ctx.Query("semester"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, stats)
}
