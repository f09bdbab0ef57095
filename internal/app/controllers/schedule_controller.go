package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unireg/internal/app/services"
	"github.com/yigit/unireg/internal/middleware"
)

// ScheduleController serves the weekly grid built from the cart
type ScheduleController struct {
	scheduleService *services.ScheduleService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService *services.ScheduleService) *ScheduleController {
	return &ScheduleController{scheduleService: scheduleService}
}

// GetSchedule returns the weekly grid
// @Summary Weekly schedule
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.ScheduleGrid}
// @Router /schedule [get]
func (c *ScheduleController) GetSchedule(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	grid, err := c.scheduleService.Grid(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, grid)
}

// ExportSchedule stores the grid as CSV and returns its link
// @Summary Export schedule
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=dto.ScheduleExportResponse}
// @Router /schedule/export [post]
func (c *ScheduleController) ExportSchedule(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	export, err := c.scheduleService.Export(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, export)
}
