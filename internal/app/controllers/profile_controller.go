package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/services"
	"github.com/yigit/unireg/internal/middleware"
)

// ProfileController serves preferences and the transcript
type ProfileController struct {
	preferenceService *services.PreferenceService
	transcriptService *services.TranscriptService
}

// NewProfileController creates a new ProfileController
func NewProfileController(preferenceService *services.PreferenceService, transcriptService *services.TranscriptService) *ProfileController {
	return &ProfileController{
		preferenceService: preferenceService,
		transcriptService: transcriptService,
	}
}

// GetPreferences returns the stored preferences
// @Summary Get preferences
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PreferencesResponse}
// @Router /profile/preferences [get]
func (c *ProfileController) GetPreferences(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	mode, err := c.preferenceService.DarkMode(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.PreferencesResponse{DarkMode: mode})
}

// SetDarkMode stores the theme
// @Summary Set dark mode
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DarkModeRequest true "Mode"
// @Success 200 {object} dto.APIResponse{data=dto.PreferencesResponse}
// @Router /profile/preferences/dark-mode [put]
func (c *ProfileController) SetDarkMode(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	req, ok := middleware.BindJSON[dto.DarkModeRequest](ctx)
	if !ok {
		return
	}

	if err := c.preferenceService.SetDarkMode(ctx, studentID, req.Mode); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.PreferencesResponse{DarkMode: req.Mode})
}

// ToggleDarkMode flips the theme
// @Summary Toggle dark mode
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PreferencesResponse}
// @Router /profile/preferences/dark-mode/toggle [post]
func (c *ProfileController) ToggleDarkMode(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	mode, err := c.preferenceService.ToggleDarkMode(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.PreferencesResponse{DarkMode: mode})
}

// GetTranscript returns the graded courses
// @Summary Get transcript
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Transcript}
// @Router /profile/transcript [get]
func (c *ProfileController) GetTranscript(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	transcript, err := c.transcriptService.Get(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, transcript)
}

// AddGrade records a graded course
// @Summary Add transcript grade
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddGradeRequest true "Grade"
// @Success 201 {object} dto.APIResponse{data=models.Transcript}
// @Router /profile/transcript [post]
func (c *ProfileController) AddGrade(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	req, ok := middleware.BindJSON[dto.AddGradeRequest](ctx)
	if !ok {
		return
	}

	transcript, err := c.transcriptService.AddGrade(ctx, studentID, *req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, transcript)
}
