package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/services"
	"github.com/yigit/unireg/internal/middleware"
)

// RegistrationController drives the checkout wizard
type RegistrationController struct {
	registrationService *services.RegistrationService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService *services.RegistrationService) *RegistrationController {
	return &RegistrationController{registrationService: registrationService}
}

type wizardStep func(ctx context.Context, studentID int64) (*models.Session, error)

// step runs one wizard transition and answers with the resulting session
func (c *RegistrationController) step(ctx *gin.Context, status int, fn wizardStep) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	session, err := fn(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, status, dto.NewRegistrationStatusResponse(session))
}

// Start opens a checkout for the current cart
// @Summary Start registration
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationStatusResponse}
// @Failure 400 {object} dto.ErrorResponse "Cart is empty"
// @Failure 409 {object} dto.ErrorResponse "Registration already in progress"
// @Router /registration/start [post]
func (c *RegistrationController) Start(ctx *gin.Context) {
	c.step(ctx, http.StatusCreated, c.registrationService.Start)
}

// Validate checks units, conflicts and prerequisites
// @Summary Validate registration
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationStatusResponse}
// @Failure 409 {object} dto.ErrorResponse "Wrong step"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /registration/validate [post]
func (c *RegistrationController) Validate(ctx *gin.Context) {
	c.step(ctx, http.StatusOK, c.registrationService.Validate)
}

// Pay charges the tuition
// @Summary Pay tuition
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationStatusResponse}
// @Failure 402 {object} dto.ErrorResponse "Payment failed"
// @Failure 409 {object} dto.ErrorResponse "Wrong step"
// @Router /registration/pay [post]
func (c *RegistrationController) Pay(ctx *gin.Context) {
	c.step(ctx, http.StatusOK, c.registrationService.Pay)
}

// Finalize commits the registration with the registrar
// @Summary Finalize registration
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationStatusResponse}
// @Failure 409 {object} dto.ErrorResponse "Wrong step"
// @Failure 502 {object} dto.ErrorResponse "Registrar unavailable"
// @Router /registration/finalize [post]
func (c *RegistrationController) Finalize(ctx *gin.Context) {
	c.step(ctx, http.StatusOK, c.registrationService.Finalize)
}

// Status returns the checkout, IDLE when none is open
// @Summary Registration status
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationStatusResponse}
// @Router /registration [get]
func (c *RegistrationController) Status(ctx *gin.Context) {
	c.step(ctx, http.StatusOK, c.registrationService.Status)
}

// Abandon discards the checkout, the cart is kept
// @Summary Abandon registration
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationStatusResponse}
// @Router /registration [delete]
func (c *RegistrationController) Abandon(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	if err := c.registrationService.Abandon(ctx, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.IdleStatusResponse())
}

// History lists finalized registrations
// @Summary Registration history
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Registration}
// @Router /registration/history [get]
func (c *RegistrationController) History(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	history, err := c.registrationService.History(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if history == nil {
		history = []models.Registration{}
	}

	respond(ctx, http.StatusOK, history)
}
