package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/services"
	"github.com/yigit/unireg/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login handles student login
// @Summary Login student
// @Description Authenticates a student by student number and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	req, ok := middleware.BindJSON[dto.LoginRequest](ctx)
	if !ok {
		return
	}

	response, err := c.authService.Login(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, response)
}

// Register handles student registration
// @Summary Register student
// @Description Creates a student account and signs it in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Student details"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Student number already exists"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	req, ok := middleware.BindJSON[dto.RegisterRequest](ctx)
	if !ok {
		return
	}

	response, err := c.authService.Register(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, response)
}

// GetProfile returns the authenticated student
// @Summary Get profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	student, err := c.authService.Profile(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student)
}
