package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/services"
	"github.com/yigit/unireg/internal/middleware"
)

// CartController handles the selection cart
type CartController struct {
	cartService *services.CartService
}

// NewCartController creates a new CartController
func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart returns the cart and its summary
// @Summary Get cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse}
// @Router /cart [get]
func (c *CartController) GetCart(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	c.writeSummary(ctx, studentID, http.StatusOK)
}

// AddCourse selects a course
// @Summary Add course to cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddToCartRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=dto.CartResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate, full or time conflict"
// @Failure 422 {object} dto.ErrorResponse "Unit limit exceeded"
// @Router /cart/items [post]
func (c *CartController) AddCourse(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	req, ok := middleware.BindJSON[dto.AddToCartRequest](ctx)
	if !ok {
		return
	}

	if _, err := c.cartService.Add(ctx, studentID, req.CourseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.writeSummary(ctx, studentID, http.StatusCreated)
}

// RemoveCourse drops a course from the cart
// @Summary Remove course from cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse}
// @Router /cart/items/{courseId} [delete]
func (c *CartController) RemoveCourse(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	courseID, ok := parseID(ctx, "courseId")
	if !ok {
		return
	}

	if _, err := c.cartService.Remove(ctx, studentID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.writeSummary(ctx, studentID, http.StatusOK)
}

// ResolveConflict replaces a selected course with the one it conflicts with
// @Summary Resolve time conflict
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResolveConflictRequest true "Swap"
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse}
// @Failure 409 {object} dto.ErrorResponse "Swap still conflicts"
// @Router /cart/resolve [post]
func (c *CartController) ResolveConflict(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	req, ok := middleware.BindJSON[dto.ResolveConflictRequest](ctx)
	if !ok {
		return
	}

	if _, err := c.cartService.ResolveConflict(ctx, studentID, req.ExistingID, req.IncomingID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.writeSummary(ctx, studentID, http.StatusOK)
}

// ClearCart empties the cart
// @Summary Clear cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse}
// @Failure 400 {object} dto.ErrorResponse "Cart already empty"
// @Router /cart [delete]
func (c *CartController) ClearCart(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	if err := c.cartService.Clear(ctx, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.writeSummary(ctx, studentID, http.StatusOK)
}

func (c *CartController) writeSummary(ctx *gin.Context, studentID int64, status int) {
	summary, err := c.cartService.Summary(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, status, summary)
}
