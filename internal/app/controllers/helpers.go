package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/middleware"
	"github.com/yigit/unireg/internal/pkg/apperrors"
)

// parseID reads a positive int64 path parameter, answering 400 otherwise
func parseID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrBadRequest, "Invalid "+name))
		return 0, false
	}
	return id, true
}

// currentStudent is the id JWTAuth stored, answering 401 when missing
func currentStudent(ctx *gin.Context) (int64, bool) {
	id, ok := middleware.StudentID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrNotLoggedIn)
	}
	return id, ok
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	})
}
