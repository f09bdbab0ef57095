package dto

import "github.com/yigit/unireg/internal/app/models"

// AddToCartRequest selects a course
type AddToCartRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1" example:"3"`
}

// ResolveConflictRequest swaps a selected course for a conflicting one
type ResolveConflictRequest struct {
	ExistingID int64 `json:"existingId" binding:"required,min=1" example:"1"`
	IncomingID int64 `json:"incomingId" binding:"required,min=1" example:"6"`
}

// CartSummary is the derived state shown next to the cart
type CartSummary struct {
	Count          int     `json:"count" example:"4"`
	TotalUnits     int     `json:"totalUnits" example:"12"`
	MaxUnits       int     `json:"maxUnits" example:"20"`
	RemainingUnits int     `json:"remainingUnits" example:"8"`
	Progress       float64 `json:"progress" example:"60"`
}

// CartResponse is the cart with its summary
type CartResponse struct {
	Items   []models.Course `json:"items"`
	Summary CartSummary     `json:"summary"`
}
