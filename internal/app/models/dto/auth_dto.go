package dto

import "github.com/yigit/unireg/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	StudentNumber string `json:"studentNumber" binding:"required" example:"401234567"`
	Password      string `json:"password" binding:"required,min=6" example:"123456"`
}

// RegisterRequest creates a student account
type RegisterRequest struct {
	StudentNumber   string `json:"studentNumber" binding:"required,numeric" example:"401234568"`
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Major           string `json:"major"`
	EntryYear       string `json:"entryYear"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse  `json:"token"`
	Student models.Student `json:"student"`
}
