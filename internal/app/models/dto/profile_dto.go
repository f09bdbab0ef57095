package dto

import "github.com/yigit/unireg/internal/app/models"

// DarkModeRequest sets the theme preference
type DarkModeRequest struct {
	Mode models.DarkMode `json:"mode" binding:"required,oneof=enabled disabled" example:"enabled"`
}

// PreferencesResponse holds the stored preferences
type PreferencesResponse struct {
	DarkMode models.DarkMode `json:"darkMode" example:"disabled"`
}

// AddGradeRequest records a graded course in the transcript
type AddGradeRequest struct {
	CourseCode string  `json:"courseCode" binding:"required"`
	CourseName string  `json:"courseName" binding:"required"`
	Units      int     `json:"units" binding:"required,min=1,max=6"`
	Grade      float64 `json:"grade" binding:"min=0,max=20"`
	Semester   string  `json:"semester"`
}
