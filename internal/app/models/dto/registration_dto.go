package dto

import (
	"time"

	"github.com/yigit/unireg/internal/app/models"
)

// RegistrationStatusResponse is the checkout session as seen by the client
type RegistrationStatusResponse struct {
	State       models.WizardState       `json:"state" example:"PAYING"`
	Semester    string                   `json:"semester" example:"2-1403"`
	Courses     []models.Course          `json:"courses"`
	TotalUnits  int                      `json:"totalUnits" example:"15"`
	Financial   models.Financial         `json:"financial"`
	Validation  models.ValidationOutcome `json:"validation"`
	Payment     models.PaymentOutcome    `json:"payment"`
	IsFinalized bool                     `json:"isFinalized"`
	ReceiptID   string                   `json:"receiptId,omitempty"`
	FinalizedAt *time.Time               `json:"finalizedAt,omitempty"`
}

// NewRegistrationStatusResponse maps a session
func NewRegistrationStatusResponse(s *models.Session) RegistrationStatusResponse {
	return RegistrationStatusResponse{
		State:       s.State,
		Semester:    s.Semester,
		Courses:     s.Courses,
		TotalUnits:  s.TotalUnits(),
		Financial:   s.Financial,
		Validation:  s.Validation,
		Payment:     s.Payment,
		IsFinalized: s.IsFinalized,
		ReceiptID:   s.ReceiptID,
		FinalizedAt: s.FinalizedAt,
	}
}

// IdleStatusResponse is returned when no checkout is in progress
func IdleStatusResponse() RegistrationStatusResponse {
	return RegistrationStatusResponse{State: models.StateIdle}
}
