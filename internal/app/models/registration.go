package models

import "time"

// WizardState is a step of the checkout workflow
type WizardState string

const (
	StateIdle       WizardState = "IDLE"
	StateValidating WizardState = "VALIDATING"
	StatePaying     WizardState = "PAYING"
	StateFinalizing WizardState = "FINALIZING"
	StateComplete   WizardState = "COMPLETE"
)

// Financial is the tuition breakdown of a checkout
type Financial struct {
	BaseTuition int64  `json:"baseTuition"`
	UnitPrice   int64  `json:"unitPrice"`
	Units       int    `json:"units"`
	Total       int64  `json:"total"`
	Currency    string `json:"currency"`
}

// ValidationOutcome records the last validation pass
type ValidationOutcome struct {
	IsValid                bool      `json:"isValid"`
	HasConflicts           bool      `json:"hasConflicts"`
	HasPrerequisitesIssues bool      `json:"hasPrerequisitesIssues"`
	Reason                 string    `json:"reason,omitempty"`
	Details                []string  `json:"details,omitempty"`
	CheckedAt              time.Time `json:"checkedAt"`
}

// PaymentOutcome records a successful payment
type PaymentOutcome struct {
	IsPaid        bool       `json:"isPaid"`
	TransactionID string     `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// Session is one student's checkout attempt. Courses is a snapshot taken
// when validation runs; later cart changes do not reach it.
type Session struct {
	StudentID   int64             `json:"studentId"`
	Semester    string            `json:"semester"`
	State       WizardState       `json:"state"`
	Courses     []Course          `json:"courses"`
	Financial   Financial         `json:"financial"`
	Validation  ValidationOutcome `json:"validation"`
	Payment     PaymentOutcome    `json:"payment"`
	IsFinalized bool              `json:"isFinalized"`
	ReceiptID   string            `json:"receiptId,omitempty"`
	FinalizedAt *time.Time        `json:"finalizedAt,omitempty"`
	StartedAt   time.Time         `json:"startedAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TotalUnits sums the snapshot
func (s Session) TotalUnits() int {
	total := 0
	for _, c := range s.Courses {
		total += c.Units
	}
	return total
}

// RegistrationStatus is the state of a ledger row
type RegistrationStatus string

const RegistrationRegistered RegistrationStatus = "registered"

// Registration is the ledger row written when a checkout is finalized
type Registration struct {
	ID            string             `json:"id"`
	StudentID     int64              `json:"studentId"`
	Semester      string             `json:"semester"`
	Courses       []Course           `json:"courses"`
	TotalUnits    int                `json:"totalUnits"`
	Tuition       int64              `json:"tuition"`
	PaymentStatus string             `json:"paymentStatus"`
	TransactionID string             `json:"transactionId"`
	ReceiptID     string             `json:"receiptId"`
	CreatedAt     time.Time          `json:"createdAt"`
	Status        RegistrationStatus `json:"status"`
}

// HasCourse reports whether the registration includes the course
func (r Registration) HasCourse(courseID int64) bool {
	for _, c := range r.Courses {
		if c.ID == courseID {
			return true
		}
	}
	return false
}
