package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/email"
)

// RegistrationConfig holds the checkout rules
type RegistrationConfig struct {
	MinUnits    int
	MaxUnits    int
	BaseTuition int64
	UnitPrice   int64
	Currency    string
	Semester    string
}

// DefaultRegistrationConfig mirrors the configuration defaults
func DefaultRegistrationConfig() RegistrationConfig {
	return RegistrationConfig{
		MinUnits:    12,
		MaxUnits:    DefaultMaxUnits,
		BaseTuition: 2500000,
		UnitPrice:   200000,
		Currency:    "IRR",
		Semester:    "2-1403",
	}
}

// PassedCourseSource yields the course names a student already passed
type PassedCourseSource interface {
	PassedCourses(ctx context.Context, studentID int64) (map[string]struct{}, error)
}

// Enroller takes a seat in a course
type Enroller interface {
	IncrementEnrolled(ctx context.Context, id int64) (*models.Course, error)
}

// RegistrationDeps are the collaborators of the wizard
type RegistrationDeps struct {
	Sessions      *repositories.SessionRepository
	Registrations *repositories.RegistrationRepository
	Students      *repositories.StudentRepository
	Cart          *CartService
	Transcripts   PassedCourseSource
	Enroller      Enroller
	Payment       PaymentGateway
	Registrar     RegistrarGateway
	Mailer        email.EmailService
}

// RegistrationService drives the checkout: VALIDATING -> PAYING -> FINALIZING -> COMPLETE
type RegistrationService struct {
	deps   RegistrationDeps
	config RegistrationConfig
	logger zerolog.Logger
	now    func() time.Time

	// One lock per student, held across gateway calls
	locks sync.Map
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(deps RegistrationDeps, config RegistrationConfig, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		deps:   deps,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RegistrationService) lock(studentID int64) func() {
	m, _ := s.locks.LoadOrStore(studentID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Start opens a checkout for a non-empty cart. A completed checkout is replaced;
// one still in progress must be abandoned first.
func (s *RegistrationService) Start(ctx context.Context, studentID int64) (*models.Session, error) {
	defer s.lock(studentID)()

	current, err := s.deps.Sessions.Get(ctx, studentID)
	switch {
	case err == nil && current.State != models.StateComplete:
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("registration already in progress (%s)", current.State))
	case err != nil && !errors.Is(err, apperrors.ErrNoSession):
		return nil, err
	}

	items, err := s.deps.Cart.Items(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	now := s.now()
	session := &models.Session{
		StudentID: studentID,
		Semester:  s.config.Semester,
		State:     models.StateValidating,
		Courses:   items,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Int("courses", len(items)).Msg("Registration started")
	return session, nil
}

// Validate snapshots the cart and checks it. On failure the outcome is stored,
// the state stays VALIDATING and a *apperrors.ValidationError is returned.
func (s *RegistrationService) Validate(ctx context.Context, studentID int64) (*models.Session, error) {
	defer s.lock(studentID)()

	session, err := s.inState(ctx, studentID, models.StateValidating)
	if err != nil {
		return nil, err
	}

	items, err := s.deps.Cart.Items(ctx, studentID)
	if err != nil {
		return nil, err
	}
	session.Courses = items

	outcome, verr := s.check(ctx, studentID, items)
	if outcome == nil {
		return nil, verr
	}
	session.Validation = *outcome
	session.UpdatedAt = s.now()

	if verr != nil {
		if err := s.deps.Sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		s.logger.Info().Int64("studentID", studentID).Str("reason", outcome.Reason).Msg("Registration validation failed")
		return nil, verr
	}

	session.Financial = s.Tuition(session.TotalUnits())
	session.State = models.StatePaying
	if err := s.deps.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Int("units", session.TotalUnits()).Int64("tuition", session.Financial.Total).Msg("Registration validated")
	return session, nil
}

// check runs the validation rules in order and stops at the first failing one.
// A nil outcome means the rules could not be evaluated.
func (s *RegistrationService) check(ctx context.Context, studentID int64, items []models.Course) (*models.ValidationOutcome, error) {
	outcome := &models.ValidationOutcome{CheckedAt: s.now()}
	fail := func(verr *apperrors.ValidationError) (*models.ValidationOutcome, error) {
		outcome.Reason = verr.Message
		outcome.Details = verr.Details
		return outcome, verr
	}

	units := sumUnits(items)
	switch {
	case len(items) == 0:
		return fail(apperrors.NewValidationError(apperrors.ReasonCartEmpty, "cart empty"))
	case units < s.config.MinUnits:
		return fail(apperrors.NewValidationError(apperrors.ReasonBelowMinimum, "below minimum",
			fmt.Sprintf("%d units selected, at least %d required", units, s.config.MinUnits)))
	case units > s.config.MaxUnits:
		return fail(apperrors.NewValidationError(apperrors.ReasonAboveMaximum, "above maximum",
			fmt.Sprintf("%d units selected, at most %d allowed", units, s.config.MaxUnits)))
	}

	if pairs := AllConflicts(items); len(pairs) > 0 {
		outcome.HasConflicts = true
		details := make([]string, 0, len(pairs))
		for _, p := range pairs {
			details = append(details, fmt.Sprintf("%s (%s) overlaps %s (%s)", p.First.Name, p.First.Time, p.Second.Name, p.Second.Time))
		}
		return fail(apperrors.NewValidationError(apperrors.ReasonTimeConflict, "time conflict", details...))
	}

	passed, err := s.deps.Transcripts.PassedCourses(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, c := range items {
		for _, pre := range c.Prerequisites {
			if _, ok := passed[pre]; !ok {
				missing = append(missing, fmt.Sprintf("%s requires %s", c.Name, pre))
			}
		}
	}
	if len(missing) > 0 {
		outcome.HasPrerequisitesIssues = true
		return fail(apperrors.NewValidationError(apperrors.ReasonMissingPrerequisite, "missing prerequisite", missing...))
	}

	outcome.IsValid = true
	return outcome, nil
}

// Tuition is base + units * unit price
func (s *RegistrationService) Tuition(units int) models.Financial {
	return models.Financial{
		BaseTuition: s.config.BaseTuition,
		UnitPrice:   s.config.UnitPrice,
		Units:       units,
		Total:       s.config.BaseTuition + int64(units)*s.config.UnitPrice,
		Currency:    s.config.Currency,
	}
}

// Pay charges the tuition. A declined charge keeps the state so it can be retried.
func (s *RegistrationService) Pay(ctx context.Context, studentID int64) (*models.Session, error) {
	defer s.lock(studentID)()

	session, err := s.inState(ctx, studentID, models.StatePaying)
	if err != nil {
		return nil, err
	}

	txID, err := s.deps.Payment.Charge(ctx, studentID, session.Financial.Total, session.Financial.Currency)
	if err != nil {
		s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Payment failed")
		if errors.Is(err, apperrors.ErrPaymentFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPaymentFailed, err)
	}

	paidAt := s.now()
	session.Payment = models.PaymentOutcome{IsPaid: true, TransactionID: txID, PaidAt: &paidAt}
	session.State = models.StateFinalizing
	session.UpdatedAt = paidAt
	if err := s.deps.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Str("transactionID", txID).Msg("Payment accepted")
	return session, nil
}

// Finalize commits the registration. A rejected commit keeps the state and
// writes nothing. The receipt is stored on the session before the ledger row
// is written, so a retry after a failed save reuses it and never commits or
// records twice. Seats, the cart and the receipt mail are best effort.
func (s *RegistrationService) Finalize(ctx context.Context, studentID int64) (*models.Session, error) {
	defer s.lock(studentID)()

	session, err := s.inState(ctx, studentID, models.StateFinalizing)
	if err != nil {
		return nil, err
	}

	if session.ReceiptID == "" {
		receiptID, err := s.deps.Registrar.Commit(ctx, session)
		if err != nil {
			s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Finalization failed")
			if errors.Is(err, apperrors.ErrFinalizationFailed) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", apperrors.ErrFinalizationFailed, err)
		}
		session.ReceiptID = receiptID
		session.UpdatedAt = s.now()
		if err := s.deps.Sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	finalizedAt := s.now()
	row := &models.Registration{
		ID:            uuid.New().String(),
		StudentID:     studentID,
		Semester:      session.Semester,
		Courses:       session.Courses,
		TotalUnits:    session.TotalUnits(),
		Tuition:       session.Financial.Total,
		PaymentStatus: "paid",
		TransactionID: session.Payment.TransactionID,
		ReceiptID:     session.ReceiptID,
		CreatedAt:     finalizedAt,
		Status:        models.RegistrationRegistered,
	}
	if err := s.deps.Registrations.Append(ctx, row); err != nil {
		return nil, err
	}

	session.FinalizedAt = &finalizedAt
	session.IsFinalized = true
	session.State = models.StateComplete
	session.UpdatedAt = finalizedAt
	if err := s.deps.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	for _, c := range session.Courses {
		if _, err := s.deps.Enroller.IncrementEnrolled(ctx, c.ID); err != nil {
			s.logger.Warn().Err(err).Int64("studentID", studentID).Int64("courseID", c.ID).Msg("Failed to take seat")
		}
	}
	if _, err := s.deps.Cart.Release(ctx, studentID, session.Courses); err != nil {
		s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Failed to release registered courses from cart")
	}
	s.sendReceipt(ctx, session)

	s.logger.Info().Int64("studentID", studentID).Str("receiptID", session.ReceiptID).Msg("Registration finalized")
	return session, nil
}

func (s *RegistrationService) sendReceipt(ctx context.Context, session *models.Session) {
	if s.deps.Mailer == nil || s.deps.Students == nil {
		return
	}
	student, err := s.deps.Students.GetByID(ctx, session.StudentID)
	if err != nil || student.Email == "" {
		s.logger.Debug().Int64("studentID", session.StudentID).Msg("No address for receipt")
		return
	}

	receipt := email.Receipt{
		ReceiptID:     session.ReceiptID,
		TransactionID: session.Payment.TransactionID,
		Semester:      session.Semester,
		TotalUnits:    session.TotalUnits(),
		Tuition:       session.Financial.Total,
		Currency:      session.Financial.Currency,
	}
	for _, c := range session.Courses {
		receipt.Lines = append(receipt.Lines, email.ReceiptLine{Code: c.Code, Name: c.Name, Units: c.Units, Time: c.Time})
	}
	if err := s.deps.Mailer.SendRegistrationReceipt(student.Email, student.FullName, receipt); err != nil {
		s.logger.Warn().Err(err).Int64("studentID", session.StudentID).Msg("Failed to send receipt")
	}
}

// Abandon drops the checkout from any state
func (s *RegistrationService) Abandon(ctx context.Context, studentID int64) error {
	defer s.lock(studentID)()

	if err := s.deps.Sessions.Delete(ctx, studentID); err != nil {
		return err
	}
	s.logger.Info().Int64("studentID", studentID).Msg("Registration abandoned")
	return nil
}

// Status returns the checkout, an IDLE session when none exists
func (s *RegistrationService) Status(ctx context.Context, studentID int64) (*models.Session, error) {
	session, err := s.deps.Sessions.Get(ctx, studentID)
	if errors.Is(err, apperrors.ErrNoSession) {
		return &models.Session{StudentID: studentID, State: models.StateIdle, Courses: []models.Course{}}, nil
	}
	return session, err
}

// History lists the student's finalized registrations
func (s *RegistrationService) History(ctx context.Context, studentID int64) ([]models.Registration, error) {
	return s.deps.Registrations.ListByStudent(ctx, studentID)
}

func (s *RegistrationService) inState(ctx context.Context, studentID int64, want models.WizardState) (*models.Session, error) {
	session, err := s.deps.Sessions.Get(ctx, studentID)
	if errors.Is(err, apperrors.ErrNoSession) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("no registration in progress, expected %s", want))
	}
	if err != nil {
		return nil, err
	}
	if session.State != want {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("registration is %s, expected %s", session.State, want))
	}
	return session, nil
}
