package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/models/dto"
)

type sessionStep func(ctx context.Context, studentID int64) (*models.Session, error)

func (a *app) checkoutCmd() *cobra.Command {
	checkout := &cobra.Command{
		Use:     "checkout",
		Short:   "Register the cart: validate, pay, finalize",
		GroupID: "registration",
	}

	svc := func() sessionSteps { return a.deps.RegistrationService }

	step := func(use, short, done string, pick func(sessionSteps) sessionStep) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				session, err := pick(svc())(ctx, student.ID)
				if err != nil {
					return err
				}
				if done != "" && !a.jsonOutput {
					a.out.Success(done)
				}
				return a.printSession(session)
			}),
		}
	}

	checkout.AddCommand(
		step("start", "Open a registration for the cart", "Registration started", func(s sessionSteps) sessionStep { return s.Start }),
		step("validate", "Check units, conflicts and prerequisites", "Selection is valid", func(s sessionSteps) sessionStep { return s.Validate }),
		step("pay", "Pay the tuition", "Payment accepted", func(s sessionSteps) sessionStep { return s.Pay }),
		step("finalize", "Commit the registration", "Registration complete", func(s sessionSteps) sessionStep { return s.Finalize }),
		step("status", "Show the registration in progress", "", func(s sessionSteps) sessionStep { return s.Status }),
		&cobra.Command{
			Use:   "abandon",
			Short: "Discard the registration, keeping the cart",
			Args:  cobra.NoArgs,
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				if err := a.deps.RegistrationService.Abandon(ctx, student.ID); err != nil {
					return err
				}
				a.out.Success("Registration abandoned")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "history",
			Short: "List finalized registrations",
			Args:  cobra.NoArgs,
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				history, err := a.deps.RegistrationService.History(ctx, student.ID)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.out.JSON(history)
				}

				a.out.Section("Registrations")
				if len(history) == 0 {
					a.out.EmptyState("Nothing registered yet")
					return nil
				}
				rows := make([][]string, 0, len(history))
				for _, r := range history {
					rows = append(rows, []string{
						r.Semester, r.ReceiptID, itoa(len(r.Courses)), itoa(r.TotalUnits),
						strconv.FormatInt(r.Tuition, 10), r.CreatedAt.Format(time.DateTime),
					})
				}
				a.out.Table([]string{"Semester", "Receipt", "Courses", "Units", "Tuition", "Date"}, rows)
				return nil
			}),
		},
	)
	return checkout
}

// sessionSteps is the part of the registration service the step commands use
type sessionSteps interface {
	Start(ctx context.Context, studentID int64) (*models.Session, error)
	Validate(ctx context.Context, studentID int64) (*models.Session, error)
	Pay(ctx context.Context, studentID int64) (*models.Session, error)
	Finalize(ctx context.Context, studentID int64) (*models.Session, error)
	Status(ctx context.Context, studentID int64) (*models.Session, error)
}

func (a *app) printSession(session *models.Session) error {
	status := dto.NewRegistrationStatusResponse(session)
	if a.jsonOutput {
		return a.out.JSON(status)
	}

	a.out.Section("Registration " + status.Semester)
	a.out.LabelValue("State", string(status.State))
	if status.State == models.StateIdle {
		a.out.EmptyState("Run `registrar checkout start` to begin")
		return nil
	}

	if len(status.Courses) > 0 {
		codes := make([]string, 0, len(status.Courses))
		for _, c := range status.Courses {
			codes = append(codes, c.Code)
		}
		a.out.LabelValue("Courses", strings.Join(codes, ", "))
		a.out.LabelValue("Units", itoa(status.TotalUnits))
	}
	if v := status.Validation; !v.CheckedAt.IsZero() && !v.IsValid {
		a.out.Warning("Last validation failed: " + v.Reason)
		for _, d := range v.Details {
			a.out.EmptyState(d)
		}
	}
	if f := status.Financial; f.Total > 0 {
		a.out.LabelValue("Tuition", money(f.Total, f.Currency))
	}
	if status.Payment.IsPaid {
		a.out.LabelValue("Transaction", status.Payment.TransactionID)
	}
	if status.IsFinalized {
		a.out.LabelValue("Receipt", status.ReceiptID)
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
