package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yigit/unireg/internal/app/models"
)

func (a *app) cartCmd() *cobra.Command {
	cart := &cobra.Command{
		Use:     "cart",
		Short:   "Manage the course selection",
		GroupID: "selection",
	}

	cart.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the selected courses",
			Args:  cobra.NoArgs,
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				return a.printCart(ctx, student.ID)
			}),
		},
		&cobra.Command{
			Use:   "add <course-id>",
			Short: "Select a course",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if _, err := a.deps.CartService.Add(ctx, student.ID, id); err != nil {
					return err
				}
				a.out.Success(fmt.Sprintf("Course %d added", id))
				return a.printCart(ctx, student.ID)
			}),
		},
		&cobra.Command{
			Use:   "remove <course-id>",
			Short: "Drop a selected course",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if _, err := a.deps.CartService.Remove(ctx, student.ID, id); err != nil {
					return err
				}
				a.out.Success(fmt.Sprintf("Course %d removed", id))
				return a.printCart(ctx, student.ID)
			}),
		},
		&cobra.Command{
			Use:   "resolve <existing-id> <incoming-id>",
			Short: "Replace a selected course with one that conflicts with it",
			Args:  cobra.ExactArgs(2),
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				existing, err := parseID(args[0])
				if err != nil {
					return err
				}
				incoming, err := parseID(args[1])
				if err != nil {
					return err
				}
				if _, err := a.deps.CartService.ResolveConflict(ctx, student.ID, existing, incoming); err != nil {
					return err
				}
				a.out.Success(fmt.Sprintf("Course %d replaced by %d", existing, incoming))
				return a.printCart(ctx, student.ID)
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				if err := a.deps.CartService.Clear(ctx, student.ID); err != nil {
					return err
				}
				a.out.Success("Cart cleared")
				return nil
			}),
		},
	)
	return cart
}

type studentRunE func(ctx context.Context, student *models.Student, args []string) error

// withStudent resolves the signed-in student before running fn
func (a *app) withStudent(fn studentRunE) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		student, err := a.currentStudent(cmd)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), student, args)
	}
}

func (a *app) printCart(ctx context.Context, studentID int64) error {
	summary, err := a.deps.CartService.Summary(ctx, studentID)
	if err != nil {
		return err
	}
	if a.jsonOutput {
		return a.out.JSON(summary)
	}

	a.out.Section("Cart")
	if len(summary.Items) == 0 {
		a.out.EmptyState("No course selected")
		return nil
	}

	rows := make([][]string, 0, len(summary.Items))
	for _, c := range summary.Items {
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Code, c.Name, strconv.Itoa(c.Units), c.Time})
	}
	a.out.Table([]string{"ID", "Code", "Name", "Units", "Time"}, rows)

	s := summary.Summary
	fmt.Fprintln(a.out.w)
	a.out.LabelValue("Units", fmt.Sprintf("%d of %d (%d left, %.0f%%)", s.TotalUnits, s.MaxUnits, s.RemainingUnits, s.Progress))
	return nil
}
