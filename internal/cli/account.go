package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/email"
)

// cliPreferenceID keys preferences that belong to the terminal, not a student
const cliPreferenceID int64 = 0

func (a *app) currentStudent(cmd *cobra.Command) (*models.Student, error) {
	return a.deps.AuthService.CurrentUser(cmd.Context())
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("invalid id %q", arg))
	}
	return id, nil
}

func (a *app) loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:     "login <student-number>",
		Short:   "Sign in as a student",
		Args:    cobra.ExactArgs(1),
		GroupID: "account",
		RunE: func(cmd *cobra.Command, args []string) error {
			student, err := a.deps.AuthService.SignIn(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.out.JSON(student)
			}
			a.out.Success(fmt.Sprintf("Logged in as %s (%s)", student.FullName, student.StudentNumber))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Sign out and drop the cart",
		Args:    cobra.NoArgs,
		GroupID: "account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.deps.AuthService.SignOut(cmd.Context()); err != nil {
				return err
			}
			a.out.Success("Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Short:   "Show the signed-in student",
		Args:    cobra.NoArgs,
		GroupID: "account",
		RunE: func(cmd *cobra.Command, args []string) error {
			student, err := a.currentStudent(cmd)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.out.JSON(student.Public())
			}

			a.out.Section(student.FullName)
			a.out.LabelValue("Student number", student.StudentNumber)
			a.out.LabelValue("Email", student.Email)
			a.out.LabelValue("Major", student.Major)
			a.out.LabelValue("Entry year", student.EntryYear)
			a.out.LabelValue("Units passed", strconv.Itoa(student.TotalUnits))
			a.out.LabelValue("GPA", strconv.FormatFloat(student.GPA, 'f', 2, 64))
			return nil
		},
	}
}

func (a *app) prefsCmd() *cobra.Command {
	prefs := &cobra.Command{
		Use:     "prefs",
		Short:   "Show or change preferences",
		GroupID: "account",
	}

	prefs.AddCommand(&cobra.Command{
		Use:       "dark-mode [enabled|disabled|toggle]",
		Short:     "Show, set or toggle dark mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"enabled", "disabled", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := a.deps.PreferenceService
			ctx := cmd.Context()

			var mode models.DarkMode
			var err error
			switch {
			case len(args) == 0:
				mode, err = svc.DarkMode(ctx, cliPreferenceID)
			case args[0] == "toggle":
				mode, err = svc.ToggleDarkMode(ctx, cliPreferenceID)
			default:
				mode = models.DarkMode(args[0])
				err = svc.SetDarkMode(ctx, cliPreferenceID, mode)
			}
			if err != nil {
				return err
			}

			a.out.LabelValue("Dark mode", string(mode))
			return nil
		},
	})
	return prefs
}

func (a *app) transcriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "transcript",
		Short:   "Show graded courses",
		Args:    cobra.NoArgs,
		GroupID: "account",
		RunE: func(cmd *cobra.Command, args []string) error {
			student, err := a.currentStudent(cmd)
			if err != nil {
				return err
			}
			transcript, err := a.deps.TranscriptService.Get(cmd.Context(), student.ID)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.out.JSON(transcript)
			}

			a.out.Section("Transcript")
			if len(transcript.Entries) == 0 {
				a.out.EmptyState("No graded courses yet")
				return nil
			}
			rows := make([][]string, 0, len(transcript.Entries))
			for _, e := range transcript.Entries {
				rows = append(rows, []string{
					e.CourseCode, e.CourseName, strconv.Itoa(e.Units),
					strconv.FormatFloat(e.Grade, 'f', 2, 64), string(e.Status), e.Semester,
				})
			}
			a.out.Table([]string{"Code", "Course", "Units", "Grade", "Status", "Semester"}, rows)
			fmt.Fprintln(a.out.w)
			a.out.LabelValue("Units", fmt.Sprintf("%d taken, %d passed", transcript.TotalUnits, transcript.PassedUnits))
			a.out.LabelValue("GPA", strconv.FormatFloat(transcript.GPA, 'f', 2, 64))
			return nil
		},
	}
}

// money formats an amount with its currency
func money(amount int64, currency string) string {
	return email.FormatAmount(amount) + " " + currency
}
