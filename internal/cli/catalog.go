package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
)

func (a *app) catalogCmd() *cobra.Command {
	catalog := &cobra.Command{
		Use:     "catalog",
		Short:   "Browse offered courses",
		GroupID: "selection",
	}
	catalog.AddCommand(a.catalogListCmd(), a.catalogShowCmd())
	return catalog
}

func (a *app) catalogListCmd() *cobra.Command {
	var (
		filter     models.CourseFilter
		day        string
		page, size int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if day != "" {
				d, ok := models.ParseWeekday(day)
				if !ok {
					return apperrors.NewCustomError(apperrors.ErrBadRequest, "unknown day: "+day)
				}
				filter.Day = d
			}

			result, err := a.deps.CatalogService.List(cmd.Context(), filter, page, size)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.out.JSON(result)
			}

			a.out.Section("Courses")
			if len(result.Courses) == 0 {
				a.out.EmptyState("No course matches the filters")
				return nil
			}

			rows := make([][]string, 0, len(result.Courses))
			for _, c := range result.Courses {
				seats := fmt.Sprintf("%d/%d", c.Enrolled, c.Capacity)
				if c.IsFull {
					seats += " full"
				}
				rows = append(rows, []string{
					strconv.FormatInt(c.ID, 10), c.Code, c.Name, strconv.Itoa(c.Units), c.Instructor, c.Time, seats,
				})
			}
			a.out.Table([]string{"ID", "Code", "Name", "Units", "Instructor", "Time", "Seats"}, rows)

			pg := result.Pagination
			fmt.Fprintln(a.out.w)
			a.out.EmptyState(fmt.Sprintf("Page %d of %d, %s", pg.CurrentPage, pg.TotalPages,
				countLabel(int(pg.TotalItems), "course", "courses")))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&filter.Search, "search", "s", "", "Match name, code, instructor or department")
	flags.StringVar(&filter.Department, "department", "", "Department")
	flags.StringVar(&day, "day", "", "Weekday, English or Persian")
	flags.StringVar(&filter.Instructor, "instructor", "", "Instructor")
	flags.IntVar(&filter.Units, "units", 0, "Units")
	flags.StringVar(&filter.Type, "type", "", "Course type")
	flags.IntVar(&page, "page", 1, "Page number")
	flags.IntVar(&size, "size", 20, "Page size")
	return cmd
}

func (a *app) catalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <course-id>",
		Short: "Show course details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			course, err := a.deps.CatalogService.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.out.JSON(course)
			}

			a.out.Section(fmt.Sprintf("%s %s", course.Code, course.Name))
			a.out.LabelValue("Units", strconv.Itoa(course.Units))
			a.out.LabelValue("Instructor", course.Instructor)
			a.out.LabelValue("Time", course.Time)
			a.out.LabelValue("Location", course.Location)
			a.out.LabelValue("Department", course.Department)
			a.out.LabelValue("Seats", fmt.Sprintf("%d of %d left", course.RemainingSeats(), course.Capacity))
			if course.ExamDate != "" {
				a.out.LabelValue("Exam", course.ExamDate)
			}
			if len(course.Prerequisites) > 0 {
				a.out.LabelValue("Prerequisites", strings.Join(course.Prerequisites, ", "))
			}
			if !course.IsOffered() {
				a.out.Warning("Not offered: " + string(course.Status))
			}
			if course.Description != "" {
				fmt.Fprintln(a.out.w)
				a.out.Info(course.Description)
			}
			return nil
		},
	}
}
