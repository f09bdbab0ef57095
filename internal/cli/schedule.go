package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/unireg/internal/app/models"
)

func (a *app) scheduleCmd() *cobra.Command {
	schedule := &cobra.Command{
		Use:     "schedule",
		Short:   "Weekly schedule of the cart",
		GroupID: "selection",
	}

	schedule.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the weekly grid",
			Args:  cobra.NoArgs,
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				grid, err := a.deps.ScheduleService.Grid(ctx, student.ID)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.out.JSON(grid)
				}
				a.printGrid(grid)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "export",
			Short: "Save the grid as CSV",
			Args:  cobra.NoArgs,
			RunE: a.withStudent(func(ctx context.Context, student *models.Student, args []string) error {
				export, err := a.deps.ScheduleService.Export(ctx, student.ID)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return a.out.JSON(export)
				}
				a.out.Success("Schedule exported")
				a.out.LabelValue("File", a.deps.FileStorage.GetFullPath(export.FileURL))
				a.out.LabelValue("URL", export.FileURL)
				return nil
			}),
		},
	)
	return schedule
}

func (a *app) printGrid(grid models.ScheduleGrid) {
	a.out.Section("Weekly schedule")

	headers := []string{"Time"}
	for _, d := range grid.Days {
		headers = append(headers, string(d))
	}

	rows := make([][]string, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		record := []string{row.Band}
		for _, cell := range row.Cells {
			codes := make([]string, 0, len(cell))
			for _, e := range cell {
				codes = append(codes, e.Code)
			}
			record = append(record, strings.Join(codes, " / "))
		}
		rows = append(rows, record)
	}
	a.out.Table(headers, rows)

	if len(grid.Unplaced) > 0 {
		a.out.Warning("Courses without a readable time:")
		for _, e := range grid.Unplaced {
			a.out.EmptyState(e.Code + " " + e.Name)
		}
	}
	a.out.LabelValue("Total units", itoa(grid.TotalUnits))
}
