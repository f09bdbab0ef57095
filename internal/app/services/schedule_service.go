package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/filestorage"
	"github.com/yigit/unireg/internal/pkg/websocket"
)

type band struct{ start, end int }

// DefaultBands are always present in the grid, in this order
var DefaultBands = []models.TimeSlot{
	{Start: 8, End: 10},
	{Start: 10, End: 12},
	{Start: 14, End: 16},
	{Start: 16, End: 18},
}

// Project lays courses out on the weekly grid. Bands beyond DefaultBands are
// added for any slot in the selection, sorted by start then end. Courses whose
// time cannot be parsed go to Unplaced.
func Project(courses []models.Course) models.ScheduleGrid {
	bands := make(map[band]bool, len(DefaultBands))
	for _, b := range DefaultBands {
		bands[band{b.Start, b.End}] = true
	}

	slots := make([]*models.TimeSlot, len(courses))
	for i, c := range courses {
		if slot, err := c.Slot(); err == nil {
			slots[i] = &slot
			bands[band{slot.Start, slot.End}] = true
		}
	}

	ordered := make([]band, 0, len(bands))
	for b := range bands {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].start != ordered[j].start {
			return ordered[i].start < ordered[j].start
		}
		return ordered[i].end < ordered[j].end
	})

	grid := models.ScheduleGrid{
		Days:     append([]models.Weekday(nil), models.Weekdays...),
		Rows:     make([]models.ScheduleRow, len(ordered)),
		Unplaced: []models.ScheduleEntry{},
	}
	rowOf := make(map[band]int, len(ordered))
	for i, b := range ordered {
		cells := make([][]models.ScheduleEntry, len(models.Weekdays))
		for d := range cells {
			cells[d] = []models.ScheduleEntry{}
		}
		grid.Rows[i] = models.ScheduleRow{
			Band:  strconv.Itoa(b.start) + "-" + strconv.Itoa(b.end),
			Start: b.start,
			End:   b.end,
			Cells: cells,
		}
		rowOf[b] = i
	}

	for i, c := range courses {
		grid.TotalUnits += c.Units
		entry := models.ScheduleEntry{
			CourseID: c.ID,
			Code:     c.Code,
			Name:     c.Name,
			Location: c.Location,
			Color:    c.Color,
		}
		slot := slots[i]
		if slot == nil {
			grid.Unplaced = append(grid.Unplaced, entry)
			continue
		}
		row := rowOf[band{slot.Start, slot.End}]
		col := slot.Day.Index()
		grid.Rows[row].Cells[col] = append(grid.Rows[row].Cells[col], entry)
	}

	return grid
}

// SchedulePublisher pushes a payload to a student's live connections
type SchedulePublisher interface {
	Publish(studentID int64, msgType string, payload any)
}

// ScheduleService projects carts and publishes or exports the result
type ScheduleService struct {
	cartRepo  *repositories.CartRepository
	publisher SchedulePublisher
	storage   filestorage.FileStorage
	logger    zerolog.Logger
}

// NewScheduleService creates a new schedule service. publisher and storage may be nil.
func NewScheduleService(
	cartRepo *repositories.CartRepository,
	publisher SchedulePublisher,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *ScheduleService {
	return &ScheduleService{
		cartRepo:  cartRepo,
		publisher: publisher,
		storage:   storage,
		logger:    logger,
	}
}

// CartChanged recomputes and publishes the grid
func (s *ScheduleService) CartChanged(_ context.Context, studentID int64, items []models.Course) {
	grid := Project(items)
	if s.publisher != nil {
		s.publisher.Publish(studentID, websocket.MessageSchedule, grid)
	}
	s.logger.Debug().Int64("studentID", studentID).Int("rows", len(grid.Rows)).Int("unplaced", len(grid.Unplaced)).Msg("Schedule recomputed")
}

// Grid projects the student's current cart
func (s *ScheduleService) Grid(ctx context.Context, studentID int64) (models.ScheduleGrid, error) {
	items, err := s.cartRepo.Load(ctx, studentID)
	if err != nil {
		return models.ScheduleGrid{}, err
	}
	return Project(items), nil
}

// Snapshot adapts Grid to the websocket handler
func (s *ScheduleService) Snapshot(ctx context.Context, studentID int64) (string, any, error) {
	grid, err := s.Grid(ctx, studentID)
	if err != nil {
		return "", nil, err
	}
	return websocket.MessageSchedule, grid, nil
}

// Export stores the grid as CSV in the export directory
func (s *ScheduleService) Export(ctx context.Context, studentID int64) (*dto.ScheduleExportResponse, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("schedule export is not configured")
	}

	grid, err := s.Grid(ctx, studentID)
	if err != nil {
		return nil, err
	}
	data, err := RenderCSV(grid)
	if err != nil {
		return nil, err
	}

	info, err := s.storage.Save(ctx, fmt.Sprintf("schedule-%d.csv", studentID), "text/csv", data)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Str("file", info.Filename).Msg("Schedule exported")
	return &dto.ScheduleExportResponse{
		FileName: info.Filename,
		FileURL:  info.URL,
		Size:     info.FileSize,
	}, nil
}

// RenderCSV writes one line per band with a column per weekday
func RenderCSV(grid models.ScheduleGrid) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Time"}
	for _, d := range grid.Days {
		header = append(header, string(d))
	}
	records := [][]string{header}

	for _, row := range grid.Rows {
		record := []string{row.Band}
		for _, cell := range row.Cells {
			names := make([]string, 0, len(cell))
			for _, e := range cell {
				names = append(names, describeEntry(e))
			}
			record = append(record, strings.Join(names, " / "))
		}
		records = append(records, record)
	}

	for _, e := range grid.Unplaced {
		records = append(records, padRecord([]string{"Unplaced", describeEntry(e)}, len(header)))
	}
	records = append(records, padRecord([]string{"Total units", strconv.Itoa(grid.TotalUnits)}, len(header)))

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to render schedule: %w", err)
	}
	return buf.Bytes(), nil
}

// padRecord keeps every line the width of the header
func padRecord(record []string, width int) []string {
	for len(record) < width {
		record = append(record, "")
	}
	return record
}

func describeEntry(e models.ScheduleEntry) string {
	s := e.Code + " " + e.Name
	if e.Location != "" {
		s += " (" + e.Location + ")"
	}
	return strings.TrimSpace(s)
}
