package models

// ScheduleEntry is a course placed in a grid cell
type ScheduleEntry struct {
	CourseID int64  `json:"courseId"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Color    string `json:"color,omitempty"`
}

// ScheduleRow is one time band across the weekdays. Cells follow Weekdays order.
type ScheduleRow struct {
	Band  string            `json:"band"`
	Start int               `json:"start"`
	End   int               `json:"end"`
	Cells [][]ScheduleEntry `json:"cells"`
}

// ScheduleGrid is the weekly view of a selection
type ScheduleGrid struct {
	Days       []Weekday       `json:"days"`
	Rows       []ScheduleRow   `json:"rows"`
	Unplaced   []ScheduleEntry `json:"unplaced"`
	TotalUnits int             `json:"totalUnits"`
}

// Cell returns the entries for a band and day, nil when either is absent
func (g ScheduleGrid) Cell(band string, day Weekday) []ScheduleEntry {
	col := day.Index()
	if col < 0 {
		return nil
	}
	for _, row := range g.Rows {
		if row.Band == band {
			return row.Cells[col]
		}
	}
	return nil
}
