package dto

// ScheduleExportResponse points at a stored schedule export
type ScheduleExportResponse struct {
	FileName string `json:"fileName" example:"schedule-1-3f2a.csv"`
	FileURL  string `json:"fileUrl" example:"http://localhost:8080/exports/schedule-1-3f2a.csv"`
	Size     int64  `json:"size" example:"412"`
}
