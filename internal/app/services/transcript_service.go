package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/apperrors"
)

// TranscriptService manages graded history
type TranscriptService struct {
	transcriptRepo *repositories.TranscriptRepository
	studentRepo    *repositories.StudentRepository
	logger         zerolog.Logger
}

// NewTranscriptService creates a new transcript service
func NewTranscriptService(transcriptRepo *repositories.TranscriptRepository, studentRepo *repositories.StudentRepository, logger zerolog.Logger) *TranscriptService {
	return &TranscriptService{
		transcriptRepo: transcriptRepo,
		studentRepo:    studentRepo,
		logger:         logger,
	}
}

// Get returns the transcript, empty for students without grades
func (s *TranscriptService) Get(ctx context.Context, studentID int64) (*models.Transcript, error) {
	return s.transcriptRepo.Get(ctx, studentID)
}

// PassedCourses is the set of course names the student passed
func (s *TranscriptService) PassedCourses(ctx context.Context, studentID int64) (map[string]struct{}, error) {
	t, err := s.transcriptRepo.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return t.PassedCourses(), nil
}

// AddGrade appends a graded course and refreshes the student's totals
func (s *TranscriptService) AddGrade(ctx context.Context, studentID int64, req dto.AddGradeRequest) (*models.Transcript, error) {
	if strings.TrimSpace(req.CourseName) == "" || req.Units <= 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, "course name and positive units are required")
	}
	if req.Grade < 0 || req.Grade > 20 {
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, "grade must be between 0 and 20")
	}

	t, err := s.transcriptRepo.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	t.AddEntry(models.TranscriptEntry{
		CourseCode: req.CourseCode,
		CourseName: req.CourseName,
		Units:      req.Units,
		Grade:      req.Grade,
		Semester:   req.Semester,
		TakenAt:    time.Now(),
	})
	if err := s.transcriptRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if student, err := s.studentRepo.GetByID(ctx, studentID); err == nil {
		student.TotalUnits = t.PassedUnits
		student.GPA = t.GPA
		if err := s.studentRepo.Update(ctx, student); err != nil {
			s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Failed to refresh student totals")
		}
	}

	s.logger.Info().Int64("studentID", studentID).Str("course", req.CourseName).Float64("grade", req.Grade).Msg("Grade recorded")
	return t, nil
}
