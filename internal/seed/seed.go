package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/unireg/internal/app/models"
	appRepos "github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/auth"
)

//go:embed sample_courses.json
var sampleCourses []byte

// Sample student credentials
const (
	SampleStudentNumber = "401234567"
	SamplePassword      = "123456"
)

// SampleCourses is the catalog used when neither the store nor a data file has one
func SampleCourses() ([]appModels.Course, error) {
	var courses []appModels.Course
	if err := json.Unmarshal(sampleCourses, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode sample courses: %w", err)
	}
	return courses, nil
}

// Departments are the default departments
func Departments() []appModels.Department {
	return []appModels.Department{
		{ID: 1, Name: "Computer Engineering", Code: "CE"},
		{ID: 2, Name: "Electrical Engineering", Code: "EE"},
		{ID: 3, Name: "Civil Engineering", Code: "CV"},
		{ID: 4, Name: "Mechanical Engineering", Code: "ME"},
		{ID: 5, Name: "Mathematics", Code: "MATH"},
		{ID: 6, Name: "Physics", Code: "PHY"},
	}
}

// CreateDefaultData creates the sample student and their transcript if they don't exist.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Student/Transcript)...")

	_, err := repos.StudentRepository.GetByStudentNumber(ctx, SampleStudentNumber)
	if err == nil {
		lgr.Info().Msg("Sample student already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		return err
	}

	hashedPassword, err := auth.HashPassword(SamplePassword)
	if err != nil {
		return fmt.Errorf("failed to hash sample password: %w", err)
	}

	student := &appModels.Student{
		StudentNumber: SampleStudentNumber,
		Username:      SampleStudentNumber,
		PasswordHash:  hashedPassword,
		FullName:      "Mohammad Daneshjoo",
		Email:         "m.student@university.ac.ir",
		Phone:         "09123456789",
		Major:         "Computer Engineering",
		EntryYear:     "1400",
		Semester:      6,
		TotalUnits:    85,
		GPA:           17.8,
	}
	if err := repos.StudentRepository.Create(ctx, student); err != nil {
		return fmt.Errorf("failed to create sample student: %w", err)
	}

	transcript := &appModels.Transcript{StudentID: student.ID}
	takenAt := time.Date(2022, time.June, 20, 0, 0, 0, 0, time.UTC)
	for _, e := range []appModels.TranscriptEntry{
		{CourseCode: "CE101", CourseName: "Computer Fundamentals", Units: 3, Grade: 18.5, Semester: "1-1400"},
		{CourseCode: "CE103", CourseName: "Data Structures", Units: 3, Grade: 17, Semester: "2-1400"},
		{CourseCode: "MA105", CourseName: "Discrete Mathematics", Units: 3, Grade: 16.25, Semester: "2-1400"},
	} {
		e.TakenAt = takenAt
		transcript.AddEntry(e)
	}

	var finalErr error
	if err := repos.TranscriptRepository.Save(ctx, transcript); err != nil {
		lgr.Error().Err(err).Msg("Error creating sample transcript")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Int64("studentID", student.ID).Msg("Default student created successfully")
	return finalErr
}
