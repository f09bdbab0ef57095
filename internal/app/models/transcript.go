package models

import "time"

// PassingGrade is the lowest grade (out of 20) that passes a course
const PassingGrade = 10.0

// GradeStatus is the outcome of one transcript entry
type GradeStatus string

const (
	GradePassed GradeStatus = "passed"
	GradeFailed GradeStatus = "failed"
)

// TranscriptEntry is one graded course
type TranscriptEntry struct {
	CourseCode string      `json:"courseCode"`
	CourseName string      `json:"courseName"`
	Units      int         `json:"units"`
	Grade      float64     `json:"grade"`
	Status     GradeStatus `json:"status"`
	Semester   string      `json:"semester"`
	TakenAt    time.Time   `json:"takenAt"`
}

// Transcript holds a student's graded history
type Transcript struct {
	StudentID   int64             `json:"studentId"`
	Entries     []TranscriptEntry `json:"courses"`
	TotalUnits  int               `json:"totalUnits"`
	PassedUnits int               `json:"passedUnits"`
	GPA         float64           `json:"gpa"`
}

// AddEntry appends a graded course and refreshes the aggregates
func (t *Transcript) AddEntry(e TranscriptEntry) {
	if e.Grade >= PassingGrade {
		e.Status = GradePassed
		t.PassedUnits += e.Units
	} else {
		e.Status = GradeFailed
	}
	t.TotalUnits += e.Units
	t.Entries = append(t.Entries, e)
	t.recalculateGPA()
}

// recalculateGPA computes the unit-weighted average over every entry
func (t *Transcript) recalculateGPA() {
	var points float64
	var units int
	for _, e := range t.Entries {
		points += e.Grade * float64(e.Units)
		units += e.Units
	}
	if units == 0 {
		t.GPA = 0
		return
	}
	t.GPA = points / float64(units)
}

// PassedCourses is the set of course names with a passing grade
func (t Transcript) PassedCourses() map[string]struct{} {
	passed := make(map[string]struct{}, len(t.Entries))
	for _, e := range t.Entries {
		if e.Status == GradePassed {
			passed[e.CourseName] = struct{}{}
		}
	}
	return passed
}
