package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been set
var ErrNotFound = errors.New("key not found")

// Store is a JSON key/value store
type Store interface {
	// Get decodes the value stored under key into dst
	Get(ctx context.Context, key string, dst interface{}) error
	// Set encodes value as JSON and stores it under key
	Set(ctx context.Context, key string, value interface{}) error
	// Delete removes key. Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
	// Close releases the underlying resources
	Close() error
}

// Well-known keys
const (
	KeyCurrentUser   = "currentUser"
	KeyStudents      = "students"
	KeyCourses       = "courses"
	KeyDepartments   = "departments"
	KeyRegistrations = "registrations"
	KeyTranscripts   = "transcripts"
	KeyDarkMode      = "darkMode"
)

// CartKey is the key of a student's cart
func CartKey(studentID int64) string {
	return fmt.Sprintf("courseCart:%d", studentID)
}

// RegistrationDataKey is the key of a student's checkout session
func RegistrationDataKey(studentID int64) string {
	return fmt.Sprintf("registrationData:%d", studentID)
}

// DarkModeKey is the key of a student's dark mode preference
func DarkModeKey(studentID int64) string {
	return fmt.Sprintf("%s:%d", KeyDarkMode, studentID)
}
