package repositories

import "github.com/yigit/unireg/internal/pkg/kvstore"

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository       CourseRepository
	CartRepository         *CartRepository
	SessionRepository      *SessionRepository
	StudentRepository      *StudentRepository
	TranscriptRepository   *TranscriptRepository
	DepartmentRepository   *DepartmentRepository
	RegistrationRepository *RegistrationRepository
	PreferenceRepository   *PreferenceRepository
}

// NewRepositories initializes all repositories over store. A nil courses
// repository keeps the catalog in the store too.
func NewRepositories(store kvstore.Store, courses CourseRepository) *Repositories {
	if courses == nil {
		courses = NewKVCourseRepository(store)
	}
	return &Repositories{
		CourseRepository:       courses,
		CartRepository:         NewCartRepository(store),
		SessionRepository:      NewSessionRepository(store),
		StudentRepository:      NewStudentRepository(store),
		TranscriptRepository:   NewTranscriptRepository(store),
		DepartmentRepository:   NewDepartmentRepository(store),
		RegistrationRepository: NewRegistrationRepository(store),
		PreferenceRepository:   NewPreferenceRepository(store),
	}
}
