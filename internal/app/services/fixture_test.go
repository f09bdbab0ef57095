package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/email"
	"github.com/yigit/unireg/internal/pkg/kvstore"
	"github.com/yigit/unireg/internal/pkg/logger"
)

const studentID int64 = 1

func testCourses() []models.Course {
	return []models.Course{
		{ID: 1, Name: "Web Programming", Code: "CE201", Units: 3, Time: "Saturday 10-12", Capacity: 30, Enrolled: 25, Department: "Computer Engineering", Instructor: "Dr. Ahmadi", Type: "core"},
		{ID: 2, Name: "Database", Code: "CE301", Units: 3, Time: "Saturday 11-13", Capacity: 30, Enrolled: 10, Department: "Computer Engineering", Instructor: "Dr. Karimi", Type: "core"},
		{ID: 3, Name: "Computer Networks", Code: "CE302", Units: 3, Time: "Sunday 8-10", Capacity: 30, Department: "Computer Engineering", Instructor: "Dr. Rahimi", Prerequisites: []string{"Data Structures"}},
		{ID: 4, Name: "Artificial Intelligence", Code: "CE401", Units: 3, Time: "Monday 14-16", Capacity: 30, Department: "Computer Engineering", Instructor: "Dr. Ahmadi", Type: "elective"},
		{ID: 5, Name: "Compilers", Code: "CE402", Units: 3, Time: "Tuesday 10-12", Capacity: 30, Department: "Computer Engineering", Instructor: "Dr. Karimi"},
		{ID: 6, Name: "Linear Algebra", Code: "MA201", Units: 3, Time: "Wednesday 16-18", Capacity: 40, Department: "Mathematics", Instructor: "Dr. Hosseini"},
		{ID: 7, Name: "Full Seminar", Code: "CE490", Units: 2, Time: "Tuesday 14-16", Capacity: 10, Enrolled: 10, Department: "Computer Engineering", Instructor: "Dr. Rahimi"},
		{ID: 8, Name: "Pending Elective", Code: "CE491", Units: 2, Time: "Monday 8-10", Capacity: 10, Department: "Computer Engineering", Instructor: "Dr. Rahimi", Status: models.CoursePending},
		{ID: 9, Name: "Final Project", Code: "CE499", Units: 6, Time: "Wednesday 8-10", Capacity: 20, Department: "Computer Engineering", Instructor: "Dr. Ahmadi"},
	}
}

type published struct {
	studentID int64
	msgType   string
	payload   any
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (p *recordingPublisher) Publish(studentID int64, msgType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{studentID, msgType, payload})
}

func (p *recordingPublisher) last() published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.msgs[len(p.msgs)-1]
}

type fixture struct {
	ctx       context.Context
	store     kvstore.Store
	repos     *repositories.Repositories
	catalog   *CatalogService
	cart      *CartService
	schedule  *ScheduleService
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repos := repositories.NewRepositories(store, nil)
	log := logger.Nop()

	catalog := NewCatalogService(repos.CourseRepository, repos.DepartmentRepository, repos.RegistrationRepository, log)
	_, err := catalog.Load(ctx, "", testCourses())
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	schedule := NewScheduleService(repos.CartRepository, publisher, nil, log)
	cart := NewCartService(catalog, repos.CartRepository, DefaultMaxUnits, log)
	cart.Subscribe(schedule)

	return &fixture{
		ctx:       ctx,
		store:     store,
		repos:     repos,
		catalog:   catalog,
		cart:      cart,
		schedule:  schedule,
		publisher: publisher,
	}
}

func (f *fixture) add(t *testing.T, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		_, err := f.cart.Add(f.ctx, studentID, id)
		require.NoError(t, err, "add %d", id)
	}
}

func ids(items []models.Course) []int64 {
	out := make([]int64, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}

type recordingMailer struct {
	mu       sync.Mutex
	receipts []email.Receipt
}

func (m *recordingMailer) SendRegistrationReceipt(_, _ string, r email.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, r)
	return nil
}
