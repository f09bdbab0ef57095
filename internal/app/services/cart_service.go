package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/helpers"
)

// DefaultMaxUnits is the unit ceiling of a selection
const DefaultMaxUnits = 20

// CourseLookup resolves catalog courses
type CourseLookup interface {
	Get(ctx context.Context, id int64) (*models.Course, error)
}

// CartObserver is told about every committed cart mutation before the call returns
type CartObserver interface {
	CartChanged(ctx context.Context, studentID int64, items []models.Course)
}

// CartService manages each student's selection set
type CartService struct {
	catalog   CourseLookup
	cartRepo  *repositories.CartRepository
	maxUnits  int
	observers []CartObserver
	logger    zerolog.Logger

	// Serializes every mutation
	mu sync.Mutex
}

// NewCartService creates a new cart service. maxUnits <= 0 means DefaultMaxUnits.
func NewCartService(catalog CourseLookup, cartRepo *repositories.CartRepository, maxUnits int, logger zerolog.Logger) *CartService {
	if maxUnits <= 0 {
		maxUnits = DefaultMaxUnits
	}
	return &CartService{
		catalog:  catalog,
		cartRepo: cartRepo,
		maxUnits: maxUnits,
		logger:   logger,
	}
}

// Subscribe registers an observer. Call before serving requests.
func (s *CartService) Subscribe(o CartObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// MaxUnits is the configured unit ceiling
func (s *CartService) MaxUnits() int {
	return s.maxUnits
}

// Add selects a course. Checks run in order: catalog lookup, approval,
// duplicate, time conflict, unit limit, capacity.
func (s *CartService) Add(ctx context.Context, studentID, courseID int64) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.offered(ctx, courseID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.Load(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := s.admit(items, *course); err != nil {
		s.logger.Debug().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Course rejected")
		return nil, err
	}

	items = append(items, *course)
	if err := s.commit(ctx, studentID, items); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Int("totalUnits", sumUnits(items)).Msg("Course added to cart")
	return items, nil
}

// Remove drops a course; an id that is not selected is a no-op
func (s *CartService) Remove(ctx context.Context, studentID, courseID int64) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.cartRepo.Load(ctx, studentID)
	if err != nil {
		return nil, err
	}

	rest, removed := without(items, courseID)
	if !removed {
		return items, nil
	}
	if err := s.commit(ctx, studentID, rest); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Course removed from cart")
	return rest, nil
}

// ResolveConflict replaces existingID with incomingID in one step. The incoming
// course is checked against the cart without existingID; on any failure the
// cart is left as it was.
func (s *CartService) ResolveConflict(ctx context.Context, studentID, existingID, incomingID int64) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incoming, err := s.offered(ctx, incomingID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.Load(ctx, studentID)
	if err != nil {
		return nil, err
	}

	rest, _ := without(items, existingID)
	if err := s.admit(rest, *incoming); err != nil {
		return nil, err
	}

	rest = append(rest, *incoming)
	if err := s.commit(ctx, studentID, rest); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("removedCourseID", existingID).
		Int64("addedCourseID", incomingID).
		Msg("Cart conflict resolved")
	return rest, nil
}

// Clear empties the cart, failing with ErrEmptyCart when there is nothing to clear
func (s *CartService) Clear(ctx context.Context, studentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.cartRepo.Load(ctx, studentID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return apperrors.ErrEmptyCart
	}
	return s.commit(ctx, studentID, []models.Course{})
}

// Release removes the registered courses and keeps anything selected since.
// It returns what is left in the cart.
func (s *CartService) Release(ctx context.Context, studentID int64, registered []models.Course) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.cartRepo.Load(ctx, studentID)
	if err != nil {
		return nil, err
	}

	rest := items
	for _, c := range registered {
		rest, _ = without(rest, c.ID)
	}
	if len(rest) == len(items) {
		return items, nil
	}
	if err := s.commit(ctx, studentID, rest); err != nil {
		return nil, err
	}

	if len(rest) > 0 {
		s.logger.Info().Int64("studentID", studentID).Int("kept", len(rest)).Msg("Cart keeps courses selected after validation")
	}
	return rest, nil
}

// Items returns the selection in insertion order
func (s *CartService) Items(ctx context.Context, studentID int64) ([]models.Course, error) {
	return s.cartRepo.Load(ctx, studentID)
}

// TotalUnits sums the selection
func (s *CartService) TotalUnits(ctx context.Context, studentID int64) (int, error) {
	items, err := s.cartRepo.Load(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return sumUnits(items), nil
}

// Contains reports whether a course is selected
func (s *CartService) Contains(ctx context.Context, studentID, courseID int64) (bool, error) {
	items, err := s.cartRepo.Load(ctx, studentID)
	if err != nil {
		return false, err
	}
	_, found := without(items, courseID)
	return found, nil
}

// Summary returns the cart with its derived counters
func (s *CartService) Summary(ctx context.Context, studentID int64) (*dto.CartResponse, error) {
	items, err := s.cartRepo.Load(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.summarize(items), nil
}

func (s *CartService) summarize(items []models.Course) *dto.CartResponse {
	total := sumUnits(items)
	remaining := s.maxUnits - total
	if remaining < 0 {
		remaining = 0
	}
	return &dto.CartResponse{
		Items: items,
		Summary: dto.CartSummary{
			Count:          len(items),
			TotalUnits:     total,
			MaxUnits:       s.maxUnits,
			RemainingUnits: remaining,
			Progress:       helpers.Percent(total, s.maxUnits),
		},
	}
}

func (s *CartService) offered(ctx context.Context, courseID int64) (*models.Course, error) {
	course, err := s.catalog.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsOffered() {
		return nil, apperrors.NewCustomError(apperrors.ErrCourseNotOffered,
			fmt.Sprintf("%s is %s", course.Name, course.Status))
	}
	return course, nil
}

func (s *CartService) admit(items []models.Course, incoming models.Course) error {
	for _, c := range items {
		if c.ID == incoming.ID {
			return apperrors.NewCustomError(apperrors.ErrDuplicateSelection,
				fmt.Sprintf("%s is already selected", incoming.Name))
		}
	}

	if existing, ok := FindConflict(items, incoming); ok {
		return &apperrors.TimeConflictError{Existing: existing.Ref(), Incoming: incoming.Ref()}
	}

	if total := sumUnits(items) + incoming.Units; total > s.maxUnits {
		return apperrors.NewCustomError(apperrors.ErrUnitLimitExceeded,
			fmt.Sprintf("%d units selected, adding %d exceeds the limit of %d", total-incoming.Units, incoming.Units, s.maxUnits))
	}

	if incoming.IsFull() {
		return apperrors.NewCustomError(apperrors.ErrCourseFull,
			fmt.Sprintf("%s has no free seats", incoming.Name))
	}
	return nil
}

func (s *CartService) commit(ctx context.Context, studentID int64, items []models.Course) error {
	if err := s.cartRepo.Save(ctx, studentID, items); err != nil {
		return err
	}
	for _, o := range s.observers {
		o.CartChanged(ctx, studentID, items)
	}
	return nil
}

func without(items []models.Course, courseID int64) ([]models.Course, bool) {
	out := make([]models.Course, 0, len(items))
	found := false
	for _, c := range items {
		if c.ID == courseID {
			found = true
			continue
		}
		out = append(out, c)
	}
	return out, found
}

func sumUnits(items []models.Course) int {
	total := 0
	for _, c := range items {
		total += c.Units
	}
	return total
}
