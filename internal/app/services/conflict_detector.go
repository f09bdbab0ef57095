package services

import "github.com/yigit/unireg/internal/app/models"

// ConflictPair is two selected courses whose time slots overlap
type ConflictPair struct {
	First  models.Course `json:"first"`
	Second models.Course `json:"second"`
}

// Conflicts reports whether a and b meet on the same weekday with overlapping
// hours. A descriptor that cannot be parsed never conflicts.
func Conflicts(a, b models.Course) bool {
	sa, err := a.Slot()
	if err != nil {
		return false
	}
	sb, err := b.Slot()
	if err != nil {
		return false
	}
	return sa.Overlaps(sb)
}

// FindConflict returns the first member of cart, in cart order, that conflicts with incoming
func FindConflict(cart []models.Course, incoming models.Course) (models.Course, bool) {
	for _, c := range cart {
		if Conflicts(c, incoming) {
			return c, true
		}
	}
	return models.Course{}, false
}

// AllConflicts lists every conflicting pair (i < j)
func AllConflicts(courses []models.Course) []ConflictPair {
	var pairs []ConflictPair
	for i := 0; i < len(courses); i++ {
		for j := i + 1; j < len(courses); j++ {
			if Conflicts(courses[i], courses[j]) {
				pairs = append(pairs, ConflictPair{First: courses[i], Second: courses[j]})
			}
		}
	}
	return pairs
}
