package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/unireg/internal/app/models"
)

func course(id int64, time string) models.Course {
	return models.Course{ID: id, Name: time, Units: 3, Time: time}
}

func TestConflicts(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Saturday 10-12", "Saturday 11-13", true},
		{"Saturday 10-12", "Saturday 10-12", true},
		{"Saturday 10-12", "Saturday 12-14", false},
		{"Saturday 10-12", "Sunday 10-12", false},
		{"شنبه 10-12", "Saturday 11-13", true},
		{"Saturday 10-12", "to be announced", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, b := course(1, tt.a), course(2, tt.b)
			assert.Equal(t, tt.want, Conflicts(a, b))
			assert.Equal(t, tt.want, Conflicts(b, a), "symmetric")
		})
	}
}

func TestConflicts_NotTransitive(t *testing.T) {
	a := course(1, "Monday 8-10")
	b := course(2, "Monday 9-11")
	c := course(3, "Monday 10-12")

	assert.True(t, Conflicts(a, b))
	assert.True(t, Conflicts(b, c))
	assert.False(t, Conflicts(a, c))
}

func TestFindConflict_FirstInCartOrder(t *testing.T) {
	cart := []models.Course{
		course(1, "Sunday 8-10"),
		course(2, "Monday 10-12"),
		course(3, "Monday 11-13"),
	}

	got, ok := FindConflict(cart, course(9, "Monday 11-12"))
	assert.True(t, ok)
	assert.Equal(t, int64(2), got.ID)

	_, ok = FindConflict(cart, course(9, "Tuesday 8-10"))
	assert.False(t, ok)
}

func TestAllConflicts(t *testing.T) {
	courses := []models.Course{
		course(1, "Monday 8-10"),
		course(2, "Monday 9-11"),
		course(3, "Monday 10-12"),
		course(4, "Sunday 8-10"),
	}

	pairs := AllConflicts(courses)
	if assert.Len(t, pairs, 2) {
		assert.Equal(t, [2]int64{1, 2}, [2]int64{pairs[0].First.ID, pairs[0].Second.ID})
		assert.Equal(t, [2]int64{2, 3}, [2]int64{pairs[1].First.ID, pairs[1].Second.ID})
	}
	assert.Empty(t, AllConflicts(courses[3:]))
}
