package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeSlot(t *testing.T) {
	tests := []struct {
		in   string
		want TimeSlot
	}{
		{"Saturday 10-12", TimeSlot{Saturday, 10, 12}},
		{"sunday 8-10", TimeSlot{Sunday, 8, 10}},
		{"Wednesday, 16 - 18", TimeSlot{Wednesday, 16, 18}},
		{"شنبه 10-12", TimeSlot{Saturday, 10, 12}},
		{"یکشنبه 8-10", TimeSlot{Sunday, 8, 10}},
		{"سه‌شنبه 10-12", TimeSlot{Tuesday, 10, 12}},
		{"سه شنبه 10-12", TimeSlot{Tuesday, 10, 12}},
		{"چهارشنبه 16-18", TimeSlot{Wednesday, 16, 18}},
		{"یک شنبه 10-12", TimeSlot{Sunday, 10, 12}},
		{"یک‌شنبه 10-12", TimeSlot{Sunday, 10, 12}},
		{"يكشنبه 10-12", TimeSlot{Sunday, 10, 12}},
		{"دو شنبه 8-10", TimeSlot{Monday, 8, 10}},
		{"چهار شنبه 14-16", TimeSlot{Wednesday, 14, 16}},
		{"دوشنبه ۱۰-۱۲", TimeSlot{Monday, 10, 12}},
		{"Monday monday 10-12", TimeSlot{Monday, 10, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeSlot(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeSlot_Unparsable(t *testing.T) {
	for _, in := range []string{"", "Saturday", "10-12", "Friday 10-12", "Saturday 12-10", "Monday 20-26", "tba",
		"شنبه و دوشنبه 10-12", "Saturday, Monday 10-12", "یک شنبه، سه شنبه 8-10"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTimeSlot(in)
			assert.ErrorIs(t, err, ErrUnparsableTime)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]Weekday{
		"Tuesday": Tuesday,
		"سه شنبه": Tuesday,
		"یک شنبه": Sunday,
		"شنبه":    Saturday,
		"يكشنبه":  Sunday,
	} {
		got, ok := ParseWeekday(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseWeekday("Friday")
	assert.False(t, ok)
}

func TestTimeSlot_Overlaps(t *testing.T) {
	a := TimeSlot{Saturday, 10, 12}

	assert.True(t, a.Overlaps(TimeSlot{Saturday, 11, 13}))
	assert.True(t, TimeSlot{Saturday, 11, 13}.Overlaps(a))
	assert.True(t, a.Overlaps(TimeSlot{Saturday, 9, 14}))
	assert.False(t, a.Overlaps(TimeSlot{Saturday, 12, 14}), "touching intervals are half-open")
	assert.False(t, a.Overlaps(TimeSlot{Sunday, 10, 12}))
	assert.Equal(t, "10-12", a.Band())
	assert.Equal(t, "Saturday 10-12", a.String())
}

func TestCourse_Helpers(t *testing.T) {
	c := Course{Units: 3, Time: "Monday 14-16", Capacity: 20, Enrolled: 20}
	assert.True(t, c.IsFull())
	assert.Equal(t, 0, c.RemainingSeats())
	assert.True(t, c.IsOffered())
	assert.NoError(t, c.Validate())

	c.Status = CoursePending
	assert.False(t, c.IsOffered())

	assert.Error(t, Course{Units: 0, Time: "Monday 14-16"}.Validate())
	assert.Error(t, Course{Units: 3, Time: "sometime"}.Validate())
}

func TestTranscript_AddEntry(t *testing.T) {
	var tr Transcript
	tr.AddEntry(TranscriptEntry{CourseName: "Data Structures", Units: 3, Grade: 18})
	tr.AddEntry(TranscriptEntry{CourseName: "Physics", Units: 1, Grade: 6})

	assert.Equal(t, 4, tr.TotalUnits)
	assert.Equal(t, 3, tr.PassedUnits)
	assert.InDelta(t, 15.0, tr.GPA, 1e-9)
	assert.Equal(t, GradeFailed, tr.Entries[1].Status)

	passed := tr.PassedCourses()
	assert.Contains(t, passed, "Data Structures")
	assert.NotContains(t, passed, "Physics")
}
