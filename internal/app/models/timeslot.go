package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsableTime is returned for descriptors without a weekday or hour range
var ErrUnparsableTime = errors.New("unparsable time descriptor")

// Weekday is one of the teaching days
type Weekday string

const (
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
)

// Weekdays in grid order
var Weekdays = []Weekday{Saturday, Sunday, Monday, Tuesday, Wednesday}

var weekdayAliases = map[string]Weekday{
	"saturday":  Saturday,
	"sunday":    Sunday,
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"شنبه":      Saturday,
	"یکشنبه":    Sunday,
	"دوشنبه":    Monday,
	"سهشنبه":    Tuesday,
	"چهارشنبه":  Wednesday,
}

var (
	hourRange = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	spacedDay = regexp.MustCompile(`(یک|دو|سه|چهار)\s+شنبه`)
)

// dayFolder drops the zero-width non-joiner and folds Arabic letters and digits
var dayFolder = strings.NewReplacer(
	"\u200c", "",
	"ي", "ی",
	"ك", "ک",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// ParseWeekday resolves an English or Persian day name
func ParseWeekday(s string) (Weekday, bool) {
	d, ok := weekdayAliases[strings.ToLower(normalizeDay(strings.TrimSpace(s)))]
	return d, ok
}

// Index is the column of the day in the grid, -1 when unknown
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// TimeSlot is a half-open hour interval on one weekday
type TimeSlot struct {
	Day   Weekday `json:"day"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// normalizeDay folds a descriptor so every spelling of a Persian day is one token.
// "یک شنبه", "یک‌شنبه" and "يكشنبه" all become "یکشنبه".
func normalizeDay(s string) string {
	return spacedDay.ReplaceAllString(dayFolder.Replace(s), "${1}شنبه")
}

// ParseTimeSlot parses descriptors like "Saturday 10-12" or "شنبه 10-12".
// Day names must appear as whole words and exactly one weekday may be named.
// Hours come from the first H-H token.
func ParseTimeSlot(descriptor string) (TimeSlot, error) {
	text := normalizeDay(descriptor)

	var day Weekday
	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '،'
	}) {
		d, ok := weekdayAliases[strings.ToLower(token)]
		if !ok {
			continue
		}
		if day != "" && d != day {
			return TimeSlot{}, fmt.Errorf("%w: more than one weekday in %q", ErrUnparsableTime, descriptor)
		}
		day = d
	}
	if day == "" {
		return TimeSlot{}, fmt.Errorf("%w: no weekday in %q", ErrUnparsableTime, descriptor)
	}

	m := hourRange.FindStringSubmatch(text)
	if m == nil {
		return TimeSlot{}, fmt.Errorf("%w: no hour range in %q", ErrUnparsableTime, descriptor)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if start < 0 || end > 24 || start >= end {
		return TimeSlot{}, fmt.Errorf("%w: bad hour range %d-%d", ErrUnparsableTime, start, end)
	}

	return TimeSlot{Day: day, Start: start, End: end}, nil
}

// Overlaps is true on the same day when start1 < end2 && start2 < end1
func (t TimeSlot) Overlaps(o TimeSlot) bool {
	return t.Day == o.Day && t.Start < o.End && o.Start < t.End
}

// Band is the hour range as shown in the schedule grid
func (t TimeSlot) Band() string {
	return fmt.Sprintf("%d-%d", t.Start, t.End)
}

func (t TimeSlot) String() string {
	return fmt.Sprintf("%s %s", t.Day, t.Band())
}
