package model

import (
	"fmt"
	"sync"
	"time"
)

const (
	// MinutesPerDay bounds a minute-of-day value: valid values are 0..1439.
	MinutesPerDay = 24 * 60
	// MinutesPerWeek is the length of the circular week used after normalization.
	MinutesPerWeek = 7 * MinutesPerDay
)

// referenceWeek anchors weekly slots to concrete dates when converting between
// timezones. Sunday 2024-01-07 starts the week, matching time.Weekday numbering.
// Being a January week, zones with daylight saving are always projected at
// their January offset, so a conflict between a DST zone and a non-DST zone
// is judged an hour off for the other part of the year.
var referenceWeek = time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)

// TimeSlot is a weekly recurring window: a day of week plus a half-open
// [StartMinute, EndMinute) interval in the slot's own timezone.
type TimeSlot struct {
	DayOfWeek   time.Weekday `json:"day_of_week" binding:"weekday"`
	StartMinute int          `json:"start_minute" binding:"minute_of_day"`
	EndMinute   int          `json:"end_minute" binding:"minute_of_day,gtfield=StartMinute"`
	Timezone    string       `json:"timezone" binding:"omitempty,timezone"`
}

// Validate checks the slot's day, minute range and timezone.
func (s TimeSlot) Validate() error {
	if s.DayOfWeek < time.Sunday || s.DayOfWeek > time.Saturday {
		return fmt.Errorf("day_of_week %d out of range 0..6", s.DayOfWeek)
	}
	if s.StartMinute < 0 || s.StartMinute >= MinutesPerDay {
		return fmt.Errorf("start_minute %d out of range 0..1439", s.StartMinute)
	}
	if s.EndMinute < 0 || s.EndMinute >= MinutesPerDay {
		return fmt.Errorf("end_minute %d out of range 0..1439", s.EndMinute)
	}
	if s.StartMinute >= s.EndMinute {
		return fmt.Errorf("start_minute %d must be before end_minute %d", s.StartMinute, s.EndMinute)
	}
	if _, err := loadLocation(s.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	return nil
}

// Duration returns the length of the slot.
func (s TimeSlot) Duration() time.Duration {
	return time.Duration(s.EndMinute-s.StartMinute) * time.Minute
}

// String renders the slot as "Monday 09:00-10:00 Asia/Jakarta".
func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %02d:%02d-%02d:%02d %s",
		s.DayOfWeek, s.StartMinute/60, s.StartMinute%60, s.EndMinute/60, s.EndMinute%60, s.zoneName())
}

func (s TimeSlot) zoneName() string {
	if s.Timezone == "" {
		return "UTC"
	}
	return s.Timezone
}

// WeekInterval is a slot projected onto the UTC week as minute-of-week
// offsets. End may exceed MinutesPerWeek when the slot wraps past Saturday.
type WeekInterval struct {
	Start int
	End   int
}

// startInstant places the slot's start inside the reference week.
func (s TimeSlot) startInstant() (time.Time, error) {
	loc, err := loadLocation(s.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	ref := referenceWeek.AddDate(0, 0, int(s.DayOfWeek))
	return time.Date(ref.Year(), ref.Month(), ref.Day(), s.StartMinute/60, s.StartMinute%60, 0, 0, loc), nil
}

// Normalize converts the slot into the UTC reference week. Start is folded
// into [0, MinutesPerWeek) so intervals compare on the circular week.
func (s TimeSlot) Normalize() (WeekInterval, error) {
	local, err := s.startInstant()
	if err != nil {
		return WeekInterval{}, err
	}
	utc := local.UTC()

	start := int(utc.Weekday())*MinutesPerDay + utc.Hour()*60 + utc.Minute()
	return WeekInterval{Start: start, End: start + (s.EndMinute - s.StartMinute)}, nil
}

// SortKey orders slots by start time as minutes from the UTC reference
// Sunday. The key is not folded: a Sunday 05:00 slot in Asia/Jakarta is
// negative and still sorts before Sunday 08:00 in the same zone. Slots whose
// timezone cannot be loaded fall back to their raw clock values.
func (s TimeSlot) SortKey() int {
	local, err := s.startInstant()
	if err != nil {
		return int(s.DayOfWeek)*MinutesPerDay + s.StartMinute
	}
	return int(local.Sub(referenceWeek) / time.Minute)
}

// Overlaps reports whether two weekly slots intersect. Slots in the same zone
// are compared on raw clock values: different days never overlap, and
// back-to-back slots (one ending when the other starts) do not overlap.
// Slots in different zones are first normalized to UTC.
func Overlaps(a, b TimeSlot) bool {
	if a.zoneName() == b.zoneName() {
		if a.DayOfWeek != b.DayOfWeek {
			return false
		}
		return a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
	}

	wa, errA := a.Normalize()
	wb, errB := b.Normalize()
	if errA != nil || errB != nil {
		// Unknown zones never pass Validate, so this only guards raw callers.
		return false
	}
	return wa.intersects(wb)
}

// intersects compares two intervals on the circular week.
func (w WeekInterval) intersects(o WeekInterval) bool {
	for _, shift := range []int{-MinutesPerWeek, 0, MinutesPerWeek} {
		if w.Start < o.End+shift && o.Start+shift < w.End {
			return true
		}
	}
	return false
}

var locationCache sync.Map // zone name → *time.Location

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	if loc, ok := locationCache.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	locationCache.Store(name, loc)
	return loc, nil
}
