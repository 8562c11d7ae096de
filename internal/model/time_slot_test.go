package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func slot(day time.Weekday, start, end string, tz string) TimeSlot {
	return TimeSlot{DayOfWeek: day, StartMinute: clock(start), EndMinute: clock(end), Timezone: tz}
}

func clock(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return t.Hour()*60 + t.Minute()
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeSlot
		want bool
	}{
		{
			name: "different days",
			a:    slot(time.Monday, "09:00", "10:00", "UTC"),
			b:    slot(time.Tuesday, "09:00", "10:00", "UTC"),
			want: false,
		},
		{
			name: "partial overlap",
			a:    slot(time.Monday, "09:00", "10:00", "UTC"),
			b:    slot(time.Monday, "09:30", "10:30", "UTC"),
			want: true,
		},
		{
			name: "back to back",
			a:    slot(time.Monday, "09:00", "10:00", "UTC"),
			b:    slot(time.Monday, "10:00", "11:00", "UTC"),
			want: false,
		},
		{
			name: "contained",
			a:    slot(time.Monday, "08:00", "12:00", "UTC"),
			b:    slot(time.Monday, "09:00", "09:15", "UTC"),
			want: true,
		},
		{
			name: "empty zone equals UTC",
			a:    slot(time.Friday, "13:00", "14:00", ""),
			b:    slot(time.Friday, "13:30", "14:30", "UTC"),
			want: true,
		},
		{
			name: "same instant in different zones",
			a:    slot(time.Monday, "16:00", "17:00", "Asia/Jakarta"),
			b:    slot(time.Monday, "09:00", "10:00", "UTC"),
			want: true,
		},
		{
			name: "same clock in different zones",
			a:    slot(time.Monday, "09:00", "10:00", "Asia/Jakarta"),
			b:    slot(time.Monday, "09:00", "10:00", "UTC"),
			want: false,
		},
		{
			name: "zone shift crosses midnight",
			a:    slot(time.Tuesday, "01:00", "02:00", "Asia/Jakarta"),
			b:    slot(time.Monday, "18:30", "19:00", "UTC"),
			want: true,
		},
		{
			name: "zone shift wraps the week",
			a:    slot(time.Sunday, "05:00", "06:00", "Asia/Tokyo"),
			b:    slot(time.Saturday, "20:00", "21:00", "UTC"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

func TestTimeSlotValidate(t *testing.T) {
	assert.NoError(t, slot(time.Monday, "09:00", "10:00", "Asia/Jakarta").Validate())
	assert.Error(t, slot(time.Monday, "10:00", "10:00", "UTC").Validate())
	assert.Error(t, slot(time.Monday, "11:00", "10:00", "UTC").Validate())
	assert.Error(t, TimeSlot{DayOfWeek: 7, StartMinute: 0, EndMinute: 60}.Validate())
	assert.Error(t, TimeSlot{DayOfWeek: time.Monday, StartMinute: 0, EndMinute: MinutesPerDay}.Validate())
	assert.Error(t, slot(time.Monday, "09:00", "10:00", "Mars/Olympus").Validate())
}

func TestNormalize(t *testing.T) {
	w, err := slot(time.Monday, "07:00", "08:30", "Asia/Jakarta").Normalize()
	assert.NoError(t, err)
	// 07:00 WIB is 00:00 UTC on Monday.
	assert.Equal(t, WeekInterval{Start: MinutesPerDay, End: MinutesPerDay + 90}, w)
}

func TestSortKey(t *testing.T) {
	tests := []struct {
		name string
		slot TimeSlot
		want int
	}{
		{"utc sunday midnight", slot(time.Sunday, "00:00", "01:00", "UTC"), 0},
		{"utc monday", slot(time.Monday, "09:00", "10:00", "UTC"), MinutesPerDay + 540},
		// 05:00 WIB on Sunday is 22:00 UTC on the previous Saturday.
		{"east of utc before the week starts", slot(time.Sunday, "05:00", "06:00", "Asia/Jakarta"), -120},
		// 22:00 EST on Saturday is 03:00 UTC on the following Sunday.
		{"west of utc past the week end", slot(time.Saturday, "22:00", "23:00", "America/New_York"), MinutesPerWeek + 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.SortKey())
		})
	}
}

func TestSortSessionsByStart(t *testing.T) {
	tests := []struct {
		name string
		in   []TimeSlot
		want []TimeSlot
	}{
		{
			name: "utc",
			in: []TimeSlot{
				slot(time.Monday, "15:00", "16:00", "UTC"),
				slot(time.Monday, "08:00", "09:00", "UTC"),
				slot(time.Sunday, "20:00", "21:00", "UTC"),
			},
			want: []TimeSlot{
				slot(time.Sunday, "20:00", "21:00", "UTC"),
				slot(time.Monday, "08:00", "09:00", "UTC"),
				slot(time.Monday, "15:00", "16:00", "UTC"),
			},
		},
		{
			name: "sunday early morning east of utc",
			in: []TimeSlot{
				slot(time.Sunday, "08:00", "09:00", "Asia/Jakarta"),
				slot(time.Sunday, "05:00", "06:00", "Asia/Jakarta"),
				slot(time.Saturday, "20:00", "21:00", "Asia/Jakarta"),
			},
			want: []TimeSlot{
				slot(time.Sunday, "05:00", "06:00", "Asia/Jakarta"),
				slot(time.Sunday, "08:00", "09:00", "Asia/Jakarta"),
				slot(time.Saturday, "20:00", "21:00", "Asia/Jakarta"),
			},
		},
		{
			name: "saturday late evening west of utc",
			in: []TimeSlot{
				slot(time.Saturday, "22:00", "23:00", "America/New_York"),
				slot(time.Saturday, "18:00", "19:00", "America/New_York"),
				slot(time.Sunday, "09:00", "10:00", "America/New_York"),
			},
			want: []TimeSlot{
				slot(time.Sunday, "09:00", "10:00", "America/New_York"),
				slot(time.Saturday, "18:00", "19:00", "America/New_York"),
				slot(time.Saturday, "22:00", "23:00", "America/New_York"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := make([]Session, len(tt.in))
			for i, s := range tt.in {
				sessions[i] = Session{Slot: s}
			}
			SortSessionsByStart(sessions)

			got := make([]TimeSlot, len(sessions))
			for i, s := range sessions {
				got[i] = s.Slot
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
