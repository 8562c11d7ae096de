package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurulquran/academy-backend/internal/model"
)

func slot(day time.Weekday, start, end int) model.TimeSlot {
	return model.TimeSlot{DayOfWeek: day, StartMinute: start, EndMinute: end, Timezone: "UTC"}
}

func committed(teacher uuid.UUID, s model.TimeSlot, d model.Delivery) model.Session {
	return model.Session{
		ID:        uuid.New(),
		ClassID:   uuid.New(),
		TeacherID: teacher,
		Slot:      s,
		Delivery:  d,
		Status:    model.SessionStatusScheduled,
	}
}

func TestCheckConflict(t *testing.T) {
	teacher, other := uuid.New(), uuid.New()
	room := uuid.New()
	online := model.Online("https://meet.example/abc")

	existing := committed(teacher, slot(time.Monday, 540, 600), online)
	inRoom := committed(other, slot(time.Tuesday, 540, 600), model.InPerson(room))
	draft := committed(teacher, slot(time.Wednesday, 540, 600), online)
	draft.Status = model.SessionStatusDraft
	cancelled := committed(teacher, slot(time.Thursday, 540, 600), online)
	cancelled.Status = model.SessionStatusCancelled

	all := []model.Session{existing, inRoom, draft, cancelled}

	tests := []struct {
		name      string
		proposed  model.Session
		conflict  bool
		dimension model.ConflictDimension
		existing  uuid.UUID
	}{
		{"overlapping teacher slot", committed(teacher, slot(time.Monday, 570, 630), online), true, model.ConflictTeacher, existing.ID},
		{"back to back", committed(teacher, slot(time.Monday, 600, 660), online), false, "", uuid.Nil},
		{"different day", committed(teacher, slot(time.Friday, 540, 600), online), false, "", uuid.Nil},
		{"other teacher online", committed(other, slot(time.Monday, 540, 600), online), false, "", uuid.Nil},
		{"shared room", committed(uuid.New(), slot(time.Tuesday, 570, 600), model.InPerson(room)), true, model.ConflictRoom, inRoom.ID},
		{"other room", committed(uuid.New(), slot(time.Tuesday, 570, 600), model.InPerson(uuid.New())), false, "", uuid.Nil},
		{"online ignores room", committed(uuid.New(), slot(time.Tuesday, 570, 600), online), false, "", uuid.Nil},
		{"draft is ignored", committed(teacher, slot(time.Wednesday, 540, 600), online), false, "", uuid.Nil},
		{"cancelled is ignored", committed(teacher, slot(time.Thursday, 540, 600), online), false, "", uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckConflict(tt.proposed, all)
			assert.Equal(t, tt.conflict, result.Conflict)
			if !tt.conflict {
				assert.NoError(t, result.Err())
				return
			}
			require.NotNil(t, result.Existing)
			assert.Equal(t, tt.dimension, result.Dimension)
			assert.Equal(t, tt.existing, result.Existing.ID)

			var conflictErr *model.ConflictError
			require.ErrorAs(t, result.Err(), &conflictErr)
			assert.Equal(t, tt.existing, conflictErr.Existing.ID)
		})
	}
}

func TestCheckConflict_ExcludesItself(t *testing.T) {
	teacher := uuid.New()
	s := committed(teacher, slot(time.Monday, 540, 600), model.Online("x"))
	moved := s
	moved.Slot = slot(time.Monday, 560, 620)

	assert.False(t, CheckConflict(moved, []model.Session{s}).Conflict)
}

func TestCheckConflict_ReturnsEarliest(t *testing.T) {
	teacher := uuid.New()
	late := committed(teacher, slot(time.Monday, 600, 660), model.Online("x"))
	early := committed(teacher, slot(time.Monday, 480, 570), model.Online("x"))
	proposed := committed(teacher, slot(time.Monday, 540, 630), model.Online("x"))

	result := CheckConflict(proposed, []model.Session{late, early})
	require.True(t, result.Conflict)
	assert.Equal(t, early.ID, result.Existing.ID)
}

func TestCheckConflict_ReturnsEarliestAcrossWeekBoundary(t *testing.T) {
	zoned := func(day time.Weekday, start, end int, zone string) model.TimeSlot {
		s := slot(day, start, end)
		s.Timezone = zone
		return s
	}

	tests := []struct {
		name     string
		proposed model.TimeSlot
		early    model.TimeSlot
		late     model.TimeSlot
	}{
		{
			name:     "sunday early morning east of utc",
			proposed: zoned(time.Sunday, 240, 600, "Asia/Jakarta"),
			early:    zoned(time.Sunday, 300, 330, "Asia/Jakarta"),
			late:     zoned(time.Sunday, 480, 510, "Asia/Jakarta"),
		},
		{
			name:     "saturday late evening west of utc",
			proposed: zoned(time.Saturday, 1020, 1439, "America/New_York"),
			early:    zoned(time.Saturday, 1080, 1110, "America/New_York"),
			late:     zoned(time.Saturday, 1320, 1350, "America/New_York"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teacher := uuid.New()
			early := committed(teacher, tt.early, model.Online("x"))
			late := committed(teacher, tt.late, model.Online("x"))
			proposed := committed(teacher, tt.proposed, model.Online("x"))

			result := CheckConflict(proposed, []model.Session{late, early})
			require.True(t, result.Conflict)
			assert.Equal(t, early.ID, result.Existing.ID)
		})
	}
}

func TestCheckConflict_AcrossTimezones(t *testing.T) {
	teacher := uuid.New()
	// 09:00 in Jakarta (UTC+7) is 02:00 UTC.
	jakarta := committed(teacher, model.TimeSlot{DayOfWeek: time.Monday, StartMinute: 540, EndMinute: 600, Timezone: "Asia/Jakarta"}, model.Online("x"))
	utc := committed(teacher, slot(time.Monday, 120, 180), model.Online("x"))

	assert.True(t, CheckConflict(utc, []model.Session{jakarta}).Conflict)
}
