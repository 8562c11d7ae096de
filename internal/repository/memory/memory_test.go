package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository"
)

func TestSessionRepository_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	s := &model.Session{
		ID:        uuid.New(),
		ClassID:   uuid.New(),
		TeacherID: uuid.New(),
		Slot:      model.TimeSlot{DayOfWeek: time.Monday, StartMinute: 540, EndMinute: 600},
		Delivery:  model.InPerson(uuid.New()),
		Status:    model.SessionStatusScheduled,
	}
	require.NoError(t, repo.Create(ctx, s))
	assert.False(t, s.CreatedAt.IsZero())

	require.NoError(t, repo.Delete(ctx, s.ID))
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), repository.ErrNotFound)

	_, err := repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	room := uuid.New()
	s := &model.Session{ID: uuid.New(), TeacherID: uuid.New(), Delivery: model.InPerson(room)}
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	*got.Delivery.RoomID = uuid.New()

	byRoom, err := repo.ListByRoom(ctx, room)
	require.NoError(t, err)
	assert.Len(t, byRoom, 1)
}

func TestClassRepository_SaveClass(t *testing.T) {
	ctx := context.Background()
	repo := NewClassRepository()
	classID, student := uuid.New(), uuid.New()

	first := model.Enrollment{
		ID: uuid.New(), StudentID: student, ClassID: classID,
		Status: model.EnrollmentStatusWaitlisted, Position: 1, JoinedAt: time.Now(),
	}
	capacity := &model.ClassCapacity{ClassID: classID, Capacity: 1}
	require.NoError(t, repo.SaveClass(ctx, capacity, []model.Enrollment{first}))

	view, err := repo.GetCapacityView(ctx, classID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Waitlisted)

	dup := first
	dup.ID = uuid.New()
	assert.ErrorIs(t, repo.SaveClass(ctx, capacity, []model.Enrollment{dup}), repository.ErrDuplicate)

	first.Status = model.EnrollmentStatusDropped
	require.NoError(t, repo.SaveClass(ctx, capacity, []model.Enrollment{first}))
	require.NoError(t, repo.SaveClass(ctx, capacity, []model.Enrollment{dup}))

	stored, err := repo.GetEnrollment(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Position)
}

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &model.User{ID: uuid.New(), Email: "Admin@Academy.test", Role: model.RoleAdmin}))

	u, err := repo.GetByEmail(ctx, "admin@academy.test")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	err = repo.Create(ctx, &model.User{ID: uuid.New(), Email: "ADMIN@academy.test"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}
