package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository"
)

// SessionStore is satisfied by repository.SessionRepository and memory.SessionRepository.
type SessionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Session, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]model.Session, error)
	ListByDay(ctx context.Context, day time.Weekday) ([]model.Session, error)
	ListByClass(ctx context.Context, classID uuid.UUID) ([]model.Session, error)
	Create(ctx context.Context, s *model.Session) error
	Update(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClassStore persists class capacities and their enrollments.
type ClassStore interface {
	GetCapacity(ctx context.Context, classID uuid.UUID) (*model.ClassCapacity, error)
	GetCapacityView(ctx context.Context, classID uuid.UUID) (*model.CapacityView, error)
	GetEnrollment(ctx context.Context, id uuid.UUID) (*model.Enrollment, error)
	ListByClass(ctx context.Context, classID uuid.UUID) ([]model.Enrollment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error)
	SaveClass(ctx context.Context, c *model.ClassCapacity, changed []model.Enrollment) error
}

// UserStore persists portal accounts.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, u *model.User) error
}

// RecordStore persists attendance and grade records.
type RecordStore interface {
	InsertAttendance(ctx context.Context, records []model.AttendanceRecord) error
	AttendanceByStudent(ctx context.Context, studentID uuid.UUID) ([]model.AttendanceRecord, error)
	AttendanceByClass(ctx context.Context, classID uuid.UUID) ([]model.AttendanceRecord, error)
	InsertGrade(ctx context.Context, g *model.GradeRecord) error
	GradesByStudent(ctx context.Context, studentID uuid.UUID) ([]model.GradeRecord, error)
}

// notFoundAs turns repository.ErrNotFound into a typed NotFoundError.
func notFoundAs(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &model.NotFoundError{Resource: resource, ID: id}
	}
	return err
}
