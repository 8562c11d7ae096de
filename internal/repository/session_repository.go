package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nurulquran/academy-backend/internal/model"
)

const sessionColumns = `id, class_id, teacher_id, day_of_week, start_minute, end_minute, timezone,
	delivery_mode, meeting_info, room_id, is_recurring, status, created_at, updated_at`

// SessionRepository handles class session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	s, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM class_sessions WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// ListByTeacher retrieves every session taught by a teacher.
func (r *SessionRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM class_sessions WHERE teacher_id = $1`, teacherID)
}

// ListByRoom retrieves every in-person session held in a room.
func (r *SessionRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]model.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM class_sessions WHERE room_id = $1`, roomID)
}

// ListByDay retrieves every session on a day of week.
func (r *SessionRepository) ListByDay(ctx context.Context, day time.Weekday) ([]model.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM class_sessions WHERE day_of_week = $1`, int16(day))
}

// ListByClass retrieves every session of a class.
func (r *SessionRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]model.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM class_sessions WHERE class_id = $1`, classID)
}

// Create inserts a new session. The caller assigns the ID.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	meeting, room := deliveryColumns(s.Delivery)
	return r.pool.QueryRow(ctx,
		`INSERT INTO class_sessions (id, class_id, teacher_id, day_of_week, start_minute, end_minute,
			timezone, delivery_mode, meeting_info, room_id, is_recurring, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at`,
		s.ID, s.ClassID, s.TeacherID, int16(s.Slot.DayOfWeek), s.Slot.StartMinute, s.Slot.EndMinute,
		s.Slot.Timezone, s.Delivery.Mode, meeting, room, s.IsRecurring, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update overwrites a session's mutable fields.
func (r *SessionRepository) Update(ctx context.Context, s *model.Session) error {
	meeting, room := deliveryColumns(s.Delivery)
	err := r.pool.QueryRow(ctx,
		`UPDATE class_sessions
		 SET class_id = $1, teacher_id = $2, day_of_week = $3, start_minute = $4, end_minute = $5,
		     timezone = $6, delivery_mode = $7, meeting_info = $8, room_id = $9, is_recurring = $10,
		     status = $11, updated_at = NOW()
		 WHERE id = $12
		 RETURNING updated_at`,
		s.ClassID, s.TeacherID, int16(s.Slot.DayOfWeek), s.Slot.StartMinute, s.Slot.EndMinute,
		s.Slot.Timezone, s.Delivery.Mode, meeting, room, s.IsRecurring, s.Status, s.ID,
	).Scan(&s.UpdatedAt)
	return notFound(err)
}

// Delete removes a session by its ID.
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM class_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]model.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var (
		s       model.Session
		day     int16
		meeting *string
	)
	err := row.Scan(&s.ID, &s.ClassID, &s.TeacherID, &day, &s.Slot.StartMinute, &s.Slot.EndMinute,
		&s.Slot.Timezone, &s.Delivery.Mode, &meeting, &s.Delivery.RoomID, &s.IsRecurring, &s.Status,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Slot.DayOfWeek = time.Weekday(day)
	if meeting != nil {
		s.Delivery.MeetingInfo = *meeting
	}
	return &s, nil
}

func deliveryColumns(d model.Delivery) (meeting *string, room *uuid.UUID) {
	if d.Mode == model.DeliveryOnline {
		info := d.MeetingInfo
		return &info, nil
	}
	return nil, d.RoomID
}
