package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/config"
	"github.com/nurulquran/academy-backend/internal/lock"
	"github.com/nurulquran/academy-backend/internal/model"
)

// maxLockAttempts bounds how often Update retries when the session's teacher
// or room changed between the unlocked read and lock acquisition.
const maxLockAttempts = 3

// ScheduleService owns recurring class sessions. Every write that can make a
// session committed runs the conflict check while holding the teacher lock
// and, for in-person sessions, the room lock.
type ScheduleService struct {
	sessions SessionStore
	locker   lock.Locker
	log      zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(sessions SessionStore, locker lock.Locker, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		sessions: sessions,
		locker:   locker,
		log:      log.With().Str("component", "schedule_service").Logger(),
	}
}

// Create schedules a new committed session.
func (s *ScheduleService) Create(ctx context.Context, req model.CreateSessionRequest) (*model.Session, error) {
	session, err := newSession(req, model.SessionStatusScheduled)
	if err != nil {
		return nil, err
	}

	unlock, err := lock.Acquire(ctx, s.locker, lockKeys(session)...)
	if err != nil {
		return nil, fmt.Errorf("lock timetable: %w", err)
	}
	defer unlock()

	if err := s.checkConflict(ctx, session); err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("teacher_id", session.TeacherID.String()).
		Str("slot", session.Slot.String()).
		Msg("Session scheduled")
	return session, nil
}

// CreateDraft stores a DRAFT session. Drafts never take part in conflict checks.
func (s *ScheduleService) CreateDraft(ctx context.Context, req model.CreateSessionRequest) (*model.Session, error) {
	session, err := newSession(req, model.SessionStatusDraft)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	s.log.Info().Str("session_id", session.ID.String()).Msg("Draft session saved")
	return session, nil
}

// Publish moves a DRAFT session to SCHEDULED after a conflict check.
func (s *ScheduleService) Publish(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	return s.mutate(ctx, id, nil, func(session *model.Session) error {
		if session.Status != model.SessionStatusDraft {
			return invalidSessionTransition(session.Status, model.SessionStatusScheduled)
		}
		session.Status = model.SessionStatusScheduled
		return nil
	})
}

// Update applies changes to a DRAFT or committed session. Committed sessions
// move to EDITED and are re-checked for conflicts; drafts stay DRAFT.
func (s *ScheduleService) Update(ctx context.Context, id uuid.UUID, req model.UpdateSessionRequest) (*model.Session, error) {
	return s.mutate(ctx, id, &req, func(session *model.Session) error {
		switch {
		case session.Status == model.SessionStatusCancelled:
			return invalidSessionTransition(session.Status, model.SessionStatusEdited)
		case session.Status.Committed():
			session.Status = model.SessionStatusEdited
		}
		applyChanges(session, req)
		return validateSession(session)
	})
}

// Cancel moves a committed session to CANCELLED, freeing its slot.
func (s *ScheduleService) Cancel(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	return s.mutate(ctx, id, nil, func(session *model.Session) error {
		if !session.Status.Committed() {
			return invalidSessionTransition(session.Status, model.SessionStatusCancelled)
		}
		session.Status = model.SessionStatusCancelled
		return nil
	})
}

// Delete removes a session. Deleting a missing session returns a NotFoundError.
func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		current, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		unlock, err := lock.Acquire(ctx, s.locker, lockKeys(current)...)
		if err != nil {
			return fmt.Errorf("lock timetable: %w", err)
		}
		locked, err := s.Get(ctx, id)
		if err != nil {
			unlock()
			return err
		}
		if !sameLockKeys(current, locked) {
			unlock()
			continue
		}

		err = s.sessions.Delete(ctx, id)
		unlock()
		if err != nil {
			return notFoundAs(err, "session", id)
		}
		s.log.Info().Str("session_id", id.String()).Msg("Session deleted")
		return nil
	}
	return fmt.Errorf("delete session %s: %w", id, ErrTimetableContention)
}

// Get returns a session by ID.
func (s *ScheduleService) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "session", id)
	}
	return session, nil
}

// ListByDay returns every session on a day of week ordered by start time.
func (s *ScheduleService) ListByDay(ctx context.Context, day time.Weekday) ([]model.Session, error) {
	sessions, err := s.sessions.ListByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list sessions by day: %w", err)
	}
	model.SortSessionsByStart(sessions)
	return nonNil(sessions), nil
}

// ListByClass returns every session of a class ordered by start time.
func (s *ScheduleService) ListByClass(ctx context.Context, classID uuid.UUID) ([]model.Session, error) {
	sessions, err := s.sessions.ListByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by class: %w", err)
	}
	model.SortSessionsByStart(sessions)
	return nonNil(sessions), nil
}

// ErrTimetableContention is returned when a session kept moving between
// teachers or rooms while its locks were being taken.
var ErrTimetableContention = errors.New("timetable keys kept changing while locking")

// mutate loads a session, locks every key it touches before and after the
// change, re-reads it under the locks, applies change and, when the result
// is committed, runs the conflict check before persisting.
func (s *ScheduleService) mutate(
	ctx context.Context,
	id uuid.UUID,
	req *model.UpdateSessionRequest,
	change func(*model.Session) error,
) (*model.Session, error) {
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		keys := lockKeys(current)
		if req != nil {
			preview := *current
			applyChanges(&preview, *req)
			keys = append(keys, lockKeys(&preview)...)
		}

		unlock, err := lock.Acquire(ctx, s.locker, keys...)
		if err != nil {
			return nil, fmt.Errorf("lock timetable: %w", err)
		}

		session, retry, err := s.mutateLocked(ctx, current, change)
		unlock()
		if retry {
			continue
		}
		return session, err
	}
	return nil, fmt.Errorf("update session %s: %w", id, ErrTimetableContention)
}

func (s *ScheduleService) mutateLocked(
	ctx context.Context,
	snapshot *model.Session,
	change func(*model.Session) error,
) (*model.Session, bool, error) {
	session, err := s.Get(ctx, snapshot.ID)
	if err != nil {
		return nil, false, err
	}
	if !sameLockKeys(snapshot, session) {
		return nil, true, nil
	}

	if err := change(session); err != nil {
		return nil, false, err
	}
	if session.Status.Committed() {
		if err := s.checkConflict(ctx, session); err != nil {
			return nil, false, err
		}
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, false, notFoundAs(err, "session", session.ID)
	}

	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("status", string(session.Status)).
		Str("slot", session.Slot.String()).
		Msg("Session updated")
	return session, false, nil
}

// checkConflict loads the teacher's and room's sessions and rejects the
// session if any committed one overlaps.
func (s *ScheduleService) checkConflict(ctx context.Context, session *model.Session) error {
	existing, err := s.sessions.ListByTeacher(ctx, session.TeacherID)
	if err != nil {
		return fmt.Errorf("list teacher sessions: %w", err)
	}
	if room, ok := session.Delivery.Room(); ok {
		inRoom, err := s.sessions.ListByRoom(ctx, room)
		if err != nil {
			return fmt.Errorf("list room sessions: %w", err)
		}
		existing = append(existing, inRoom...)
	}

	result := CheckConflict(*session, existing)
	if result.Conflict {
		s.log.Debug().
			Str("session_id", session.ID.String()).
			Str("dimension", string(result.Dimension)).
			Str("existing_id", result.Existing.ID.String()).
			Msg("Session rejected by conflict check")
	}
	return result.Err()
}

func newSession(req model.CreateSessionRequest, status model.SessionStatus) (*model.Session, error) {
	session := &model.Session{
		ID:          uuid.New(),
		ClassID:     req.ClassID,
		TeacherID:   req.TeacherID,
		Slot:        req.Slot,
		Delivery:    req.Delivery,
		IsRecurring: true,
		Status:      status,
	}
	if req.IsRecurring != nil {
		session.IsRecurring = *req.IsRecurring
	}
	if err := validateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func validateSession(session *model.Session) error {
	if session.ClassID == uuid.Nil {
		return &model.ValidationError{Field: "class_id", Err: errors.New("is required")}
	}
	if session.TeacherID == uuid.Nil {
		return &model.ValidationError{Field: "teacher_id", Err: errors.New("is required")}
	}
	if err := session.Slot.Validate(); err != nil {
		return &model.ValidationError{Field: "time_slot", Err: err}
	}
	if err := session.Delivery.Validate(); err != nil {
		return &model.ValidationError{Field: "delivery", Err: err}
	}
	return nil
}

func applyChanges(session *model.Session, req model.UpdateSessionRequest) {
	if req.ClassID != nil {
		session.ClassID = *req.ClassID
	}
	if req.TeacherID != nil {
		session.TeacherID = *req.TeacherID
	}
	if req.Slot != nil {
		session.Slot = *req.Slot
	}
	if req.Delivery != nil {
		session.Delivery = *req.Delivery
	}
	if req.IsRecurring != nil {
		session.IsRecurring = *req.IsRecurring
	}
}

func lockKeys(session *model.Session) []string {
	keys := []string{config.CacheKey.TeacherLockKey(session.TeacherID)}
	if room, ok := session.Delivery.Room(); ok {
		keys = append(keys, config.CacheKey.RoomLockKey(room))
	}
	return keys
}

func sameLockKeys(a, b *model.Session) bool {
	ka, kb := lockKeys(a), lockKeys(b)
	if len(ka) != len(kb) {
		return false
	}
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

func invalidSessionTransition(from, to model.SessionStatus) error {
	return &model.InvalidTransitionError{Resource: "session", From: string(from), To: string(to)}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
