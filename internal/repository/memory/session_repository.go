package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository"
)

// SessionRepository stores class sessions in memory.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]model.Session
}

// NewSessionRepository creates an empty SessionRepository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[uuid.UUID]model.Session)}
}

func (r *SessionRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s = cloneSession(s)
	return &s, nil
}

func (r *SessionRepository) ListByTeacher(_ context.Context, teacherID uuid.UUID) ([]model.Session, error) {
	return r.filter(func(s model.Session) bool { return s.TeacherID == teacherID }), nil
}

func (r *SessionRepository) ListByRoom(_ context.Context, roomID uuid.UUID) ([]model.Session, error) {
	return r.filter(func(s model.Session) bool {
		room, ok := s.Delivery.Room()
		return ok && room == roomID
	}), nil
}

func (r *SessionRepository) ListByDay(_ context.Context, day time.Weekday) ([]model.Session, error) {
	return r.filter(func(s model.Session) bool { return s.Slot.DayOfWeek == day }), nil
}

func (r *SessionRepository) ListByClass(_ context.Context, classID uuid.UUID) ([]model.Session, error) {
	return r.filter(func(s model.Session) bool { return s.ClassID == classID }), nil
}

func (r *SessionRepository) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; exists {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	r.sessions[s.ID] = cloneSession(*s)
	return nil
}

func (r *SessionRepository) Update(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.sessions[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	s.CreatedAt = old.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	r.sessions[s.ID] = cloneSession(*s)
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *SessionRepository) filter(keep func(model.Session) bool) []model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Session
	for _, s := range r.sessions {
		if keep(s) {
			out = append(out, cloneSession(s))
		}
	}
	return out
}

// cloneSession detaches the RoomID pointer from the stored value.
func cloneSession(s model.Session) model.Session {
	if s.Delivery.RoomID != nil {
		room := *s.Delivery.RoomID
		s.Delivery.RoomID = &room
	}
	return s
}
