package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository"
)

// ClassRepository stores class capacities and enrollments in memory.
type ClassRepository struct {
	mu          sync.RWMutex
	capacities  map[uuid.UUID]model.ClassCapacity
	enrollments map[uuid.UUID]model.Enrollment
}

// NewClassRepository creates an empty ClassRepository.
func NewClassRepository() *ClassRepository {
	return &ClassRepository{
		capacities:  make(map[uuid.UUID]model.ClassCapacity),
		enrollments: make(map[uuid.UUID]model.Enrollment),
	}
}

func (r *ClassRepository) GetCapacity(_ context.Context, classID uuid.UUID) (*model.ClassCapacity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.capacities[classID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *ClassRepository) GetCapacityView(_ context.Context, classID uuid.UUID) (*model.CapacityView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.capacities[classID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := &model.CapacityView{ClassID: c.ClassID, Capacity: c.Capacity, CurrentEnrollment: c.CurrentEnrollment}
	for _, e := range r.enrollments {
		if e.ClassID == classID && e.Status == model.EnrollmentStatusWaitlisted {
			v.Waitlisted++
		}
	}
	return v, nil
}

func (r *ClassRepository) GetEnrollment(_ context.Context, id uuid.UUID) (*model.Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.enrollments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *ClassRepository) ListByClass(_ context.Context, classID uuid.UUID) ([]model.Enrollment, error) {
	return r.filter(func(e model.Enrollment) bool { return e.ClassID == classID }), nil
}

func (r *ClassRepository) ListByStudent(_ context.Context, studentID uuid.UUID) ([]model.Enrollment, error) {
	return r.filter(func(e model.Enrollment) bool { return e.StudentID == studentID }), nil
}

// SaveClass applies the capacity row and changed enrollments atomically.
func (r *ClassRepository) SaveClass(_ context.Context, c *model.ClassCapacity, changed []model.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range changed {
		if e.Status == model.EnrollmentStatusDropped {
			continue
		}
		for id, other := range r.enrollments {
			if id != e.ID && other.StudentID == e.StudentID && other.ClassID == e.ClassID &&
				other.Status != model.EnrollmentStatusDropped {
				return repository.ErrDuplicate
			}
		}
	}

	now := time.Now().UTC()
	c.UpdatedAt = now
	r.capacities[c.ClassID] = *c
	for _, e := range changed {
		e.UpdatedAt = now
		if e.Status != model.EnrollmentStatusWaitlisted {
			e.Position = 0
		}
		r.enrollments[e.ID] = e
	}
	return nil
}

// filter returns matches ordered by join time, then ID.
func (r *ClassRepository) filter(keep func(model.Enrollment) bool) []model.Enrollment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Enrollment
	for _, e := range r.enrollments {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
